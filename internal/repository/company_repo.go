package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
)

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection("companies")}
}

// EnsureIndexes backs the one-company-per-administrator invariant with a
// unique index, so concurrent upserts from the same owner cannot race into
// two documents.
func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "administrator", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_administrator"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	return err
}

// Upsert replaces the owner's company document in full, creating it when
// absent. The conditional write is a single atomic operation keyed on the
// administrator, so two concurrent upserts from the same owner can never
// leave two documents behind.
func (r *CompanyRepository) Upsert(ctx context.Context, c *models.Company) (*models.Company, error) {
	filter := bson.M{"administrator": c.Administrator}
	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.Company
	err := r.coll.FindOneAndReplace(ctx, filter, c, opts).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByAdministrator returns the owner's company, or (nil, nil) when the
// owner has not registered one. Absence is not an error.
func (r *CompanyRepository) GetByAdministrator(ctx context.Context, administrator string) (*models.Company, error) {
	var c models.Company
	err := r.coll.FindOne(ctx, bson.M{"administrator": administrator}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
