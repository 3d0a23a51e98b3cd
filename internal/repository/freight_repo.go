package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
)

var ErrNotFound = errors.New("document not found")

type FreightRepository struct {
	coll *mongo.Collection
}

func NewFreightRepository(db *mongo.Database) *FreightRepository {
	return &FreightRepository{coll: db.Collection("freights")}
}

func (r *FreightRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	return err
}

// Create inserts the freight and stamps createdAt. Documents are immutable
// after this point; there is no update path.
func (r *FreightRepository) Create(ctx context.Context, f *models.Freight) (primitive.ObjectID, error) {
	f.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, f)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	f.ID = id
	return id, nil
}

// List returns up to limit freights, newest first, skipping skip documents.
func (r *FreightRepository) List(ctx context.Context, limit, skip int64) ([]models.Freight, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Freight{}
	for cur.Next(ctx) {
		var f models.Freight
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, cur.Err()
}

func (r *FreightRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Freight, error) {
	var f models.Freight
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ExistsByPoster reports whether the given email has posted any freight.
func (r *FreightRepository) ExistsByPoster(ctx context.Context, email string) (bool, error) {
	opts := options.Count().SetLimit(1)
	n, err := r.coll.CountDocuments(ctx, bson.M{"fromUser.email": email}, opts)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
