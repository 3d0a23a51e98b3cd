package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
)

// StatsRepository appends analytics events. Writes here are best-effort:
// callers run them off the response path and swallow failures.
type StatsRepository struct {
	coll *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{coll: db.Collection("stats")}
}

func (r *StatsRepository) Insert(ctx context.Context, s *models.Stat) error {
	_, err := r.coll.InsertOne(ctx, s)
	return err
}
