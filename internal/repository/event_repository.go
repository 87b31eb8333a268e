package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"devconnect/internal/model"
)

type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection("account_events")}
}

func (r *EventRepository) Create(ctx context.Context, event *model.AccountEvent) error {
	if _, err := r.col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("create account event failed: %w", err)
	}
	return nil
}
