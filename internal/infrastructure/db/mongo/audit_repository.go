package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/account-service/internal/core/domain"
)

const collectionEvents = "account_events"

// AuditRepository persists account events to the account_events audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionEvents)}
}

type eventDoc struct {
	ID          string    `bson:"_id"`
	Type        string    `bson:"type"`
	AccountID   int       `bson:"account_id"`
	Role        string    `bson:"role"`
	Email       string    `bson:"email"`
	At          time.Time `bson:"at"`
	ProcessedAt time.Time `bson:"processed_at"`
}

// Deliver inserts the event. Replays of an already stored event are ignored.
func (r *AuditRepository) Deliver(ctx context.Context, event domain.AccountEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := eventDoc{
		ID:          event.ID,
		Type:        string(event.Type),
		AccountID:   event.AccountID,
		Role:        string(event.Role),
		Email:       event.Email,
		At:          event.At.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert account event: %w", err)
	}
	return nil
}
