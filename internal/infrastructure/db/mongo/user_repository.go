package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository stores users as auditable, soft-deletable records.
type UserRepository struct {
	*AuditRepository[domain.User]
	col *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database, logger zerolog.Logger) *UserRepository {
	col := db.Collection(collectionUsers)
	base := NewRepository[domain.User](Instrument(col, collectionUsers), collectionUsers, logger)
	return &UserRepository{
		AuditRepository: NewAuditRepository(NewSoftDeleteRepository(base)),
		col:             col,
	}
}

// EnsureIndexes creates necessary indexes on the users collection. Email is
// unique across live and soft-deleted users so a restore can never collide.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: ports.UserFieldEmail, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: ports.UserFieldRole, Value: 1}, {Key: domain.FieldDeletedAt, Value: 1}}},
		{Keys: bson.D{{Key: domain.FieldCreatedAt, Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure %s indexes: %w", collectionUsers, err)
	}
	return nil
}
