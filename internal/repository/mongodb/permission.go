package mongodb

import (
	"context"
	"fmt"

	"github.com/workpulse/workpulse/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PermissionRepository handles permission catalog reads. The catalog is
// seeded externally; this repository never writes.
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

type permissionDoc struct {
	Key         string   `bson:"_id"`
	Name        string   `bson:"name"`
	Description string   `bson:"description,omitempty"`
	Roles       []string `bson:"roles"`
}

func (r *PermissionRepository) list(ctx context.Context, filter bson.M) ([]domain.Permission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(collPermissions).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []domain.Permission
	for cursor.Next(ctx) {
		var doc permissionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode permission: %w", err)
		}
		permissions = append(permissions, domain.Permission{
			Key:         doc.Key,
			Name:        doc.Name,
			Description: doc.Description,
			Roles:       doc.Roles,
		})
	}

	return permissions, cursor.Err()
}

// List retrieves the full permission catalog
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	return r.list(ctx, bson.M{})
}

// ListForRole retrieves the permissions granted to a role
func (r *PermissionRepository) ListForRole(ctx context.Context, role string) ([]domain.Permission, error) {
	return r.list(ctx, bson.M{"roles": role})
}
