package mongodb

import (
	"context"
	"fmt"

	"github.com/workpulse/workpulse/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	collUsers       = "users"
	collWorkspaces  = "workspaces"
	collMembers     = "workspace_members"
	collShifts      = "shifts"
	collAttendance  = "attendance"
	collPermissions = "permissions"
)

// DB wraps the MongoDB client and database handle
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDB connects to MongoDB and verifies the connection
func NewDB(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI())
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Close disconnects from MongoDB
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Ping verifies database connectivity
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Collection returns a handle to a named collection
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// attendance index on (user_id, workspace_id, date) is what makes a
// concurrent duplicate clock-in lose at the storage layer.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
		collMembers: {
			{
				Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_workspace_user"),
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}},
			},
		},
		collShifts: {
			{
				Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "is_default", Value: 1}},
			},
		},
		collAttendance: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "workspace_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_user_workspace_date"),
			},
			{
				Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "date", Value: 1}},
			},
		},
	}

	for coll, models := range indexes {
		if _, err := d.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	return nil
}
