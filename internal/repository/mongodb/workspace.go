package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkspaceRepository handles workspace and membership storage
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

type workspaceDoc struct {
	ID        string         `bson:"_id"`
	Name      string         `bson:"name"`
	Settings  map[string]any `bson:"settings,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type memberDoc struct {
	WorkspaceID string    `bson:"workspace_id"`
	UserID      string    `bson:"user_id"`
	Role        string    `bson:"role"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d workspaceDoc) toDomain() (*domain.Workspace, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.ID, err)
	}
	return &domain.Workspace{
		ID:        id,
		Name:      d.Name,
		Settings:  d.Settings,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (d memberDoc) toDomain() (*domain.WorkspaceMember, error) {
	workspaceID, err := uuid.Parse(d.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.WorkspaceID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.UserID, err)
	}
	return &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        d.Role,
		CreatedAt:   d.CreatedAt,
	}, nil
}

// Create inserts a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	doc := workspaceDoc{
		ID:        workspace.ID.String(),
		Name:      workspace.Name,
		Settings:  workspace.Settings,
		CreatedAt: workspace.CreatedAt,
		UpdatedAt: workspace.UpdatedAt,
	}

	if _, err := r.db.Collection(collWorkspaces).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by ID. Returns (nil, nil) when not found.
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	var doc workspaceDoc
	err := r.db.Collection(collWorkspaces).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return doc.toDomain()
}

// ListByUserID retrieves all workspaces the user is a member of
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	cursor, err := r.db.Collection(collMembers).Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc memberDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode membership: %w", err)
		}
		ids = append(ids, doc.WorkspaceID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	wsCursor, err := r.db.Collection(collWorkspaces).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer wsCursor.Close(ctx)

	var workspaces []domain.Workspace
	for wsCursor.Next(ctx) {
		var doc workspaceDoc
		if err := wsCursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode workspace: %w", err)
		}
		ws, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}

	return workspaces, wsCursor.Err()
}

// Update updates a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Settings != nil {
		set["settings"] = update.Settings
	}

	_, err := r.db.Collection(collWorkspaces).UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

// Delete removes a workspace and its memberships
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Collection(collWorkspaces).DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	if _, err := r.db.Collection(collMembers).DeleteMany(ctx, bson.M{"workspace_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete workspace members: %w", err)
	}
	return nil
}

// AddMember upserts a workspace membership
func (r *WorkspaceRepository) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	filter := bson.M{
		"workspace_id": member.WorkspaceID.String(),
		"user_id":      member.UserID.String(),
	}
	update := bson.M{
		"$set":         bson.M{"role": member.Role},
		"$setOnInsert": bson.M{"created_at": member.CreatedAt},
	}

	_, err := r.db.Collection(collMembers).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// GetMember retrieves a membership. Returns (nil, nil) when not found.
func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"user_id":      userID.String(),
	}

	var doc memberDoc
	err := r.db.Collection(collMembers).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return doc.toDomain()
}

// RemoveMember removes a membership
func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"user_id":      userID.String(),
	}

	if _, err := r.db.Collection(collMembers).DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the workspace
func (r *WorkspaceRepository) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"user_id":      userID.String(),
	}

	count, err := r.db.Collection(collMembers).CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}
