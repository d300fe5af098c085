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

// ShiftRepository handles shift definition storage
type ShiftRepository struct {
	db *DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

type overtimeDoc struct {
	Enabled    bool    `bson:"enabled"`
	MaxHours   float64 `bson:"max_hours"`
	Multiplier float64 `bson:"multiplier"`
}

type shiftDoc struct {
	ID           string      `bson:"_id"`
	WorkspaceID  string      `bson:"workspace_id"`
	Name         string      `bson:"name"`
	StartTime    string      `bson:"start_time"`
	EndTime      string      `bson:"end_time"`
	TotalHours   float64     `bson:"total_hours"`
	BreakMinutes int         `bson:"break_minutes"`
	GraceMinutes int         `bson:"grace_minutes"`
	Overtime     overtimeDoc `bson:"overtime"`
	IsActive     bool        `bson:"is_active"`
	IsDefault    bool        `bson:"is_default"`
	CreatedAt    time.Time   `bson:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at"`
}

func fromShift(s *domain.Shift) shiftDoc {
	return shiftDoc{
		ID:           s.ID.String(),
		WorkspaceID:  s.WorkspaceID.String(),
		Name:         s.Name,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		TotalHours:   s.TotalHours,
		BreakMinutes: s.BreakMinutes,
		GraceMinutes: s.GraceMinutes,
		Overtime: overtimeDoc{
			Enabled:    s.Overtime.Enabled,
			MaxHours:   s.Overtime.MaxHours,
			Multiplier: s.Overtime.Multiplier,
		},
		IsActive:  s.IsActive,
		IsDefault: s.IsDefault,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (d shiftDoc) toDomain() (*domain.Shift, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid shift id %q: %w", d.ID, err)
	}
	workspaceID, err := uuid.Parse(d.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.WorkspaceID, err)
	}
	return &domain.Shift{
		ID:           id,
		WorkspaceID:  workspaceID,
		Name:         d.Name,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		TotalHours:   d.TotalHours,
		BreakMinutes: d.BreakMinutes,
		GraceMinutes: d.GraceMinutes,
		Overtime: domain.OvertimePolicy{
			Enabled:    d.Overtime.Enabled,
			MaxHours:   d.Overtime.MaxHours,
			Multiplier: d.Overtime.Multiplier,
		},
		IsActive:  d.IsActive,
		IsDefault: d.IsDefault,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// Create inserts a new shift
func (r *ShiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	if _, err := r.db.Collection(collShifts).InsertOne(ctx, fromShift(shift)); err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

// GetByID retrieves a shift by ID. Returns (nil, nil) when not found.
func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shift, error) {
	var doc shiftDoc
	err := r.db.Collection(collShifts).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return doc.toDomain()
}

// GetDefault retrieves the workspace's active default shift.
// Returns (nil, nil) when none is configured.
func (r *ShiftRepository) GetDefault(ctx context.Context, workspaceID uuid.UUID) (*domain.Shift, error) {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"is_default":   true,
		"is_active":    true,
	}

	var doc shiftDoc
	err := r.db.Collection(collShifts).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default shift: %w", err)
	}
	return doc.toDomain()
}

// ListByWorkspace retrieves all shifts of a workspace
func (r *ShiftRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Shift, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.db.Collection(collShifts).Find(ctx, bson.M{"workspace_id": workspaceID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer cursor.Close(ctx)

	var shifts []domain.Shift
	for cursor.Next(ctx) {
		var doc shiftDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode shift: %w", err)
		}
		shift, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}

	return shifts, cursor.Err()
}

// Update applies a partial update to a shift
func (r *ShiftRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ShiftUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.StartTime != nil {
		set["start_time"] = *update.StartTime
	}
	if update.EndTime != nil {
		set["end_time"] = *update.EndTime
	}
	if update.TotalHours != nil {
		set["total_hours"] = *update.TotalHours
	}
	if update.BreakMinutes != nil {
		set["break_minutes"] = *update.BreakMinutes
	}
	if update.GraceMinutes != nil {
		set["grace_minutes"] = *update.GraceMinutes
	}
	if update.Overtime != nil {
		set["overtime"] = overtimeDoc{
			Enabled:    update.Overtime.Enabled,
			MaxHours:   update.Overtime.MaxHours,
			Multiplier: update.Overtime.Multiplier,
		}
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	if update.IsDefault != nil {
		set["is_default"] = *update.IsDefault
	}

	_, err := r.db.Collection(collShifts).UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	return nil
}

// Delete removes a shift
func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Collection(collShifts).DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

// ClearDefault unsets the default flag on all shifts of a workspace
func (r *ShiftRepository) ClearDefault(ctx context.Context, workspaceID uuid.UUID) error {
	filter := bson.M{"workspace_id": workspaceID.String(), "is_default": true}
	update := bson.M{"$set": bson.M{"is_default": false, "updated_at": time.Now().UTC()}}

	if _, err := r.db.Collection(collShifts).UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to clear default shift: %w", err)
	}
	return nil
}
