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

// AttendanceRepository handles attendance record storage
type AttendanceRepository struct {
	db *DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

type breakDoc struct {
	Start time.Time  `bson:"start"`
	End   *time.Time `bson:"end,omitempty"`
}

type attendanceDoc struct {
	ID             string     `bson:"_id"`
	UserID         string     `bson:"user_id"`
	WorkspaceID    string     `bson:"workspace_id"`
	Date           string     `bson:"date"`
	ShiftID        string     `bson:"shift_id"`
	Status         string     `bson:"status"`
	PreBreakStatus string     `bson:"pre_break_status,omitempty"`
	ClockIn        *time.Time `bson:"clock_in,omitempty"`
	ClockOut       *time.Time `bson:"clock_out,omitempty"`
	Breaks         []breakDoc `bson:"breaks"`
	WorkSeconds    int64      `bson:"work_seconds"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
}

func toBreakDocs(breaks []domain.BreakPeriod) []breakDoc {
	docs := make([]breakDoc, len(breaks))
	for i, b := range breaks {
		docs[i] = breakDoc{Start: b.Start, End: b.End}
	}
	return docs
}

func fromAttendanceRecord(r *domain.AttendanceRecord) attendanceDoc {
	return attendanceDoc{
		ID:             r.ID.String(),
		UserID:         r.UserID.String(),
		WorkspaceID:    r.WorkspaceID.String(),
		Date:           r.Date,
		ShiftID:        r.ShiftID.String(),
		Status:         string(r.Status),
		PreBreakStatus: string(r.PreBreakStatus),
		ClockIn:        r.ClockIn,
		ClockOut:       r.ClockOut,
		Breaks:         toBreakDocs(r.Breaks),
		WorkSeconds:    r.WorkSeconds,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (d attendanceDoc) toDomain() (*domain.AttendanceRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.UserID, err)
	}
	workspaceID, err := uuid.Parse(d.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.WorkspaceID, err)
	}
	shiftID, err := uuid.Parse(d.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("invalid shift id %q: %w", d.ShiftID, err)
	}

	breaks := make([]domain.BreakPeriod, len(d.Breaks))
	for i, b := range d.Breaks {
		breaks[i] = domain.BreakPeriod{Start: b.Start, End: b.End}
	}

	return &domain.AttendanceRecord{
		ID:             id,
		UserID:         userID,
		WorkspaceID:    workspaceID,
		Date:           d.Date,
		ShiftID:        shiftID,
		Status:         domain.AttendanceStatus(d.Status),
		PreBreakStatus: domain.AttendanceStatus(d.PreBreakStatus),
		ClockIn:        d.ClockIn,
		ClockOut:       d.ClockOut,
		Breaks:         breaks,
		WorkSeconds:    d.WorkSeconds,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

// Create inserts a new daily record. The unique index on
// (user_id, workspace_id, date) turns a duplicate insert, including the
// concurrent-clock-in race, into ErrAlreadyClockedIn.
func (r *AttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	_, err := r.db.Collection(collAttendance).InsertOne(ctx, fromAttendanceRecord(record))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyClockedIn
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

// GetForDay retrieves the record for one user, workspace and calendar day.
// Returns (nil, nil) when none exists.
func (r *AttendanceRepository) GetForDay(ctx context.Context, userID, workspaceID uuid.UUID, date string) (*domain.AttendanceRecord, error) {
	filter := bson.M{
		"user_id":      userID.String(),
		"workspace_id": workspaceID.String(),
		"date":         date,
	}

	var doc attendanceDoc
	err := r.db.Collection(collAttendance).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return doc.toDomain()
}

// ApplyTransition updates the record only if its status still equals
// expected. A no-match means another mutation won the race and surfaces as
// ErrStoreConflict.
func (r *AttendanceRepository) ApplyTransition(ctx context.Context, id uuid.UUID, expected domain.AttendanceStatus, patch domain.TransitionPatch) (*domain.AttendanceRecord, error) {
	set := bson.M{
		"status":     string(patch.Status),
		"updated_at": time.Now().UTC(),
	}
	if patch.Breaks != nil {
		set["breaks"] = toBreakDocs(patch.Breaks)
	}
	if patch.ClockOut != nil {
		set["clock_out"] = patch.ClockOut
	}
	if patch.WorkSeconds != nil {
		set["work_seconds"] = *patch.WorkSeconds
	}

	update := bson.M{"$set": set}
	if patch.PreBreakStatus != "" {
		set["pre_break_status"] = string(patch.PreBreakStatus)
	} else {
		update["$unset"] = bson.M{"pre_break_status": ""}
	}

	filter := bson.M{"_id": id.String(), "status": string(expected)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc attendanceDoc
	err := r.db.Collection(collAttendance).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStoreConflict
		}
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	return doc.toDomain()
}

// ListForWorkspaceDay retrieves all records of a workspace for one day.
func (r *AttendanceRepository) ListForWorkspaceDay(ctx context.Context, workspaceID uuid.UUID, date string) ([]domain.AttendanceRecord, error) {
	filter := bson.M{"workspace_id": workspaceID.String(), "date": date}

	cursor, err := r.db.Collection(collAttendance).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.AttendanceRecord
	for cursor.Next(ctx) {
		var doc attendanceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode attendance record: %w", err)
		}
		record, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}
