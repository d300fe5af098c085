package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/domain"
)

const summaryCachePrefix = "summary:"

// SummaryCache caches workspace daily summaries for a short TTL. Summaries
// are cheap to recompute, so cache errors are treated as misses by callers.
type SummaryCache struct {
	client *Client
	ttl    time.Duration
}

// NewSummaryCache creates a new summary cache
func NewSummaryCache(client *Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(workspaceID uuid.UUID, date string) string {
	return fmt.Sprintf("%s%s:%s", summaryCachePrefix, workspaceID.String(), date)
}

// Get retrieves a cached summary. Returns (nil, nil) on a miss.
func (c *SummaryCache) Get(ctx context.Context, workspaceID uuid.UUID, date string) (*domain.WorkspaceDailySummary, error) {
	data, err := c.client.rdb.Get(ctx, summaryKey(workspaceID, date)).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var summary domain.WorkspaceDailySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}

// Set caches a summary
func (c *SummaryCache) Set(ctx context.Context, summary *domain.WorkspaceDailySummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	return c.client.rdb.Set(ctx, summaryKey(summary.WorkspaceID, summary.Date), data, c.ttl).Err()
}

// Invalidate drops the cached summary for a workspace and day
func (c *SummaryCache) Invalidate(ctx context.Context, workspaceID uuid.UUID, date string) error {
	return c.client.rdb.Del(ctx, summaryKey(workspaceID, date)).Err()
}
