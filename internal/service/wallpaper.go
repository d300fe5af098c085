package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/workpulse/workpulse/internal/config"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Wallpaper is one image search result
type Wallpaper struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int64  `json:"width"`
	Height       int64  `json:"height"`
	Source       string `json:"source,omitempty"`
}

// WallpaperService proxies image searches to Google Programmable Search so
// API credentials never reach clients
type WallpaperService struct {
	search     *customsearch.Service
	engineID   string
	maxResults int64
}

// NewWallpaperService creates a new wallpaper search service
func NewWallpaperService(ctx context.Context, cfg config.WallpaperConfig) (*WallpaperService, error) {
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return nil, errors.New("wallpaper search is not configured")
	}

	search, err := customsearch.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > 10 {
		maxResults = 10
	}

	return &WallpaperService{
		search:     search,
		engineID:   cfg.EngineID,
		maxResults: maxResults,
	}, nil
}

// Search runs an image search for the query
func (s *WallpaperService) Search(ctx context.Context, query string) ([]Wallpaper, error) {
	resp, err := s.search.Cse.List().
		Context(ctx).
		Cx(s.engineID).
		Q(query).
		SearchType("image").
		Num(s.maxResults).
		Do()
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}

	wallpapers := make([]Wallpaper, 0, len(resp.Items))
	for _, item := range resp.Items {
		w := Wallpaper{
			Title:  item.Title,
			URL:    item.Link,
			Source: item.DisplayLink,
		}
		if item.Image != nil {
			w.ThumbnailURL = item.Image.ThumbnailLink
			w.Width = item.Image.Width
			w.Height = item.Image.Height
		}
		wallpapers = append(wallpapers, w)
	}

	return wallpapers, nil
}
