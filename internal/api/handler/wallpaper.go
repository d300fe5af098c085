package handler

import (
	"net/http"
	"strings"

	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/service"
)

// WallpaperHandler handles wallpaper search endpoints
type WallpaperHandler struct {
	wallpaperService *service.WallpaperService
}

// NewWallpaperHandler creates a new wallpaper handler. wallpaperService may be
// nil when search is not configured.
func NewWallpaperHandler(wallpaperService *service.WallpaperService) *WallpaperHandler {
	return &WallpaperHandler{wallpaperService: wallpaperService}
}

// Search proxies an image search for workspace wallpapers
func (h *WallpaperHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.wallpaperService == nil {
		response.Error(w, http.StatusServiceUnavailable, "wallpaper search is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		response.BadRequest(w, "missing query parameter")
		return
	}

	wallpapers, err := h.wallpaperService.Search(r.Context(), query)
	if err != nil {
		response.Error(w, http.StatusBadGateway, "image search failed")
		return
	}

	response.OK(w, wallpapers)
}
