package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/githubixx/signage-go/internal/application/services"
	"github.com/githubixx/signage-go/internal/domain"
)

// Handler handles HTTP requests
type Handler struct {
	logger      *slog.Logger
	templateMap map[string]*template.Template
	board       *services.BoardService
	health      func(ctx context.Context) error
	// pageRefresh is how often the display page reloads itself.
	pageRefresh time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(logger *slog.Logger, board *services.BoardService) *Handler {
	return &Handler{
		logger:      logger,
		templateMap: make(map[string]*template.Template),
		board:       board,
		pageRefresh: time.Second,
	}
}

// SetTemplates sets the template map
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.templateMap = templates
}

// SetHealthCheck sets the check used by /healthz. Nil always reports healthy.
func (h *Handler) SetHealthCheck(check func(ctx context.Context) error) {
	h.health = check
}

// SetPageRefresh sets the reload period of the display page.
func (h *Handler) SetPageRefresh(d time.Duration) {
	if d >= time.Second {
		h.pageRefresh = d
	}
}

// Display renders the signage screen
func (h *Handler) Display(w http.ResponseWriter, r *http.Request) {
	schedule := h.board.ScheduleView()
	data := map[string]any{
		"Schedule":       schedule,
		"News":           h.board.NewsView(),
		"PageNumber":     schedule.Carousel.Index + 1,
		"RefreshSeconds": int(h.pageRefresh / time.Second),
	}
	h.renderTemplate(w, r, "display.html", data)
}

// NewsStatusPage renders every news item with its status and the totals.
func (h *Handler) NewsStatusPage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.board.NewsStatuses(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	stats, err := h.board.NewsStats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "news.html", map[string]any{
		"Rows":  rows,
		"Stats": stats,
	})
}

// ScheduleJSON returns the schedule panel state
func (h *Handler) ScheduleJSON(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.board.ScheduleView())
}

// CurrentNewsJSON returns the news panel state
func (h *Handler) CurrentNewsJSON(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.board.NewsView())
}

// NewsListJSON returns every news item with its status label
func (h *Handler) NewsListJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := h.board.NewsStatuses(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// NewsStatsJSON returns the news status counts
func (h *Handler) NewsStatsJSON(w http.ResponseWriter, r *http.Request) {
	stats, err := h.board.NewsStats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// CarouselNext advances the carousel named in the path
func (h *Handler) CarouselNext(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.board.Advance)
}

// CarouselPrev moves the carousel named in the path back
func (h *Handler) CarouselPrev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.board.Retreat)
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, move func(string) error) {
	name := r.PathValue("name")
	if err := move(name); err != nil {
		h.handleError(w, r, err)
		return
	}
	if name == services.CarouselNews {
		h.writeJSON(w, http.StatusOK, h.board.NewsView())
		return
	}
	h.writeJSON(w, http.StatusOK, h.board.ScheduleView())
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			status["status"] = "unavailable"
			h.writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, status)
}

// Helper methods

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	if data == nil {
		data = map[string]any{}
	}

	// Add common data
	if m, ok := data.(map[string]any); ok {
		m["Year"] = time.Now().Year()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, ok := h.templateMap[name]
	if !ok {
		h.logger.Error("template not found", slog.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", slog.Any("error", err), slog.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode error", slog.Any("error", err))
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.logger.Debug("not found", slog.Any("error", err), slog.String("path", r.URL.Path))
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		h.logger.Warn("bad request", slog.Any("error", err), slog.String("path", r.URL.Path))
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, domain.ErrConnection):
		h.logger.Error("handler error", slog.Any("error", err), slog.String("path", r.URL.Path))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("handler error", slog.Any("error", err), slog.String("path", r.URL.Path))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
