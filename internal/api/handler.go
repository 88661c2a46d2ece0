package api

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/core"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/HtWu123/databootcamp-final-project/internal/infrastructure/export"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

//go:embed static
var staticFiles embed.FS

// Dashboard is the part of core.DashboardService the handlers need.
type Dashboard interface {
	Categories() []string
	ListContents(category string) ([]core.ContentOption, error)
	Render(ctx context.Context, category, content string) (*model.FigureSpec, error)
}

// RequestObserver counts served requests per route.
type RequestObserver interface {
	ObserveRequest(route string, code int)
}

type Handler struct {
	service  Dashboard
	observer RequestObserver
	logger   *slog.Logger
}

func NewHandler(service Dashboard, observer RequestObserver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:  service,
		observer: observer,
		logger:   logger.With(slog.String("module", "api")),
	}
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type ContentsResponse struct {
	Category string               `json:"category"`
	Options  []core.ContentOption `json:"options"`
}

type FigureResponse struct {
	Category string            `json:"category"`
	Content  string            `json:"content"`
	Figure   *model.FigureSpec `json:"figure"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes registers every endpoint. metrics may be nil.
func (h *Handler) Routes(metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", h.Categories)
	mux.HandleFunc("GET /api/contents", h.Contents)
	mux.HandleFunc("GET /api/figure", h.Figure)
	mux.HandleFunc("GET /healthz", h.Health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	return h.withRequestLog(mux)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: h.service.Categories()})
}

func (h *Handler) Contents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	options, err := h.service.ListContents(category)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ContentsResponse{Category: category, Options: options})
}

// Figure renders the selection. Without a content parameter the figure is
// null, matching a dashboard whose second menu is still empty.
func (h *Handler) Figure(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	content := q.Get("content")
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	format := negotiateFormat(r)
	if format == "" {
		writeError(w, http.StatusNotAcceptable, "unsupported format")
		return
	}

	fig, err := h.service.Render(r.Context(), category, content)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	switch format {
	case formatCSV, formatXLSX:
		if fig == nil {
			writeError(w, http.StatusBadRequest, "content is required for exports")
			return
		}
		h.writeExport(w, format, fig)
	default:
		writeJSON(w, http.StatusOK, FigureResponse{Category: category, Content: content, Figure: fig})
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func negotiateFormat(r *http.Request) string {
	wanted := strings.ToLower(r.URL.Query().Get("format"))
	if wanted == "" {
		accept := r.Header.Get("Accept")
		switch {
		case strings.Contains(accept, "text/csv"):
			wanted = formatCSV
		case strings.Contains(accept, xlsxContentType):
			wanted = formatXLSX
		default:
			wanted = formatJSON
		}
	}
	switch wanted {
	case formatJSON, formatCSV, formatXLSX:
		return wanted
	}
	return ""
}

func (h *Handler) writeExport(w http.ResponseWriter, format string, fig *model.FigureSpec) {
	var buf bytes.Buffer
	var err error
	contentType := "text/csv"
	if format == formatXLSX {
		contentType = xlsxContentType
		err = export.WriteXLSX(&buf, fig)
	} else {
		err = export.WriteCSV(&buf, fig)
	}
	if err != nil {
		h.logger.Error("export failed", slog.String("format", format), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", slug(fig.Title), time.Now().UTC().Format("20060102T150405Z"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownCategory), errors.Is(err, model.ErrUnknownSelection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "figure"
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
