package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lunisolar-api/internal/almanac"
	"github.com/zapponejosh/lunisolar-api/internal/calendar"
	"github.com/zapponejosh/lunisolar-api/internal/config"
	"github.com/zapponejosh/lunisolar-api/internal/database"
)

const (
	defaultChartLimit = 50
	maxChartLimit     = 200
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db      *database.DB
	almanac *almanac.Service
	cfg     *config.Config
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, svc *almanac.Service, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:      db,
		almanac: svc,
		cfg:     cfg,
		logger:  logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	stats, err := h.db.AlmanacStats(ctx, almanac.SchemaVersion)
	if err != nil {
		h.logger.Warn("almanac stats failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]any{
		"status":  "healthy",
		"almanac": stats,
	})
}

// GetSolarDay handles GET /api/v1/solar/{date}
func (h *Handlers) GetSolarDay(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := parseDate(dateStr)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	lunar, err := date.Lunar()
	if err != nil {
		writeErr(w, r, err, "Failed to convert date")
		return
	}

	view, err := newDayView(date, lunar)
	if err != nil {
		writeErr(w, r, err, "Failed to convert date")
		return
	}
	WriteSuccess(w, view)
}

// GetLunarDay handles GET /api/v1/lunar/{year}/{month}/{day}?leap=true
func (h *Handlers) GetLunarDay(w http.ResponseWriter, r *http.Request) {
	var parts [3]int
	for i, name := range []string{"year", "month", "day"} {
		v, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid %s: %s", name, chi.URLParam(r, name)))
			return
		}
		parts[i] = v
	}

	leap, err := parseFlag(r.URL.Query().Get("leap"), false)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	lunar, err := calendar.NewLunarDate(parts[0], parts[1], parts[2], leap)
	if err != nil {
		writeErr(w, r, err, "Failed to convert date")
		return
	}

	solar, err := lunar.Solar()
	if err != nil {
		writeErr(w, r, err, "Failed to convert date")
		return
	}

	view, err := newDayView(solar, lunar)
	if err != nil {
		writeErr(w, r, err, "Failed to convert date")
		return
	}
	WriteSuccess(w, view)
}

// GetSolarTerms handles GET /api/v1/terms/{year}
func (h *Handlers) GetSolarTerms(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	terms, err := calendar.SolarTerms(year)
	if err != nil {
		writeErr(w, r, err, "Failed to compute solar terms")
		return
	}

	WriteSuccess(w, map[string]any{
		"year":  year,
		"terms": terms,
	})
}

// GetAlmanac handles GET /api/v1/almanac/{year}
func (h *Handlers) GetAlmanac(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	a, err := h.almanac.Year(r.Context(), year)
	if err != nil {
		writeErr(w, r, err, "Failed to build almanac")
		return
	}
	WriteSuccess(w, a)
}

// GetAlmanacICS handles GET /api/v1/almanac/{year}/terms.ics
func (h *Handlers) GetAlmanacICS(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if year < minICSYear {
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("calendar export starts at %d", minICSYear), CodeOutOfRange)
		return
	}

	a, err := h.almanac.Year(r.Context(), year)
	if err != nil {
		writeErr(w, r, err, "Failed to build almanac")
		return
	}

	body, err := encodeTermsICS(a)
	if err != nil {
		writeErr(w, r, err, "Failed to encode calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="terms-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// GetGanZhi handles GET /api/v1/ganzhi?datetime=...&early_late_zi=true
func (h *Handlers) GetGanZhi(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	at, err := parseDateTime(q.Get("datetime"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	earlyLateZi, err := parseFlag(q.Get("early_late_zi"), true)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	p, err := calendar.GanZhi(at.Year, at.Month, at.Day, at.Hour, at.Minute, at.Second, earlyLateZi)
	if err != nil {
		writeErr(w, r, err, "Failed to compute pillars")
		return
	}
	WriteSuccess(w, newPillarsView(at, p))
}

// GetFate handles GET /api/v1/fate?datetime=...&sex=male
func (h *Handlers) GetFate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	at, err := parseDateTime(q.Get("datetime"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	male, err := parseSex(q.Get("sex"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	c, err := calendar.Fate(male, at.Year, at.Month, at.Day, at.Hour, at.Minute, at.Second)
	if err != nil {
		writeErr(w, r, err, "Failed to compute chart")
		return
	}
	WriteSuccess(w, newChartView(at, c))
}

// CreateChartRequest is the body of POST /api/v1/charts.
type CreateChartRequest struct {
	Datetime string  `json:"datetime"`
	Sex      string  `json:"sex"`
	Label    *string `json:"label,omitempty"`
}

// CreateChart handles POST /api/v1/charts
func (h *Handlers) CreateChart(w http.ResponseWriter, r *http.Request) {
	var req CreateChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	at, err := parseDateTime(req.Datetime)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	male, err := parseSex(req.Sex)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	c, err := calendar.Fate(male, at.Year, at.Month, at.Day, at.Hour, at.Minute, at.Second)
	if err != nil {
		writeErr(w, r, err, "Failed to compute chart")
		return
	}

	saved := &database.SavedChart{
		Label: req.Label,
		Male:  male,
		Birth: at,
		BaZi:  c.BaZi(),
		Chart: c,
	}
	if err := h.db.CreateChart(r.Context(), saved); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteError(w, http.StatusConflict, "Chart already exists", CodeConflict)
			return
		}
		writeErr(w, r, err, "Failed to save chart")
		return
	}

	h.logger.Info("chart saved", slog.String("id", saved.ID), slog.String("bazi", saved.BaZi))
	WriteCreated(w, newSavedChartView(saved))
}

// ListCharts handles GET /api/v1/charts?limit=&offset=
func (h *Handlers) ListCharts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseBounded(q.Get("limit"), defaultChartLimit, 1, maxChartLimit)
	if err != nil {
		WriteBadRequest(w, "limit: "+err.Error())
		return
	}
	offset, err := parseBounded(q.Get("offset"), 0, 0, -1)
	if err != nil {
		WriteBadRequest(w, "offset: "+err.Error())
		return
	}

	charts, err := h.db.ListCharts(r.Context(), limit, offset)
	if err != nil {
		writeErr(w, r, err, "Failed to list charts")
		return
	}

	views := make([]SavedChartView, 0, len(charts))
	for i := range charts {
		views = append(views, newSavedChartView(&charts[i]))
	}
	WriteSuccess(w, map[string]any{
		"charts": views,
		"limit":  limit,
		"offset": offset,
	})
}

// GetChart handles GET /api/v1/charts/{id}
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetChart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err, "Chart not found")
		return
	}
	WriteSuccess(w, newSavedChartView(c))
}

// DeleteChart handles DELETE /api/v1/charts/{id}
func (h *Handlers) DeleteChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteChart(r.Context(), id); err != nil {
		writeErr(w, r, err, "Chart not found")
		return
	}
	WriteSuccess(w, map[string]string{"deleted": id})
}
