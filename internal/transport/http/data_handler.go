// Package http contains the chi handlers of the report server API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "visacli/internal/errors"
	"visacli/internal/middleware"
	"visacli/internal/visa"
)

// DatasetProvider exposes the currently loaded dataset to the handlers.
type DatasetProvider interface {
	Dataset() *visa.Dataset
}

// DataHandler serves the processed dataset tables.
type DataHandler struct {
	datasets DatasetProvider
	logger   *slog.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(datasets DatasetProvider, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		datasets: datasets,
		logger:   logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the dataset routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/records", h.GetRecords)
	r.Get("/countries", h.GetCountries)
	r.Get("/continents", h.GetContinents)
	r.Get("/stats", h.GetStats)

	return r
}

func (h *DataHandler) dataset(w http.ResponseWriter, r *http.Request) (*visa.Dataset, bool) {
	ds := h.datasets.Dataset()
	if ds == nil {
		h.logger.WarnContext(r.Context(), "dataset requested before any workbook was loaded",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("path", r.URL.Path))
		apierrors.WriteError(w, apierrors.ErrDatasetNotFound)
		return nil, false
	}
	return ds, true
}

// GetRecords handles GET /api/records
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ds.Records,
		"count":  len(ds.Records),
	})
}

// GetCountries handles GET /api/countries. Aggregates arrive sorted by
// weighted mean rejection rate ascending and are served as-is.
func (h *DataHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ds.Countries,
		"count":  len(ds.Countries),
	})
}

// GetContinents handles GET /api/continents
func (h *DataHandler) GetContinents(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ds.Continents,
		"count":  len(ds.Continents),
	})
}

// GetStats handles GET /api/stats, exposing the data-quality policy
// counts of the current run.
func (h *DataHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ds.Stats,
	})
}
