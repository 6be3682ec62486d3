package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"flixviz/internal/charts"
	"flixviz/internal/config"
	"flixviz/internal/models"
	"flixviz/internal/reports"
	"flixviz/internal/state"
	"flixviz/internal/storage"
)

// maxEventBytes bounds the body of a chart event
const maxEventBytes = 4 << 10

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// eventRequest is the body of a chart event
type eventRequest struct {
	Control string `json:"control"`
	Value   string `json:"value"`
}

// optionsResponse lists the choices of a chart's controls
type optionsResponse struct {
	Kind       models.ChartKind    `json:"kind"`
	Config     models.ViewConfig   `json:"config"`
	Genres     []string            `json:"genres"`
	Years      []int               `json:"years"`
	Modes      []models.MetricMode `json:"modes"`
	SortOrders []models.SortOrder  `json:"sort_orders"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// chartKind resolves the {kind} path value, answering 404 when unknown
func (s *Server) chartKind(w http.ResponseWriter, r *http.Request) (models.ChartKind, bool) {
	kind, err := models.ParseChartKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_chart", err.Error())
		return "", false
	}
	return kind, true
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var records int
	s.withDashboard(func(d *state.Dashboard) { records = d.Records() })

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"records":   records,
	})
}

// HandleRoot serves the interactive dashboard page
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	var views []state.View
	s.withDashboard(func(d *state.Dashboard) { views = d.Views() })

	var buf bytes.Buffer
	if err := s.Charts.Page(views, &buf); err != nil {
		s.log.Error("Failed to render dashboard page", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleListCharts returns the current view of every chart
func (s *Server) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	var views []state.View
	s.withDashboard(func(d *state.Dashboard) { views = d.Views() })

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"charts": views,
		"count":  len(views),
	})
}

// HandleGetChart returns the current view of one chart
func (s *Server) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.chartKind(w, r)
	if !ok {
		return
	}

	var view state.View
	s.withDashboard(func(d *state.Dashboard) {
		cs, _ := d.State(kind)
		view = cs.View()
	})
	writeJSON(w, http.StatusOK, view)
}

// HandleChartOptions returns the dropdown choices of one chart
func (s *Server) HandleChartOptions(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.chartKind(w, r)
	if !ok {
		return
	}

	resp := optionsResponse{
		Kind:       kind,
		Modes:      []models.MetricMode{models.ModeCount, models.ModePercent},
		SortOrders: []models.SortOrder{models.SortAsc, models.SortDesc},
	}
	s.withDashboard(func(d *state.Dashboard) {
		cs, _ := d.State(kind)
		resp.Config = cs.Config()
		resp.Genres = cs.Genres()
		resp.Years = cs.Years()
	})
	writeJSON(w, http.StatusOK, resp)
}

// HandleChartEvent applies one control change and returns the new view.
// A rejected change leaves the chart untouched.
func (s *Server) HandleChartEvent(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.chartKind(w, r)
	if !ok {
		return
	}

	var req eventRequest
	body := http.MaxBytesReader(w, r.Body, maxEventBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "event body exceeds 4 KiB")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with control and value")
		return
	}

	event, err := state.ParseEvent(req.Control, req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_configuration", err.Error())
		return
	}

	var view state.View
	s.withDashboard(func(d *state.Dashboard) {
		cs, _ := d.State(kind)
		if err = cs.Dispatch(event); err == nil {
			view = cs.View()
		}
	})
	if errors.Is(err, state.ErrInvalidConfiguration) {
		writeError(w, http.StatusBadRequest, "invalid_configuration", err.Error())
		return
	}
	if err != nil {
		s.log.Error("Failed to apply chart event", err, map[string]interface{}{"kind": string(kind), "control": req.Control})
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	s.log.Info("Chart event applied", map[string]interface{}{"kind": string(kind), "control": event.Name(), "value": req.Value})
	writeJSON(w, http.StatusOK, view)
}

// HandleChartPoint returns the hover details of one point
func (s *Server) HandleChartPoint(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.chartKind(w, r)
	if !ok {
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "key query parameter is required")
		return
	}

	var hover state.Hover
	var found bool
	s.withDashboard(func(d *state.Dashboard) {
		cs, _ := d.State(kind)
		hover, found = cs.Lookup(key)
	})
	if !found {
		writeError(w, http.StatusNotFound, "unknown_point", "no point with key "+key)
		return
	}
	writeJSON(w, http.StatusOK, hover)
}

// HandleChartImage renders one chart as PNG. Empty charts answer 204.
func (s *Server) HandleChartImage(w http.ResponseWriter, r *http.Request) {
	name, isPNG := strings.CutSuffix(r.PathValue("file"), ".png")
	kind, err := models.ParseChartKind(name)
	if !isPNG || err != nil {
		http.NotFound(w, r)
		return
	}

	var view state.View
	s.withDashboard(func(d *state.Dashboard) {
		cs, _ := d.State(kind)
		view = cs.View()
	})

	var buf bytes.Buffer
	err = s.Charts.RenderPNG(view, &buf)
	if errors.Is(err, charts.ErrEmptyView) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.log.Error("Failed to render chart image", err, map[string]interface{}{"kind": string(kind)})
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// HandlePublish renders the current dashboard and stores it
func (s *Server) HandlePublish(w http.ResponseWriter, r *http.Request) {
	if s.Publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "publishing_disabled", "no storage is configured")
		return
	}

	// Reject instead of queueing while a publish is running
	if !s.publishMutex.TryLock() {
		s.log.Warn("Publish already in progress, rejecting new request")
		writeError(w, http.StatusConflict, "conflict", "another publish is currently running")
		return
	}
	defer s.publishMutex.Unlock()

	in := reports.Input{DatasetPath: s.Config.DatasetPath, GeneratedAt: time.Now()}
	s.withDashboard(func(d *state.Dashboard) {
		in.Views = d.Views()
		in.Records = d.Records()
	})

	result, err := s.Publisher.Publish(r.Context(), in)
	if err != nil {
		s.log.Error("Publish failed", err)
		writeError(w, http.StatusInternalServerError, "publish_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleFileProxy serves published files from storage
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		http.NotFound(w, r)
		return
	}

	filePath := r.PathValue("path")
	if filePath == "" || strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		s.log.Warn("File not found in storage", map[string]interface{}{"path": filePath, "error": err.Error()})
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}
