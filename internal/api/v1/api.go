// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vmunix/subarr/internal/indexer"
	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/server"
)

// Server is the v1 API server.
type Server struct {
	deps   ServerDeps
	logger *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, logger *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, logger: logger.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Library
	mux.HandleFunc("GET /api/v1/series", s.listSeries)
	mux.HandleFunc("GET /api/v1/episodes/{id}/subtitles", s.getEpisodeSubtitles)
	mux.HandleFunc("GET /api/v1/profiles", s.listProfiles)

	// Scans
	mux.HandleFunc("POST /api/v1/episodes/{id}/scan", s.scanEpisode)
	mux.HandleFunc("POST /api/v1/series/{id}/scan", s.scanSeries)
	mux.HandleFunc("POST /api/v1/scan", s.requireScans(s.startScan))
	mux.HandleFunc("GET /api/v1/jobs", s.requireJobs(s.listJobs))
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.requireJobs(s.getJob))

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/episodes/{id}/events", s.requireEventLog(s.listEpisodeEvents))
	mux.HandleFunc("GET /api/v1/events/stream", s.requireBus(s.streamEvents))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", s.deps.Metrics)
	}
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryBool extracts an optional boolean from query string.
func queryBool(r *http.Request, name string, defaultVal bool) bool {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func (s *Server) listSeries(w http.ResponseWriter, r *http.Request) {
	filter := library.SeriesFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}

	items, total, err := s.deps.Library.ListSeries(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listSeriesResponse{
		Items:  make([]seriesResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, sr := range items {
		resp.Items[i] = seriesResponse{ID: sr.ID, Title: sr.Title, Path: sr.Path, ProfileID: sr.ProfileID}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getEpisodeSubtitles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	s.writeEpisodeSubtitles(w, http.StatusOK, id)
}

func (s *Server) writeEpisodeSubtitles(w http.ResponseWriter, code int, id int64) {
	ep, err := s.deps.Library.GetEpisode(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Episode not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	missing, err := library.ParseMissing(ep.MissingSubtitles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	subs, err := s.deps.Library.ListSubtitles(library.SubtitleFilter{EpisodeID: &id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := episodeSubtitlesResponse{
		EpisodeID: ep.ID,
		SeriesID:  ep.SeriesID,
		Season:    ep.Season,
		Episode:   ep.Episode,
		Title:     ep.Title,
		Missing:   missing,
		Subtitles: make([]subtitleResponse, len(subs)),
	}
	for i, sub := range subs {
		resp.Subtitles[i] = subtitleToResponse(sub)
	}
	writeJSON(w, code, resp)
}

func subtitleToResponse(sub *library.Subtitle) subtitleResponse {
	resp := subtitleResponse{
		ID:       sub.ID,
		Language: sub.Language,
		Forced:   sub.Forced,
		HI:       sub.HI,
		Size:     sub.Size,
	}
	switch loc := sub.Location.(type) {
	case library.EmbeddedTrack:
		resp.Source = "embedded"
		trackID := loc.TrackID
		resp.TrackID = &trackID
	case library.ExternalFile:
		resp.Source = "external"
		resp.Path = loc.Path
	default:
		resp.Source = "legacy"
	}
	return resp
}

func (s *Server) scanEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	useCache := queryBool(r, "cache", s.deps.UseCache)
	if err := s.deps.Indexer.ScanEpisode(r.Context(), id, useCache); err != nil {
		switch {
		case errors.Is(err, library.ErrNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Episode not found")
		case errors.Is(err, indexer.ErrFileUnavailable):
			writeError(w, http.StatusConflict, "FILE_UNAVAILABLE", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "SCAN_ERROR", err.Error())
		}
		return
	}
	s.writeEpisodeSubtitles(w, http.StatusOK, id)
}

func (s *Server) scanSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if _, err := s.deps.Library.GetSeries(id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	report, err := s.deps.Indexer.ScanSeries(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SCAN_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scanReportResponse{
		SeriesID:    id,
		Total:       report.Total,
		Scanned:     report.Scanned,
		Unavailable: report.Unavailable,
		Failed:      report.Failed,
	})
}

func (s *Server) startScan(w http.ResponseWriter, r *http.Request) {
	jobID, err := s.deps.Scans.StartFullScan()
	if err != nil {
		if errors.Is(err, server.ErrScanRunning) {
			writeError(w, http.StatusConflict, "SCAN_RUNNING", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "SCAN_ERROR", err.Error())
		return
	}
	s.logger.Info("full scan requested", "job_id", jobID)
	writeJSON(w, http.StatusAccepted, scanStartedResponse{JobID: jobID})
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listJobsResponse{Items: s.deps.Jobs.List()})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.deps.Jobs.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.deps.Library.ListProfiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := make([]profileResponse, len(profiles))
	for i, p := range profiles {
		items := make([]profileItemResponse, len(p.Items))
		for j, it := range p.Items {
			items[j] = profileItemResponse(it)
		}
		resp[i] = profileResponse{ID: p.ID, Name: p.Name, Cutoff: p.Cutoff, Items: items}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s.deps.Bus != nil {
		resp["dropped_events"] = s.deps.Bus.Dropped()
	}
	writeJSON(w, http.StatusOK, resp)
}
