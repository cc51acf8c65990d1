package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/pipeline"
	"github.com/hessam/chronos/pkg/story"
)

// layoutRequest is the shared body for the layout endpoints. Exactly one of
// Project or Snapshot must be set.
type layoutRequest struct {
	Project  string          `json:"project,omitempty"`
	Snapshot *story.Snapshot `json:"snapshot,omitempty"`

	SelectedID      string         `json:"selected_id,omitempty"`
	FocusTimelineID string         `json:"focus_timeline_id,omitempty"`
	Filters         layout.Filters `json:"filters,omitempty"`
	Refresh         bool           `json:"refresh,omitempty"`
}

// layoutResponse wraps an engine's layout with run metadata.
type layoutResponse struct {
	Layout       json.RawMessage    `json:"layout"`
	SnapshotHash string             `json:"snapshot_hash"`
	Stats        pipeline.Stats     `json:"stats"`
	CacheInfo    pipeline.CacheInfo `json:"cache_info"`
}

type resolveRequest struct {
	Project    string          `json:"project,omitempty"`
	Snapshot   *story.Snapshot `json:"snapshot,omitempty"`
	EntityID   string          `json:"entity_id"`
	TimelineID string          `json:"timeline_id"`
}

type renderRequest struct {
	layoutRequest
	ViewMode   layout.ViewMode `json:"view_mode,omitempty"`
	Format     string          `json:"format,omitempty"`
	Detailed   bool            `json:"detailed,omitempty"`
	Background string          `json:"background,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGraphLayout computes the causal graph view.
func (s *Server) handleGraphLayout(w http.ResponseWriter, r *http.Request) {
	s.handleLayout(w, r, layout.ViewGraph)
}

// handleTimelineLayout computes the swimlane view.
func (s *Server) handleTimelineLayout(w http.ResponseWriter, r *http.Request) {
	s.handleLayout(w, r, layout.ViewTimeline)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request, mode layout.ViewMode) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	opts := pipeline.Options{
		Project:         req.Project,
		Refresh:         req.Refresh,
		ViewMode:        mode,
		SelectedID:      req.SelectedID,
		FocusTimelineID: req.FocusTimelineID,
		Filters:         req.Filters,
		Logger:          s.logger,
	}

	result, err := s.runLayout(r, req.Snapshot, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	layoutData, err := json.Marshal(layoutPayload(result))
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "encoding layout"))
		return
	}

	s.respondJSON(w, http.StatusOK, layoutResponse{
		Layout:       layoutData,
		SnapshotHash: result.SnapshotHash,
		Stats:        result.Stats,
		CacheInfo:    result.CacheInfo,
	})
}

// runLayout computes a layout from either an inline snapshot or the store.
func (s *Server) runLayout(r *http.Request, snap *story.Snapshot, opts pipeline.Options) (*pipeline.Result, error) {
	if snap != nil {
		if opts.Project == "" {
			opts.Project = "inline"
		}
		return s.runner.ComputeLayout(r.Context(), *snap, opts)
	}
	opts.Formats = []string{pipeline.FormatJSON}
	return s.runner.Execute(r.Context(), opts)
}

func layoutPayload(result *pipeline.Result) any {
	if result.Timeline != nil {
		return result.Timeline
	}
	return result.Graph
}

// handleResolve returns the variant-resolved form of one entity.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}
	if err := errors.ValidateEntityID(req.EntityID); err != nil {
		s.respondError(w, err)
		return
	}

	var snap story.Snapshot
	if req.Snapshot != nil {
		snap = *req.Snapshot
	} else {
		loaded, err := s.runner.Load(r.Context(), pipeline.Options{Project: req.Project, Logger: s.logger})
		if err != nil {
			s.respondError(w, err)
			return
		}
		snap = loaded
	}

	entity, ok := snap.Entity(req.EntityID)
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "entity %q not found", req.EntityID))
		return
	}

	resolved := story.Resolve(entity, req.TimelineID, snap.Variants)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"entity":      resolved,
		"timeline_id": req.TimelineID,
		"has_variant": story.HasVariant(snap.Variants, req.EntityID, req.TimelineID),
	})
}

// handleRender returns a single rendered artifact (SVG or DOT) instead of
// layout JSON.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}

	opts := pipeline.Options{
		Project:         req.Project,
		Refresh:         req.Refresh,
		ViewMode:        req.ViewMode,
		SelectedID:      req.SelectedID,
		FocusTimelineID: req.FocusTimelineID,
		Filters:         req.Filters,
		Formats:         []string{req.Format},
		Detailed:        req.Detailed,
		Background:      req.Background,
		Logger:          s.logger,
	}

	var result *pipeline.Result
	var err error
	if req.Snapshot != nil {
		if opts.Project == "" {
			opts.Project = "inline"
		}
		result, err = s.runner.ComputeLayout(r.Context(), *req.Snapshot, opts)
		if err == nil {
			var artifacts map[string][]byte
			artifacts, err = s.runner.Render(r.Context(), result, opts)
			if err == nil {
				result.Artifacts = artifacts
			}
		}
	} else {
		result, err = s.runner.Execute(r.Context(), opts)
	}
	if err != nil {
		s.respondError(w, err)
		return
	}

	data := result.Artifacts[req.Format]
	switch req.Format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleSnapshot returns the stored snapshot for a project.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")

	snap, err := s.runner.Load(r.Context(), pipeline.Options{Project: project, Logger: s.logger})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

// =============================================================================
// Response helpers
// =============================================================================

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusForCode(errors.GetCode(err))
	s.respondJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidProject, errors.ErrCodeInvalidEntityType,
		errors.ErrCodeInvalidViewMode, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidManifest:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeProjectNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
