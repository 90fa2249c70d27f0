package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gtww/pkg/buildinfo"
	gtwwerrors "github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/pipeline"
	"github.com/matzehuels/gtww/pkg/solver"
	"github.com/matzehuels/gtww/pkg/store"
)

// SolveResponse is the JSON answer of POST /v1/solve.
type SolveResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	GraphHash    string               `json:"graph_hash"`
	Vertices     int                  `json:"vertices"`
	Edges        int                  `json:"edges"`
	Components   int                  `json:"components"`
	Width        int                  `json:"width"`
	Contractions []solver.Contraction `json:"contractions"`
	CacheHit     bool                 `json:"cache_hit"`
	Verified     bool                 `json:"verified"`
	DurationMS   float64              `json:"duration_ms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Name:   q.Get("name"),
		Verify: s.cfg.Verify || q.Get("verify") == "true",
	}
	if opts.Name != "" {
		if err := gtwwerrors.ValidateName(opts.Name); err != nil {
			writeErr(w, err)
			return
		}
	}
	if v := q.Get("max_steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, string(gtwwerrors.ErrCodeInvalidInput), "max_steps must be a non-negative integer")
			return
		}
		opts.MaxSteps = n
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, string(gtwwerrors.ErrCodeInvalidInput), "graph exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, string(gtwwerrors.ErrCodeInvalidInput), "read body: "+err.Error())
		return
	}
	opts.Input = body

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Warn("solve failed", "graph", opts.Name, "error", err, "request_id", RequestID(r.Context()))
		writeErr(w, err)
		return
	}

	name := opts.Name
	if name == "" {
		name = pipeline.DefaultName
	}
	rec := &store.Record{
		Name:         name,
		GraphHash:    res.GraphHash,
		Vertices:     res.Summary.Vertices,
		Edges:        res.Summary.Edges,
		Width:        res.Sequence.Width,
		Contractions: res.Sequence.Len(),
		Duration:     res.Stats.Total(),
		CacheHit:     res.CacheHit,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Warn("saving record failed", "error", err)
	}

	if strings.HasPrefix(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Result-Id", rec.ID)
		_ = gr.Write(w, res.Sequence)
		return
	}

	contractions := res.Sequence.Contractions
	if contractions == nil {
		contractions = []solver.Contraction{}
	}
	writeJSON(w, http.StatusOK, SolveResponse{
		ID:           rec.ID,
		Name:         rec.Name,
		GraphHash:    res.GraphHash,
		Vertices:     res.Summary.Vertices,
		Edges:        res.Summary.Edges,
		Components:   res.Summary.Components,
		Width:        res.Sequence.Width,
		Contractions: contractions,
		CacheHit:     res.CacheHit,
		Verified:     res.Verified,
		DurationMS:   float64(res.Stats.Total()) / float64(time.Millisecond),
	})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{Name: q.Get("name")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, string(gtwwerrors.ErrCodeInvalidInput), "limit must be between 1 and 1000")
			return
		}
		opts.Limit = n
	}

	recs, err := s.store.List(r.Context(), opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, string(gtwwerrors.ErrCodeNotFound), "no result with that id")
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
