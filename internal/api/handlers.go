package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treelayout/pkg/buildinfo"
	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// layoutRequest is the body of POST /v1/layout.
type layoutRequest struct {
	Edges        []hierarchy.Edge `json:"edges"`
	MaxDepth     int              `json:"max_depth,omitempty"`
	Disambiguate bool             `json:"disambiguate,omitempty"`
	Detailed     bool             `json:"detailed,omitempty"`
	Roots        []string         `json:"roots,omitempty"` // forced roots
}

type runResponse struct {
	RunID string   `json:"run_id"`
	Roots []string `json:"roots"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// handleLayout lays out the posted edges and returns the forest in the
// format given by ?format= (json when absent). Tabular formats return one
// document for the whole forest; dot and svg are only served per tree.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	format, err := queryFormat(r, sink.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !sink.IsTabular(format) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat,
			"format %q is only available per tree, see /v1/runs/{runID}/trees/{root}", format))
		return
	}

	req, err := s.decodeLayout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.cfg.Defaults
	opts.Input = ""
	opts.Edges = req.Edges
	opts.MaxDepth = req.MaxDepth
	opts.Disambiguate = req.Disambiguate
	opts.Detailed = req.Detailed
	opts.Roots = req.Roots
	opts.Formats = []string{format}
	opts.Combine = true
	opts.RunID = ""

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(HeaderRunID, res.RunID)
	writeArtifact(w, format, res.Artifacts[0])
}

func (s *Server) decodeLayout(w http.ResponseWriter, r *http.Request) (*layoutRequest, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req layoutRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, errBodyTooLarge, "request body over %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Edges) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "edges cannot be empty")
	}
	if req.MaxDepth < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative")
	}
	for i, e := range req.Edges {
		if err := errors.ValidateNodeID(e.Child); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edges[%d].child", i)
		}
		if e.Parent != "" {
			if err := errors.ValidateNodeID(e.Parent); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edges[%d].parent", i)
			}
		}
	}
	for i, id := range req.Roots {
		if err := errors.ValidateNodeID(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "roots[%d]", i)
		}
	}
	return &req, nil
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if err := errors.ValidateRunID(runID); err != nil {
		s.writeError(w, r, err)
		return
	}
	roots, err := s.runner.Store.Roots(r.Context(), runID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{RunID: runID, Roots: roots})
}

// handleTree returns one stored tree in the format given by ?format=.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if err := errors.ValidateRunID(runID); err != nil {
		s.writeError(w, r, err)
		return
	}
	root, err := url.PathUnescape(chi.URLParam(r, "root"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "root"))
		return
	}
	if err := errors.ValidateNodeID(root); err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := queryFormat(r, sink.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := s.runner.Store.LoadTree(r.Context(), runID, root)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.cfg.Defaults
	opts.RunID = runID
	opts.Combine = true
	opts.Detailed = r.URL.Query().Get("detailed") == "true"
	forest := &hierarchy.Forest{Roots: []string{root}, Trees: []*hierarchy.Tree{tree}}
	arts, err := pipeline.Export(r.Context(), forest, format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, arts[0])
}

func queryFormat(r *http.Request, def string) (string, error) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		return def, nil
	}
	if err := sink.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func writeArtifact(w http.ResponseWriter, format string, a pipeline.Artifact) {
	w.Header().Set("Content-Type", sink.ContentType(format))
	if format == sink.FormatXLSX || format == sink.FormatCSV {
		w.Header().Set("Content-Disposition", `attachment; filename="`+a.Name+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}
