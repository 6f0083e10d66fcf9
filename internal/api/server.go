// Package api exposes the layout pipeline over HTTP for rendering/event
// layers that live out of process. The API is compute-only: every request
// carries its own dataset and options, the response carries the serialized
// snapshot or artifact, and the server keeps no display state between
// requests.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cartoviz/micromap/pkg/dataset"
	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
	"github.com/cartoviz/micromap/pkg/pipeline"
)

// maxRequestBody caps layout request bodies at 8 MiB; datasets for linked
// micromaps are small (tens to hundreds of regions).
const maxRequestBody = 8 << 20

// Server handles layout computation requests.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around a pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)
	return r
}

// LayoutRequest is the request body for POST /v1/layout. The dataset rides
// along as CSV text; geometry is optional and defaults to one part per
// region.
type LayoutRequest struct {
	Options     pipeline.Options `json:"options"`
	DatasetCSV  string           `json:"dataset_csv"`
	GeometryCSV string           `json:"geometry_csv,omitempty"`
}

// LayoutResponse is the response body for POST /v1/layout.
type LayoutResponse struct {
	Snapshot     json.RawMessage   `json:"snapshot"`
	SnapshotHash string            `json:"snapshot_hash"`
	Artifacts    map[string]string `json:"artifacts,omitempty"` // non-json formats, by name
	Cached       bool              `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decoding request body"))
		return
	}
	if strings.TrimSpace(req.DatasetCSV) == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidConfig, "dataset_csv is required"))
		return
	}

	ds, err := dataset.FromCSV(strings.NewReader(req.DatasetCSV))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var provider geo.PartProvider
	if strings.TrimSpace(req.GeometryCSV) != "" {
		provider, err = pipeline.GeometryFromCSV(strings.NewReader(req.GeometryCSV))
	} else {
		provider, err = pipeline.SyntheticGeometry(ds, req.Options.IDVar)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := req.Options
	opts.Logger = s.logger
	// The API always returns the snapshot; extra formats are opt-in.
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}

	result, err := s.runner.Execute(r.Context(), ds, provider, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := LayoutResponse{
		Snapshot:     json.RawMessage(result.Artifacts[pipeline.FormatJSON]),
		SnapshotHash: result.SnapshotHash,
		Cached:       result.CacheInfo.SnapshotHit,
	}
	if len(resp.Snapshot) == 0 {
		data, err := json.Marshal(result.Snapshot)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encoding snapshot"))
			return
		}
		resp.Snapshot = data
	}
	for format, artifact := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(artifact)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("writing layout response", "err", err)
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps engine error codes to HTTP status codes. Validation errors
// are the client's fault; only internal errors become 500s.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRebuildInProgress:
		status = http.StatusConflict
	case errors.ErrCodeInternal, "":
		status = http.StatusInternalServerError
	}

	s.logger.Warn("request failed", "code", code, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}
