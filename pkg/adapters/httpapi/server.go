// Package httpapi exposes the reduction operations over a JSON HTTP API. The
// OpenAPI document is embedded, validated at construction, and served alongside
// a Swagger UI page.
package httpapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/internal/logging"
	"github.com/quelllabs/quell/pkg/observability"
	"github.com/quelllabs/quell/pkg/pauli"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Server wires the orchestrators behind the HTTP routes.
type Server struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics attaches instrumentation passed down to the orchestrators.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler validates the embedded OpenAPI document and builds the router.
func NewHandler(opts ...Option) (http.Handler, error) {
	s := &Server{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("embedded openapi document is invalid: %w", err)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Post("/v1/taper", s.taper)
	r.Post("/v1/sectors", s.sectors)
	r.Post("/v1/contextual", s.contextual)
	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Quell API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// -- Wire types --

type taperRequest struct {
	Hamiltonian map[string]float64 `json:"hamiltonian"`
	Reference   []int              `json:"reference,omitempty"`
	Sector      []int              `json:"sector,omitempty"`
}

type taperResponse struct {
	Hamiltonian map[string]float64 `json:"hamiltonian"`
	Generators  []string           `json:"generators"`
	Sector      []int              `json:"sector"`
	Reference   []int              `json:"reference,omitempty"`
}

type sectorsRequest struct {
	Hamiltonian map[string]float64 `json:"hamiltonian"`
}

type sectorResult struct {
	Sector      []int              `json:"sector"`
	Energy      float64            `json:"energy"`
	Hamiltonian map[string]float64 `json:"hamiltonian"`
}

type sectorsResponse struct {
	Results []sectorResult `json:"results"`
}

type contextualRequest struct {
	Hamiltonian map[string]float64 `json:"hamiltonian"`
	Set         []string           `json:"set,omitempty"`
	Indices     []int              `json:"indices,omitempty"`
}

type contextualResponse struct {
	Energy      float64            `json:"energy"`
	Nu          []int              `json:"nu"`
	Theta       float64            `json:"theta"`
	R           []float64          `json:"r"`
	Stabilizers []string           `json:"stabilizers"`
	Hamiltonian map[string]float64 `json:"hamiltonian"`
	Reference   []int              `json:"reference,omitempty"`
}

// -- Handlers --

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) taper(w http.ResponseWriter, r *http.Request) {
	var req taperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h, err := pauli.NewOperatorReal(req.Hamiltonian)
	if err != nil {
		s.fail(w, err)
		return
	}
	taperOpts := []quell.TaperingOption{
		quell.WithTaperingMetrics(s.metrics),
		quell.WithTaperingLogger(s.logger),
	}
	if req.Sector != nil {
		taperOpts = append(taperOpts, quell.WithSector(req.Sector))
	}
	tap, err := quell.NewTapering(h, req.Reference, taperOpts...)
	if err != nil {
		s.fail(w, err)
		return
	}

	reduced, err := tap.Taper()
	if err != nil {
		s.fail(w, err)
		return
	}
	sector, err := tap.Sector()
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := taperResponse{
		Hamiltonian: realCoeffs(reduced),
		Sector:      sector,
	}
	for _, g := range tap.Generators() {
		resp.Generators = append(resp.Generators, string(g))
	}
	if req.Reference != nil {
		if ref, err := tap.TaperedReference(); err == nil {
			resp.Reference = ref
		}
	}
	s.respond(w, resp)
}

func (s *Server) sectors(w http.ResponseWriter, r *http.Request) {
	var req sectorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h, err := pauli.NewOperatorReal(req.Hamiltonian)
	if err != nil {
		s.fail(w, err)
		return
	}
	tap, err := quell.NewTapering(h, nil,
		quell.WithTaperingMetrics(s.metrics), quell.WithTaperingLogger(s.logger))
	if err != nil {
		s.fail(w, err)
		return
	}

	results, err := tap.SearchAllSectors(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := sectorsResponse{Results: make([]sectorResult, len(results))}
	for i, res := range results {
		resp.Results[i] = sectorResult{
			Sector:      res.Sector,
			Energy:      res.Energy,
			Hamiltonian: realCoeffs(res.Hamiltonian),
		}
	}
	s.respond(w, resp)
}

func (s *Server) contextual(w http.ResponseWriter, r *http.Request) {
	var req contextualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h, err := pauli.NewOperatorReal(req.Hamiltonian)
	if err != nil {
		s.fail(w, err)
		return
	}
	opts := []quell.ContextualOption{
		quell.WithLogger(s.logger),
		quell.WithMetrics(s.metrics),
	}
	if len(req.Set) > 0 {
		set := make([]pauli.Term, len(req.Set))
		for i, label := range req.Set {
			term, err := pauli.NewTerm(label)
			if err != nil {
				s.fail(w, err)
				return
			}
			set[i] = term
		}
		opts = append(opts, quell.WithNoncontextualSet(set))
	}
	cs, err := quell.NewContextualSubspace(h, opts...)
	if err != nil {
		s.fail(w, err)
		return
	}

	sol, err := cs.Solve(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	reduced, err := cs.ReducedHamiltonian(req.Indices...)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := contextualResponse{
		Energy:      sol.Energy,
		Nu:          sol.Nu,
		Theta:       sol.Theta,
		R:           []float64{sol.R[0], sol.R[1]},
		Hamiltonian: realCoeffs(reduced),
	}
	for _, st := range sol.Stabilizers {
		resp.Stabilizers = append(resp.Stabilizers, string(st))
	}
	if ref, err := cs.ReducedReference(req.Indices...); err == nil {
		resp.Reference = ref
	}
	s.respond(w, resp)
}

func (s *Server) respond(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

// fail maps domain errors onto status codes: malformed input is 400, everything
// the pipeline rejects is 422.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, quell.ErrInvalidLabel) || errors.Is(err, quell.ErrShapeMismatch) {
		status = http.StatusBadRequest
	}
	s.logger.Warn("request failed", "error", err)
	http.Error(w, err.Error(), status)
}

func realCoeffs(op pauli.Operator) map[string]float64 {
	out, err := op.RealMap(1e-9)
	if err != nil {
		// Reduced operators of Hermitian input stay Hermitian; residual
		// imaginary parts are numerical noise.
		out = make(map[string]float64, op.Len())
		for _, t := range op.Terms() {
			out[string(t)] = real(op.Coeff(t))
		}
	}
	return out
}
