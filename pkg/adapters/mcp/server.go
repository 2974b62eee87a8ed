// Package mcp exposes the reduction operations as MCP tools over stdio or SSE,
// so agentic clients can taper Hamiltonians without linking the library.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/internal/logging"
	"github.com/quelllabs/quell/pkg/pauli"
)

// Server wraps the orchestrators as an MCP server.
type Server struct {
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the MCP server and registers the reduction tools.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("quell-mcp", quell.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// -- Tool argument and result types --

type taperArgs struct {
	Hamiltonian map[string]float64 `mapstructure:"hamiltonian"`
	Reference   []int              `mapstructure:"reference"`
	Sector      []int              `mapstructure:"sector"`
}

// TaperResult aligns with the HTTP adapter's response schema.
type TaperResult struct {
	Hamiltonian map[string]float64 `json:"hamiltonian" jsonschema_description:"Reduced Hamiltonian, Pauli label to coefficient"`
	Generators  []string           `json:"generators" jsonschema_description:"Symmetry generators that were projected"`
	Sector      []int              `json:"sector" jsonschema_description:"Stabilizer eigenvalues of the projected sector"`
	Reference   []int              `json:"reference,omitempty" jsonschema_description:"Reference state on the surviving qubits"`
}

type sectorsArgs struct {
	Hamiltonian map[string]float64 `mapstructure:"hamiltonian"`
}

// SectorsResult lists every sector by ascending exact ground energy.
type SectorsResult struct {
	Results []SectorEntry `json:"results"`
}

type SectorEntry struct {
	Sector      []int              `json:"sector"`
	Energy      float64            `json:"energy"`
	Hamiltonian map[string]float64 `json:"hamiltonian"`
}

type contextualArgs struct {
	Hamiltonian map[string]float64 `mapstructure:"hamiltonian"`
	Set         []string           `mapstructure:"set"`
	Indices     []int              `mapstructure:"indices"`
}

// ContextualResult carries the classical solution and the reduced operator.
type ContextualResult struct {
	Energy      float64            `json:"energy" jsonschema_description:"Noncontextual ground energy"`
	Nu          []int              `json:"nu" jsonschema_description:"Generator eigenvalue assignment"`
	Theta       float64            `json:"theta"`
	R           []float64          `json:"r" jsonschema_description:"Clique weight unit vector"`
	Stabilizers []string           `json:"stabilizers"`
	Hamiltonian map[string]float64 `json:"hamiltonian"`
	Reference   []int              `json:"reference,omitempty"`
}

func (s *Server) registerTools() {
	taperTool := mcp.NewTool("taper_hamiltonian",
		mcp.WithDescription("Project the exact Z2 symmetries of a Pauli Hamiltonian, removing one qubit per symmetry generator."),
		mcp.WithObject("hamiltonian", mcp.Required(), mcp.Description("Pauli labels (IXYZ strings of equal length) mapped to real coefficients")),
		mcp.WithArray("reference", mcp.Description("Reference basis state, one 0/1 per qubit; fixes the sector")),
		mcp.WithArray("sector", mcp.Description("Explicit sector override, one +1/-1 per generator")),
		mcp.WithOutputSchema[TaperResult](),
	)
	s.mcpServer.AddTool(taperTool, mcp.NewStructuredToolHandler(s.handleTaper))

	sectorsTool := mcp.NewTool("search_sectors",
		mcp.WithDescription("Taper every symmetry sector and rank them by exact ground energy."),
		mcp.WithObject("hamiltonian", mcp.Required(), mcp.Description("Pauli labels mapped to real coefficients")),
		mcp.WithOutputSchema[SectorsResult](),
	)
	s.mcpServer.AddTool(sectorsTool, mcp.NewStructuredToolHandler(s.handleSectors))

	contextualTool := mcp.NewTool("contextual_reduce",
		mcp.WithDescription("Contextual-subspace reduction: solve the noncontextual ground state classically and project the Hamiltonian onto its stabilizers."),
		mcp.WithObject("hamiltonian", mcp.Required(), mcp.Description("Pauli labels mapped to real coefficients")),
		mcp.WithArray("set", mcp.Description("Noncontextual term set; searched greedily when omitted")),
		mcp.WithArray("indices", mcp.Description("Combined stabilizer indices to project; all when omitted")),
		mcp.WithOutputSchema[ContextualResult](),
	)
	s.mcpServer.AddTool(contextualTool, mcp.NewStructuredToolHandler(s.handleContextual))
}

func (s *Server) handleTaper(_ context.Context, _ mcp.CallToolRequest, raw map[string]interface{}) (TaperResult, error) {
	var args taperArgs
	if err := mapstructure.WeakDecode(raw, &args); err != nil {
		return TaperResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	h, err := pauli.NewOperatorReal(args.Hamiltonian)
	if err != nil {
		return TaperResult{}, err
	}
	opts := []quell.TaperingOption{quell.WithTaperingLogger(s.logger)}
	if args.Sector != nil {
		opts = append(opts, quell.WithSector(args.Sector))
	}
	tap, err := quell.NewTapering(h, args.Reference, opts...)
	if err != nil {
		return TaperResult{}, err
	}

	reduced, err := tap.Taper()
	if err != nil {
		return TaperResult{}, err
	}
	sector, err := tap.Sector()
	if err != nil {
		return TaperResult{}, err
	}

	out := TaperResult{Hamiltonian: coeffMap(reduced), Sector: sector}
	for _, g := range tap.Generators() {
		out.Generators = append(out.Generators, string(g))
	}
	if args.Reference != nil {
		if ref, err := tap.TaperedReference(); err == nil {
			out.Reference = ref
		}
	}
	return out, nil
}

func (s *Server) handleSectors(ctx context.Context, _ mcp.CallToolRequest, raw map[string]interface{}) (SectorsResult, error) {
	var args sectorsArgs
	if err := mapstructure.WeakDecode(raw, &args); err != nil {
		return SectorsResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	h, err := pauli.NewOperatorReal(args.Hamiltonian)
	if err != nil {
		return SectorsResult{}, err
	}
	tap, err := quell.NewTapering(h, nil, quell.WithTaperingLogger(s.logger))
	if err != nil {
		return SectorsResult{}, err
	}

	results, err := tap.SearchAllSectors(ctx)
	if err != nil {
		return SectorsResult{}, err
	}

	out := SectorsResult{Results: make([]SectorEntry, len(results))}
	for i, res := range results {
		out.Results[i] = SectorEntry{
			Sector:      res.Sector,
			Energy:      res.Energy,
			Hamiltonian: coeffMap(res.Hamiltonian),
		}
	}
	return out, nil
}

func (s *Server) handleContextual(ctx context.Context, _ mcp.CallToolRequest, raw map[string]interface{}) (ContextualResult, error) {
	var args contextualArgs
	if err := mapstructure.WeakDecode(raw, &args); err != nil {
		return ContextualResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	h, err := pauli.NewOperatorReal(args.Hamiltonian)
	if err != nil {
		return ContextualResult{}, err
	}
	opts := []quell.ContextualOption{quell.WithLogger(s.logger)}
	if len(args.Set) > 0 {
		set := make([]pauli.Term, len(args.Set))
		for i, label := range args.Set {
			term, err := pauli.NewTerm(label)
			if err != nil {
				return ContextualResult{}, err
			}
			set[i] = term
		}
		opts = append(opts, quell.WithNoncontextualSet(set))
	}
	cs, err := quell.NewContextualSubspace(h, opts...)
	if err != nil {
		return ContextualResult{}, err
	}

	sol, err := cs.Solve(ctx)
	if err != nil {
		return ContextualResult{}, err
	}
	reduced, err := cs.ReducedHamiltonian(args.Indices...)
	if err != nil {
		return ContextualResult{}, err
	}

	out := ContextualResult{
		Energy:      sol.Energy,
		Nu:          sol.Nu,
		Theta:       sol.Theta,
		R:           []float64{sol.R[0], sol.R[1]},
		Hamiltonian: coeffMap(reduced),
	}
	for _, st := range sol.Stabilizers {
		out.Stabilizers = append(out.Stabilizers, string(st))
	}
	if ref, err := cs.ReducedReference(args.Indices...); err == nil {
		out.Reference = ref
	}
	return out, nil
}

func coeffMap(op pauli.Operator) map[string]float64 {
	out, err := op.RealMap(1e-9)
	if err != nil {
		out = make(map[string]float64, op.Len())
		for _, t := range op.Terms() {
			out[string(t)] = real(op.Coeff(t))
		}
	}
	return out
}
