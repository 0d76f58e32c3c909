package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/editor"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds uploaded machines and tapes.
const maxBodySize = 1 << 20

// Server exposes a MachineStore and headless runs over HTTP.
type Server struct {
	Store         ports.MachineStore
	DefaultSymbol string
	MaxSteps      int

	editor   *editor.Editor
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records runs into m and serves reg on /metrics.
func WithMetrics(m *observability.Metrics, reg prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = reg
	}
}

// WithDefaultSymbol sets what unwritten cells of uploaded tapes read as.
func WithDefaultSymbol(symbol string) Option {
	return func(s *Server) {
		s.DefaultSymbol = symbol
	}
}

// WithMaxSteps caps runs that do not halt on their own.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.MaxSteps = n
		}
	}
}

// NewHandler creates a new HTTP handler for the store.
func NewHandler(store ports.MachineStore, opts ...Option) http.Handler {
	s := &Server{
		Store:         store,
		DefaultSymbol: domain.DefaultSymbol,
		MaxSteps:      10000,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.editor = editor.New(store, editor.WithLogger(s.logger))

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Put("/", s.PutMachine)
			r.Delete("/", s.DeleteMachine)
			r.Get("/raw", s.GetMachineRaw)
			r.Get("/graph", s.GetGraph)
			r.Post("/run", s.RunMachine)
		})
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MachineView is the JSON form of a machine.
type MachineView struct {
	Name        string              `json:"name"`
	States      []domain.State      `json:"states"`
	Transitions []domain.Transition `json:"transitions"`
}

// TransitionRequest is the body of POST /machines/{name}/transitions.
// Move is parsed like user input: empty means 0 and "-" means -1.
type TransitionRequest struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Read  string `json:"read"`
	Write string `json:"write"`
	Move  string `json:"move"`
}

// RemoveStateResponse lists the transitions removed along with a state.
type RemoveStateResponse struct {
	State       int                 `json:"state"`
	Transitions []domain.Transition `json:"transitions"`
}

// RunResponse is returned by POST /machines/{name}/run.
type RunResponse struct {
	runtime.RunResult
	Cells []tape.Cell `json:"cells"`
	Tape  string      `json:"tape"`
	Graph string      `json:"graph"`
	Error string      `json:"error,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, "List failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": names})
}

// GetMachine handles the GET /machines/{name} request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, MachineView{
		Name:        name,
		States:      m.States(),
		Transitions: m.Transitions(),
	})
}

// GetMachineRaw handles the GET /machines/{name}/raw request.
// The body is the binary machine format.
func (s *Server) GetMachineRaw(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r, chi.URLParam(r, "name"))
	if !ok {
		return
	}
	data, err := codec.Encode(m)
	if err != nil {
		s.fail(w, "Encode failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

// PutMachine handles the PUT /machines/{name} request.
// The body must be in the binary machine format.
func (s *Server) PutMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := codec.Read(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid machine: %v", err), http.StatusBadRequest)
		s.logger.Warn("PutMachine: invalid body", "name", name, "error", err)
		return
	}
	if err := s.Store.Save(r.Context(), name, m); err != nil {
		if errors.Is(err, domain.ErrInvalidName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.fail(w, "Save failed", err)
		return
	}
	s.logger.Info("machine saved", "name", name, "states", m.StateCount())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMachine handles the DELETE /machines/{name} request.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Store.Delete(r.Context(), name); err != nil {
		s.fail(w, "Delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateMachine handles the POST /machines/{name} request.
// It stores an empty machine.
func (s *Server) CreateMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.editor.Create(r.Context(), name); err != nil {
		s.editFailed(w, "Create failed", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// AddState handles the POST /machines/{name}/states request.
// The body is a JSON position.
func (s *Server) AddState(w http.ResponseWriter, r *http.Request) {
	var pos domain.Position
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&pos); err != nil {
		http.Error(w, fmt.Sprintf("Invalid position: %v", err), http.StatusBadRequest)
		return
	}
	state, err := s.editor.AddState(r.Context(), chi.URLParam(r, "name"), pos)
	if err != nil {
		s.editFailed(w, "AddState failed", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, state)
}

// RemoveState handles the DELETE /machines/{name}/states/{id} request.
// Transitions touching the state are removed with it.
func (s *Server) RemoveState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "state id must be an integer", http.StatusBadRequest)
		return
	}
	removed, err := s.editor.RemoveState(r.Context(), chi.URLParam(r, "name"), id)
	if err != nil {
		s.editFailed(w, "RemoveState failed", err)
		return
	}
	if removed == nil {
		removed = []domain.Transition{}
	}
	s.writeJSON(w, http.StatusOK, RemoveStateResponse{State: id, Transitions: removed})
}

// AddTransition handles the POST /machines/{name}/transitions request.
func (s *Server) AddTransition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid transition: %v", err), http.StatusBadRequest)
		return
	}
	t, err := s.editor.AddTransition(r.Context(), chi.URLParam(r, "name"), req.From, req.To, req.Read, req.Write, req.Move)
	if err != nil {
		s.editFailed(w, "AddTransition failed", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) editFailed(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrStateNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrTransitionConflict), errors.Is(err, domain.ErrMachineExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidHeadMove), errors.Is(err, domain.ErrSymbolTooLong), errors.Is(err, domain.ErrInvalidName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.fail(w, msg, err)
	}
}

// GetGraph handles the GET /machines/{name}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r, chi.URLParam(r, "name"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(m, nil))
}

// RunMachine handles the POST /machines/{name}/run request.
// The body is a tape in the tape text format; the machine runs without
// step delays until it halts or max_steps transitions have been applied.
func (s *Server) RunMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}

	maxSteps := s.MaxSteps
	if v := r.URL.Query().Get("max_steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "max_steps must be a positive integer", http.StatusBadRequest)
			return
		}
		maxSteps = min(n, s.MaxSteps)
	}

	trail := &graph.Trail{}
	hooks := observability.LoggingHooks(s.logger).Merge(trail.Hooks())
	if s.metrics != nil {
		hooks = hooks.Merge(s.metrics.Hooks())
	}
	session := turing.New(
		turing.WithDefaultSymbol(s.DefaultSymbol),
		turing.WithLifecycleHooks(hooks),
		turing.WithLogger(s.logger),
	)
	if err := session.SetMachine(m); err != nil {
		s.fail(w, "Run failed", err)
		return
	}
	if err := session.LoadTape(http.MaxBytesReader(w, r.Body, maxBodySize)); err != nil {
		http.Error(w, fmt.Sprintf("Invalid tape: %v", err), http.StatusBadRequest)
		return
	}

	result, err := session.RunToHalt(r.Context(), maxSteps)
	if errors.Is(err, runtime.ErrEmptyMachine) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var text strings.Builder
	if ferr := session.SaveTape(&text); ferr != nil {
		s.fail(w, "Run failed", ferr)
		return
	}
	resp := RunResponse{
		RunResult: result,
		Cells:     session.Tape().Cells(),
		Tape:      text.String(),
		Graph:     graph.GenerateMermaid(m, trail.Overlay()),
	}

	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusUnprocessableEntity
		s.logger.Warn("RunMachine: did not halt", "name", name, "error", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, name string) (*machine.Machine, bool) {
	m, err := s.Store.Load(r.Context(), name)
	if errors.Is(err, domain.ErrMachineNotFound) {
		http.Error(w, fmt.Sprintf("Machine %q not found", name), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.fail(w, "Load failed", err)
		return nil, false
	}
	return m, true
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
	s.logger.Error(msg, "error", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
