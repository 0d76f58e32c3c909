package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/editor"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunOutput is the structured result of the run_machine tool.
type RunOutput struct {
	RunID  string      `json:"run_id" jsonschema_description:"Identifier of the run"`
	Steps  int         `json:"steps" jsonschema_description:"Transitions applied"`
	State  int         `json:"state" jsonschema_description:"State the machine stopped in"`
	Head   int         `json:"head" jsonschema_description:"Final head position"`
	Halted bool        `json:"halted" jsonschema_description:"False when the step limit was reached first"`
	Cells  []tape.Cell `json:"cells" jsonschema_description:"Non-default cells of the final tape"`
	Graph  string      `json:"graph" jsonschema_description:"Mermaid flowchart with the visited states highlighted"`
}

// Server exposes a MachineStore as an MCP Server.
type Server struct {
	store         ports.MachineStore
	defaultSymbol string
	maxSteps      int
	logger        *slog.Logger
	editor        *editor.Editor
	mcpServer     *server.MCPServer
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

// WithDefaultSymbol sets what unwritten tape cells read as.
func WithDefaultSymbol(symbol string) Option {
	return func(s *Server) {
		s.defaultSymbol = symbol
	}
}

// WithMaxSteps caps runs requested through run_machine.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.MachineStore, opts ...Option) *Server {
	s := &Server{
		store:         store,
		defaultSymbol: domain.DefaultSymbol,
		maxSteps:      10000,
		logger:        logging.NewNop(),
		mcpServer:     server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.editor = editor.New(store, editor.WithLogger(s.logger))
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of all stored Turing machines."),
	), s.handleListMachines)

	s.mcpServer.AddTool(mcp.NewTool("describe_machine",
		mcp.WithDescription("Describe a stored machine as markdown tables of states and transitions."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
	), s.handleDescribeMachine)

	s.mcpServer.AddTool(mcp.NewTool("machine_graph",
		mcp.WithDescription("Render a stored machine as a Mermaid flowchart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
	), s.handleMachineGraph)

	s.mcpServer.AddTool(mcp.NewTool("create_machine",
		mcp.WithDescription("Store an empty machine under a new name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
	), s.handleCreateMachine)

	s.mcpServer.AddTool(mcp.NewTool("add_state",
		mcp.WithDescription("Add a state to a stored machine. Returns the new state id."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithNumber("x", mcp.Description("Layout x coordinate")),
		mcp.WithNumber("y", mcp.Description("Layout y coordinate")),
	), s.handleAddState)

	s.mcpServer.AddTool(mcp.NewTool("remove_state",
		mcp.WithDescription("Remove a state and every transition that starts or ends at it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("State id")),
	), s.handleRemoveState)

	s.mcpServer.AddTool(mcp.NewTool("add_transition",
		mcp.WithDescription("Link two states. A state can have only one transition per read symbol; an empty symbol stands for the blank cell."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithNumber("from", mcp.Required(), mcp.Description("Start state id")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("End state id")),
		mcp.WithString("read", mcp.Description("Symbol read (up to 4 characters)")),
		mcp.WithString("write", mcp.Description("Symbol written (up to 4 characters)")),
		mcp.WithString("move", mcp.Description("Head move: an integer, '-' for -1, empty for 0")),
	), s.handleAddTransition)

	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a stored machine on a tape until it halts. Tape lines are 'symbol' or 'index: symbol'."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("tape", mcp.Description("Initial tape in text format (optional, blank tape if omitted)")),
		mcp.WithNumber("max_steps", mcp.Description("Step limit (optional)")),
		mcp.WithOutputSchema[RunOutput](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunMachine))
}

func (s *Server) handleListMachines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(names)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribeMachine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := request.GetArguments()["name"].(string)
	m, err := s.store.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(loadError(name, err)), nil
	}
	return mcp.NewToolResultText(tui.MachineMarkdown(name, m)), nil
}

func (s *Server) handleMachineGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := request.GetArguments()["name"].(string)
	m, err := s.store.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(loadError(name, err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(m, nil)), nil
}

func (s *Server) handleRunMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunOutput, error) {
	name, _ := args["name"].(string)
	text, _ := args["tape"].(string)

	maxSteps := s.maxSteps
	if v, ok := args["max_steps"].(float64); ok && v > 0 {
		maxSteps = min(int(v), s.maxSteps)
	}

	m, err := s.store.Load(ctx, name)
	if err != nil {
		return RunOutput{}, errors.New(loadError(name, err))
	}

	trail := &graph.Trail{}
	session := turing.New(
		turing.WithDefaultSymbol(s.defaultSymbol),
		turing.WithLogger(s.logger),
		turing.WithLifecycleHooks(trail.Hooks()),
	)
	if err := session.SetMachine(m); err != nil {
		return RunOutput{}, err
	}
	if err := session.LoadTape(strings.NewReader(text)); err != nil {
		return RunOutput{}, err
	}

	res, err := session.RunToHalt(ctx, maxSteps)
	if err != nil {
		s.logger.Warn("MCP run_machine: did not halt", "name", name, "error", err)
		return RunOutput{}, err
	}

	return RunOutput{
		RunID:  res.RunID,
		Steps:  res.Steps,
		State:  res.State,
		Head:   res.Head,
		Halted: res.Halted,
		Cells:  session.Tape().Cells(),
		Graph:  graph.GenerateMermaid(m, trail.Overlay()),
	}, nil
}

func (s *Server) handleCreateMachine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := request.GetArguments()["name"].(string)
	if err := s.editor.Create(ctx, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s", name)), nil
}

func (s *Server) handleAddState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := args["name"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)

	state, err := s.editor.AddState(ctx, name, domain.Position{X: int(x), Y: int(y)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added state %d", state.ID)), nil
}

func (s *Server) handleRemoveState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := args["name"].(string)
	id, ok := args["id"].(float64)
	if !ok {
		return mcp.NewToolResultError("id is required"), nil
	}

	removed, err := s.editor.RemoveState(ctx, name, int(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := []string{fmt.Sprintf("removed state %d", int(id))}
	for _, t := range removed {
		lines = append(lines, "removed transition "+t.String())
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleAddTransition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := args["name"].(string)
	from, okFrom := args["from"].(float64)
	to, okTo := args["to"].(float64)
	if !okFrom || !okTo {
		return mcp.NewToolResultError("from and to are required"), nil
	}
	read, _ := args["read"].(string)
	write, _ := args["write"].(string)
	move, _ := args["move"].(string)

	t, err := s.editor.AddTransition(ctx, name, int(from), int(to), read, write, move)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("added transition " + t.String()), nil
}

func loadError(name string, err error) string {
	if errors.Is(err, domain.ErrMachineNotFound) {
		return fmt.Sprintf("machine %q not found", name)
	}
	return fmt.Sprintf("load failed: %v", err)
}
