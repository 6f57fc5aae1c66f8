package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/planwave/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/planwave/pkg/application"
	"github.com/felixgeelhaar/planwave/pkg/domain/quality"
)

// Server exposes planwave's decomposition, planning, and quality loop
// operations to MCP clients.
type Server struct {
	mcpServer     *mcp.Server
	decomposeSvc  *application.DecomposeService
	planSvc       *application.PlanService
	evalOptSvc    *application.EvalOptService
	estimationSvc *application.EstimationService
	auditSvc      *application.AuditService
	usageSvc      *application.UsageService
	workspace     *wiring.Workspace
	root          string
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients. Internal
// details are omitted.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(root string) (*Server, error) {
	services, err := wiring.BuildAppServices(root)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}

	info := mcp.ServerInfo{
		Name:    "planwave",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Planwave MCP Server"),
			mcp.WithDescription("Planwave exposes task decomposition, wave scheduling, and the quality refinement loop to MCP clients."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/planwave"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use tools to decompose work into tasks, build execution plans, validate task sizes, and run the eval-optimization loop."),
		),
		decomposeSvc:  services.Decompose,
		planSvc:       services.Plan,
		evalOptSvc:    services.EvalOpt,
		estimationSvc: services.Estimation,
		auditSvc:      services.Audit,
		usageSvc:      services.Usage,
		workspace:     services.Workspace,
		root:          root,
	}

	s.registerTools()
	return s, nil
}

type DecomposeArgs struct {
	Request string `json:"request" jsonschema:"description=The work request to break into tasks"`
}

type BuildPlanArgs struct {
	AutoSplit bool `json:"auto_split" jsonschema:"description=Automatically split tasks exceeding the file limit before planning"`
}

type RunEvalOptArgs struct {
	Prompt             string   `json:"prompt" jsonschema:"description=The generation request to refine"`
	QualityThreshold   float64  `json:"quality_threshold,omitempty" jsonschema:"description=Minimum acceptable score from 0 to 10 (default 7)"`
	MaxIterations      int      `json:"max_iterations,omitempty" jsonschema:"description=Maximum generate-evaluate rounds (default 3)"`
	EvaluationCriteria []string `json:"evaluation_criteria,omitempty" jsonschema:"description=Criteria the evaluator scores against"`
	EnableThinking     bool     `json:"enable_thinking,omitempty" jsonschema:"description=Grant the evaluator an extended reasoning budget"`
}

type RecordActualArgs struct {
	TaskTitle       string  `json:"task_title" jsonschema:"description=Title of the completed task"`
	EstimateMinutes float64 `json:"estimate_minutes" jsonschema:"description=The original estimate in minutes"`
	ActualMinutes   float64 `json:"actual_minutes" jsonschema:"description=The observed actual in minutes"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("planwave_init").
		Description("Initialize a planwave workspace in the current directory").
		Handler(s.handleInit)

	s.mcpServer.Tool("planwave_decompose").
		Description("Break a work request into dispatchable tasks with dependencies, file ownership, and estimates").
		Handler(s.handleDecompose)

	s.mcpServer.Tool("planwave_get_decomposition").
		Description("Retrieve the current task decomposition").
		Handler(s.handleGetDecomposition)

	s.mcpServer.Tool("planwave_build_plan").
		Description("Build an execution plan: group tasks into parallel waves, detect file conflicts, insert review checkpoints, calibrate the estimate").
		Handler(s.handleBuildPlan)

	s.mcpServer.Tool("planwave_get_plan").
		Description("Retrieve the current execution plan").
		Handler(s.handleGetPlan)

	s.mcpServer.Tool("planwave_validate_task_sizes").
		Description("Report tasks whose file ownership exceeds the policy limit or that declare no files at all").
		Handler(s.handleValidateSizes)

	s.mcpServer.Tool("planwave_check_coverage").
		Description("Run coverage advisors over the decomposition (data flow completeness, test task presence)").
		Handler(s.handleCheckCoverage)

	s.mcpServer.Tool("planwave_run_evalopt").
		Description("Run the generate-evaluate-refine loop until output meets the quality threshold or iterations run out").
		Handler(s.handleRunEvalOpt)

	s.mcpServer.Tool("planwave_record_actual").
		Description("Record the actual time a task took so future estimates get calibrated").
		Handler(s.handleRecordActual)

	s.mcpServer.Tool("planwave_usage").
		Description("Retrieve token usage and spend statistics").
		Handler(s.handleUsage)

	s.mcpServer.Tool("planwave_verify_audit").
		Description("Verify the integrity of the hash-chained audit trail").
		Handler(s.handleVerifyAudit)
}

func (s *Server) handleInit(ctx context.Context, args struct{}) (string, error) {
	if err := s.workspace.Repo.Initialize(); err != nil {
		return "", mcpErr("Failed to initialize workspace. Check directory permissions.")
	}
	return "Planwave workspace initialized.", nil
}

func (s *Server) handleDecompose(ctx context.Context, args DecomposeArgs) (any, error) {
	if args.Request == "" {
		return nil, mcpErr("A work request is required.")
	}
	d, err := s.decomposeSvc.Decompose(ctx, args.Request)
	if err != nil {
		return nil, mcpErr("Failed to decompose the request. Check your AI provider configuration and policy settings.")
	}
	return d, nil
}

func (s *Server) handleGetDecomposition(ctx context.Context, args struct{}) (any, error) {
	d, err := s.workspace.Repo.LoadDecomposition()
	if err != nil {
		return nil, mcpErr("No decomposition found. Run planwave_decompose first.")
	}
	return d, nil
}

func (s *Server) handleBuildPlan(ctx context.Context, args BuildPlanArgs) (any, error) {
	plan, violations, err := s.planSvc.BuildPlan(args.AutoSplit)
	if err != nil {
		return nil, mcpErr("Failed to build the plan. Run planwave_decompose first.")
	}
	return map[string]any{
		"plan":            plan,
		"size_violations": violations,
	}, nil
}

func (s *Server) handleGetPlan(ctx context.Context, args struct{}) (any, error) {
	plan, err := s.workspace.Repo.LoadPlan()
	if err != nil {
		return nil, mcpErr("No plan found. Run planwave_build_plan first.")
	}
	return plan, nil
}

func (s *Server) handleValidateSizes(ctx context.Context, args struct{}) (any, error) {
	violations, err := s.planSvc.ValidateSizes()
	if err != nil {
		return nil, mcpErr("Failed to validate task sizes. Run planwave_decompose first.")
	}
	if len(violations) == 0 {
		return "All tasks fit the configured file limit.", nil
	}
	return violations, nil
}

func (s *Server) handleCheckCoverage(ctx context.Context, args struct{}) (any, error) {
	advisories, err := s.planSvc.CheckCoverage()
	if err != nil {
		return nil, mcpErr("Failed to check coverage. Run planwave_decompose first.")
	}
	if len(advisories) == 0 {
		return "No coverage gaps detected.", nil
	}
	return advisories, nil
}

func (s *Server) handleRunEvalOpt(ctx context.Context, args RunEvalOptArgs) (any, error) {
	if args.Prompt == "" {
		return nil, mcpErr("A prompt is required.")
	}
	result, err := s.evalOptSvc.Run(ctx, args.Prompt, quality.LoopConfig{
		QualityThreshold:   args.QualityThreshold,
		MaxIterations:      args.MaxIterations,
		EvaluationCriteria: args.EvaluationCriteria,
		EnableThinking:     args.EnableThinking,
	})
	if err != nil {
		return nil, mcpErr("Failed to run the quality loop. Check your AI provider configuration and policy settings.")
	}
	return result, nil
}

func (s *Server) handleRecordActual(ctx context.Context, args RecordActualArgs) (string, error) {
	if err := s.estimationSvc.RecordActual(args.TaskTitle, args.EstimateMinutes, args.ActualMinutes); err != nil {
		return "", mcpErr("Failed to record the actual. Estimate and actual must both be positive.")
	}
	return fmt.Sprintf("Recorded actual for %q: estimated %.0f min, took %.0f min.", args.TaskTitle, args.EstimateMinutes, args.ActualMinutes), nil
}

func (s *Server) handleUsage(ctx context.Context, args struct{}) (any, error) {
	stats, err := s.usageSvc.Stats()
	if err != nil {
		return nil, mcpErr("Failed to retrieve usage data. Ensure the workspace is initialized.")
	}
	return stats, nil
}

func (s *Server) handleVerifyAudit(ctx context.Context, args struct{}) (string, error) {
	broken, err := s.auditSvc.VerifyIntegrity()
	if err != nil {
		return "", mcpErr("Failed to verify the audit trail.")
	}
	if broken >= 0 {
		return fmt.Sprintf("Audit chain broken at event %d.", broken), nil
	}
	return "Audit chain intact.", nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
