package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
	"github.com/felixgeelhaar/planwave/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.FilesystemRepository) {
	t.Helper()
	root := t.TempDir()
	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}
	server, err := NewServer(root)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return server, repo
}

func seedDecomposition(t *testing.T, repo *storage.FilesystemRepository) {
	t.Helper()
	d := &planning.Decomposition{
		Tasks: []planning.Task{
			{ID: 1, Title: "schema", Type: planning.TypeMigration, Files: []string{"schema.sql"}, EstimateMinutes: 30},
			{ID: 2, Title: "handler", Type: planning.TypeFeature, Files: []string{"handler.go"}, EstimateMinutes: 45, DependsOn: []int{1}},
			{ID: 3, Title: "tests", Type: planning.TypeTest, Files: []string{"handler_test.go"}, EstimateMinutes: 20, DependsOn: []int{2}},
		},
		ExecutionStrategy:    planning.StrategySequential,
		TotalEstimateMinutes: 95,
	}
	if err := repo.SaveDecomposition(d); err != nil {
		t.Fatal(err)
	}
}

func TestHandleInit(t *testing.T) {
	server, _ := newTestServer(t)

	msg, err := server.handleInit(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if msg == "" {
		t.Error("expected confirmation message")
	}
}

func TestHandleGetDecomposition_Missing(t *testing.T) {
	server, _ := newTestServer(t)

	if _, err := server.handleGetDecomposition(context.Background(), struct{}{}); err == nil {
		t.Error("expected error when no decomposition exists")
	}
}

func TestHandleBuildPlanAndGetPlan(t *testing.T) {
	server, repo := newTestServer(t)
	seedDecomposition(t, repo)

	result, err := server.handleBuildPlan(context.Background(), BuildPlanArgs{})
	if err != nil {
		t.Fatal(err)
	}
	payload, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type %T", result)
	}
	plan, ok := payload["plan"].(*planning.ExecutionPlan)
	if !ok {
		t.Fatalf("unexpected plan type %T", payload["plan"])
	}
	if len(plan.Waves) != 3 {
		t.Errorf("waves = %d, want 3 sequential waves", len(plan.Waves))
	}

	loaded, err := server.handleGetPlan(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Error("expected persisted plan")
	}
}

func TestHandleValidateSizes(t *testing.T) {
	server, repo := newTestServer(t)
	seedDecomposition(t, repo)

	result, err := server.handleValidateSizes(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if msg, ok := result.(string); !ok || msg == "" {
		t.Errorf("expected all-clear message, got %v", result)
	}
}

func TestHandleCheckCoverage(t *testing.T) {
	server, repo := newTestServer(t)
	seedDecomposition(t, repo)

	// The seeded decomposition has a test task and a handler after the
	// migration, so no advisories fire.
	result, err := server.handleCheckCoverage(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if msg, ok := result.(string); !ok || msg == "" {
		t.Errorf("expected no-gaps message, got %v", result)
	}
}

func TestHandleRecordActual(t *testing.T) {
	server, _ := newTestServer(t)

	msg, err := server.handleRecordActual(context.Background(), RecordActualArgs{
		TaskTitle:       "auth middleware",
		EstimateMinutes: 60,
		ActualMinutes:   40,
	})
	if err != nil {
		t.Fatal(err)
	}
	if msg == "" {
		t.Error("expected confirmation message")
	}

	if _, err := server.handleRecordActual(context.Background(), RecordActualArgs{
		TaskTitle:       "bad",
		EstimateMinutes: 0,
		ActualMinutes:   10,
	}); err == nil {
		t.Error("expected error for non-positive estimate")
	}
}

func TestHandleUsageAndVerifyAudit(t *testing.T) {
	server, _ := newTestServer(t)

	stats, err := server.handleUsage(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if stats == nil {
		t.Error("expected zero-valued stats for fresh workspace")
	}

	msg, err := server.handleVerifyAudit(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Audit chain intact." {
		t.Errorf("verify = %q", msg)
	}
}

func TestHandleDecompose_EmptyRequest(t *testing.T) {
	server, _ := newTestServer(t)

	if _, err := server.handleDecompose(context.Background(), DecomposeArgs{}); err == nil {
		t.Error("expected error for empty request")
	}
}

func TestHandleRunEvalOpt_EmptyPrompt(t *testing.T) {
	server, _ := newTestServer(t)

	if _, err := server.handleRunEvalOpt(context.Background(), RunEvalOptArgs{}); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestServeHTTPReturnsCanceled(t *testing.T) {
	server, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := server.ServeHTTP(ctx, "127.0.0.1:0"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
