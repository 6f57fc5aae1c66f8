package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
	"github.com/felixgeelhaar/planwave/pkg/storage"
)

// chdirTemp moves the test into a fresh directory so commands operate
// on an isolated workspace.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

func TestInitCmd(t *testing.T) {
	dir := chdirTemp(t)

	if err := runCommand(t, "init"); err != nil {
		t.Fatal(err)
	}

	repo := storage.NewFilesystemRepository(dir)
	if !repo.IsInitialized() {
		t.Error("workspace not initialized")
	}

	// Re-init is a no-op, not an error.
	if err := runCommand(t, "init"); err != nil {
		t.Errorf("re-init: %v", err)
	}
}

func TestPolicySetAndShow(t *testing.T) {
	dir := chdirTemp(t)
	if err := runCommand(t, "init"); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "policy", "set", "--allow-ai=false", "--token-limit", "5000"); err != nil {
		t.Fatal(err)
	}

	repo := storage.NewFilesystemRepository(dir)
	policy, err := repo.LoadPolicy()
	if err != nil {
		t.Fatal(err)
	}
	if policy.AllowAI {
		t.Error("allow-ai flag not persisted")
	}
	if policy.TokenLimit != 5000 {
		t.Errorf("token limit = %d, want 5000", policy.TokenLimit)
	}

	if err := runCommand(t, "policy", "show"); err != nil {
		t.Fatal(err)
	}
}

func TestTasksValidateCmd(t *testing.T) {
	dir := chdirTemp(t)
	if err := runCommand(t, "init"); err != nil {
		t.Fatal(err)
	}

	repo := storage.NewFilesystemRepository(dir)
	d := &planning.Decomposition{
		Tasks: []planning.Task{
			{ID: 1, Title: "small", Type: planning.TypeFeature, Files: []string{"a.go"}, EstimateMinutes: 15},
		},
		ExecutionStrategy:    planning.StrategySequential,
		TotalEstimateMinutes: 15,
	}
	if err := repo.SaveDecomposition(d); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "tasks", "validate"); err != nil {
		t.Fatal(err)
	}
	if err := runCommand(t, "tasks", "list"); err != nil {
		t.Fatal(err)
	}
}

func TestCalibrateRecordAndFactor(t *testing.T) {
	chdirTemp(t)
	if err := runCommand(t, "init"); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "calibrate", "record", "--task", "auth", "--estimate", "60", "--actual", "30"); err != nil {
		t.Fatal(err)
	}
	if err := runCommand(t, "calibrate", "factor"); err != nil {
		t.Fatal(err)
	}
}

func TestPlanBuildCmd_NoDecomposition(t *testing.T) {
	chdirTemp(t)
	if err := runCommand(t, "init"); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "plan", "build"); err == nil {
		t.Error("expected error when no decomposition exists")
	}
}

func TestAuditVerifyCmd(t *testing.T) {
	chdirTemp(t)
	if err := runCommand(t, "init"); err != nil {
		t.Fatal(err)
	}

	// init writes one audit event, so the chain must verify.
	if err := runCommand(t, "audit", "verify"); err != nil {
		t.Fatal(err)
	}
	if err := runCommand(t, "audit", "log"); err != nil {
		t.Fatal(err)
	}
}

func TestMapError(t *testing.T) {
	if MapError(nil) != nil {
		t.Error("nil must map to nil")
	}

	err := MapError(os.ErrNotExist)
	cliErr, ok := err.(*CLIError)
	if !ok {
		t.Fatalf("expected *CLIError, got %T", err)
	}
	if cliErr.Hint == "" {
		t.Error("missing-file errors must carry a hint")
	}
}
