package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planwave/pkg/storage"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI view of the execution plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("PLANWAVE_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(initialModel())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
var advisoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

type model struct {
	table      table.Model
	strategy   string
	waves      int
	calibrated int
	team       bool
	conflicts  []string
	advisories []string
	err        error
}

func initialModel() model {
	cwd, _ := os.Getwd()
	repo := storage.NewFilesystemRepository(cwd)

	plan, err := repo.LoadPlan()
	if err != nil {
		return model{err: err}
	}

	columns := []table.Column{
		{Title: "Wave", Width: 6},
		{Title: "ID", Width: 4},
		{Title: "Type", Width: 10},
		{Title: "Task", Width: 42},
		{Title: "Est (min)", Width: 9},
	}

	rows := []table.Row{}
	var conflicts []string
	for _, w := range plan.Waves {
		if w.IsReviewCheckpoint {
			rows = append(rows, table.Row{fmt.Sprintf("%d", w.WaveNumber), "", "", "REVIEW CHECKPOINT", ""})
			continue
		}
		for _, t := range w.Tasks {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", w.WaveNumber),
				fmt.Sprintf("%d", t.ID),
				string(t.Type),
				t.Title,
				fmt.Sprintf("%.0f", t.EstimateMinutes),
			})
		}
		conflicts = append(conflicts, w.FileConflicts...)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	return model{
		table:      t,
		strategy:   string(plan.Strategy),
		waves:      len(plan.Waves),
		calibrated: plan.CalibratedEstimateMinutes,
		team:       plan.RecommendTeam,
		conflicts:  conflicts,
		advisories: plan.Advisories,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("No plan found: %v\nRun 'planwave plan build' first. Press q to quit.\n", m.err)
	}

	header := headerStyle.Render(fmt.Sprintf("planwave: %d waves, %s, %d min calibrated", m.waves, m.strategy, m.calibrated))

	teamLine := "Solo dispatch is fine."
	if m.team {
		teamLine = "Team dispatch recommended: parallel waves present."
	}

	statusView := okStyle.Render("\nNo file conflicts.")
	if len(m.conflicts) > 0 {
		var b strings.Builder
		b.WriteString("\nFILE CONFLICTS:\n")
		for _, c := range m.conflicts {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		statusView = conflictStyle.Render(b.String())
	}

	advisoryView := ""
	if len(m.advisories) > 0 {
		var b strings.Builder
		b.WriteString("\nADVISORIES:\n")
		for _, a := range m.advisories {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		advisoryView = advisoryStyle.Render(b.String())
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			teamLine,
			"",
			m.table.View(),
			statusView,
			advisoryView,
			"\n[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}
