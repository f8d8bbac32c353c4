// Package review is the interactive plan approval UI. It presents a
// generated plan and lets the user approve it, request changes with
// free-text feedback, or reject it outright.
package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hbarrett/planwright/internal/plan"
)

// Action is the user's verdict on a plan.
type Action string

const (
	// ActionApprove proceeds with the plan as shown.
	ActionApprove Action = "approve"
	// ActionModify requests a revision with the attached feedback.
	ActionModify Action = "modify"
	// ActionReject aborts the workflow.
	ActionReject Action = "reject"
)

// Decision is the outcome of one review round.
type Decision struct {
	Action   Action
	Feedback string
}

var (
	primaryColor = lipgloss.Color("#A78BFA")
	mutedColor   = lipgloss.Color("#9CA3AF")
	greenColor   = lipgloss.Color("#10B981")
	amberColor   = lipgloss.Color("#F59E0B")
	redColor     = lipgloss.Color("#F87171")
	borderColor  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	approveStyle = lipgloss.NewStyle().Foreground(greenColor)
	modifyStyle  = lipgloss.NewStyle().Foreground(amberColor)
	rejectStyle  = lipgloss.NewStyle().Foreground(redColor)

	feedbackBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(borderColor).
				Padding(1, 2)
)

// Model is the Bubbletea model for the plan review UI.
type Model struct {
	plan *plan.Plan

	decision    Decision
	decided     bool
	showDetails bool
	showHelp    bool
	editing     bool
	feedback    textarea.Model

	width    int
	quitting bool
}

// NewModel creates a review model for the given plan.
func NewModel(p *plan.Plan) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe what should change: files, phases, dependencies..."
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.CharLimit = 2000

	return Model{
		plan:     p,
		feedback: ta,
	}
}

// Decision returns the user's verdict once one was made.
func (m Model) Decision() (Decision, bool) {
	return m.decision, m.decided
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "enter":
		m.decision = Decision{Action: ActionApprove}
		m.decided = true
		m.quitting = true
		return m, tea.Quit

	case "m":
		m.editing = true
		m.feedback.Reset()
		m.feedback.Focus()
		return m, textarea.Blink

	case "r", "q", "ctrl+c":
		m.decision = Decision{Action: ActionReject}
		m.decided = true
		m.quitting = true
		return m, tea.Quit

	case "d":
		m.showDetails = !m.showDetails
		return m, nil

	case "h", "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.feedback.Blur()
		return m, nil

	case "ctrl+d":
		text := strings.TrimSpace(m.feedback.Value())
		if text == "" {
			// Nothing to revise against, stay in the editor
			return m, nil
		}
		m.decision = Decision{Action: ActionModify, Feedback: text}
		m.decided = true
		m.quitting = true
		return m, tea.Quit

	case "ctrl+c":
		m.decision = Decision{Action: ActionReject}
		m.decided = true
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.feedback, cmd = m.feedback.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Generated Implementation Plan"))
	b.WriteString("\n")
	b.WriteString(m.renderSummary())

	if m.showDetails {
		b.WriteString("\n")
		b.WriteString(m.renderDetails())
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.renderFeedbackEditor())
	} else if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderHelp())
	}

	b.WriteString("\n")
	b.WriteString(m.renderActionBar())
	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder

	info := m.plan.ProjectInfo
	fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render("Project:"), info.Name)
	fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render("Type:"), info.Type)
	fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render("Language:"), info.Language)
	fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render("Description:"), info.Description)
	b.WriteString("\n")

	phases := m.plan.SortedPhases()
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Phases (%d)", len(phases))))
	b.WriteString("\n")
	for _, phase := range phases {
		fmt.Fprintf(&b, "  %d. %s", phase.PhaseID, phase.Name)
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d files)", len(phase.FilesToCreate))))
		if len(phase.Dependencies) > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  depends on %v", phase.Dependencies)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetails() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Structure"))
	b.WriteString("\n")
	b.WriteString(m.plan.OverallStructure)
	b.WriteString("\n\n")

	for _, phase := range m.plan.SortedPhases() {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Phase %d: %s", phase.PhaseID, phase.Name)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(phase.Description))
		b.WriteString("\n")
		for _, f := range phase.FilesToCreate {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
		if len(phase.AcceptanceCriteria) > 0 {
			b.WriteString(mutedStyle.Render("  Acceptance criteria:"))
			b.WriteString("\n")
			for _, c := range phase.AcceptanceCriteria {
				fmt.Fprintf(&b, "    * %s\n", c)
			}
		}
	}
	return b.String()
}

func (m Model) renderFeedbackEditor() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Plan Modification Request"))
	b.WriteString("\n")
	b.WriteString(feedbackBoxStyle.Render(m.feedback.View()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("ctrl+d to submit, esc to cancel"))
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Commands"))
	b.WriteString("\n")
	b.WriteString("  a / enter   approve the plan and start execution\n")
	b.WriteString("  m           request modifications with feedback\n")
	b.WriteString("  r / q       reject the plan and exit\n")
	b.WriteString("  d           toggle detailed phase breakdown\n")
	b.WriteString("  h / ?       toggle this help\n")
	return b.String()
}

func (m Model) renderActionBar() string {
	parts := []string{
		approveStyle.Render("[a]pprove"),
		modifyStyle.Render("[m]odify"),
		rejectStyle.Render("[r]eject"),
		mutedStyle.Render("[d]etails"),
		mutedStyle.Render("[h]elp"),
	}
	return strings.Join(parts, "  ")
}

// Run presents the plan and blocks until the user decides. A closed
// input stream counts as a rejection.
func Run(p *plan.Plan) (Decision, error) {
	program := tea.NewProgram(NewModel(p))
	final, err := program.Run()
	if err != nil {
		return Decision{}, err
	}

	m, ok := final.(Model)
	if !ok {
		return Decision{Action: ActionReject}, nil
	}
	if decision, decided := m.Decision(); decided {
		return decision, nil
	}
	return Decision{Action: ActionReject}, nil
}
