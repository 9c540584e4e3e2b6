package view

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	"github.com/MrJamesThe3rd/tenantry/internal/screening"
)

type reviewState int

const (
	reviewStateQueue reviewState = iota
	reviewStateDetail
	reviewStateDecide
	reviewStateEdit
)

// reviewQueue is the set of application statuses still waiting on the manager.
var reviewQueue = []application.Status{application.StatusSubmitted, application.StatusScreening}

// ReviewModel is the screening desk: pick an open application, look at its
// screening and record a decision.
type ReviewModel struct {
	CommonModel
	appService       *application.Service
	screeningService *screening.Service
	reviewer         string

	state   reviewState
	table   table.Model
	apps    []*application.Application
	current *application.Application
	scr     *screening.Screening

	form     *huh.Form
	decision *decisionFields
	fields   *sectionFields
	section  section

	loading bool
	status  string
}

type decisionFields struct {
	decision string
	reason   string
	confirm  bool
}

func NewReviewModel(appSvc *application.Service, scrSvc *screening.Service, reviewer string) ReviewModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Submitted", Width: 12},
			{Title: "Applicant", Width: 24},
			{Title: "Unit", Width: 8},
			{Title: "Income/mo", Width: 12},
			{Title: "Status", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return ReviewModel{
		appService:       appSvc,
		screeningService: scrSvc,
		reviewer:         reviewer,
		table:            t,
		loading:          true,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m ReviewModel) Title() string { return "Screening Review" }

func (m ReviewModel) ShortHelp() string {
	switch m.state {
	case reviewStateDetail:
		return "e: credit | i: income | c: complete | d: decide | n: adverse action notice | Esc: back"
	case reviewStateDecide, reviewStateEdit:
		return "Esc: cancel"
	}

	return "Enter: open | r: refresh | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadQueueCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.apps = msg.apps
		m.refreshTable()

		if len(m.apps) == 0 {
			m.status = "No applications waiting for review."
		}

		return m, nil

	case screeningMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.scr = msg.scr
		m.state = reviewStateDetail
		m.status = msg.note

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case reviewStateQueue:
		return m.updateQueue(msg)
	case reviewStateDetail:
		return m.updateDetail(msg)
	case reviewStateDecide:
		return m.updateDecide(msg)
	case reviewStateEdit:
		return m.updateSection(msg)
	}

	return m, nil
}

func (m ReviewModel) updateQueue(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadQueueCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.apps) {
				return m, nil
			}

			m.current = m.apps[idx]
			m.loading = true

			return m, m.startCmd(m.current)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReviewModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.scr == nil {
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.state = reviewStateQueue
		m.scr = nil
		m.status = ""
		m.loading = true

		return m, m.loadQueueCmd()
	case "c":
		return m, m.completeCmd(m.scr)
	case "n":
		return m, m.adverseActionCmd(m.scr)
	case "d":
		return m.openDecision()
	case "e":
		return m.openSection(sectionCredit)
	case "i":
		return m.openSection(sectionIncome)
	}

	return m, nil
}

func (m ReviewModel) openDecision() (tea.Model, tea.Cmd) {
	f := &decisionFields{decision: string(m.scr.Recommendation)}
	if f.decision == string(screening.RecommendReject) {
		f.decision = string(screening.DecisionRejected)
	}

	if f.decision == string(screening.RecommendApprove) {
		f.decision = string(screening.DecisionApproved)
	}

	m.decision = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("decision").
				Title("Decision").
				Options(
					huh.NewOption("Approve", string(screening.DecisionApproved)),
					huh.NewOption("Approve with conditions", string(screening.DecisionConditional)),
					huh.NewOption("Reject", string(screening.DecisionRejected)),
				).
				Value(&f.decision),

			huh.NewText().
				Key("reason").
				Title("Reason").
				Value(&f.reason),

			huh.NewConfirm().
				Key("confirm").
				Title("Record this decision? The applicant is notified.").
				Affirmative("Record").
				Negative("Cancel").
				Value(&f.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = reviewStateDecide

	return m, m.form.Init()
}

func (m ReviewModel) updateDecide(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = reviewStateDetail
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = reviewStateDetail
		m.form = nil

		if !m.decision.confirm {
			m.status = "Decision not recorded."
			return m, nil
		}

		return m, m.decideCmd(m.scr, *m.decision)
	case huh.StateAborted:
		m.state = reviewStateDetail
		m.form = nil
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	switch m.state {
	case reviewStateDetail:
		return lipgloss.NewStyle().Padding(1).Render(m.detailView())
	case reviewStateDecide, reviewStateEdit:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinHorizontal(lipgloss.Top, m.detailView(), "  ", m.form.View()),
		)
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ReviewModel) detailView() string {
	a, s := m.current, m.scr
	if a == nil || s == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s  <%s>\n", lipgloss.NewStyle().Bold(true).Render(a.FullName()), a.Email)
	fmt.Fprintf(&b, "Unit %s, move-in %s, %d month lease\n", a.DesiredUnit, FormatOptionalDate(a.DesiredMoveInDate), a.LeaseTerm)
	fmt.Fprintf(&b, "Income: %s/mo\n\n", FormatDollars(a.TotalMonthlyIncome()))

	fmt.Fprintf(&b, "Screening: %s (%d%% done)\n", s.Status, s.CompletionPercentage())
	fmt.Fprintf(&b, "Score: %s\n", activeStyle(fmt.Sprintf("%d/100", s.OverallScore)))
	fmt.Fprintf(&b, "Recommendation: %s\n", activeStyle(string(s.Recommendation)))
	fmt.Fprintf(&b, "Credit: %s, score %s\n", s.CreditCheck.Status, creditScoreLabel(s.CreditCheck.CreditScore))

	if inc := s.IncomeVerification; inc.ProposedRent > 0 {
		fmt.Fprintf(&b, "Rent-to-income: %.1f%% of %s\n", inc.RentToIncomeRatio, FormatDollars(inc.MonthlyIncome+inc.AdditionalIncome))
	}

	if s.RecommendationReason != "" {
		fmt.Fprintf(&b, "  %s\n", s.RecommendationReason)
	}

	for _, c := range s.Conditions {
		fmt.Fprintf(&b, "  - %s\n", c)
	}

	if s.Decision != "" {
		fmt.Fprintf(&b, "\nDecision: %s by %s on %s\n", s.Decision, s.DecisionBy, FormatOptionalDate(s.DecisionDate))

		if s.AdverseActionRequired {
			fmt.Fprintf(&b, "Adverse action notice sent: %s\n", FormatOptionalDate(s.AdverseActionSentDate))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + faintStyle.Render(m.status) + "\n")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Width(64).
		Render(b.String())
}

func creditScoreLabel(score *int) string {
	if score == nil {
		return "-"
	}

	return strconv.Itoa(*score)
}

func (m *ReviewModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.apps))
	for _, a := range m.apps {
		rows = append(rows, table.Row{
			FormatDate(a.SubmittedDate),
			a.FullName(),
			a.DesiredUnit,
			FormatDollars(a.TotalMonthlyIncome()),
			string(a.Status),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadQueueMsg struct {
	apps []*application.Application
	err  error
}

func (m ReviewModel) loadQueueCmd() tea.Cmd {
	svc := m.appService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var apps []*application.Application

		for _, status := range reviewQueue {
			batch, err := svc.List(ctx, application.ListFilter{Status: new(status)})
			if err != nil {
				return loadQueueMsg{err: err}
			}

			apps = append(apps, batch...)
		}

		slices.SortFunc(apps, func(a, b *application.Application) int {
			return a.SubmittedDate.Compare(b.SubmittedDate)
		})

		return loadQueueMsg{apps: apps}
	}
}

type screeningMsg struct {
	scr  *screening.Screening
	note string
	err  error
}

func (m ReviewModel) startCmd(a *application.Application) tea.Cmd {
	svc := m.screeningService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		scr, err := svc.Start(ctx, a.ID)

		return screeningMsg{scr: scr, err: err}
	}
}

func (m ReviewModel) completeCmd(scr *screening.Screening) tea.Cmd {
	svc, reviewer := m.screeningService, m.reviewer

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		out, err := svc.Complete(ctx, scr.ID, reviewer)
		if err != nil {
			return screeningMsg{scr: scr, note: fmt.Sprintf("Cannot complete: %v", err)}
		}

		return screeningMsg{scr: out, note: "Screening completed."}
	}
}

func (m ReviewModel) decideCmd(scr *screening.Screening, f decisionFields) tea.Cmd {
	svc, reviewer := m.screeningService, m.reviewer

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		out, err := svc.Decide(ctx, scr.ID, screening.DecisionParams{
			Decision:  screening.Decision(f.decision),
			Reason:    strings.TrimSpace(f.reason),
			DecidedBy: reviewer,
		})
		if err != nil {
			return screeningMsg{scr: scr, note: fmt.Sprintf("Cannot record decision: %v", err)}
		}

		return screeningMsg{scr: out, note: "Decision recorded."}
	}
}

func (m ReviewModel) adverseActionCmd(scr *screening.Screening) tea.Cmd {
	svc := m.screeningService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		out, err := svc.SendAdverseAction(ctx, scr.ID)
		if err != nil {
			return screeningMsg{scr: scr, note: fmt.Sprintf("Cannot send notice: %v", err)}
		}

		return screeningMsg{scr: out, note: "Adverse action notice sent."}
	}
}
