package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

type workOrderState int

const (
	workOrderStateBrowse workOrderState = iota
	workOrderStateEdit
)

var (
	statusFilters   = []workorder.Status{"", workorder.StatusOpen, workorder.StatusInProgress, workorder.StatusCompleted, workorder.StatusClosed}
	priorityFilters = []workorder.Priority{"", workorder.PriorityUrgent, workorder.PriorityHigh, workorder.PriorityMedium, workorder.PriorityLow}
)

// WorkOrderModel is the maintenance board.
type WorkOrderModel struct {
	CommonModel
	workOrderService *workorder.Service

	state  workOrderState
	table  table.Model
	orders []*workorder.WorkOrder
	form   *huh.Form
	fields *workOrderFields

	statusFilterIdx   int
	priorityFilterIdx int

	filter  workorder.ListFilter
	loading bool
	err     error
	status  string
}

type workOrderFields struct {
	status     string
	assignedTo string
	actualCost string
}

func NewWorkOrderModel(svc *workorder.Service) WorkOrderModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Submitted", Width: 12},
			{Title: "Priority", Width: 8},
			{Title: "Status", Width: 12},
			{Title: "Unit", Width: 6},
			{Title: "Title", Width: 32},
			{Title: "Assigned", Width: 16},
			{Title: "Due", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return WorkOrderModel{
		workOrderService: svc,
		table:            t,
		statusFilterIdx:  1,
		filter:           workorder.ListFilter{Status: new(workorder.StatusOpen)},
		loading:          true,
	}
}

func (m WorkOrderModel) Title() string { return "Work Orders" }

func (m WorkOrderModel) ShortHelp() string {
	if m.state == workOrderStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | s: status filter | p: priority filter | r: refresh"
}

func (m WorkOrderModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m WorkOrderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadWorkOrdersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.orders = msg.orders
		m.refreshTable()

		return m, nil

	case workOrderSaveMsg:
		m.status = "Saved."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = workOrderStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == workOrderStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m WorkOrderModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadCmd()
		case "p":
			m.priorityFilterIdx = (m.priorityFilterIdx + 1) % len(priorityFilters)
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m WorkOrderModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return m, nil
	}

	w := m.orders[idx]
	f := &workOrderFields{status: string(w.Status), assignedTo: w.AssignedTo}

	if w.ActualCost > 0 {
		f.actualCost = FormatAmount(w.ActualCost)
	}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Status").
				Options(
					huh.NewOption("Open", string(workorder.StatusOpen)),
					huh.NewOption("In progress", string(workorder.StatusInProgress)),
					huh.NewOption("Completed", string(workorder.StatusCompleted)),
					huh.NewOption("Closed", string(workorder.StatusClosed)),
				).
				Value(&f.status),

			huh.NewInput().
				Key("assigned_to").
				Title("Assigned to").
				Placeholder("Vendor or staff member").
				Value(&f.assignedTo),

			huh.NewInput().
				Key("actual_cost").
				Title("Actual cost").
				Placeholder("0.00").
				Value(&f.actualCost).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					_, err := importer.ParseAmount(s)

					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = workOrderStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m WorkOrderModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = workOrderStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m WorkOrderModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading work orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [p] Priority: %s",
		activeStyle(filterLabel(string(statusFilters[m.statusFilterIdx]))),
		activeStyle(filterLabel(string(priorityFilters[m.priorityFilterIdx]))),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == workOrderStateEdit && m.form != nil {
		detail := ""
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.orders) {
			w := m.orders[idx]
			detail = fmt.Sprintf("%s\n%s\nEstimate: %s", w.Title, w.Description, FormatAmount(w.EstimatedCost))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Update Work Order\n\n%s\n\n%s", detail, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func filterLabel(v string) string {
	if v == "" {
		return "All"
	}

	return strings.ReplaceAll(v, "_", " ")
}

func (m *WorkOrderModel) applyFilter() {
	m.filter.Status = nil
	if s := statusFilters[m.statusFilterIdx]; s != "" {
		m.filter.Status = &s
	}

	m.filter.Priority = nil
	if p := priorityFilters[m.priorityFilterIdx]; p != "" {
		m.filter.Priority = &p
	}
}

func (m *WorkOrderModel) refreshTable() {
	now := time.Now()
	rows := make([]table.Row, 0, len(m.orders))

	for _, w := range m.orders {
		due := FormatOptionalDate(w.DueDate)
		if w.Overdue(now) {
			due += " !"
		}

		rows = append(rows, table.Row{
			FormatDate(w.SubmittedDate),
			string(w.Priority),
			string(w.Status),
			w.Unit,
			w.Title,
			w.AssignedTo,
			due,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadWorkOrdersMsg struct {
	orders []*workorder.WorkOrder
	err    error
}

func (m WorkOrderModel) loadCmd() tea.Cmd {
	svc, filter := m.workOrderService, m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		orders, err := svc.List(ctx, filter)

		return loadWorkOrdersMsg{orders: orders, err: err}
	}
}

type workOrderSaveMsg struct {
	err error
}

// saveCmd writes the edited fields. The service stamps the completion date
// when the status leaves the active set.
func (m WorkOrderModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return nil
	}

	w, f, svc := m.orders[idx], *m.fields, m.workOrderService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		w.AssignedTo = strings.TrimSpace(f.assignedTo)

		if cost := strings.TrimSpace(f.actualCost); cost != "" {
			cents, err := importer.ParseAmount(cost)
			if err != nil {
				return workOrderSaveMsg{err: err}
			}

			w.ActualCost = cents
		}

		w.Status = workorder.Status(f.status)

		return workOrderSaveMsg{err: svc.Update(ctx, w)}
	}
}
