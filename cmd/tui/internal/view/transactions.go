package view

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type ledgerState int

const (
	ledgerStateTimeframe ledgerState = iota
	ledgerStateList
	ledgerStateEditing
)

var ledgerCategories = []string{
	transaction.CategoryRent,
	transaction.CategoryDeposit,
	transaction.CategoryLateFee,
	transaction.CategoryMaintenance,
	transaction.CategoryUtilities,
	transaction.CategoryInsurance,
	transaction.CategoryTaxes,
	transaction.CategoryMortgage,
	"Other",
}

// txItem wraps a ledger entry to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	status := faintStyle.Render(fmt.Sprintf("[%s]", i.tx.Status))

	return fmt.Sprintf("%s  %10s  %-16s %s  %s",
		FormatDate(i.tx.Date), FormatAmount(i.tx.Signed()), i.tx.Category, status, i.label())
}

func (i txItem) Description() string {
	if i.tx.Receipt != nil {
		return "Receipt: " + i.tx.Receipt.URL
	}

	return ""
}

func (i txItem) FilterValue() string {
	return i.tx.Category + " " + i.label()
}

func (i txItem) label() string {
	if i.tx.Description != "" {
		return i.tx.Description
	}

	return i.tx.RawDescription
}

type LedgerModel struct {
	CommonModel
	txService         *transaction.Service
	categorizeService *categorize.Service

	state           ledgerState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	txs             []*transaction.Transaction
	totals          transaction.Totals
	selectedTx      *transaction.Transaction

	startDate time.Time
	endDate   time.Time
	allTime   bool
	loading   bool
	status    string

	fields *ledgerFields
}

// ledgerFields holds the edit form bindings. It lives behind a pointer so the
// form keeps writing to it after the model is copied.
type ledgerFields struct {
	desc      string
	category  string
	url       string
	noReceipt bool
	learn     bool
}

func NewLedgerModel(txSvc *transaction.Service, catSvc *categorize.Service) LedgerModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Ledger"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return LedgerModel{
		txService:         txSvc,
		categorizeService: catSvc,
		timeframePicker:   NewTimeframePicker(TimeframeThisMonth),
		list:              l,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerStateList:
		return "Esc: back | Enter: edit | /: filter"
	case ledgerStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | Enter: select"
}

func (m LedgerModel) Init() tea.Cmd {
	return nil
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.loading = true
		m.state = ledgerStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.totals = msg.totals
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No ledger entries in this period."
		}

		return m, nil

	case suggestionMsg:
		return m.openForm(msg.suggestion)

	case saveTxResultMsg:
		m.state = ledgerStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = "Saved."

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil
	}

	switch m.state {
	case ledgerStateTimeframe:
		return m.updateTimeframe(msg)
	case ledgerStateList:
		return m.updateList(msg)
	case ledgerStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m LedgerModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m LedgerModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = ledgerStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case tea.KeyEnter:
			selected, ok := m.list.SelectedItem().(txItem)
			if !ok {
				return m, nil
			}

			m.selectedTx = selected.tx

			return m, m.suggestCmd(selected.tx)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// openForm prefills empty fields with the learned or guessed suggestion.
func (m LedgerModel) openForm(sug categorize.Suggestion) (tea.Model, tea.Cmd) {
	tx := m.selectedTx

	f := &ledgerFields{
		desc:      tx.Description,
		category:  tx.Category,
		noReceipt: tx.Status == transaction.StatusNoReceipt,
		learn:     tx.RawDescription != "",
	}

	if tx.Receipt != nil {
		f.url = tx.Receipt.URL
	}

	if f.desc == "" {
		f.desc = sug.Description
	}

	if f.desc == "" {
		f.desc = tx.RawDescription
	}

	if f.category == "" {
		f.category = sug.Category
	}

	options := huh.NewOptions(ledgerCategories...)
	if f.category != "" && !slices.Contains(ledgerCategories, f.category) {
		options = append([]huh.Option[string]{huh.NewOption(f.category, f.category)}, options...)
	}

	m.fields = f

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.desc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&f.category),

			huh.NewInput().
				Key("receipt_url").
				Title("Receipt URL (optional)").
				Placeholder("https://...").
				Value(&f.url),

			huh.NewConfirm().
				Key("no_receipt").
				Title("No receipt needed?").
				Affirmative("Yes").
				Negative("No").
				Value(&f.noReceipt),

			huh.NewConfirm().
				Key("learn").
				Title("Remember this for similar bank lines?").
				Affirmative("Yes").
				Negative("No").
				Value(&f.learn),
		),
	).WithWidth(56).WithShowHelp(false)

	m.state = ledgerStateEditing

	return m, m.form.Init()
}

func (m LedgerModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ledgerStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveTxCmd()
}

func (m LedgerModel) View() string {
	switch m.state {
	case ledgerStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case ledgerStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
		}

		header := fmt.Sprintf("Income %s | Expenses %s | Net %s",
			activeStyle(FormatAmount(m.totals.Income)),
			activeStyle(FormatAmount(m.totals.Expense)),
			activeStyle(FormatAmount(m.totals.Net())),
		)

		if m.status != "" {
			header = faintStyle.Render(m.status) + "\n" + header
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.list.View())

	case ledgerStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m LedgerModel) txInfoView() string {
	if m.selectedTx == nil {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Type: %s  |  Amount: %s\nBank line: %s",
			FormatDate(m.selectedTx.Date),
			m.selectedTx.Type,
			FormatAmount(m.selectedTx.Amount),
			m.selectedTx.RawDescription,
		))
}

func (m *LedgerModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs    []*transaction.Transaction
	totals transaction.Totals
	err    error
}

func (m LedgerModel) loadTxsCmd() tea.Cmd {
	filter := transaction.ListFilter{}

	if !m.allTime {
		start, end := m.startDate, m.endDate
		filter.StartDate = &start
		filter.EndDate = &end
	}

	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, filter)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		totals, err := svc.Totals(ctx, filter)

		return loadTxsMsg{txs: txs, totals: totals, err: err}
	}
}

type suggestionMsg struct {
	suggestion categorize.Suggestion
}

// suggestCmd looks up a suggestion for the bank line. A failed lookup opens
// the form without one.
func (m LedgerModel) suggestCmd(tx *transaction.Transaction) tea.Cmd {
	svc := m.categorizeService
	raw := tx.RawDescription

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sug, _ := svc.Suggest(ctx, raw)

		return suggestionMsg{suggestion: sug}
	}
}

type saveTxResultMsg struct {
	err error
}

func (m LedgerModel) saveTxCmd() tea.Cmd {
	var (
		tx        = m.selectedTx
		desc      = strings.TrimSpace(m.fields.desc)
		category  = m.fields.category
		url       = strings.TrimSpace(m.fields.url)
		noReceipt = m.fields.noReceipt
		learn     = m.fields.learn
		txSvc     = m.txService
		catSvc    = m.categorizeService
	)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if learn && tx.RawDescription != "" {
			_ = catSvc.Learn(ctx, tx.RawDescription, categorize.Suggestion{Category: category, Description: desc})
		}

		tx.Description = desc
		tx.Category = category

		switch {
		case noReceipt:
			tx.Status = transaction.StatusNoReceipt
		case url == "" && tx.Type == transaction.TypeExpense && tx.Status != transaction.StatusCompleted:
			tx.Status = transaction.StatusPendingReceipt
		}

		if err := txSvc.Update(ctx, tx); err != nil {
			return saveTxResultMsg{err: err}
		}

		if url != "" && !noReceipt {
			if err := txSvc.AttachReceipt(ctx, tx.ID, url); err != nil {
				return saveTxResultMsg{err: err}
			}
		}

		return saveTxResultMsg{}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	desc := i.Description()
	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", faintStyle.Render(desc))
}
