package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

// ReceiptModel walks the expenses still waiting for a receipt, oldest first.
type ReceiptModel struct {
	CommonModel
	txService *transaction.Service

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction

	urlInput textinput.Model

	loading    bool
	status     string
	totalCount int
}

func NewReceiptModel(txSvc *transaction.Service) ReceiptModel {
	ti := textinput.New()
	ti.Placeholder = "https://docs.example.com/receipt.pdf"
	ti.Width = 60

	return ReceiptModel{
		txService: txSvc,
		urlInput:  ti,
		loading:   true,
	}
}

func (m ReceiptModel) Title() string { return "Pending Receipts" }

func (m ReceiptModel) ShortHelp() string {
	return "Enter: attach | ctrl+n: no receipt | ctrl+s: skip | Esc: back"
}

func (m ReceiptModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m ReceiptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if m.currentTx == nil {
				return m, nil
			}

			if strings.TrimSpace(m.urlInput.Value()) == "" {
				m.status = "Enter a receipt URL, or ctrl+n if there is none."
				return m, nil
			}

			return m, m.attachCmd(m.currentTx, m.urlInput.Value())
		case "ctrl+n":
			if m.currentTx != nil {
				return m, m.markNoReceiptCmd(m.currentTx)
			}
		case "ctrl+s":
			m.nextTx()
			return m, nil
		}

	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)
		m.nextTx()

		return m, textinput.Blink

	case receiptActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.nextTx()

		return m, nil
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)

	return m, cmd
}

func (m ReceiptModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading pending receipts...")
	}

	if m.currentTx == nil {
		if m.totalCount == 0 && m.status == "" {
			return style.Render("No expenses are waiting for a receipt.\n\n(Esc to back)")
		}

		return style.Render(m.status + "\n\n(Esc to back)")
	}

	tx := m.currentTx
	info := fmt.Sprintf(
		"Date: %s\nCategory: %s\nDescription: %s\nAmount: %s\n",
		FormatDate(tx.Date),
		tx.Category,
		tx.Description,
		FormatAmount(tx.Amount),
	)

	status := ""
	if m.status != "" {
		status = faintStyle.Render(m.status) + "\n\n"
	}

	return style.Render(
		fmt.Sprintf("%sPending receipt (%d of %d)\n\n%s\nReceipt URL:\n%s\n\n(%s)",
			status, m.totalCount-len(m.queue), m.totalCount, info, m.urlInput.View(), m.ShortHelp()),
	)
}

func (m *ReceiptModel) nextTx() {
	m.urlInput.SetValue("")

	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done!"
		m.urlInput.Blur()

		return
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.status = ""
	m.urlInput.Focus()
}

type loadPendingMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReceiptModel) loadPendingCmd() tea.Cmd {
	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, transaction.ListFilter{Status: new(transaction.StatusPendingReceipt)})
		if err != nil {
			return loadPendingMsg{err: err}
		}

		// Listed newest first.
		slices.Reverse(txs)

		return loadPendingMsg{txs: txs}
	}
}

type receiptActionMsg struct {
	err error
}

func (m ReceiptModel) attachCmd(tx *transaction.Transaction, url string) tea.Cmd {
	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return receiptActionMsg{err: svc.AttachReceipt(ctx, tx.ID, strings.TrimSpace(url))}
	}
}

func (m ReceiptModel) markNoReceiptCmd(tx *transaction.Transaction) tea.Cmd {
	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return receiptActionMsg{err: svc.UpdateStatus(ctx, tx.ID, transaction.StatusNoReceipt)}
	}
}
