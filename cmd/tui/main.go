package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tenantry/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tenantry/internal/application"
	applicationStore "github.com/MrJamesThe3rd/tenantry/internal/application/store"
	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/tenantry/internal/categorize/store"
	"github.com/MrJamesThe3rd/tenantry/internal/config"
	"github.com/MrJamesThe3rd/tenantry/internal/database"
	"github.com/MrJamesThe3rd/tenantry/internal/document"
	documentStore "github.com/MrJamesThe3rd/tenantry/internal/document/store"
	"github.com/MrJamesThe3rd/tenantry/internal/export"
	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/notify"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	propertyStore "github.com/MrJamesThe3rd/tenantry/internal/property/store"
	"github.com/MrJamesThe3rd/tenantry/internal/screening"
	screeningStore "github.com/MrJamesThe3rd/tenantry/internal/screening/store"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	tenantStore "github.com/MrJamesThe3rd/tenantry/internal/tenant/store"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tenantry/internal/transaction/store"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
	workOrderStore "github.com/MrJamesThe3rd/tenantry/internal/workorder/store"
)

type services struct {
	tx          *transaction.Service
	categorize  *categorize.Service
	importer    *importer.Service
	export      *export.Service
	application *application.Service
	screening   *screening.Service
	workOrder   *workorder.Service
	reviewer    string
}

type View int

const (
	ViewMenu View = iota
	ViewImport
	ViewLedger
	ViewReceipts
	ViewReview
	ViewWorkOrders
	ViewExport
)

var menu = []struct {
	key   string
	view  View
	label string
}{
	{"1", ViewImport, "Import CSV"},
	{"2", ViewLedger, "Ledger"},
	{"3", ViewReceipts, "Pending Receipts"},
	{"4", ViewReview, "Screening Review"},
	{"5", ViewWorkOrders, "Work Orders"},
	{"6", ViewExport, "Export Packet"},
}

type model struct {
	svc  services
	name string

	currentView View
	active      view.View
}

func newServices(cfg *config.Config) (services, error) {
	db, err := database.New(cfg.ConnectionString(), database.Options{
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		ConnLifetime: cfg.DB.ConnLifetime,
	})
	if err != nil {
		return services{}, fmt.Errorf("connecting to database: %w", err)
	}

	var notifier notify.Sender = notify.Log{}
	if cfg.MailEnabled() {
		mailer, err := notify.NewMailer(notify.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		})
		if err != nil {
			return services{}, fmt.Errorf("creating mailer: %w", err)
		}

		notifier = mailer
	}

	var (
		tenantSvc      = tenant.NewService(tenantStore.New(db))
		txSvc          = transaction.NewService(txStore.New(db))
		categorizeSvc  = categorize.NewService(categorizeStore.New(db))
		applicationSvc = application.NewService(applicationStore.New(db), tenantSvc)
	)

	return services{
		tx:          txSvc,
		categorize:  categorizeSvc,
		importer:    importer.NewService(txSvc, tenantSvc, property.NewService(propertyStore.New(db)), categorizeSvc),
		export:      export.NewService(document.NewService(documentStore.New(db)), txSvc, cfg.Documents.Token),
		application: applicationSvc,
		screening: screening.NewService(screeningStore.New(db), applicationSvc,
			screening.WithNotifier(notifier),
			screening.WithReviewer(cfg.Screening.Reviewer),
		),
		workOrder: workorder.NewService(workOrderStore.New(db)),
		reviewer:  cfg.Screening.Reviewer,
	}, nil
}

func (m model) open(v View) view.View {
	switch v {
	case ViewImport:
		return view.NewImportModel(m.svc.tx, m.svc.importer)
	case ViewLedger:
		return view.NewLedgerModel(m.svc.tx, m.svc.categorize)
	case ViewReceipts:
		return view.NewReceiptModel(m.svc.tx)
	case ViewReview:
		return view.NewReviewModel(m.svc.application, m.svc.screening, m.svc.reviewer)
	case ViewWorkOrders:
		return view.NewWorkOrderModel(m.svc.workOrder)
	case ViewExport:
		return view.NewExportModel(m.svc.export)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, item := range menu {
				if msg.String() == item.key {
					m.currentView = item.view
					m.active = m.open(item.view)

					return m, m.active.Init()
				}
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.currentView != ViewMenu && m.active != nil {
		help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.active.ShortHelp())
		title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.active.Title())

		return lipgloss.JoinVertical(lipgloss.Left, title, m.active.View(), help)
	}

	s := lipgloss.NewStyle().Bold(true).Render(m.name+" Console") + "\n\n"
	for _, item := range menu {
		s += fmt.Sprintf("%s. %s\n", item.key, item.label)
	}

	return lipgloss.NewStyle().Padding(2).Render(s + "\nq. Quit")
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The console draws over stdout, so logs go to a file.
	logFile, err := tea.LogToFile("tenantry-console.log", "console")
	if err == nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))
		defer logFile.Close()
	}

	svc, err := newServices(cfg)
	if err != nil {
		slog.Error("failed to start console", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model{svc: svc, name: cfg.App.Name}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run console", "error", err)
		os.Exit(1)
	}
}
