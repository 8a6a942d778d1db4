package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/andresgp/comcrm/cmd/tui/internal/view"
	"github.com/andresgp/comcrm/internal/commission"
	commissionStore "github.com/andresgp/comcrm/internal/commission/store"
	"github.com/andresgp/comcrm/internal/config"
	"github.com/andresgp/comcrm/internal/database"
	"github.com/andresgp/comcrm/internal/sale"
	saleStore "github.com/andresgp/comcrm/internal/sale/store"
)

type model struct {
	saleService       *sale.Service
	commissionService *commission.Service

	currentView View

	salesView       view.SalesModel
	commissionsView view.CommissionsModel
}

type View int

const (
	ViewMenu        View = 0
	ViewSales       View = 1
	ViewCommissions View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	saleSvc := sale.NewService(saleStore.New(db))
	commissionSvc := commission.NewService(commissionStore.New(db))

	return model{
		saleService:       saleSvc,
		commissionService: commissionSvc,
		currentView:       ViewMenu,
		salesView:         view.NewSalesModel(saleSvc),
		commissionsView:   view.NewCommissionsModel(commissionSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSales
				m.salesView = view.NewSalesModel(m.saleService)

				return m, m.salesView.Init()
			case "2":
				m.currentView = ViewCommissions
				m.commissionsView = view.NewCommissionsModel(m.commissionService)

				return m, m.commissionsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	case ViewCommissions:
		var newModel tea.Model
		newModel, cmd = m.commissionsView.Update(msg)
		m.commissionsView = newModel.(view.CommissionsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"ComCRM TUI\n\n" +
				"1. Sales\n" +
				"2. Commissions\n\n" +
				"q. Quit",
		)
	case ViewSales:
		return m.salesView.View()
	case ViewCommissions:
		return m.commissionsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
