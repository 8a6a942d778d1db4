package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
)

type commissionsState int

const (
	commissionsStateBrowse commissionsState = iota
	commissionsStatePay
	commissionsStateHistory
)

type CommissionsModel struct {
	CommonModel
	svc *commission.Service

	state        commissionsState
	table        table.Model
	historyTable table.Model
	commissions  []*commission.Commission
	form         *huh.Form

	statusFilterIdx int
	historyOrder    commission.HistoryOrder

	filter  commission.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formQuick  string
	formAmount string
	formDate   string
	formNote   string
}

func NewCommissionsModel(svc *commission.Service) CommissionsModel {
	columns := []table.Column{
		{Title: "Participant", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Total", Width: 16},
		{Title: "Paid", Width: 16},
		{Title: "Outstanding", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

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
	t.SetStyles(s)

	historyColumns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Recorded", Width: 20},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 16},
		{Title: "Note", Width: 28},
		{Title: "Receipt", Width: 10},
	}

	ht := table.New(
		table.WithColumns(historyColumns),
		table.WithHeight(12),
	)
	ht.SetStyles(s)

	return CommissionsModel{
		svc:          svc,
		table:        t,
		historyTable: ht,
		historyOrder: commission.OrderRecorded,
		filter:       commission.ListFilter{},
	}
}

func (m CommissionsModel) Title() string { return "Commissions" }

func (m CommissionsModel) ShortHelp() string {
	switch m.state {
	case commissionsStatePay:
		return "Navigate form | Esc: cancel"
	case commissionsStateHistory:
		return "Esc: back | o: toggle order"
	}

	return "Esc: back | p: pay | h: history | s: status filter | r: refresh"
}

func (m CommissionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CommissionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCommissionsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.commissions = msg.commissions
		m.err = nil
		m.refreshTable()

		return m, nil

	case paymentDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Payment failed: %v", msg.err)
		} else {
			m.status = "Payment applied"
		}

		m.state = commissionsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case commissionsStateBrowse:
		return m.updateBrowse(msg)
	case commissionsStatePay:
		return m.updatePay(msg)
	case commissionsStateHistory:
		return m.updateHistory(msg)
	}

	return m, nil
}

func (m CommissionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			return m.enterPayMode()
		case "h":
			return m.enterHistoryMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CommissionsModel) selected() *commission.Commission {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.commissions) {
		return nil
	}

	return m.commissions[idx]
}

func (m CommissionsModel) enterPayMode() (tea.Model, tea.Cmd) {
	c := m.selected()
	if c == nil {
		return m, nil
	}

	if c.Status == commission.StatusPaid {
		m.status = "Commission is fully settled"
		return m, nil
	}

	m.formQuick = "custom"
	m.formAmount = ""
	m.formDate = FormatDate(time.Now())
	m.formNote = ""

	outstanding := commission.Outstanding(c)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("quick").
				Title("Quick amount").
				Options(
					huh.NewOption("Custom", "custom"),
					huh.NewOption("25% of balance", "25"),
					huh.NewOption("50% of balance", "50"),
					huh.NewOption("Full balance", "100"),
				).
				Value(&m.formQuick),

			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Amount (outstanding %s)", currency.Format(outstanding, c.Currency))).
				Placeholder("0.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil // quick amount fills it in
					}

					d, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("not a number")
					}

					if !d.IsPositive() {
						return fmt.Errorf("amount must be positive")
					}

					if d.GreaterThan(outstanding) {
						return fmt.Errorf("exceeds outstanding balance")
					}

					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Payment date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate),

			huh.NewInput().
				Key("note").
				Title("Note").
				Value(&m.formNote),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = commissionsStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m CommissionsModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = commissionsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.payCmd()
}

func (m CommissionsModel) enterHistoryMode() (tea.Model, tea.Cmd) {
	c := m.selected()
	if c == nil {
		return m, nil
	}

	m.state = commissionsStateHistory
	m.table.Blur()
	m.historyTable.Focus()
	m.refreshHistoryTable()

	return m, nil
}

func (m CommissionsModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = commissionsStateBrowse
			m.historyTable.Blur()
			m.table.Focus()

			return m, nil
		case "o":
			if m.historyOrder == commission.OrderRecorded {
				m.historyOrder = commission.OrderDate
			} else {
				m.historyOrder = commission.OrderRecorded
			}

			m.refreshHistoryTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)

	return m, cmd
}

func (m CommissionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading commissions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == commissionsStateHistory {
		return m.historyView()
	}

	statusLabels := []string{"All", "Pending", "Partial", "Paid"}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(statusLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == commissionsStatePay && m.form != nil {
		title := "Apply Payment"
		if c := m.selected(); c != nil {
			title = fmt.Sprintf("Apply Payment: %s", c.Participant)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m CommissionsModel) historyView() string {
	c := m.selected()
	if c == nil {
		return ""
	}

	header := fmt.Sprintf("Payments for %s | [o] Order: %s", c.Participant, activeStyle(string(m.historyOrder)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.historyTable.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
		),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *CommissionsModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		st := commission.StatusPending
		m.filter.Status = &st
	case 2:
		st := commission.StatusPartial
		m.filter.Status = &st
	case 3:
		st := commission.StatusPaid
		m.filter.Status = &st
	default:
		m.filter.Status = nil
	}
}

func (m *CommissionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.commissions))
	for _, c := range m.commissions {
		rows = append(rows, table.Row{
			c.Participant,
			string(c.Status),
			currency.Format(c.TotalAmount, c.Currency),
			currency.Format(c.PaidAmount, c.Currency),
			currency.Format(commission.Outstanding(c), c.Currency),
		})
	}

	m.table.SetRows(rows)
}

func (m *CommissionsModel) refreshHistoryTable() {
	c := m.selected()
	if c == nil {
		return
	}

	events := c.History
	if m.historyOrder == commission.OrderDate {
		events = commission.HistoryByDate(c)
	}

	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		receipt := ""
		if e.ReceiptRef != "" {
			receipt = "yes"
		}

		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.RecordedAt.Format("2006-01-02 15:04"),
			string(e.Type),
			currency.Format(e.Amount, c.Currency),
			e.Note,
			receipt,
		})
	}

	m.historyTable.SetRows(rows)
}

// Messages

type loadCommissionsMsg struct {
	commissions []*commission.Commission
	err         error
}

func (m CommissionsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cs, err := m.svc.List(ctx, m.filter)
		if err != nil {
			return loadCommissionsMsg{err: err}
		}

		// List does not hydrate history; fetch each commission so the
		// history view has events without another round trip.
		for i, c := range cs {
			full, err := m.svc.Get(ctx, c.ID)
			if err != nil {
				return loadCommissionsMsg{err: err}
			}

			cs[i] = full
		}

		return loadCommissionsMsg{commissions: cs}
	}
}

type paymentDoneMsg struct {
	err error
}

func (m CommissionsModel) payCmd() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}

	quick := m.formQuick
	amountStr := strings.TrimSpace(m.formAmount)
	dateStr := strings.TrimSpace(m.formDate)
	note := m.formNote

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var amount decimal.Decimal

		paymentType := commission.PaymentPartial

		if quick != "custom" {
			var percent int64

			switch quick {
			case "25":
				percent = 25
			case "50":
				percent = 50
			case "100":
				percent = 100
				paymentType = commission.PaymentTotal
			}

			suggested, err := m.svc.Suggest(ctx, c.ID, percent)
			if err != nil {
				return paymentDoneMsg{err: err}
			}

			amount = suggested
		} else {
			parsed, err := decimal.NewFromString(amountStr)
			if err != nil {
				return paymentDoneMsg{err: commission.ErrInvalidAmount}
			}

			amount = parsed
		}

		date, err := commission.ParsePaymentDate(dateStr)
		if err != nil {
			return paymentDoneMsg{err: commission.ErrInvalidDate}
		}

		_, err = m.svc.ApplyPayment(ctx, c.ID, commission.PaymentRequest{
			Amount: amount,
			Type:   paymentType,
			Date:   date,
			Note:   note,
		})

		return paymentDoneMsg{err: err}
	}
}
