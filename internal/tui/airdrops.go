package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sakif/droplog/internal/listview"
	"github.com/sakif/droplog/internal/model"
	"github.com/sakif/droplog/internal/service"
)

// Messages produced by the airdrops view's commands.
type airdropsLoadedMsg struct {
	airdrops []model.Airdrop
}

type airdropsLoadFailedMsg struct {
	err error
}

type airdropDeleteDoneMsg struct {
	id  string
	err error
}

// AirdropsModel is the interactive airdrop list view. The board owns the
// loaded collection and the optimistic delete flow; the model owns only
// presentation state (selection, pagination, the filter being edited).
type AirdropsModel struct {
	width  int
	height int

	board *listview.AirdropBoard
	svc   *service.AirdropService

	selected int // index into the visible slice
	page     int
	perPage  int

	search    textinput.Model
	searching bool

	spin    spinner.Model
	loading bool

	status      string
	statusIsErr bool
}

// NewAirdropsModel creates the airdrop list view over an empty board. The
// collection loads on Init.
func NewAirdropsModel(board *listview.AirdropBoard, svc *service.AirdropService) AirdropsModel {
	search := textinput.New()
	search.Placeholder = "name or description"
	search.Prompt = "Search: "
	search.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain))

	return AirdropsModel{
		board:   board,
		svc:     svc,
		perPage: 10,
		search:  search,
		spin:    spin,
		loading: true,
	}
}

// Init starts the spinner and fires the initial fetch.
func (m AirdropsModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m AirdropsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		airdrops, err := m.svc.List(context.Background(), service.AirdropListFilter{})
		if err != nil {
			return airdropsLoadFailedMsg{err: err}
		}
		return airdropsLoadedMsg{airdrops: airdrops}
	}
}

func (m AirdropsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		// The board removes the row immediately and restores it if the
		// backend rejects the delete.
		err := m.board.DeleteAirdrop(context.Background(), id)
		return airdropDeleteDoneMsg{id: id, err: err}
	}
}

// Update handles messages.
func (m AirdropsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		avail := m.height - 9
		if avail < 3 {
			avail = 3
		}
		m.perPage = avail
		m.clampSelection()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case airdropsLoadedMsg:
		m.loading = false
		m.board.SetCollection(msg.airdrops)
		m.clampSelection()
		m.status = fmt.Sprintf("%d airdrops loaded", len(msg.airdrops))
		m.statusIsErr = false
		return m, nil

	case airdropsLoadFailedMsg:
		m.loading = false
		m.status = msg.err.Error()
		m.statusIsErr = true
		return m, nil

	case airdropDeleteDoneMsg:
		if msg.err != nil {
			m.status = "delete failed, restored: " + msg.err.Error()
			m.statusIsErr = true
		} else {
			m.status = "airdrop deleted"
			m.statusIsErr = false
		}
		m.clampSelection()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

func (m AirdropsModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch("")
		return m, nil

	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch(m.search.Value())
	return m, cmd
}

func (m *AirdropsModel) applySearch(query string) {
	f := m.board.Filter()
	f.Search = query
	m.board.SetFilter(f)
	m.selected = 0
	m.page = 0
}

func (m AirdropsModel) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.board.Close()
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
			if m.selected < m.page*m.perPage {
				m.page--
			}
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.visible())-1 {
			m.selected++
			if m.selected >= (m.page+1)*m.perPage {
				m.page++
			}
		}
		return m, nil

	case "left", "h":
		if m.page > 0 {
			m.page--
			m.clampSelection()
		}
		return m, nil

	case "right", "l":
		if m.page < m.maxPage() {
			m.page++
			m.clampSelection()
		}
		return m, nil

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "f":
		f := m.board.Filter()
		f.Status = cycleOption(f.Status, listview.Statuses(m.board.Loaded()))
		m.board.SetFilter(f)
		m.selected, m.page = 0, 0
		return m, nil

	case "e":
		f := m.board.Filter()
		f.Ecosystem = cycleOption(f.Ecosystem, listview.Ecosystems(m.board.Loaded()))
		m.board.SetFilter(f)
		m.selected, m.page = 0, 0
		return m, nil

	case "t":
		f := m.board.Filter()
		f.Type = cycleOption(f.Type, listview.Types(m.board.Loaded()))
		m.board.SetFilter(f)
		m.selected, m.page = 0, 0
		return m, nil

	case "d":
		visible := m.visible()
		if m.selected < len(visible) {
			return m, m.deleteCmd(visible[m.selected].ID)
		}
		return m, nil

	case "r":
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spin.Tick, m.loadCmd())
	}

	return m, nil
}

// cycleOption advances a single-valued filter through All → option1 →
// option2 → ... → All. Options are derived from the loaded collection, so
// a value with no matching airdrop is never offered.
func cycleOption(current string, options []string) string {
	if len(options) == 0 {
		return listview.FilterAll
	}
	if !listviewActive(current) {
		return options[0]
	}
	for i, opt := range options {
		if opt == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return listview.FilterAll
		}
	}
	return options[0]
}

func listviewActive(v string) bool {
	return v != "" && v != listview.FilterAll
}

func (m AirdropsModel) visible() []model.Airdrop {
	return m.board.Visible()
}

func (m AirdropsModel) maxPage() int {
	n := len(m.visible())
	if n == 0 || m.perPage <= 0 {
		return 0
	}
	return (n - 1) / m.perPage
}

func (m *AirdropsModel) clampSelection() {
	n := len(m.visible())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.page > m.maxPage() {
		m.page = m.maxPage()
	}
	if m.selected < m.page*m.perPage {
		m.selected = m.page * m.perPage
	}
}

// View renders the list.
func (m AirdropsModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("droplog · airdrops"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" fetching airdrops..."))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		if m.filtered() {
			b.WriteString(dimStyle.Render("No airdrops match the active filters."))
		} else {
			b.WriteString(dimStyle.Render("No airdrops yet. Add one with: droplog add"))
		}
		b.WriteString("\n\n")
		b.WriteString(m.footer())
		return b.String()
	}

	nameWidth := m.width - 44
	if nameWidth < 16 {
		nameWidth = 16
	}
	header := fmt.Sprintf(" %-*s %-10s %-12s %-8s %s", nameWidth, "NAME", "STATUS", "ECOSYSTEM", "PROG", "PRIORITY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start := m.page * m.perPage
	end := start + m.perPage
	if end > len(visible) {
		end = len(visible)
	}
	for i := start; i < end; i++ {
		a := visible[i]
		badge := lipgloss.NewStyle().Foreground(statusColor(a.Status)).Render(fmt.Sprintf("%-10s", a.Status))
		row := fmt.Sprintf("%-*s %s %-12s %5.0f%%  %s",
			nameWidth, truncate(a.Name, nameWidth),
			badge,
			truncate(a.Ecosystem, 12),
			a.Progress(),
			a.Priority,
		)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("▸ " + row))
		} else {
			b.WriteString(rowStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	if m.maxPage() > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\npage %d/%d · %d airdrops", m.page+1, m.maxPage()+1, len(visible))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

// filtered reports whether any filter criterion is active.
func (m AirdropsModel) filtered() bool {
	f := m.board.Filter()
	return f.Search != "" || listviewActive(f.Status) || listviewActive(f.Ecosystem) || listviewActive(f.Type) || len(f.Tags) > 0
}

func (m AirdropsModel) footer() string {
	var b strings.Builder

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if m.filtered() {
		f := m.board.Filter()
		parts := []string{}
		if f.Search != "" {
			parts = append(parts, "search="+f.Search)
		}
		if listviewActive(f.Status) {
			parts = append(parts, "status="+f.Status)
		}
		if listviewActive(f.Ecosystem) {
			parts = append(parts, "ecosystem="+f.Ecosystem)
		}
		if listviewActive(f.Type) {
			parts = append(parts, "type="+f.Type)
		}
		b.WriteString(filterStyle.Render("filters: " + strings.Join(parts, " · ")))
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.statusIsErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ nav · ←/→ page · / search · f status · e ecosystem · t type · d delete · r reload · q quit"))
	return b.String()
}
