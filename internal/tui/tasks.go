package tui

import (
	"context"
	"errors"
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

type tasksLoadedMsg struct {
	tasks []model.Task
	stats *model.TaskStats
}

type tasksLoadFailedMsg struct {
	err error
}

type taskToggleDoneMsg struct {
	id  string
	err error
}

type statsRefreshedMsg struct {
	stats *model.TaskStats
}

// TasksModel is the interactive task list view. Space flips the selected
// task through the board's optimistic toggle flow; the checkbox updates
// immediately and reverts if the backend rejects the flip.
type TasksModel struct {
	width  int
	height int

	board *listview.TaskBoard
	svc   *service.TaskService

	dailyOnly bool // load /api/tasks/today instead of the full list

	stats *model.TaskStats

	selected int
	page     int
	perPage  int

	search    textinput.Model
	searching bool

	spin    spinner.Model
	loading bool

	status      string
	statusIsErr bool
}

// NewTasksModel creates the task list view over an empty board.
func NewTasksModel(board *listview.TaskBoard, svc *service.TaskService, dailyOnly bool) TasksModel {
	search := textinput.New()
	search.Placeholder = "title or project"
	search.Prompt = "Search: "
	search.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain))

	return TasksModel{
		board:     board,
		svc:       svc,
		dailyOnly: dailyOnly,
		perPage:   10,
		search:    search,
		spin:      spin,
		loading:   true,
	}
}

// Init starts the spinner and fires the initial fetch.
func (m TasksModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m TasksModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			tasks []model.Task
			err   error
		)
		if m.dailyOnly {
			tasks, err = m.svc.Today(ctx)
		} else {
			tasks, err = m.svc.List(ctx)
		}
		if err != nil {
			return tasksLoadFailedMsg{err: err}
		}
		// Stats are best effort; the list renders without them.
		stats, _ := m.svc.Stats(ctx)
		return tasksLoadedMsg{tasks: tasks, stats: stats}
	}
}

func (m TasksModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.board.ToggleTask(context.Background(), id)
		return taskToggleDoneMsg{id: id, err: err}
	}
}

// statsCmd refetches the aggregate counters after a confirmed toggle;
// they are computed server-side, never derived locally.
func (m TasksModel) statsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.svc.Stats(context.Background())
		if err != nil {
			return statsRefreshedMsg{stats: nil}
		}
		return statsRefreshedMsg{stats: stats}
	}
}

// Update handles messages.
func (m TasksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		avail := m.height - 10
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

	case tasksLoadedMsg:
		m.loading = false
		m.board.SetCollection(msg.tasks)
		m.stats = msg.stats
		m.clampSelection()
		return m, nil

	case tasksLoadFailedMsg:
		m.loading = false
		m.status = msg.err.Error()
		m.statusIsErr = true
		return m, nil

	case taskToggleDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, service.ErrToggleInFlight) {
				m.status = "toggle still in flight, hold on"
			} else {
				m.status = "toggle failed, reverted: " + msg.err.Error()
			}
			m.statusIsErr = true
			return m, nil
		}
		m.status = ""
		return m, m.statsCmd()

	case statsRefreshedMsg:
		if msg.stats != nil {
			m.stats = msg.stats
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

func (m TasksModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (m *TasksModel) applySearch(query string) {
	f := m.board.Filter()
	f.Search = query
	m.board.SetFilter(f)
	m.selected = 0
	m.page = 0
}

func (m TasksModel) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		if m.selected < len(m.board.Visible())-1 {
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

	case " ":
		visible := m.board.Visible()
		if m.selected < len(visible) {
			return m, m.toggleCmd(visible[m.selected].ID)
		}
		return m, nil

	case "c":
		f := m.board.Filter()
		f.HideCompleted = !f.HideCompleted
		m.board.SetFilter(f)
		m.selected, m.page = 0, 0
		return m, nil

	case "a":
		f := m.board.Filter()
		f.DailyOnly = !f.DailyOnly
		m.board.SetFilter(f)
		m.selected, m.page = 0, 0
		return m, nil

	case "g":
		f := m.board.Filter()
		f.Category = cycleOption(f.Category, listview.Categories(m.board.Loaded()))
		m.board.SetFilter(f)
		m.selected, m.page = 0, 0
		return m, nil

	case "r":
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spin.Tick, m.loadCmd())
	}

	return m, nil
}

func (m TasksModel) maxPage() int {
	n := len(m.board.Visible())
	if n == 0 || m.perPage <= 0 {
		return 0
	}
	return (n - 1) / m.perPage
}

func (m *TasksModel) clampSelection() {
	n := len(m.board.Visible())
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
func (m TasksModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	title := "droplog · tasks"
	if m.dailyOnly {
		title = "droplog · today"
	}
	b.WriteString(titleStyle.Render(title))
	if m.stats != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   %d/%d done · daily %d/%d",
			m.stats.Completed, m.stats.Total, m.stats.DailyCompleted, m.stats.DailyTotal)))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" fetching tasks..."))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.board.Visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("No tasks to show."))
		b.WriteString("\n\n")
		b.WriteString(m.footer())
		return b.String()
	}

	titleWidth := m.width - 36
	if titleWidth < 16 {
		titleWidth = 16
	}

	start := m.page * m.perPage
	end := start + m.perPage
	if end > len(visible) {
		end = len(visible)
	}
	for i := start; i < end; i++ {
		task := visible[i]
		check := "[ ]"
		if task.Completed {
			check = successStyle.Render("[x]")
		}
		daily := "  "
		if task.IsDaily {
			daily = filterStyle.Render("◷ ")
		}
		row := fmt.Sprintf("%s %s%-*s %-14s %s",
			check,
			daily,
			titleWidth, truncate(task.Title, titleWidth),
			truncate(task.Project, 14),
			task.Priority,
		)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("▸ " + row))
		} else {
			b.WriteString(rowStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	if m.maxPage() > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\npage %d/%d · %d tasks", m.page+1, m.maxPage()+1, len(visible))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m TasksModel) footer() string {
	var b strings.Builder

	if m.searching {
		b.WriteString(m.search.View())
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

	b.WriteString(helpStyle.Render("↑/↓ nav · space toggle · / search · c hide done · a daily · g category · r reload · q quit"))
	return b.String()
}
