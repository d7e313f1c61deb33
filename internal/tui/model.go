package tui

import (
	"time"

	"github.com/ccboard/ccboard/internal/datastore"
	"github.com/ccboard/ccboard/internal/eventbus"
	"github.com/ccboard/ccboard/internal/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tab identifies one of the shell's top-level views.
type tab int

const (
	tabSessions tab = iota
	tabStats
	tabConfig
	tabArtifacts
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabSessions:
		return "Sessions"
	case tabStats:
		return "Stats"
	case tabConfig:
		return "Config"
	case tabArtifacts:
		return "Artifacts"
	default:
		return "?"
	}
}

// Model is the root Bubble Tea model. It holds no business logic of its
// own: every field here is either navigation state or a cached snapshot
// pulled from the DataStore on refresh.
type Model struct {
	store *datastore.Store
	keys  keyMap
	sub   *eventbus.Subscription

	width, height int
	active        tab

	sessions     []*models.SessionMetadata
	sessionIdx   int
	sessionDetail *models.SessionContent
	detailView   viewport.Model
	showDetail   bool

	artifacts    []models.FrontmatterDoc // agents ++ commands ++ skills, current group
	artifactIdx  int
	artifactKind string // "agents", "commands", "skills"

	stats   *models.StatsCache
	quota   models.QuotaStatus
	hasQuota bool

	settings models.MergedConfig
	mcp      models.McpConfig
	hooks    []models.Hook

	lastEvent string
	degraded  models.DegradedState
}

// New builds a Model bound to store, subscribing to its EventBus
// immediately. The subscription is created here rather than in Init
// because Init cannot mutate the Model the Program retains (it returns
// only a tea.Cmd).
func New(store *datastore.Store) Model {
	vp := viewport.New(80, 20)
	return Model{
		store:        store,
		keys:         defaultKeyMap(),
		sub:          store.Bus().Subscribe(),
		detailView:   vp,
		artifactKind: "agents",
	}
}

// Init performs the first snapshot refresh and starts listening for
// EventBus notifications.
func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(), waitForEvent(m.sub))
}

// refreshMsg triggers a full re-pull of every snapshot field from the
// store; it is sent once at startup. An EventBus notification calls
// refresh directly instead.
type refreshMsg struct{}

func refreshCmd() tea.Cmd {
	return func() tea.Msg { return refreshMsg{} }
}

func (m *Model) refresh() {
	m.sessions = m.store.RecentSessions(0)
	if m.sessionIdx >= len(m.sessions) {
		m.sessionIdx = 0
	}
	m.stats = m.store.Stats()
	m.quota, m.hasQuota = m.store.QuotaStatus(time.Now())
	m.settings = m.store.Settings()
	m.mcp = m.store.McpConfig()
	m.hooks = m.store.Hooks()
	m.degraded = m.store.DegradedState()
	m.reloadArtifactGroup()
}

func (m *Model) reloadArtifactGroup() {
	switch m.artifactKind {
	case "commands":
		m.artifacts = m.store.Commands()
	case "skills":
		m.artifacts = m.store.Skills()
	default:
		m.artifacts = m.store.Agents()
	}
	if m.artifactIdx >= len(m.artifacts) {
		m.artifactIdx = 0
	}
}

// Update handles every incoming message: window resize, keypresses,
// refresh ticks, and EventBus notifications.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detailView.Width = msg.Width - 4
		m.detailView.Height = msg.Height - 6
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, nil

	case eventMsg:
		m.lastEvent = models.Event(msg).Kind.String()
		m.refresh()
		return m, waitForEvent(m.sub)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.sub != nil {
			m.store.Bus().Unsubscribe(m.sub.ID)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		if !m.showDetail {
			m.active = (m.active + 1) % tabCount
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		if !m.showDetail {
			m.active = (m.active - 1 + tabCount) % tabCount
		}
		return m, nil
	}

	if m.showDetail {
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd
	}

	switch m.active {
	case tabSessions:
		return m.handleSessionsKey(msg)
	case tabArtifacts:
		return m.handleArtifactsKey(msg)
	}
	return m, nil
}

// View renders the active tab beneath the tab bar and above the status
// line.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var body string
	if m.showDetail {
		body = m.detailView.View()
	} else {
		switch m.active {
		case tabSessions:
			body = m.renderSessions()
		case tabStats:
			body = m.renderStats()
		case tabConfig:
			body = m.renderConfig()
		case tabArtifacts:
			body = m.renderArtifacts()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabBar(), body, m.renderStatusBar())
}
