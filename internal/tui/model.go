package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/billie-coop/settle/internal/events"
	"github.com/billie-coop/settle/internal/limiter"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

const maxLogEntries = 8

// Options configures the host model.
type Options struct {
	DebounceDelay time.Duration
	ThrottleDelay time.Duration
	Theme         string

	// Clock drives both limiters. Use a *Clock attached to the program in
	// production so timer callbacks land on the update loop.
	Clock  limiter.Clock
	Broker *events.Broker
	Logger *slog.Logger

	// OnClose runs once after both limiters are disposed.
	OnClose func()
}

// Model is the Bubble Tea model hosting a debouncer and a throttler fed
// from the same input.
type Model struct {
	width  int
	height int

	opts    Options
	keys    KeyMap
	styles  styles
	palette palette

	// Components
	input   *Input
	spinner spinner.Model

	debouncer *limiter.Debouncer[string]
	throttler *limiter.Throttler[string]

	// Event system
	broker   *events.Broker
	eventSub <-chan events.Event

	// UI state only
	log       []events.EmitPayload
	status    string
	statusErr bool
	showHelp  bool
	help      string
	start     time.Time

	shutdown sync.Once
}

// New builds the model and activates both limiters with the empty string,
// so both panes show a value from the first frame.
func New(opts Options) (*Model, error) {
	if opts.Clock == nil {
		opts.Clock = limiter.RealClock
	}
	if opts.Broker == nil {
		opts.Broker = events.NewBroker(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	p := paletteFor(opts.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(p.pending)

	m := &Model{
		opts:    opts,
		keys:    DefaultKeyMap(),
		styles:  newStyles(p),
		palette: p,
		input:   NewInput(),
		spinner: sp,
		broker:  opts.Broker,
		start:   opts.Clock.Now(),
	}

	common := []limiter.Option{
		limiter.WithClock(opts.Clock),
		limiter.WithLogger(opts.Logger),
		limiter.WithName("input"),
	}
	m.debouncer = limiter.NewDebouncer[string](common...)
	m.throttler = limiter.NewThrottler[string](common...)
	m.debouncer.OnEmit(events.EmitHook[string](m.broker, events.DebounceEmitEvent, "debounce", opts.Clock.Now))
	m.throttler.OnEmit(events.EmitHook[string](m.broker, events.ThrottleEmitEvent, "throttle", opts.Clock.Now))

	// Subscribe before activation so the initial emissions are logged.
	m.eventSub = m.broker.Subscribe(events.DebounceEmitEvent, events.ThrottleEmitEvent)

	if err := m.debouncer.Observe("", opts.DebounceDelay); err != nil {
		m.broker.Unsubscribe(m.eventSub)
		return nil, fmt.Errorf("failed to activate debouncer: %w", err)
	}
	if err := m.throttler.Observe("", opts.ThrottleDelay); err != nil {
		m.debouncer.Dispose()
		m.broker.Unsubscribe(m.eventSub)
		return nil, fmt.Errorf("failed to activate throttler: %w", err)
	}
	return m, nil
}

// Init starts the spinner and the event listener
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvents())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 2)
		if m.showHelp {
			m.help = renderHelp(m.opts.Theme, msg.Width-4)
		}
		return m, nil

	case fireMsg:
		msg.fn()
		return m, nil

	case events.Event:
		m.handleEvent(msg)
		return m, m.listenForEvents()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.help = renderHelp(m.opts.Theme, m.width-4)
		}
		return m, nil

	case key.Matches(msg, m.keys.Flush):
		flushed := 0
		if m.debouncer.Flush() {
			flushed++
		}
		if m.throttler.Flush() {
			flushed++
		}
		m.setStatus(fmt.Sprintf("flushed %d pending", flushed), false)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.input.Reset() {
			m.observe()
		}
		return m, nil
	}

	if m.input.Update(msg) {
		m.observe()
	}
	return m, nil
}

// observe feeds the current text to both limiters.
func (m *Model) observe() {
	value := m.input.Value()
	if err := m.debouncer.Observe(value, m.opts.DebounceDelay); err != nil {
		m.reportError("debounce", err)
	}
	if err := m.throttler.Observe(value, m.opts.ThrottleDelay); err != nil {
		m.reportError("throttle", err)
	}
}

func (m *Model) reportError(source string, err error) {
	m.opts.Logger.Warn("observe failed", "source", source, "err", err)
	m.broker.Publish(events.Event{
		Type:    events.LimiterErrorEvent,
		Payload: events.ErrorPayload{Source: source, Err: err},
	})
	m.setStatus(fmt.Sprintf("%s: %v", source, err), true)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// listenForEvents waits for the next emission from the broker
func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventSub
		if !ok {
			return nil
		}
		return event
	}
}

// handleEvent records emissions in the log
func (m *Model) handleEvent(event events.Event) {
	payload, ok := event.Payload.(events.EmitPayload)
	if !ok {
		return
	}
	m.log = append(m.log, payload)
	if len(m.log) > maxLogEntries {
		m.log = m.log[len(m.log)-maxLogEntries:]
	}
}

// Shutdown disposes both limiters and runs OnClose. It is safe to call more
// than once.
func (m *Model) Shutdown() {
	m.shutdown.Do(func() {
		m.debouncer.Dispose()
		m.throttler.Dispose()
		m.broker.Unsubscribe(m.eventSub)
		if m.opts.OnClose != nil {
			m.opts.OnClose()
		}
	})
}

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("settle"))
	b.WriteString("\n")
	b.WriteString(m.styles.input.Render(m.input.View(m.palette)))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.help)
	} else {
		b.WriteString(m.renderPanes())
		b.WriteString("\n")
		b.WriteString(m.renderLog())
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(m.styles.err.Render(m.status))
		} else {
			b.WriteString(m.styles.muted.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderPanes() string {
	paneWidth := 24
	if m.width > 0 {
		paneWidth = max((m.width-6)/3-2, 12)
	}

	raw := m.renderPane("raw", m.input.Value(), false, "", paneWidth)
	deb := m.renderPane(
		fmt.Sprintf("debounced %s", m.opts.DebounceDelay),
		m.debouncer.Current(),
		m.debouncer.State() == limiter.Pending,
		formatStats(m.debouncer.Stats()),
		paneWidth,
	)
	thr := m.renderPane(
		fmt.Sprintf("throttled %s", m.opts.ThrottleDelay),
		m.throttler.Current(),
		m.throttler.State() == limiter.Pending,
		formatStats(m.throttler.Stats()),
		paneWidth,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, raw, deb, thr)
}

func (m *Model) renderPane(label, value string, pending bool, stats string, width int) string {
	header := m.styles.label.Render(label)
	if pending {
		header += " " + m.spinner.View()
	}
	lines := []string{header, m.styles.value.Render(fmt.Sprintf("%q", value))}
	if stats != "" {
		lines = append(lines, m.styles.muted.Render(stats))
	}
	return m.styles.pane.Width(width).Render(strings.Join(lines, "\n"))
}

func formatStats(s limiter.Stats) string {
	return fmt.Sprintf("emitted %d  dropped %d", s.Emitted, s.Dropped)
}

func (m *Model) renderLog() string {
	if len(m.log) == 0 {
		return m.styles.muted.Render("no emissions yet")
	}
	lines := make([]string, 0, len(m.log))
	for _, e := range m.log {
		at := e.At.Sub(m.start).Truncate(time.Millisecond)
		lines = append(lines, fmt.Sprintf("%8s  %-8s #%-3d %q", at, e.Source, e.Seq, e.Value))
	}
	return m.styles.muted.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	parts := make([]string, 0, 4)
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.muted.Render(strings.Join(parts, " • "))
}
