package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dimcalc/internal/config"
	"github.com/san-kum/dimcalc/internal/dimension"
	"github.com/san-kum/dimcalc/internal/journal"
	"github.com/san-kum/dimcalc/internal/slider"
	"github.com/san-kum/dimcalc/pkg/logger"
)

const (
	gaugeWidth   = 30
	graphPoints  = 60
	graphHeight  = 6
	bigStep      = 10
	maxEditInput = 16
)

type model struct {
	ctrl    *dimension.Controller
	bank    slider.Bank
	journal *journal.Journal
	store   *journal.Store
	log     *logger.Logger

	cursor  int
	editing bool
	editBuf string
	status  string
	failed  bool

	theme  Theme
	styles palette

	width  int
	height int
}

// New builds the calculator model from cfg. store may be nil, in which
// case saving is disabled.
func New(cfg *config.Config, store *journal.Store, log *logger.Logger) (*model, error) {
	initial, err := cfg.InitialState()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	j := journal.New(initial)
	j.Preset = cfg.Preset
	ctrl := dimension.NewController(initial, dimension.WithLogger(log), dimension.WithObserver(j.Record))
	theme := GetTheme(cfg.Theme)

	return &model{
		ctrl:    ctrl,
		bank:    cfg.Bank(),
		journal: j,
		store:   store,
		log:     log,
		theme:   theme,
		styles:  newPalette(theme),
		width:   80,
		height:  24,
	}, nil
}

// Run starts the calculator in the alternate screen and blocks until quit.
func Run(cfg *config.Config, store *journal.Store, log *logger.Logger) error {
	m, err := New(cfg, store, log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.calcKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) selected() dimension.Quantity {
	return dimension.Quantities[m.cursor]
}

func (m model) calcKey(msg tea.KeyMsg) (model, tea.Cmd) {
	q := m.selected()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(dimension.Quantities)-1 {
			m.cursor++
		}
	case "left", "h":
		m.report(m.bank.Nudge(m.ctrl, q, -1))
	case "right", "l":
		m.report(m.bank.Nudge(m.ctrl, q, 1))
	case "shift+left", "H":
		m.report(m.bank.Nudge(m.ctrl, q, -bigStep))
	case "shift+right", "L":
		m.report(m.bank.Nudge(m.ctrl, q, bigStep))
	case " ", "x":
		s := m.ctrl.ToggleLock(q)
		state := "unlocked"
		if s.Locked(q) {
			state = "locked"
		}
		m.setStatus(fmt.Sprintf("%s %s", q, state), false)
	case "enter":
		if m.ctrl.Disabled(q) {
			m.setStatus(fmt.Sprintf("%s is locked", q), true)
			break
		}
		m.editing = true
		m.editBuf = ""
	case "r":
		m.journal.Reset(m.ctrl.Reset())
		m.setStatus("reset", false)
	case "s":
		m.save()
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newPalette(m.theme)
		m.setStatus("theme "+m.theme.Name, false)
	}
	return m, nil
}

func (m model) editKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.editing = false
		if m.editBuf != "" {
			m.report(m.bank.Enter(m.ctrl, m.selected(), m.editBuf))
		}
		m.editBuf = ""
	case "esc":
		m.editing = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		s := msg.String()
		if len(s) == 1 && len(m.editBuf) < maxEditInput {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += s
			}
		}
	}
	return m, nil
}

// report turns an absorbed outcome into the status line.
func (m *model) report(_ dimension.State, err error) {
	if err == nil {
		m.setStatus("", false)
		return
	}
	switch {
	case errors.Is(err, dimension.ErrLocked):
		m.setStatus(fmt.Sprintf("%s is locked", m.selected()), true)
	case errors.Is(err, dimension.ErrNoFreeQuantity):
		m.setStatus("nothing left to solve for; unlock a quantity", true)
	case errors.Is(err, dimension.ErrUndefinedRecomputation):
		m.setStatus("recomputation undefined; dependent value kept", true)
	case errors.Is(err, dimension.ErrInvalidInput):
		m.setStatus("not a number", true)
	default:
		m.setStatus(err.Error(), true)
	}
}

func (m *model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m *model) save() {
	if m.store == nil {
		m.setStatus("no data directory configured", true)
		return
	}
	if err := m.store.Init(); err != nil {
		m.log.Error("init session store", "error", err)
		m.setStatus("save failed: "+err.Error(), true)
		return
	}
	id, err := m.store.Save(m.journal)
	if err != nil {
		m.log.Error("save session", "error", err)
		m.setStatus("save failed: "+err.Error(), true)
		return
	}
	m.log.Info("session saved", "id", id, "entries", m.journal.Len())
	m.setStatus("saved "+id, false)
}

func (m model) View() string {
	p := m.styles
	s := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + p.title.Render("d i m c a l c") + "  " + p.dim.Render("volume = length × width × height") + "\n")
	b.WriteString(p.dimmer.Render("  "+strings.Repeat("─", 52)) + "\n\n")

	target, hasTarget := dimension.Target(s.Locks, m.selected())

	for i, q := range dimension.Quantities {
		r := m.bank.Range(q)
		disabled := s.Disabled(q)

		prefix := "    "
		name := p.dim.Render(fmt.Sprintf("%-7s", q.String()))
		if i == m.cursor {
			prefix = "  " + p.cursor.Render("▸ ")
			name = p.label.Render(fmt.Sprintf("%-7s", q.String()))
		}

		val := fmt.Sprintf("%10.3f", s.Get(q))
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if disabled {
			val = p.dim.Render(val)
		} else {
			val = p.value.Render(val)
		}

		lock := p.dimmer.Render("○ free  ")
		if disabled {
			lock = p.locked.Render("● locked")
		}

		mark := "  "
		if hasTarget && q == target {
			mark = p.target.Render(" ←")
		}

		b.WriteString(prefix + name + " " + p.gauge(r.Fraction(s.Get(q)), gaugeWidth, disabled) + " " + val + "  " + lock + mark + "\n")
	}

	b.WriteString("\n")
	consistency := p.ok.Render("consistent")
	if !s.Consistent() {
		consistency = p.warn.Render(fmt.Sprintf("drift %.3g", s.Product()-s.Volume))
	}
	b.WriteString("  " + p.dim.Render(fmt.Sprintf("L×W×H = %.3f  ", s.Product())) + consistency + "\n")

	if graph := m.graph(); graph != "" {
		b.WriteString("\n" + p.panel.Render(graph) + "\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.failed {
			b.WriteString("  " + p.warn.Render(m.status) + "\n")
		} else {
			b.WriteString("  " + p.ok.Render(m.status) + "\n")
		}
	}
	if m.editing {
		b.WriteString(p.dim.Render("  type a value   enter apply   esc cancel") + "\n")
	} else {
		b.WriteString(p.dim.Render("  ↑↓ select  ←→ adjust  HL ×10  space lock  enter type  r reset  s save  t theme  q quit") + "\n")
	}

	return b.String()
}

func (m model) graph() string {
	series := m.journal.Series(dimension.Volume)
	if len(series) < 2 {
		return ""
	}
	if len(series) > graphPoints {
		series = series[len(series)-graphPoints:]
	}
	width := m.width - 16
	if width > graphPoints {
		width = graphPoints
	}
	if width < 20 {
		width = 20
	}
	return asciigraph.Plot(series,
		asciigraph.Height(graphHeight),
		asciigraph.Width(width),
		asciigraph.Caption("volume history"),
	)
}
