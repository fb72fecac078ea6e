package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/physics"
)

var presetInfo = map[string]string{
	"reference":       "SI gravity, near-straight path",
	"circular":        "one circular year",
	"circular_double": "circular in float64",
	"elliptical":      "0.8x circular speed",
	"escape":          "just past escape speed",
	"inclined":        "orbit tilted 30 degrees",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// tunable is an editable setting on the config screen.
type tunable struct {
	name   string
	get    func(*config.Config) string
	adjust func(c *config.Config, dir int)
}

var tunables = []tunable{
	{
		name: "dt",
		get:  func(c *config.Config) string { return fmt.Sprintf("%g", c.Sim.Dt) },
		adjust: func(c *config.Config, dir int) {
			if dir > 0 {
				c.Sim.Dt *= 2
			} else {
				c.Sim.Dt /= 2
			}
		},
	},
	{
		name: "speed",
		get: func(c *config.Config) string {
			v := c.Bodies.Orbiter.Velocity
			return fmt.Sprintf("%.3f", vecLen(v))
		},
		adjust: func(c *config.Config, dir int) {
			f := 1.05
			if dir < 0 {
				f = 1 / f
			}
			for i := range c.Bodies.Orbiter.Velocity {
				c.Bodies.Orbiter.Velocity[i] *= f
			}
		},
	},
	{
		name: "precision",
		get:  func(c *config.Config) string { return c.Physics.Precision },
		adjust: func(c *config.Config, _ int) {
			if p, _ := physics.ParsePrecision(c.Physics.Precision); p == physics.Single {
				c.Physics.Precision = physics.Double.String()
			} else {
				c.Physics.Precision = physics.Single.String()
			}
		},
	},
	{
		name: "mutual",
		get:  func(c *config.Config) string { return fmt.Sprintf("%t", c.Physics.Mutual) },
		adjust: func(c *config.Config, _ int) {
			c.Physics.Mutual = !c.Physics.Mutual
		},
	},
}

// Picker is the preset menu. Selecting a preset opens a short settings
// screen, then hands over to a live Model.
type Picker struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	err           error
	live          Model
}

func NewPicker() Picker {
	return Picker{state: stateMenu, presets: config.ListPresets()}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			next, cmd := m.live.Update(msg)
			m.live = next.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m Picker) handleKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg, err := config.GetPreset(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.selected, m.cfg, m.err = m.presets[m.cursor], cfg, nil
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state, m.err = stateMenu, nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "left", "h":
		m.cfg = m.cfg.Clone()
		tunables[m.paramCursor].adjust(m.cfg, -1)
	case "right", "l", " ":
		m.cfg = m.cfg.Clone()
		tunables[m.paramCursor].adjust(m.cfg, 1)
	case "s", "enter":
		live, err := NewModel(m.cfg, m.selected)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.state, m.err = live, stateSim, nil
		return m, m.live.Init()
	}
	return m, nil
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuHint     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	menuError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func (m Picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m Picker) header(title, sub string) string {
	return "\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(sub) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n"
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuHint.Render(pairs[i]) + menuInactive.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m Picker) errLine() string {
	if m.err == nil {
		return ""
	}
	return "\n    " + menuError.Render(m.err.Error()) + "\n"
}

func (m Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("PLANETSIM", "two-body orbit"))
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-16s", name)), menuDesc.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", menuInactive.Render(fmt.Sprintf("  %-16s", name)), menuInactive.Render(desc))
		}
	}
	b.WriteString(m.errLine())
	b.WriteString(keyHints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString(m.header(strings.ToUpper(m.selected), presetInfo[m.selected]))
	for i, t := range tunables {
		val := fmt.Sprintf("%10s", t.get(m.cfg))
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", t.name)), menuDesc.Bold(true).Render(val))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", menuInactive.Render(fmt.Sprintf("  %-10s", t.name)), menuInactive.Render(val))
		}
	}
	b.WriteString(m.errLine())
	b.WriteString(keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

func vecLen(v []float64) float64 {
	var s float64
	for _, c := range v {
		s += c * c
	}
	return math.Sqrt(s)
}

// RunPicker starts the preset menu on the alternate screen.
func RunPicker() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen()).Run()
	return err
}

// RunLive starts a live view for cfg on the alternate screen.
func RunLive(cfg *config.Config, name string) error {
	m, err := NewModel(cfg, name)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
