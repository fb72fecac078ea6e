package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/physics"
)

const (
	canvasWidth     = 56
	canvasHeight    = 22
	historyCapacity = 600
	maxWarp         = 4096

	// frames one circular orbit should take at the default warp
	framesPerOrbit = 600
)

// Snapshot stores state at a specific time for replay.
type Snapshot struct {
	Attractor physics.Body
	Orbiter   physics.Body
	Time      float64
	Energy    float64
	Radius    float64
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live orbit view. Each tick advances the same integrator the
// window uses by warp fixed steps of dt.
type Model struct {
	name   string
	params physics.Params
	mutual bool

	attractor, orbiter         *physics.Body
	initAttractor, initOrbiter *physics.Body
	hideAttractor              bool

	t, dt         float64
	warp          int
	initialWarp   int
	extent        float64
	initialExtent float64
	initialEnergy float64
	initialL      float64
	unstable      bool

	canvas   *Canvas
	camera   *Camera
	history  []Snapshot
	playHead int
	running  bool
	showHelp bool
	theme    int
	style    styles
}

// NewModel builds a live view for cfg. name labels the header, usually the
// preset name.
func NewModel(cfg *config.Config, name string) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	params, err := cfg.PhysicsParams()
	if err != nil {
		return Model{}, err
	}
	a, err := cfg.Bodies.Attractor.NewBody(params.Precision)
	if err != nil {
		return Model{}, fmt.Errorf("attractor: %w", err)
	}
	o, err := cfg.Bodies.Orbiter.NewBody(params.Precision)
	if err != nil {
		return Model{}, fmt.Errorf("orbiter: %w", err)
	}

	r := physics.Separation(a, o)
	extent := 1.5 * math.Max(r, math.Max(a.Position().Len(), o.Position().Len()))
	if extent == 0 {
		extent = 1
	}
	warp := defaultWarp(params.G, a.Mass(), r, cfg.Sim.Dt)

	return Model{
		name:          name,
		params:        params,
		mutual:        cfg.Physics.Mutual,
		attractor:     a.Clone(),
		orbiter:       o.Clone(),
		initAttractor: a,
		initOrbiter:   o,
		hideAttractor: cfg.Bodies.Attractor.Hidden,
		dt:            cfg.Sim.Dt,
		warp:          warp,
		initialWarp:   warp,
		extent:        extent,
		initialExtent: extent,
		initialEnergy: physics.OrbitalEnergy(a, o, params.G),
		initialL:      physics.AngularMomentum(a, o),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
		running:       true,
		style:         newStyles(Themes[0]),
	}, nil
}

// defaultWarp picks steps per frame so a circular orbit of radius r takes
// about framesPerOrbit frames.
func defaultWarp(g, m, r, dt float64) int {
	period := physics.OrbitalPeriod(g, m, r)
	if math.IsInf(period, 0) || !(dt > 0) {
		return 1
	}
	w := int(period / dt / framesPerOrbit)
	return max(1, min(maxWarp, w))
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "w":
			m.warp = min(maxWarp, m.warp*2)
		case "s":
			m.warp = max(1, m.warp/2)
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = nextTheme(m.theme)
			m.style = newStyles(Themes[m.theme])
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the physics by warp steps and records a snapshot.
func (m *Model) step() {
	if m.unstable {
		return
	}
	for n := 0; n < m.warp; n++ {
		if m.mutual {
			physics.StepMutual(m.dt, m.attractor, m.orbiter, m.params)
		} else {
			physics.Step(m.dt, m.attractor, m.orbiter, m.params)
		}
		m.t += m.dt
	}
	if !m.attractor.IsValid() || !m.orbiter.IsValid() {
		m.unstable = true
		m.running = false
		return
	}

	if far := math.Max(m.attractor.Position().Len(), m.orbiter.Position().Len()); far > 0.95*m.extent {
		m.extent = 1.25 * far
	}

	m.history = append(m.history, Snapshot{
		Attractor: *m.attractor,
		Orbiter:   *m.orbiter,
		Time:      m.t,
		Energy:    physics.OrbitalEnergy(m.attractor, m.orbiter, m.params.G),
		Radius:    physics.Separation(m.attractor, m.orbiter),
	})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the initial bodies and view.
func (m *Model) reset() {
	m.t = 0
	m.attractor = m.initAttractor.Clone()
	m.orbiter = m.initOrbiter.Clone()
	m.history = m.history[:0]
	m.playHead = -1
	m.warp = m.initialWarp
	m.extent = m.initialExtent
	m.unstable = false
	m.running = true
}

// Time is the simulated time of the live state.
func (m Model) Time() float64 { return m.t }

// Bodies returns copies of the live attractor and orbiter.
func (m Model) Bodies() (attractor, orbiter *physics.Body) {
	return m.attractor.Clone(), m.orbiter.Clone()
}

// frame returns the state to display and the history visible up to it.
func (m Model) frame() (a, o *physics.Body, t float64, visible []Snapshot) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		return &snap.Attractor, &snap.Orbiter, snap.Time, m.history[:m.playHead+1]
	}
	return m.attractor, m.orbiter, m.t, m.history
}

func (m *Model) draw(a, o *physics.Body, visible []Snapshot) {
	m.canvas.Clear()
	cw, ch := m.canvas.PixelSize()
	project := func(p mgl64.Vec3) (int, int, bool) {
		x, y, _, ok := m.camera.Project(p.Mul(1/m.extent), cw, ch)
		return x, y, ok
	}

	var px, py int
	prev := false
	for _, s := range visible {
		x, y, ok := project(s.Orbiter.Position())
		if ok && prev {
			m.canvas.DrawLine(px, py, x, y)
		} else if ok {
			m.canvas.Set(x, y)
		}
		px, py, prev = x, y, ok
	}

	if !m.hideAttractor {
		if x, y, ok := project(a.Position()); ok {
			m.canvas.DrawDisc(x, y, 2)
		}
	}
	if x, y, ok := project(o.Position()); ok {
		m.canvas.DrawDisc(x, y, 1)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	a, o, t, visible := m.frame()
	m.draw(a, o, visible)
	canvasView := m.style.panel.Render(m.style.orbit.Render(m.canvas.String()))

	st := m.style
	row := func(label, value string) string {
		return st.label.Width(12).Render(label) + st.value.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(st.title.Render(strings.ToUpper(m.name)) + "\n")

	var status string
	switch {
	case m.unstable:
		status = st.warn.Render("UNSTABLE")
	case m.playHead != -1:
		offset := visible[len(visible)-1].Time - m.history[len(m.history)-1].Time
		if m.running {
			status = st.running.Render(fmt.Sprintf("REPLAYING (%.2f)", offset))
		} else {
			status = st.paused.Render(fmt.Sprintf("REPLAY PAUSED (%.2f)", offset))
		}
	case !m.running:
		status = st.paused.Render("PAUSED")
	default:
		status = st.running.Render("RUNNING")
	}
	s.WriteString(status + "\n\n")

	energy := physics.OrbitalEnergy(a, o, m.params.G)
	speed := o.Velocity().Sub(a.Velocity()).Len()
	s.WriteString(row("Time", fmt.Sprintf("%.3f", t)))
	s.WriteString(row("Separation", fmt.Sprintf("%.3f", physics.Separation(a, o))))
	s.WriteString(row("Speed", fmt.Sprintf("%.4g", speed)))
	s.WriteString(row("Energy", fmt.Sprintf("%.6g", energy)))
	s.WriteString(row("Drift", fmt.Sprintf("%.2e", relDiff(energy, m.initialEnergy))))
	s.WriteString(row("Ang. mom.", fmt.Sprintf("%.6g", physics.AngularMomentum(a, o))))
	s.WriteString(row("Warp", fmt.Sprintf("%dx dt=%g", m.warp, m.dt)))
	s.WriteString(row("Precision", m.params.Precision.String()))
	if m.mutual {
		s.WriteString(row("Gravity", "mutual"))
	}

	if len(visible) > 1 {
		radii := make([]float64, len(visible))
		energies := make([]float64, len(visible))
		for i, snap := range visible {
			radii[i] = snap.Radius
			energies[i] = snap.Energy
		}
		chart := asciigraph.Plot(radii, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Separation"))
		s.WriteString("\n" + chart + "\n")
		s.WriteString(st.label.Render("Energy ") + Sparkline(energies, 30) + "\n")
	}

	s.WriteString("\n" + st.Separator(32) + "\n")
	s.WriteString(st.hint.Render("SP:Pause R:Reset Q:Quit\nW/S:Warp T:Theme ?:Help\n[ ]:Time-Travel XYZ:Rotate"))

	statsView := lipgloss.NewStyle().Padding(0, 2).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  W / S    - Double / halve warp      ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  X Y Z    - Rotate (shift reverses)  ║
║  + / -    - Zoom                     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func relDiff(v, ref float64) float64 {
	if ref == 0 {
		return math.Abs(v)
	}
	return math.Abs((v - ref) / ref)
}
