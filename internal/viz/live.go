package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravballs/internal/metrics"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/sim"
	"go.uber.org/zap"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	minCanvasWidth  = 20
	minCanvasHeight = 8
	historyCapacity = 600

	orbitStep      = 5.0 // degrees per arrow key
	dragDegPerCell = 2.0

	DefaultRecordPath = "gravballs.gif"
)

type TickMsg time.Time

// Options configures the live viewer.
type Options struct {
	FPS        int
	Logger     *zap.Logger
	RecordPath string // GIF written when a recording stops
}

// Model is the live viewer: it owns the camera and HUD state and drives a
// simulator once per frame. The scene is mutated only from Update.
type Model struct {
	sim    *sim.Simulator
	world  *physics.World
	scene  *physics.Scene
	camera *Camera
	canvas *Canvas
	rec    *Recorder
	log    *zap.Logger
	gif    string

	fps           int
	width, height int
	showHUD       bool
	showHelp      bool

	dragging     bool
	lastX, lastY int

	energyHistory []float64
	sparkHistory  []float64
	frame         int
	status        string
}

func NewModel(s *sim.Simulator, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RecordPath == "" {
		opts.RecordPath = DefaultRecordPath
	}
	w := s.World()
	return Model{
		sim:           s,
		world:         w,
		scene:         w.Scene(),
		camera:        NewCamera(opts.FPS),
		canvas:        NewCanvas(defaultWidth, defaultHeight),
		rec:           NewRecorder(),
		log:           opts.Logger,
		gif:           opts.RecordPath,
		fps:           opts.FPS,
		width:         defaultWidth,
		height:        defaultHeight,
		showHUD:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		sparkHistory:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.step()
		m.draw()
		m.rec.Capture(m.canvas, hexColor(string(ThemeForMode(m.scene.Mode()).Primary)))
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sc := m.scene
	switch msg.String() {
	case "esc", "ctrl+c":
		m.stopRecording()
		return m, tea.Quit
	case " ":
		sc.TogglePaused()
	case "r":
		m.world.Reset()
	case "c":
		m.world.Clear()
	case "n":
		if !m.world.SpawnRandom() {
			m.status = fmt.Sprintf("ball limit reached (%d)", sc.MaxBalls)
		}
	case "2":
		sc.AdjustGravity(-1)
	case "8":
		sc.AdjustGravity(1)
	case "4":
		sc.AdjustFriction(-1)
	case "6":
		sc.AdjustFriction(1)
	case "a":
		sc.AdjustRestitution(-1)
	case "d":
		sc.AdjustRestitution(1)
	case "q":
		sc.AdjustEntropy(-1)
	case "e":
		sc.AdjustEntropy(1)
	case "m":
		sc.ToggleMagneticWalls()
	case "b":
		sc.ToggleBlackHole()
	case "g":
		sc.ToggleCursorGravity()
	case "<", ",":
		sc.AdjustTimeScale(-1)
	case ">", ".":
		sc.AdjustTimeScale(1)
	case "+", "=":
		m.camera.Zoom(1)
	case "-", "_":
		m.camera.Zoom(-1)
	case "left":
		m.camera.Orbit(-orbitStep, 0)
	case "right":
		m.camera.Orbit(orbitStep, 0)
	case "up":
		m.camera.Orbit(0, orbitStep)
	case "down":
		m.camera.Orbit(0, -orbitStep)
	case "t":
		m.showHUD = !m.showHUD
	case "?":
		m.showHelp = !m.showHelp
	case "v":
		if m.rec.Active() {
			m.stopRecording()
		} else {
			m.rec.Start()
			m.status = "recording"
		}
	}
	m.log.Debug("key", zap.String("key", msg.String()), zap.String("mode", sc.Mode()))
	return m, nil
}

// handleMouse retargets the cursor field on motion and orbits the camera
// while the left button is held.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X-2, msg.Y-1 // canvas padding
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case tea.MouseActionRelease:
		m.dragging = false
	case tea.MouseActionMotion:
		if m.dragging {
			m.camera.Orbit(float64(msg.X-m.lastX)*dragDegPerCell, float64(msg.Y-m.lastY)*dragDegPerCell)
			m.lastX, m.lastY = msg.X, msg.Y
		}
	}
	if m.scene.CursorGravity && col >= 0 && row >= 0 && col < m.canvas.Width && row < m.canvas.Height {
		m.sim.SetCursor(m.camera.Unproject(col*2+1, row*4+2, m.canvas.PixelWidth(), m.canvas.PixelHeight()))
	}
}

func (m *Model) resize(w, h int) {
	cw := w - 4
	if m.showHUD {
		cw -= statsWidth + 5
	}
	ch := h - 2
	m.width = max(cw, minCanvasWidth)
	m.height = max(ch, minCanvasHeight)
	m.canvas = NewCanvas(m.width, m.height)
}

// step advances the simulation by one frame and records HUD history.
func (m *Model) step() {
	m.camera.Update()
	st := m.sim.Advance(1 / float64(m.fps))
	if st.Consumed > 0 {
		m.log.Debug("consumed", zap.Int("balls", st.Consumed), zap.Float64("t", m.world.Time()))
	}
	if idx := m.world.Validate(); idx >= 0 {
		m.log.Warn("non-finite ball state, resetting", zap.Int("ball", idx))
		m.world.Reset()
	}
	m.frame++

	m.energyHistory = pushHistory(m.energyHistory, metrics.KineticEnergy(m.world))
	m.sparkHistory = pushHistory(m.sparkHistory, float64(m.world.SparkCount()))
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) stopRecording() {
	if !m.rec.Active() {
		return
	}
	frames := m.rec.Frames()
	if err := m.rec.Stop(m.gif, 100/m.fps); err != nil {
		m.log.Error("save recording", zap.Error(err))
		m.status = "recording failed"
		return
	}
	m.log.Info("recording saved", zap.String("path", m.gif), zap.Int("frames", frames))
	m.status = fmt.Sprintf("saved %s (%d frames)", m.gif, frames)
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawWorld(m.canvas, m.world, m.camera, m.sim.Cursor())
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := ThemeForMode(m.scene.Mode())
	st := NewStyles(theme)
	canvasView := st.Canvas.Render(m.canvas.String())
	if !m.showHUD {
		return canvasView
	}

	sc := m.scene
	var s strings.Builder
	s.WriteString(st.Header.Render("GRAVITY BALLS 3D · "+strings.ToUpper(strings.ReplaceAll(sc.Mode(), "_", " "))) + "\n")

	status := st.Running.Render("RUNNING")
	if sc.Paused {
		status = st.Paused.Render("PAUSED")
	}
	if m.rec.Active() {
		status += "  " + st.Rec.Render(fmt.Sprintf("● REC %d", m.rec.Frames()))
	}
	s.WriteString(status + "\n")
	if m.status != "" {
		s.WriteString(st.Label.Render(m.status) + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.Time()))
	balls := fmt.Sprintf("%d", m.world.BodyCount())
	if sc.MaxBalls > 0 {
		balls += fmt.Sprintf(" / %d", sc.MaxBalls)
	}
	row("Balls", balls)
	row("Sparks", SparklineChart(m.sparkHistory, 16)+fmt.Sprintf(" %d", m.world.SparkCount()))
	s.WriteString("\n")
	row("Gravity [2/8]", fmt.Sprintf("%.2f", sc.Gravity))
	row("Friction [4/6]", fmt.Sprintf("%.2f", sc.Friction))
	row("Elasticity [A/D]", ProgressBar(sc.Restitution, 10)+fmt.Sprintf(" %.2f", sc.Restitution))
	row("Entropy [Q/E]", fmt.Sprintf("%.2f", sc.Entropy))
	row("Time Scale [</>]", fmt.Sprintf("%.1f", sc.TimeScale))
	row("Zoom [+/-]", fmt.Sprintf("%d", int(m.camera.TargetDistance())))
	s.WriteString("\n")
	s.WriteString(st.Label.Render("[M] Magnetic Walls") + st.Toggle(sc.MagneticWalls) + "\n")
	s.WriteString(st.Label.Render("[B] Black Hole") + st.Toggle(sc.BlackHole) + "\n")
	s.WriteString(st.Label.Render("[G] Cursor Gravity") + st.Toggle(sc.CursorGravity) + "\n")

	s.WriteString(st.Help.Render(Separator(statsWidth-6, st.Help) + "\nSPACE pause  R reset  C clear  N ball\nT hud  V record  ? help  ESC quit"))
	statsView := st.Stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space     - Pause/Resume            ║
║  R / C / N - Reset / Clear / New     ║
║  2 / 8     - Gravity down/up         ║
║  4 / 6     - Friction down/up        ║
║  A / D     - Elasticity down/up      ║
║  Q / E     - Entropy down/up         ║
║  M / B / G - Magnet/Hole/Cursor      ║
║  < / >     - Time scale              ║
║  + / -     - Zoom                    ║
║  Arrows    - Orbit camera            ║
║  Mouse     - Drag orbit, aim cursor  ║
║  V         - Toggle GIF recording    ║
║  T         - Toggle HUD              ║
║  Esc       - Quit                    ║
╚══════════════════════════════════════╝`

// Run starts the live viewer on the terminal's alternate screen.
func Run(s *sim.Simulator, opts Options) error {
	p := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
