package viz

import (
	"fmt"
	"math/rand"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravballs/internal/config"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/sim"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	pickTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickArrow = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickSel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickDesc  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// sceneParam is one editable field of the config screen.
type sceneParam struct {
	name string
	step float64
	get  func(*physics.Scene) float64
	set  func(*physics.Scene, float64)
}

var sceneParams = []sceneParam{
	{"gravity", 1, func(s *physics.Scene) float64 { return s.Gravity }, (*physics.Scene).SetGravity},
	{"friction", 0.01, func(s *physics.Scene) float64 { return s.Friction }, (*physics.Scene).SetFriction},
	{"restitution", 0.05, func(s *physics.Scene) float64 { return s.Restitution }, (*physics.Scene).SetRestitution},
	{"entropy", 0.01, func(s *physics.Scene) float64 { return s.Entropy }, (*physics.Scene).SetEntropy},
	{"time_scale", 0.1, func(s *physics.Scene) float64 { return s.TimeScale }, (*physics.Scene).SetTimeScale},
	{"box_size", 1, func(s *physics.Scene) float64 { return s.BoxSize }, (*physics.Scene).SetBoxSize},
	{"initial_balls", 1,
		func(s *physics.Scene) float64 { return float64(s.InitialBalls) },
		func(s *physics.Scene, v float64) { s.InitialBalls = max(0, int(v)) }},
}

// Picker lets the user choose a preset, tweak its scene and then hands over
// to the live viewer.
type Picker struct {
	state       int
	cursor      int
	presets     []string
	selected    string
	scene       physics.Scene
	paramCursor int
	editing     bool
	editBuf     string
	seed        int64
	opts        Options
	width       int
	height      int
	live        Model
}

func NewPicker(seed int64, opts Options) *Picker {
	return &Picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		seed:    seed,
		opts:    opts,
	}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Picker) handleKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	}
	return m, nil
}

func (m Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
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
		m.selected = m.presets[m.cursor]
		m.scene = *config.GetPreset(m.selected).ToScene()
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	p := sceneParams[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				p.set(&m.scene, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(sceneParams)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, ""
	case "s":
		return m, m.start()
	case "left", "h":
		p.set(&m.scene, p.get(&m.scene)-p.step)
	case "right", "l":
		p.set(&m.scene, p.get(&m.scene)+p.step)
	}
	return m, nil
}

func (m *Picker) start() tea.Cmd {
	sc := m.scene
	sc.Clamp()
	w := physics.NewWorld(&sc, rand.New(rand.NewSource(m.seed)))
	w.Reset()
	m.live = NewModel(sim.New(w), m.opts)
	if m.width > 0 {
		m.live.resize(m.width, m.height)
	}
	m.state = stateSim
	return m.live.Init()
}

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
	return "\n\n    " + pickTitle.Render(title) + "\n    " + pickSub.Render(sub) + "\n    " + pickSub.Render("─────────────────────────") + "\n\n"
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pickKey.Render(pairs[i]) + pickDim.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("GRAVITY BALLS", "pick a scene"))
	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickArrow.Render("▸"), pickSel.Render(fmt.Sprintf("%-12s", name)), pickDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", pickDim.Render(fmt.Sprintf("%-12s", name)), pickDim.Render(desc)))
		}
	}
	b.WriteString(keyHints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString(m.header(strings.ToUpper(m.selected), config.Presets[m.selected].Description))
	for i, p := range sceneParams {
		valStr := fmt.Sprintf("%8.2f", p.get(&m.scene))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", pickArrow.Render("▸"), pickSel.Render(fmt.Sprintf("%-14s", p.name)), pickDesc.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", pickDim.Render(fmt.Sprintf("%-14s", p.name)), pickDim.Render(valStr)))
		}
	}
	b.WriteString(keyHints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunPicker starts the preset picker on the terminal's alternate screen.
func RunPicker(seed int64, opts Options) error {
	_, err := tea.NewProgram(NewPicker(seed, opts), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
