package viz

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bipedsim/internal/biped"
)

type TickMsg time.Time

// Driver is the part of the frame driver the live view controls.
type Driver interface {
	TogglePause()
	Mode() biped.Mode
	Steps() int
	SimTime() float64
}

// Tuner exposes live controller parameters.
type Tuner interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// LiveLoop runs the simulation inside a Bubble Tea program, one step per
// frame.
type LiveLoop struct {
	Driver   Driver
	Tuner    Tuner
	Renderer *Renderer
	Title    string
	FPS      int
	// MaxTicks ends the program after that many frames; 0 runs until quit.
	MaxTicks int
	Theme    Theme

	Input  io.Reader
	Output io.Writer
}

func (l *LiveLoop) Run(ctx context.Context, start func(), step func()) error {
	start()
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if l.Input != nil {
		opts = append(opts, tea.WithInput(l.Input))
	}
	if l.Output != nil {
		opts = append(opts, tea.WithOutput(l.Output))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(NewModel(l, step), opts...).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Model is the live view state. The simulation itself lives behind the
// loop's Driver.
type Model struct {
	loop   *LiveLoop
	step   func()
	ticks  int
	keys   []biped.Key
	traced int
	theme  Theme
	notice string
}

func NewModel(l *LiveLoop, step func()) Model {
	theme := l.Theme
	if theme.Name == "" {
		theme = ThemeCyberpunk
	}
	return Model{
		loop:   l,
		step:   step,
		keys:   biped.AllKeys(),
		traced: int(biped.KneePitch),
		theme:  theme,
	}
}

func (m Model) interval() time.Duration {
	fps := m.loop.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.loop.Driver.TogglePause()
		case "+", "=":
			m.adjustGain(1.1)
		case "-", "_":
			m.adjustGain(1 / 1.1)
		case "tab":
			m.traced = (m.traced + 1) % len(m.keys)
		case "t":
			m.theme = m.theme.next()
		}
	case TickMsg:
		if m.loop.MaxTicks > 0 && m.ticks >= m.loop.MaxTicks {
			return m, tea.Quit
		}
		m.step()
		m.ticks++
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) adjustGain(factor float64) {
	if m.loop.Tuner == nil {
		return
	}
	k1 := m.loop.Tuner.GetParams()["k1"]
	if err := m.loop.Tuner.SetParam("k1", k1*factor); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
}

// Ticks is the number of frames stepped so far.
func (m Model) Ticks() int { return m.ticks }

// Traced is the joint whose history is plotted.
func (m Model) Traced() biped.Key { return m.keys[m.traced] }

func (m Model) View() string {
	st := m.theme.styles()
	r := m.loop.Renderer
	d := m.loop.Driver
	snap := r.Last()

	var s strings.Builder
	title := m.loop.Title
	if title == "" {
		title = "BIPEDSIM"
	}
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")
	if d.Mode() == biped.Paused {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Steps", fmt.Sprintf("%d", d.Steps()))
	row("Time", fmt.Sprintf("%.2fs", d.SimTime()))
	if m.loop.Tuner != nil {
		p := m.loop.Tuner.GetParams()
		row("k1 / fMax", fmt.Sprintf("%.2f / %.0f", p["k1"], p["fmax"]))
	}
	row("Ground pts", fmt.Sprintf("%d", snap.GroundContacts))
	if snap.SelfCollision {
		s.WriteString(st.label.Render("Self contact") + st.alarm.Render("YES") + "\n")
	} else {
		row("Self contact", "no")
	}

	k := m.Traced()
	if hist := r.History(k); len(hist) > 1 {
		chart := asciigraph.Plot(hist,
			asciigraph.Height(6),
			asciigraph.Width(36),
			asciigraph.Caption(fmt.Sprintf("%s [deg], target %.1f", k, snap.Targets[k])))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.notice != "" {
		s.WriteString(st.alarm.Render(m.notice) + "\n")
	}
	s.WriteString(st.muted.Render("space pause  +/- k1  tab joint  t theme  q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(r.Frame()),
		st.panel.Render(s.String()))
}
