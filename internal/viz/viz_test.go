package viz

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
)

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	if !c.Empty() {
		t.Fatal("new canvas should be empty")
	}
	c.Line(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.Lit(i, i) {
			t.Errorf("dot (%d,%d) not lit", i, i)
		}
	}
	c.Set(100, 100)
	c.Clear()
	if !c.Empty() {
		t.Error("clear left dots behind")
	}
}

func TestCameraCentre(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{1.8, 0, 0.8}, mgl64.Vec3{180, 0, 0})
	x, y, ok := cam.Project(mgl64.Vec3{0, 0, 0.8}, 100, 50)
	if !ok {
		t.Fatal("point ahead of camera not visible")
	}
	if absInt(x-50) > 1 || absInt(y-25) > 1 {
		t.Errorf("centre projected to (%d,%d)", x, y)
	}
	if cam.InFront(mgl64.Vec3{3, 0, 0.8}) {
		t.Error("point behind eye reported in front")
	}

	// +y is to the viewer's right when looking along -x
	lx, _, _ := cam.Project(mgl64.Vec3{0, 0.2, 0.8}, 100, 50)
	if lx <= 50 {
		t.Errorf("+y point projected left of centre: %d", lx)
	}
}

func standingSnapshot(step int, knee float64) biped.Snapshot {
	angles := make(map[biped.Key]float64)
	for _, k := range biped.AllKeys() {
		angles[k] = 0
	}
	angles[biped.K(biped.Right, biped.KneePitch)] = knee
	return biped.Snapshot{Step: step, Angles: angles, Targets: biped.ZeroPose(), GroundContacts: 2}
}

func TestRendererDrawsRobot(t *testing.T) {
	r := NewRenderer(biped.DefaultDimensions(), 40, 20)
	r.SetViewpoint(mgl64.Vec3{1.8, 0, 0.8}, mgl64.Vec3{180, 0, 0})
	r.DrawRobot(standingSnapshot(1, 0))

	if r.Canvas().Empty() {
		t.Fatal("nothing drawn")
	}
	if r.Frames() != 1 {
		t.Errorf("frames = %d", r.Frames())
	}

	before := r.Frame()
	r.DrawRobot(standingSnapshot(2, 0.8))
	if r.Frame() == before {
		t.Error("bent knee did not change the picture")
	}

	h := r.History(biped.K(biped.Right, biped.KneePitch))
	if len(h) != 2 {
		t.Fatalf("history length %d", len(h))
	}
	if h[1] < 45 || h[1] > 46 {
		t.Errorf("history should be in degrees, got %f", h[1])
	}
}

func TestRendererHistoryCapped(t *testing.T) {
	r := NewRenderer(biped.DefaultDimensions(), 20, 10)
	for i := 0; i < historyCapacity+50; i++ {
		r.DrawRobot(standingSnapshot(i, 0))
	}
	if n := len(r.History(biped.K(biped.Left, biped.HipYaw))); n != historyCapacity {
		t.Errorf("history length %d, want %d", n, historyCapacity)
	}
}

type stubDriver struct {
	mode  biped.Mode
	steps int
}

func (d *stubDriver) TogglePause() {
	if d.mode == biped.Running {
		d.mode = biped.Paused
	} else {
		d.mode = biped.Running
	}
}
func (d *stubDriver) Mode() biped.Mode { return d.mode }
func (d *stubDriver) Steps() int { return d.steps }
func (d *stubDriver) SimTime() float64 { return float64(d.steps) * 0.01 }

type stubTuner struct{ k1 float64 }

func (s *stubTuner) GetParams() map[string]float64 {
	return map[string]float64{"k1": s.k1, "fmax": 100}
}

func (s *stubTuner) SetParam(name string, v float64) error {
	s.k1 = v
	return nil
}

func newTestModel(maxTicks int) (Model, *stubDriver, *stubTuner) {
	d := &stubDriver{}
	tn := &stubTuner{k1: 10}
	r := NewRenderer(biped.DefaultDimensions(), 20, 10)
	l := &LiveLoop{Driver: d, Tuner: tn, Renderer: r, MaxTicks: maxTicks}
	step := func() {
		d.steps++
		r.DrawRobot(standingSnapshot(d.steps, 0))
	}
	return NewModel(l, step), d, tn
}

func TestModelKeys(t *testing.T) {
	m, d, tn := newTestModel(0)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if d.Mode() != biped.Paused {
		t.Error("space should pause")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = next.(Model)
	if tn.k1 < 10.99 || tn.k1 > 11.01 {
		t.Errorf("k1 after + = %f", tn.k1)
	}

	first := m.Traced()
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.Traced() == first {
		t.Error("tab should change the traced joint")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelStopsAtMaxTicks(t *testing.T) {
	m, d, _ := newTestModel(3)
	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		var next tea.Model
		next, cmd = m.Update(TickMsg{})
		m = next.(Model)
	}
	if d.steps != 3 || m.Ticks() != 3 {
		t.Fatalf("steps = %d, ticks = %d", d.steps, m.Ticks())
	}
	_, cmd = m.Update(TickMsg{})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit after max ticks")
	}
	if d.steps != 3 {
		t.Error("stepped past max ticks")
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestLiveLoopCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := &LiveLoop{
		Driver:   &stubDriver{},
		Renderer: NewRenderer(biped.DefaultDimensions(), 10, 5),
		Input:    strings.NewReader(""),
		Output:   io.Discard,
	}
	started := false
	err := l.Run(ctx, func() { started = true }, func() {})
	if !started {
		t.Error("start not called")
	}
	if err != context.Canceled {
		t.Errorf("err = %v", err)
	}
}
