package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/steersim/internal/export"
	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/steering"
)

const (
	canvasWidth  = 72
	canvasHeight = 22
	maxSpeed     = 64
	frameRate    = time.Second / 20
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// frame holds every mover's sample at one time.
type frame struct {
	time    float64
	samples []output.Trajectory
}

// Replay plays back a recorded run.
type Replay struct {
	name   string
	frames []frame
	paths  []output.Polyline
	lines  []output.Segment
	bounds export.Bounds

	cursor  int
	playing bool
	speed   int
	theme   int
	canvas  *Canvas
}

// NewReplay groups samples into frames by time. Samples must be in the order
// a simulation records them.
func NewReplay(name string, samples []output.Trajectory, paths []output.Polyline, lines []output.Segment) *Replay {
	var frames []frame
	for _, s := range samples {
		if n := len(frames); n == 0 || frames[n-1].time != s.Time {
			frames = append(frames, frame{time: s.Time})
		}
		last := &frames[len(frames)-1]
		last.samples = append(last.samples, s)
	}

	return &Replay{
		name:    name,
		frames:  frames,
		paths:   paths,
		lines:   lines,
		bounds:  export.SceneBounds(samples, paths, lines),
		playing: true,
		speed:   1,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
}

func (r *Replay) Frames() int   { return len(r.frames) }
func (r *Replay) Cursor() int   { return r.cursor }
func (r *Replay) Playing() bool { return r.playing }
func (r *Replay) Speed() int    { return r.speed }

func (r *Replay) Init() tea.Cmd {
	return tick()
}

func (r *Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		case " ":
			r.playing = !r.playing
			if r.playing && r.cursor >= len(r.frames)-1 {
				r.cursor = 0
			}
		case "left", "h":
			r.playing = false
			r.seek(r.cursor - 1)
		case "right", "l":
			r.playing = false
			r.seek(r.cursor + 1)
		case "home", "g":
			r.seek(0)
		case "+", "=":
			if r.speed < maxSpeed {
				r.speed *= 2
			}
		case "-", "_":
			if r.speed > 1 {
				r.speed /= 2
			}
		case "t":
			r.theme = (r.theme + 1) % len(Themes)
		}
	case TickMsg:
		if r.playing {
			r.seek(r.cursor + r.speed)
			if r.cursor >= len(r.frames)-1 {
				r.playing = false
			}
		}
		return r, tick()
	}
	return r, nil
}

func (r *Replay) seek(i int) {
	if i > len(r.frames)-1 {
		i = len(r.frames) - 1
	}
	if i < 0 {
		i = 0
	}
	r.cursor = i
}

func (r *Replay) draw() {
	c := r.canvas
	c.Clear()
	for _, p := range r.paths {
		for i := 1; i < len(p.Points); i++ {
			a, b := p.Points[i-1], p.Points[i]
			c.WorldLine(r.bounds, a.X(), a.Y(), b.X(), b.Y())
		}
	}
	for _, l := range r.lines {
		c.WorldLine(r.bounds, l.From.X(), l.From.Y(), l.To.X(), l.To.Y())
	}

	for i := 0; i <= r.cursor && i < len(r.frames); i++ {
		for _, s := range r.frames[i].samples {
			c.Plot(r.bounds, s.PosX, s.PosY)
		}
	}
}

func (r *Replay) View() string {
	st := newStyles(Themes[r.theme])
	r.draw()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(r.name)) + "\n")

	if len(r.frames) == 0 {
		s.WriteString(st.label.Render("no samples") + "\n")
		return s.String()
	}
	f := r.frames[r.cursor]

	status := st.status.Render("PLAYING")
	if !r.playing {
		status = st.paused.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  %s %s  %s %s  %s %s\n",
		status,
		st.label.Render("t"), st.value.Render(fmt.Sprintf("%.3f", f.time)),
		st.label.Render("frame"), st.value.Render(fmt.Sprintf("%d/%d", r.cursor+1, len(r.frames))),
		st.label.Render("speed"), st.value.Render(fmt.Sprintf("x%d", r.speed)),
	))

	s.WriteString(st.canvas.Render(strings.TrimSuffix(r.canvas.String(), "\n")) + "\n")

	for _, m := range f.samples {
		speed := math.Hypot(m.VelX, m.VelY)
		s.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
			st.label.Render(fmt.Sprintf("%6d", m.MoverID)),
			st.value.Render(fmt.Sprintf("%-12s", steering.Name(m.BehaviorID))),
			st.label.Render("pos"), st.value.Render(fmt.Sprintf("(%8.2f, %8.2f)", m.PosX, m.PosY)),
			st.label.Render("speed"), st.value.Render(fmt.Sprintf("%6.2f", speed)),
		))
	}

	s.WriteString(st.help.Render("space pause • ←/→ step • +/- speed • home restart • t theme • q quit"))
	return s.String()
}
