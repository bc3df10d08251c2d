// Package output accumulates simulation records as delimited text streams and
// writes them to disk at the end of a run.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/vector"
)

// Stream names. Each stream is written to <name>.txt.
const (
	StreamTrajectories = "trajectories"
	StreamPaths        = "paths"
	StreamPoints       = "points"
)

// Trajectory is one mover's state at one instant.
type Trajectory struct {
	Time        float64
	MoverID     int
	PosX, PosY  float64
	VelX, VelY  float64
	AccX, AccY  float64
	Orientation float64
	BehaviorID  int
	Collision   bool
}

// Recorder is an append-only, single-writer accumulator of text records.
type Recorder struct {
	streams   map[string]*strings.Builder
	order     []string
	pathCount int
	log       *zap.Logger
}

func NewRecorder(log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		streams: make(map[string]*strings.Builder),
		log:     log,
	}
}

func (r *Recorder) stream(name string) *strings.Builder {
	b, ok := r.streams[name]
	if !ok {
		b = &strings.Builder{}
		r.streams[name] = b
		r.order = append(r.order, name)
	}
	return b
}

// WriteTrajectory appends one row to the trajectories stream.
func (r *Recorder) WriteTrajectory(t Trajectory) {
	collision := strings.ToUpper(strconv.FormatBool(t.Collision))
	fmt.Fprintf(r.stream(StreamTrajectories),
		"%10.3f, %10d, %10.3f, %10.3f, %10.3f, %10.3f, %10.3f, %10.3f, %10.3f, %10d, %-10s\n",
		t.Time, t.MoverID, t.PosX, t.PosY, t.VelX, t.VelY, t.AccX, t.AccY, t.Orientation, t.BehaviorID, collision)
}

// WritePaths appends one row per path. Path indices keep counting across calls.
func (r *Recorder) WritePaths(paths ...*geometry.Path) {
	b := r.stream(StreamPaths)
	for _, p := range paths {
		fmt.Fprintf(b, "path, %d", r.pathCount)
		for _, pt := range p.Points() {
			fmt.Fprintf(b, ", %s, %s", formatCoord(pt.X()), formatCoord(pt.Y()))
		}
		b.WriteString("\n")
		r.pathCount++
	}
}

// WriteLine appends a straight segment to the paths stream.
func (r *Recorder) WriteLine(p1, p2 vector.Vector) {
	fmt.Fprintf(r.stream(StreamPaths), "line, %s, %s, %s, %s\n",
		formatCoord(p1.X()), formatCoord(p1.Y()), formatCoord(p2.X()), formatCoord(p2.Y()))
}

// WritePoint appends a diagnostic marker at time.
func (r *Recorder) WritePoint(time, x, y float64) {
	fmt.Fprintf(r.stream(StreamPoints), "%s, %10.2f, %10.2f\n", formatCoord(time), x, y)
}

// WriteOther appends a free-form line to the named stream.
func (r *Recorder) WriteOther(stream, line string) {
	b := r.stream(stream)
	b.WriteString(line)
	b.WriteString("\n")
}

// Stream returns the accumulated text of a stream.
func (r *Recorder) Stream(name string) string {
	if b, ok := r.streams[name]; ok {
		return b.String()
	}
	return ""
}

// Streams lists stream names in creation order.
func (r *Recorder) Streams() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Checksum fingerprints the trajectories stream.
func (r *Recorder) Checksum() uint64 {
	return xxhash.Sum64String(r.Stream(StreamTrajectories))
}

// Flush writes every stream to <dir>/<stream>.txt. An existing dir is reused.
func (r *Recorder) Flush(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, name := range r.order {
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(r.streams[name].String()), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		r.log.Debug("wrote stream", zap.String("stream", name), zap.String("file", path))
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
