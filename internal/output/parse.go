package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/steersim/internal/vector"
)

// Polyline is a path row read back from a paths stream.
type Polyline struct {
	Index  int
	Points []vector.Vector
}

// Segment is a line row read back from a paths stream.
type Segment struct {
	From, To vector.Vector
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseTrajectories reads rows written by WriteTrajectory.
func ParseTrajectories(r io.Reader) ([]Trajectory, error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]Trajectory, 0, len(records))
	for i, rec := range records {
		if len(rec) != 11 {
			return nil, fmt.Errorf("trajectories line %d: expected 11 fields, got %d", i+1, len(rec))
		}
		nums, err := parseFloats(rec[:10])
		if err != nil {
			return nil, fmt.Errorf("trajectories line %d: %w", i+1, err)
		}
		collision, err := strconv.ParseBool(strings.TrimSpace(rec[10]))
		if err != nil {
			return nil, fmt.Errorf("trajectories line %d: %w", i+1, err)
		}
		rows = append(rows, Trajectory{
			Time:        nums[0],
			MoverID:     int(nums[1]),
			PosX:        nums[2],
			PosY:        nums[3],
			VelX:        nums[4],
			VelY:        nums[5],
			AccX:        nums[6],
			AccY:        nums[7],
			Orientation: nums[8],
			BehaviorID:  int(nums[9]),
			Collision:   collision,
		})
	}
	return rows, nil
}

// ParsePaths reads the path and line rows of a paths stream.
func ParsePaths(r io.Reader) ([]Polyline, []Segment, error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	var paths []Polyline
	var lines []Segment
	for i, rec := range records {
		switch strings.TrimSpace(rec[0]) {
		case "path":
			if len(rec) < 2 || (len(rec)-2)%2 != 0 {
				return nil, nil, fmt.Errorf("paths line %d: malformed path row", i+1)
			}
			idx, err := strconv.Atoi(strings.TrimSpace(rec[1]))
			if err != nil {
				return nil, nil, fmt.Errorf("paths line %d: %w", i+1, err)
			}
			coords, err := parseFloats(rec[2:])
			if err != nil {
				return nil, nil, fmt.Errorf("paths line %d: %w", i+1, err)
			}
			pl := Polyline{Index: idx}
			for j := 0; j < len(coords); j += 2 {
				pl.Points = append(pl.Points, vector.New(coords[j], coords[j+1]))
			}
			paths = append(paths, pl)
		case "line":
			if len(rec) != 5 {
				return nil, nil, fmt.Errorf("paths line %d: malformed line row", i+1)
			}
			c, err := parseFloats(rec[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("paths line %d: %w", i+1, err)
			}
			lines = append(lines, Segment{From: vector.New(c[0], c[1]), To: vector.New(c[2], c[3])})
		default:
			return nil, nil, fmt.Errorf("paths line %d: unknown row kind %q", i+1, rec[0])
		}
	}
	return paths, lines, nil
}
