package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/metrics"
)

// Columns after step and time come in triples per joint: "<joint>.angle"
// (radians), "<joint>.target" (degrees) and "<joint>.cmd" (rad/s),
// followed by the ground and self contact counts.
const (
	colAngle  = "angle"
	colTarget = "target"
	colCmd    = "cmd"
)

func traceHeader(keys []biped.Key) []string {
	header := []string{"step", "time"}
	for _, k := range keys {
		header = append(header, k.String()+"."+colAngle, k.String()+"."+colTarget, k.String()+"."+colCmd)
	}
	return append(header, "ground", "self")
}

func WriteTrace(w io.Writer, tr *metrics.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader(tr.Keys)); err != nil {
		return err
	}

	for i := range tr.Times {
		row := []string{
			strconv.Itoa(tr.Steps[i]),
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
		}
		for j := range tr.Keys {
			row = append(row,
				strconv.FormatFloat(tr.Angles[i][j], 'g', -1, 64),
				strconv.FormatFloat(tr.Targets[i][j], 'g', -1, 64),
				strconv.FormatFloat(tr.Commands[i][j], 'g', -1, 64),
			)
		}
		row = append(row, strconv.Itoa(tr.Ground[i]), strconv.Itoa(tr.Self[i]))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadTrace(r io.Reader) (*metrics.Trace, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	tr := metrics.NewTrace()
	if len(records) == 0 {
		return tr, nil
	}

	keys, err := parseTraceHeader(records[0])
	if err != nil {
		return nil, err
	}
	tr.Keys = keys
	n := len(keys)

	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("joints.csv line %d: %w", line+2, err)
			}
			vals[j] = v
		}
		angles := make([]float64, n)
		targets := make([]float64, n)
		commands := make([]float64, n)
		for j := 0; j < n; j++ {
			angles[j] = vals[2+3*j]
			targets[j] = vals[3+3*j]
			commands[j] = vals[4+3*j]
		}
		tr.Steps = append(tr.Steps, int(vals[0]))
		tr.Times = append(tr.Times, vals[1])
		tr.Angles = append(tr.Angles, angles)
		tr.Targets = append(tr.Targets, targets)
		tr.Commands = append(tr.Commands, commands)
		tr.Ground = append(tr.Ground, int(vals[2+3*n]))
		tr.Self = append(tr.Self, int(vals[3+3*n]))
	}
	return tr, nil
}

func parseTraceHeader(header []string) ([]biped.Key, error) {
	if len(header) < 4 || (len(header)-4)%3 != 0 || header[0] != "step" || header[1] != "time" {
		return nil, fmt.Errorf("joints.csv: unexpected header %v", header)
	}
	n := (len(header) - 4) / 3
	keys := make([]biped.Key, n)
	for j := 0; j < n; j++ {
		col := header[2+3*j]
		name, ok := strings.CutSuffix(col, "."+colAngle)
		if !ok {
			return nil, fmt.Errorf("joints.csv: expected angle column, got %s", col)
		}
		k, err := biped.ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys[j] = k
	}
	return keys, nil
}
