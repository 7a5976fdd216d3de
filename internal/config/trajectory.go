package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/bipedsim/internal/biped"
)

// LoadTrajectory reads a CSV whose header names joints ("right.hip_yaw",
// ...) and whose rows are target degrees, one row per tick. Joints not
// named in the header stay at zero.
func LoadTrajectory(path string) (biped.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	traj, err := ReadTrajectory(f)
	if err != nil {
		return nil, fmt.Errorf("trajectory %s: %w", path, err)
	}
	return traj, nil
}

func ReadTrajectory(r io.Reader) (biped.Trajectory, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	keys := make([]biped.Key, len(header))
	for i, name := range header {
		k, err := biped.ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	var traj biped.Trajectory
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := biped.ZeroPose()
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %w", len(traj)+1, keys[i], err)
			}
			row[keys[i]] = v
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(traj)+1, err)
		}
		traj = append(traj, row)
	}
	if len(traj) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	return traj, nil
}

// WriteTrajectory writes traj with a header naming every joint.
func WriteTrajectory(w io.Writer, traj biped.Trajectory) error {
	cw := csv.NewWriter(w)
	keys := biped.AllKeys()
	header := make([]string, len(keys))
	for i, k := range keys {
		header[i] = k.String()
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range traj {
		record := make([]string, len(keys))
		for i, k := range keys {
			record[i] = strconv.FormatFloat(row[k], 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
