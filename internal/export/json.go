package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/bipedsim/internal/metrics"
	"github.com/san-kum/bipedsim/internal/storage"
)

type ExportData struct {
	Run      storage.RunMetadata `json:"run"`
	Joints   []string            `json:"joints"`
	Steps    []int               `json:"steps"`
	Times    []float64           `json:"times"`
	Angles   [][]float64         `json:"angles"`
	Targets  [][]float64         `json:"targets"`
	Commands [][]float64         `json:"commands"`
}

func NewExportData(meta storage.RunMetadata, tr *metrics.Trace) ExportData {
	data := ExportData{Run: meta}
	if tr == nil {
		return data
	}
	for _, k := range tr.Keys {
		data.Joints = append(data.Joints, k.String())
	}
	data.Steps = tr.Steps
	data.Times = tr.Times
	data.Angles = tr.Angles
	data.Targets = tr.Targets
	data.Commands = tr.Commands
	return data
}

// JSON writes the run and its trace as indented JSON.
func JSON(w io.Writer, meta storage.RunMetadata, tr *metrics.Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, tr))
}
