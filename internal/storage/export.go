package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/movlab/motionprim/internal/motion"
)

type ExportData struct {
	Name       string             `json:"name"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Velocities [][]float64        `json:"velocities"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a self-describing dump of one reproduction. The
// writer decides whether it lands in a file or on stdout.
func ExportJSON(w io.Writer, name, integrator string, dt float64, metrics map[string]float64, tr *motion.Trajectory) error {
	data := ExportData{
		Name:       name,
		Integrator: integrator,
		Dt:         dt,
		Duration:   tr.Duration(),
		Steps:      tr.Len(),
		Times:      tr.Times,
		States:     make([][]float64, len(tr.States)),
		Velocities: make([][]float64, len(tr.Velocities)),
		Metrics:    metrics,
	}
	for i, s := range tr.States {
		data.States[i] = s
	}
	for i, v := range tr.Velocities {
		data.Velocities[i] = v
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV emits one row per sample: time, positions x0..xN, then
// velocities v0..vN.
func WriteCSV(w io.Writer, tr *motion.Trajectory) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if tr.Len() == 0 {
		return nil
	}

	dims := tr.Dims()
	header := []string{"time"}
	for d := 0; d < dims; d++ {
		header = append(header, fmt.Sprintf("x%d", d))
	}
	for d := 0; d < dims; d++ {
		header = append(header, fmt.Sprintf("v%d", d))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range tr.States {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(tr.Times[i], 'f', 6, 64))
		for _, val := range tr.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		for _, val := range tr.Velocities[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
