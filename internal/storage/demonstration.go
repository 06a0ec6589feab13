package storage

import (
	"encoding/json"
	"os"

	"github.com/movlab/motionprim/internal/motion"
)

// demonstrationDoc is the recorder's persistence contract: timestamps in
// seconds alongside one sample row per timestamp.
type demonstrationDoc struct {
	Timestamps []float64   `json:"timestamps"`
	Samples    [][]float64 `json:"samples"`
}

func SaveDemonstration(path string, d *motion.Demonstration) error {
	doc := demonstrationDoc{
		Timestamps: d.Times,
		Samples:    make([][]float64, d.Len()),
	}
	for i, s := range d.Samples {
		doc.Samples[i] = s
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// LoadDemonstration reads a recording and runs it through the same
// validation as a live capture.
func LoadDemonstration(path string) (*motion.Demonstration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc demonstrationDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	samples := make([]motion.State, len(doc.Samples))
	for i, row := range doc.Samples {
		samples[i] = row
	}
	return motion.NewDemonstration(doc.Timestamps, samples)
}
