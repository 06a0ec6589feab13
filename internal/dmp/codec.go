package dmp

import (
	"encoding/json"
	"fmt"

	"github.com/movlab/motionprim/internal/basis"
	"github.com/movlab/motionprim/internal/canonical"
	"github.com/movlab/motionprim/internal/motion"
)

const codecVersion = 1

// modelDoc is the wire form of a fitted model: named numeric arrays only, so
// external packaging code can persist or transmit it without re-fitting.
type modelDoc struct {
	Version      int         `json:"version"`
	Tau          float64     `json:"tau"`
	Duration     float64     `json:"duration"`
	PhaseCutoff  float64     `json:"phase_cutoff"`
	Dt           float64     `json:"dt"`
	Start        []float64   `json:"start"`
	Goal         []float64   `json:"goal"`
	InitVelocity []float64   `json:"initial_velocity"`
	Centers      [][]float64 `json:"centers"`
	Widths       [][]float64 `json:"widths"`
	Weights      [][]float64 `json:"weights"`
}

func (m *Model) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	doc := modelDoc{
		Version:      codecVersion,
		Tau:          m.Canonical.Tau,
		Duration:     m.Canonical.Duration,
		PhaseCutoff:  m.Canonical.Cutoff,
		Dt:           m.Dt,
		Start:        m.Start,
		Goal:         m.Goal,
		InitVelocity: m.InitVelocity,
		Centers:      make([][]float64, len(m.Sets)),
		Widths:       make([][]float64, len(m.Sets)),
		Weights:      make([][]float64, len(m.Sets)),
	}
	for dim, set := range m.Sets {
		doc.Centers[dim] = set.Centers()
		doc.Widths[dim] = set.Widths()
		doc.Weights[dim] = set.Weights()
	}
	return json.Marshal(doc)
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var doc modelDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("dmp: decode model: %w", err)
	}
	if doc.Version != codecVersion {
		return fmt.Errorf("dmp: unsupported model version %d", doc.Version)
	}

	cs, err := canonical.NewWithCutoff(doc.Tau, doc.Duration, doc.PhaseCutoff)
	if err != nil {
		return err
	}
	if len(doc.Centers) != len(doc.Widths) || len(doc.Centers) != len(doc.Weights) {
		return fmt.Errorf("dmp: model arrays disagree on dimension count: %w", motion.ErrDimensionMismatch)
	}
	sets := make([]basis.Set, len(doc.Centers))
	for dim := range sets {
		set, err := basis.FromArrays(doc.Centers[dim], doc.Widths[dim], doc.Weights[dim])
		if err != nil {
			return fmt.Errorf("dmp: dim %d: %w", dim, err)
		}
		sets[dim] = set
	}

	m.Canonical = cs
	m.Sets = sets
	m.Start = motion.State(doc.Start)
	m.Goal = motion.State(doc.Goal)
	m.InitVelocity = motion.State(doc.InitVelocity)
	m.Dt = doc.Dt
	return m.Validate()
}
