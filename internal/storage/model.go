package storage

import (
	"encoding/json"
	"os"

	"github.com/movlab/motionprim/internal/dmp"
)

func SaveModel(path string, m *dmp.Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadModel(path string) (*dmp.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := new(dmp.Model)
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
