package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravballs/internal/dynamo"
)

type ExportData struct {
	Run     RunMetadata     `json:"run"`
	Steps   int             `json:"steps"`
	Samples []dynamo.Sample `json:"samples"`
}

// ExportJSON writes a stored run and its samples as one JSON document.
func (s *Store) ExportJSON(out io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{
		Run:     *meta,
		Steps:   len(samples),
		Samples: samples,
	})
}

// ExportCSV re-emits a stored run's samples.
func (s *Store) ExportCSV(out io.Writer, runID string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	return WriteCSV(out, samples)
}
