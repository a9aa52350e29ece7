// Package report renders run results and trial histories for the console
// and for export to plotting tools.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/outpost/internal/engine"
)

// ErrUnknownFormat is returned for an export format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects the history export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// historyDocument is the export shape of engine.History. Happiness uses
// pointers so that years with no citizens encode as null.
type historyDocument struct {
	Years      int        `json:"years" yaml:"years"`
	Food       []int      `json:"Food" yaml:"Food"`
	Firewood   []int      `json:"Firewood" yaml:"Firewood"`
	Tools      []int      `json:"Tools" yaml:"Tools"`
	Population []int      `json:"Population" yaml:"Population"`
	Happiness  []*float64 `json:"Happiness" yaml:"Happiness"`
}

func newHistoryDocument(h engine.History) historyDocument {
	doc := historyDocument{
		Years:      h.Len(),
		Food:       nonNil(h.Food),
		Firewood:   nonNil(h.Firewood),
		Tools:      nonNil(h.Tools),
		Population: nonNil(h.Population),
		Happiness:  make([]*float64, len(h.Happiness)),
	}
	for i, v := range h.Happiness {
		if math.IsNaN(v) {
			continue
		}
		v := v
		doc.Happiness[i] = &v
	}
	return doc
}

func nonNil(in []int) []int {
	if in == nil {
		return []int{}
	}
	return in
}

// WriteHistory encodes one trial's history to w, keyed by series name.
func WriteHistory(w io.Writer, h engine.History, format Format) error {
	doc := newHistoryDocument(h)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// Summary is the machine-readable form of a run result.
type Summary struct {
	RunID          string   `json:"run_id"`
	Trials         int      `json:"trials"`
	Aggregation    string   `json:"aggregation"`
	Samples        int      `json:"samples"`
	YearsSimulated int      `json:"years_simulated"`
	Mean           float64  `json:"mean"`
	StdDev         float64  `json:"std_dev"`
	LastTrialYears int      `json:"last_trial_years"`
	LastEvents     []string `json:"last_events"`
}

// NewSummary condenses res for output.
func NewSummary(res engine.Result) Summary {
	events := make([]string, len(res.LastEvents))
	for i, e := range res.LastEvents {
		events[i] = e.Description
	}
	return Summary{
		RunID:          res.RunID,
		Trials:         res.Trials,
		Aggregation:    string(res.Aggregation),
		Samples:        len(res.Samples),
		YearsSimulated: res.YearsSimulated,
		Mean:           res.Mean,
		StdDev:         res.StdDev,
		LastTrialYears: res.LastHistory.Len(),
		LastEvents:     events,
	}
}

// WriteSummary prints the survival line.
func WriteSummary(w io.Writer, res engine.Result) error {
	_, err := fmt.Fprintf(w, "Mean Years Survived: %v, Std Dev: %v\n", res.Mean, res.StdDev)
	return err
}

// WriteChoice prints the chosen action line.
func WriteChoice(w io.Writer, label string) error {
	_, err := fmt.Fprintf(w, "Chosen action: %s\n", label)
	return err
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
