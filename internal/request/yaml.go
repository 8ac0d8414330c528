package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/column"
	"github.com/vk/neccard/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads `.yaml` and `.yml` build requests.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML request loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlDocument struct {
	Output      string             `yaml:"output"`
	SigFigs     *int               `yaml:"sig_figs"`
	Verbose     *int               `yaml:"verbose"`
	Columns     []int              `yaml:"columns"`
	Comments    []string           `yaml:"comments"`
	Constants   map[string]float64 `yaml:"constants"`
	Wires       [][]string         `yaml:"wires"`
	Frequency   []string           `yaml:"frequency"`
	Excitations [][]string         `yaml:"excitations"`
	Radiation   []string           `yaml:"radiation"`
}

// Load decodes one YAML request file. Unknown keys are rejected.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading YAML request.", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw yamlDocument
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	doc := &Document{
		Output:      raw.Output,
		SigFigs:     raw.SigFigs,
		Verbosity:   raw.Verbose,
		Comments:    raw.Comments,
		Constants:   raw.Constants,
		Wires:       rows(raw.Wires),
		Frequency:   row(raw.Frequency),
		Excitations: rows(raw.Excitations),
		Radiation:   row(raw.Radiation),
	}
	if raw.Columns != nil {
		doc.Columns = column.Spec(raw.Columns)
	}

	logger.Debug("Loaded YAML request.", "path", path, "wires", len(doc.Wires), "constants", len(doc.Constants))
	return doc, nil
}

func row(fields []string) card.Row {
	if fields == nil {
		return nil
	}
	return card.Row(fields)
}

func rows(in [][]string) []card.Row {
	if in == nil {
		return nil
	}
	out := make([]card.Row, len(in))
	for i, r := range in {
		out[i] = card.Row(r)
	}
	return out
}
