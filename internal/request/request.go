package request

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/column"
	"github.com/vk/neccard/internal/ctxlog"
	"github.com/vk/neccard/internal/expr"
	"github.com/vk/neccard/internal/fsutil"
	"github.com/vk/neccard/internal/serializer"
)

// DefaultVerbosity prints the one-line build summary.
const DefaultVerbosity = serializer.SummaryOnly

// Document is a decoded build request.
type Document struct {
	Path        string
	Output      string
	SigFigs     *int
	Verbosity   *int
	Columns     column.Spec
	Comments    []string
	Constants   map[string]float64
	Wires       []card.Row
	Frequency   card.Row
	Excitations []card.Row
	Radiation   card.Row
}

// Loader decodes a single request file.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}

var loaders = map[string]Loader{
	".hcl":  NewHCLLoader(),
	".yaml": NewYAMLLoader(),
	".yml":  NewYAMLLoader(),
}

// Extensions lists the file extensions that have a loader.
func Extensions() []string {
	return []string{".hcl", ".yaml", ".yml"}
}

// Load decodes path with the loader registered for its extension.
func Load(ctx context.Context, path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported request file %s: extension must be one of %s", path, strings.Join(Extensions(), ", "))
	}
	doc, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	if doc.Output == "" {
		doc.Output = strings.TrimSuffix(path, filepath.Ext(path)) + serializer.Extension
	} else if !filepath.IsAbs(doc.Output) {
		doc.Output = filepath.Join(filepath.Dir(path), doc.Output)
	}
	return doc, nil
}

// LoadAll loads every request file named by paths. Directories are searched
// recursively for files with a known extension.
func LoadAll(ctx context.Context, paths ...string) ([]*Document, error) {
	logger := ctxlog.FromContext(ctx)

	var docs []*Document
	for _, root := range paths {
		files, err := fsutil.FindFilesByExtension(root, Extensions()...)
		if err != nil {
			return nil, err
		}
		logger.Debug("Discovered request files.", "root", root, "count", len(files))
		for _, file := range files {
			doc, err := Load(ctx, file)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no request files found in %s", strings.Join(paths, ", "))
	}
	return docs, nil
}

// SigFigsOrDefault returns the document's significant figures, or
// column.DefaultSigFigs when unset.
func (d *Document) SigFigsOrDefault() int {
	if d.SigFigs == nil {
		return column.DefaultSigFigs
	}
	return *d.SigFigs
}

// VerbosityOrDefault returns the document's verbosity, or DefaultVerbosity
// when unset.
func (d *Document) VerbosityOrDefault() int {
	if d.Verbosity == nil {
		return DefaultVerbosity
	}
	return *d.Verbosity
}

// Request builds the serializer request. The constant table is validated
// here, so name collisions are reported before any expression is resolved.
func (d *Document) Request() (*serializer.Request, error) {
	constants, err := expr.NewConstantTable(d.Constants)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Path, err)
	}
	return &serializer.Request{
		Comments:    d.Comments,
		Wires:       d.Wires,
		Constants:   constants,
		Frequency:   d.Frequency,
		Excitations: d.Excitations,
		Radiation:   d.Radiation,
		Output:      d.Output,
		Columns:     d.Columns,
		SigFigs:     d.SigFigsOrDefault(),
	}, nil
}
