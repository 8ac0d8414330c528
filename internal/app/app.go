package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/neccard/internal/ctxlog"
	"github.com/vk/neccard/internal/reformat"
	"github.com/vk/neccard/internal/request"
	"github.com/vk/neccard/internal/serializer"
)

// App encapsulates the application's dependencies and configuration.
// Summaries go to outW; log records go to the logger.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. It builds an isolated
// logger writing to logW.
func NewApp(outW, logW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, logger: logger, config: config}
}

// Build loads every request document found under paths and writes one NEC
// file per document. It stops at the first failing document.
func (a *App) Build(ctx context.Context, paths ...string) ([]*serializer.Summary, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	docs, err := request.LoadAll(ctx, paths...)
	if err != nil {
		return nil, err
	}
	if a.config.Output != "" && len(docs) > 1 {
		return nil, errors.New("an output path override needs exactly one request file")
	}

	summaries := make([]*serializer.Summary, 0, len(docs))
	for _, doc := range docs {
		a.applyOverrides(doc)
		req, err := doc.Request()
		if err != nil {
			return summaries, err
		}

		summary, err := serializer.Build(ctxlog.With(ctx, "request", doc.Path), req)
		if err != nil {
			return summaries, fmt.Errorf("%s: %w", doc.Path, err)
		}
		summaries = append(summaries, summary)

		if err := summary.Report(a.outW, doc.VerbosityOrDefault()); err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

func (a *App) applyOverrides(doc *request.Document) {
	if a.config.Output != "" {
		doc.Output = a.config.Output
	}
	if a.config.SigFigs != nil {
		doc.SigFigs = a.config.SigFigs
	}
	if a.config.Verbosity != nil {
		doc.Verbosity = a.config.Verbosity
	}
}

// Reformat rewrites src into canonical columns at dst.
func (a *App) Reformat(ctx context.Context, src, dst string) (*reformat.Stats, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	stats, err := reformat.Reformat(ctx, src, dst, reformat.Options{
		Columns: a.config.ReformatColumns,
		SigFigs: *a.config.ReformatSigFigs,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.outW, "Reformatted %d of %d lines from %s into %s.\n", stats.Reformatted, stats.Lines, src, dst)
	return stats, nil
}
