// Package batch runs the inference pipeline over every JSON sample in a
// folder, one generated source file per sample. Failures are recorded
// per file and never abort the remaining work.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"golang.org/x/sync/errgroup"

	"github.com/shapegen/shapegen/internal/config"
	"github.com/shapegen/shapegen/internal/emit"
	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/formatter"
	"github.com/shapegen/shapegen/internal/parser"
	"github.com/shapegen/shapegen/internal/synth"
)

// Result summarizes one batch run.
type Result struct {
	// Generated maps each input file to the output file written for it.
	Generated map[string]string
	// Failures maps each input file that could not be processed to its error.
	Failures map[string]error
}

// Runner drives the parse -> synthesize -> render -> write pipeline over a
// folder of samples.
type Runner struct {
	cfg     *config.Config
	backend emit.Backend
	fmt     *formatter.Formatter
}

// NewRunner creates a Runner emitting Go source with the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:     cfg,
		backend: emit.NewGoBackend(),
		fmt:     formatter.NewFormatter(),
	}
}

// Run processes every *.json file in inputDir (extension matched
// case-insensitively) and writes one .go file per sample into outputDir,
// creating it if needed. The root class name for each sample is derived from
// its filename. Samples are processed in parallel, bounded by the configured
// concurrency.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read folder '%s'", inputDir), err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			files = append(files, filepath.Join(inputDir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("no JSON files found in folder '%s'", inputDir), errors.ErrNoSamples)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to create output folder '%s'", outputDir), err)
	}

	result := &Result{
		Generated: make(map[string]string, len(files)),
		Failures:  make(map[string]error),
	}
	var mu sync.Mutex

	concurrency := r.cfg.Batch.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outPath, err := r.processFile(file, outputDir)

			mu.Lock()
			if err != nil {
				result.Failures[file] = err
			} else {
				result.Generated[file] = outPath
			}
			mu.Unlock()

			if err != nil {
				slog.Warn("sample failed",
					slog.String("file", file),
					slog.String("error", err.Error()),
				)
				// Per-file errors are recorded, not propagated, so the rest
				// of the batch keeps running.
				return nil
			}
			slog.Info("sample processed",
				slog.String("file", file),
				slog.String("output", outPath),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// processFile runs the full pipeline for a single sample file.
func (r *Runner) processFile(path, outputDir string) (string, error) {
	className := ClassNameFromFile(path)

	doc, err := parser.ParseFile(path)
	if err != nil {
		return "", err
	}

	s := synth.NewWithOptions(r.cfg.SynthOptions())
	class, err := s.Synthesize(doc.Root, className)
	if err != nil {
		return "", errors.NewInferenceError(fmt.Sprintf("failed to infer schema for '%s'", path), err)
	}

	code, err := r.backend.Render(class, r.cfg.Package)
	if err != nil {
		return "", errors.NewEmitError(fmt.Sprintf("failed to render classes for '%s'", path), err)
	}

	if r.cfg.Formatting.Enabled {
		code, err = r.fmt.Format(code)
		if err != nil {
			return "", errors.NewFormatError(fmt.Sprintf("failed to format output for '%s'", path), err)
		}
	}

	outPath := filepath.Join(outputDir, strcase.ToSnake(className)+".go")
	if err := os.WriteFile(outPath, []byte(code), 0644); err != nil {
		return "", errors.NewOutputError(fmt.Sprintf("failed to write '%s'", outPath), err)
	}
	return outPath, nil
}

// ClassNameFromFile derives a root class name from a sample filename:
// "marvel_characters.json" becomes "MarvelCharacters".
func ClassNameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := strcase.ToCamel(base)
	if name == "" {
		return "RootType"
	}
	return name
}
