package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/drawbridge/pkg/cache"
	"github.com/matzehuels/drawbridge/pkg/drawio"
	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/layout"
	"github.com/matzehuels/drawbridge/pkg/mermaid"
)

// Source is one named diagram source for combined conversion.
type Source struct {
	// Name is the page name for this source.
	Name string `json:"name"`
	// Text is the diagram source text.
	Text string `json:"text"`
}

// FileResult pairs a converted input with its suggested output name.
type FileResult struct {
	Input  string  // source file path
	Output string  // artifact file name, e.g. flow.drawio
	Result *Result // conversion result
}

// FileError records an input that failed to convert.
type FileError struct {
	Input string
	Err   error
}

// BatchResult collects per-file outcomes of a directory conversion.
type BatchResult struct {
	Converted []FileResult
	Failed    []FileError
}

// ConvertFile converts a single diagram file. The page name defaults to
// the file stem and the suggested output is <stem>.drawio (or .dot/.svg
// for those formats).
func (r *Runner) ConvertFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	if opts.Name == "" {
		opts.Name = stem(path)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	res, err := r.Convert(ctx, string(data), opts)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		Input:  path,
		Output: outputName(stem(path), opts.Format),
		Result: res,
	}, nil
}

// ConvertMarkdownFile extracts ```mermaid fenced blocks from a markdown
// file and converts each one. Results are named <stem>_<i> in block
// order, starting at 1. A file without blocks yields no results and no
// error.
func (r *Runner) ConvertMarkdownFile(ctx context.Context, path string, opts Options) ([]FileResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	blocks := mermaid.ExtractBlocks(string(data))
	if len(blocks) == 0 {
		r.Logger.Warn("no mermaid blocks found", "file", path)
		return nil, nil
	}

	results := make([]FileResult, 0, len(blocks))
	for i, block := range blocks {
		blockOpts := opts
		blockOpts.Name = fmt.Sprintf("%s_%d", stem(path), i+1)

		res, err := r.Convert(ctx, block, blockOpts)
		if err != nil {
			return nil, err
		}
		results = append(results, FileResult{
			Input:  path,
			Output: outputName(blockOpts.Name, opts.Format),
			Result: res,
		})
	}
	return results, nil
}

// ConvertDir converts every *.mmd file in dir, plus every *.md file when
// opts.MarkdownBlocks is set. Files are processed in name order and a
// failing file is recorded and skipped, never aborting the batch.
// Page names derive from file stems; opts.Name is ignored.
func (r *Runner) ConvertDir(ctx context.Context, dir string, opts Options) (*BatchResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.mmd"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "glob %s", dir)
	}
	if opts.MarkdownBlocks {
		mds, err := filepath.Glob(filepath.Join(dir, "*.md"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "glob %s", dir)
		}
		files = append(files, mds...)
		sort.Strings(files)
	}

	batch := &BatchResult{}
	for _, path := range files {
		fileOpts := opts
		fileOpts.Name = ""

		var results []FileResult
		var convErr error
		if strings.HasSuffix(path, ".md") {
			results, convErr = r.ConvertMarkdownFile(ctx, path, fileOpts)
		} else {
			var fr *FileResult
			fr, convErr = r.ConvertFile(ctx, path, fileOpts)
			if fr != nil {
				results = []FileResult{*fr}
			}
		}

		if convErr != nil {
			r.Logger.Error("conversion failed", "file", path, "err", convErr)
			batch.Failed = append(batch.Failed, FileError{Input: path, Err: convErr})
			continue
		}
		batch.Converted = append(batch.Converted, results...)
	}
	return batch, nil
}

// ConvertCombined converts several sources into one multi-page document.
// Pages appear in source order with ids diagram1..diagramN and each page
// gets a fresh id namespace. Only the xml format supports multiple pages.
func (r *Runner) ConvertCombined(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Format != FormatXML {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"combined output requires the xml format, got %q", opts.Format)
	}
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no sources to combine")
	}

	result := &Result{}

	combined, _ := json.Marshal(sources)
	key := r.Keyer.ArtifactKey(cache.Hash(combined), opts.artifactKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			r.Logger.Debug("combined document served from cache", "pages", len(sources))
			result.Data = data
			result.CacheHit = true
			return result, nil
		}
	}

	pages := make([]drawio.Page, 0, len(sources))
	for _, src := range sources {
		parseStart := time.Now()
		d := mermaid.Parse(src.Text)
		result.Stats.ParseTime += time.Since(parseStart)
		result.Stats.NodeCount += d.NodeCount()
		result.Stats.EdgeCount += d.EdgeCount()

		layoutStart := time.Now()
		pos := layout.Compute(d, opts.Geometry)
		result.Stats.LayoutTime += time.Since(layoutStart)

		name := src.Name
		if name == "" {
			name = opts.Name
		}
		pages = append(pages, drawio.BuildPage(d, pos, name))
	}

	renderStart := time.Now()
	doc := drawio.NewDocument(pages, drawio.Options{
		Modified: opts.Modified,
		Etag:     opts.Etag,
	})
	data, err := drawio.Marshal(doc)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("combined document built",
		"pages", len(pages),
		"nodes", result.Stats.NodeCount,
		"bytes", len(data))

	_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	return result, nil
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputName maps a stem to the artifact file name for a format.
func outputName(stem, format string) string {
	switch format {
	case FormatDOT:
		return stem + ".dot"
	case FormatSVG:
		return stem + ".svg"
	default:
		return stem + ".drawio"
	}
}
