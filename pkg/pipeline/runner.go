package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawbridge/pkg/cache"
	"github.com/matzehuels/drawbridge/pkg/diagram"
	"github.com/matzehuels/drawbridge/pkg/dot"
	"github.com/matzehuels/drawbridge/pkg/drawio"
	"github.com/matzehuels/drawbridge/pkg/layout"
	"github.com/matzehuels/drawbridge/pkg/mermaid"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Convert runs the complete parse → layout → serialize pipeline on a
// single source and returns the artifact bytes.
//
// The parse stage always runs so the diagram model and node/edge counts
// are available; the cache short-circuits layout and serialization. A
// cached xml artifact keeps the envelope timestamp and etag of the run
// that produced it.
func (r *Runner) Convert(ctx context.Context, source string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	parseStart := time.Now()
	d := mermaid.Parse(source)
	result.Diagram = d
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = d.NodeCount()
	result.Stats.EdgeCount = d.EdgeCount()

	r.Logger.Info("parsed diagram",
		"kind", d.Kind,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ParseTime)

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(source)), opts.artifactKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			r.Logger.Debug("artifact served from cache", "format", opts.Format)
			result.Data = data
			result.CacheHit = true
			return result, nil
		}
	}

	layoutStart := time.Now()
	pos := layout.Compute(d, opts.Geometry)
	result.Stats.LayoutTime = time.Since(layoutStart)

	renderStart := time.Now()
	data, err := r.render(ctx, d, pos, opts)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("serialized artifact",
		"format", opts.Format,
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	return result, nil
}

// render serializes a positioned diagram in the requested format.
func (r *Runner) render(ctx context.Context, d *diagram.Diagram, pos map[string]layout.Position, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatDOT:
		return []byte(dot.ToDOT(d)), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, dot.ToDOT(d))
	default:
		page := drawio.BuildPage(d, pos, opts.Name)
		doc := drawio.NewDocument([]drawio.Page{page}, drawio.Options{
			Modified: opts.Modified,
			Etag:     opts.Etag,
		})
		return drawio.Marshal(doc)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
