// Package pipeline provides the conversion pipeline for drawbridge.
//
// This package implements the complete parse → layout → serialize flow
// shared by the CLI and the HTTP server. Centralizing it keeps behavior
// identical across entry points and puts caching in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: classify the source notation and extract the graph model
//  2. Layout: compute deterministic positions for every node
//  3. Serialize: emit draw.io interchange XML, DOT, or an SVG preview
//
// Parsing is total: unrecognized lines are dropped, so the parse stage
// never fails. Errors come only from the filesystem boundary and from
// SVG rendering.
//
// # Usage
//
// Create a Runner and convert a source:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Convert(ctx, source, pipeline.Options{Name: "flow"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("flow.drawio", result.Data, 0o644)
package pipeline

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/drawbridge/pkg/cache"
	"github.com/matzehuels/drawbridge/pkg/diagram"
	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/layout"
)

// DefaultName is the page name used when none is given and no file stem
// is available.
const DefaultName = "diagram"

// Format constants for output formats.
const (
	FormatXML = "xml"
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatXML: true,
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: xml, dot, svg)", format)
	}
	return nil
}

// Options contains all configuration for a conversion.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Name is the page name. Defaults to the input file stem when
	// converting files, otherwise to [DefaultName].
	Name string `json:"name,omitempty"`

	// Format is the output format: xml (default), dot or svg.
	Format string `json:"format,omitempty"`

	// Geometry is the placement profile. The zero value is replaced by
	// [layout.DefaultGeometry].
	Geometry layout.Geometry `json:"geometry,omitempty"`

	// Modified and Etag pin the envelope attributes of xml output.
	// Zero values stamp a fresh timestamp and a random etag.
	Modified time.Time `json:"modified,omitempty"`
	Etag     string    `json:"etag,omitempty"`

	// Refresh bypasses cache reads, forcing a fresh conversion.
	Refresh bool `json:"refresh,omitempty"`

	// MarkdownBlocks also extracts ```mermaid fenced blocks from .md
	// inputs when converting directories.
	MarkdownBlocks bool `json:"markdown_blocks,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = FormatXML
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if err := errors.ValidateDiagramName(o.Name); err != nil {
		return err
	}
	if o.Geometry == (layout.Geometry{}) {
		o.Geometry = layout.DefaultGeometry()
	}
	o.validated = true
	return nil
}

// artifactKeyOpts returns the cache key options for this conversion.
// Every field that changes the output bytes must appear here.
func (o *Options) artifactKeyOpts() cache.ArtifactKeyOpts {
	geo, _ := json.Marshal(o.Geometry)
	opts := cache.ArtifactKeyOpts{
		Format: o.Format,
		Layout: cache.Hash(geo),
		Name:   o.Name,
		Etag:   o.Etag,
	}
	if !o.Modified.IsZero() {
		opts.Modified = o.Modified.UTC().Format(time.RFC3339Nano)
	}
	return opts
}

// Result contains the outputs of a conversion.
type Result struct {
	// Diagram is the parsed graph model. Nil for combined conversions.
	Diagram *diagram.Diagram

	// Data is the serialized artifact in the requested format.
	Data []byte

	// CacheHit reports whether Data came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains conversion statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}
