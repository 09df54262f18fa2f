// Package pkg provides the core libraries for drawbridge Mermaid conversion.
//
// # Overview
//
// Drawbridge converts Mermaid diagram sources (flowcharts, sequence diagrams,
// entity-relationship diagrams, and state diagrams) into editable draw.io
// interchange files. The pkg directory is organized into five main areas:
//
//  1. [diagram] - The shared graph model (nodes, edges, style records, id allocation)
//  2. [mermaid] - Source classification and the per-kind extractors
//  3. [layout] - Deterministic position computation (leveling, grids, rows)
//  4. [drawio] / [dot] - Serializers (mxfile XML, Graphviz DOT/SVG)
//  5. [pipeline] - Orchestration with artifact caching
//
// # Architecture
//
// The typical data flow through drawbridge:
//
//	Mermaid source (.mmd, fenced markdown block)
//	         ↓
//	    [mermaid] package (detect kind, extract nodes and edges)
//	         ↓
//	    [diagram] package (insertion-ordered graph model)
//	         ↓
//	    [layout] package (positions per diagram kind)
//	         ↓
//	    [drawio] or [dot] package (serialize)
//	         ↓
//	    .drawio XML / DOT / SVG output
//
// # Quick Start
//
// Convert one source to interchange XML:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.Default())
//	defer runner.Close()
//
//	result, err := runner.Convert(ctx, source, pipeline.Options{Name: "flow"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("flow.drawio", result.Data, 0o644)
//
// Supporting packages: [buildinfo] carries ldflags version information,
// [errors] defines the coded error type shared by the CLI and the HTTP
// server, and [cache] provides the null, file, and redis artifact cache
// backends used by the pipeline.
package pkg
