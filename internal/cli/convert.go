package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/layout"
	"github.com/matzehuels/drawbridge/pkg/mermaid"
	"github.com/matzehuels/drawbridge/pkg/pipeline"
)

// combinedStem is the default output name for combined documents.
const combinedStem = "combined"

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	outputDir   string // directory for output files (next to each input if empty)
	name        string // page name override for single-source conversions
	format      string // output format: "xml", "dot", "svg"
	configPath  string // TOML file with layout geometry overrides
	combine     bool   // merge all inputs into one multi-page document
	noCache     bool   // disable the artifact cache
	refresh     bool   // recompute even when a cached artifact exists
	markdown    bool   // extract ```mermaid blocks from .md inputs
	interactive bool   // pick a single source interactively
}

// convertCommand creates the convert command for turning Mermaid sources
// into draw.io files.
//
// Default options:
//   - format: xml (draw.io interchange files)
//   - caching: enabled (~/.cache/drawbridge)
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{format: pipeline.FormatXML}

	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Convert Mermaid sources to draw.io files",
		Long: `Convert Mermaid diagram sources into editable draw.io files.

Inputs can be .mmd files, Markdown files with fenced mermaid blocks
(with --markdown), or directories of either.

Examples:
  drawbridge convert flow.mmd                     # flow.mmd -> flow.drawio
  drawbridge convert diagrams/                    # every .mmd in the directory
  drawbridge convert --markdown README.md         # each fenced block to its own file
  drawbridge convert -c a.mmd b.mmd -n designs    # one multi-page designs.drawio
  drawbridge convert -f svg flow.mmd              # render through Graphviz instead`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for output files (next to each input if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "page name (single source only, overrides the file stem)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: xml (default), dot, svg")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML file with layout geometry overrides")
	cmd.Flags().BoolVarP(&opts.combine, "combine", "c", false, "merge all inputs into one multi-page document")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached artifact exists")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "extract fenced mermaid blocks from .md inputs")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a single source interactively")

	return cmd
}

// pipelineOptions builds pipeline options from the command-line flags,
// loading layout geometry from the --config file when one is given.
func pipelineOptions(opts *convertOpts) (pipeline.Options, error) {
	p := pipeline.Options{
		Name:           opts.name,
		Format:         opts.format,
		Refresh:        opts.refresh,
		MarkdownBlocks: opts.markdown,
	}
	if opts.configPath != "" {
		geom, err := layout.LoadGeometry(opts.configPath)
		if err != nil {
			return p, err
		}
		p.Geometry = geom
	}
	return p, nil
}

// runConvert dispatches the convert command across its input paths.
func (c *CLI) runConvert(ctx context.Context, args []string, opts *convertOpts) error {
	pipeOpts, err := pipelineOptions(opts)
	if err != nil {
		return err
	}

	if opts.interactive {
		path, err := pickSource(args, opts.markdown)
		if err != nil {
			return err
		}
		if path == "" {
			printDetail("No source selected")
			return nil
		}
		args = []string{path}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.combine {
		return c.runCombine(ctx, runner, args, opts, pipeOpts)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", arg)
		}
		if info.IsDir() {
			err = c.convertDir(ctx, runner, arg, opts, pipeOpts)
		} else {
			err = c.convertFile(ctx, runner, arg, opts, pipeOpts)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// convertFile converts a single input file and writes its outputs.
func (c *CLI) convertFile(ctx context.Context, runner *pipeline.Runner, path string, opts *convertOpts, pipeOpts pipeline.Options) error {
	if opts.markdown && strings.HasSuffix(path, ".md") {
		results, err := runner.ConvertMarkdownFile(ctx, path, pipeOpts)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			printWarning("No mermaid blocks in %s", path)
			return nil
		}
		printSuccess("Converted %s (%d blocks)", path, len(results))
		for i := range results {
			if err := c.writeResult(path, opts, &results[i]); err != nil {
				return err
			}
		}
		return nil
	}

	result, err := runner.ConvertFile(ctx, path, pipeOpts)
	if err != nil {
		return err
	}
	printSuccess("Converted %s", path)
	if err := c.writeResult(path, opts, result); err != nil {
		return err
	}
	printStats(result.Result.Stats.NodeCount, result.Result.Stats.EdgeCount, result.Result.CacheHit)
	if opts.format == pipeline.FormatXML {
		printNextStep("Open it in draw.io", "https://app.diagrams.net")
	}
	return nil
}

// convertDir converts every source in dir, reporting failures without
// aborting the batch.
func (c *CLI) convertDir(ctx context.Context, runner *pipeline.Runner, dir string, opts *convertOpts, pipeOpts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	batch, err := runner.ConvertDir(ctx, dir, pipeOpts)
	if err != nil {
		return err
	}
	if len(batch.Converted) == 0 && len(batch.Failed) == 0 {
		printWarning("No diagram sources in %s", dir)
		return nil
	}

	for i := range batch.Converted {
		if err := c.writeResult(batch.Converted[i].Input, opts, &batch.Converted[i]); err != nil {
			return err
		}
	}
	for _, fail := range batch.Failed {
		printError("%s: %s", fail.Input, errors.UserMessage(fail.Err))
	}

	printNewline()
	printSuccess("Converted %d of %d files in %s", len(batch.Converted), len(batch.Converted)+len(batch.Failed), dir)
	prog.done(fmt.Sprintf("Converted %d of %d files", len(batch.Converted), len(batch.Converted)+len(batch.Failed)))
	return nil
}

// runCombine collects every source named by args and writes one
// multi-page document.
func (c *CLI) runCombine(ctx context.Context, runner *pipeline.Runner, args []string, opts *convertOpts, pipeOpts pipeline.Options) error {
	if opts.format != pipeline.FormatXML {
		return errors.New(errors.ErrCodeInvalidFormat, "--combine only supports the xml format")
	}

	sources, err := collectSources(args, opts.markdown)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		printWarning("No diagram sources found")
		return nil
	}

	result, err := runner.ConvertCombined(ctx, sources, pipeOpts)
	if err != nil {
		return err
	}

	stem := opts.name
	if stem == "" {
		stem = combinedStem
	}
	outPath := filepath.Join(opts.outputDir, stem+".drawio")
	if err := writeOutput(outPath, result.Data); err != nil {
		return err
	}

	printSuccess("Combined %d diagrams", len(sources))
	printFile(outPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
	return nil
}

// writeResult writes one conversion result next to its input, or into
// the --output-dir when one is set.
func (c *CLI) writeResult(input string, opts *convertOpts, result *pipeline.FileResult) error {
	dir := opts.outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	outPath := filepath.Join(dir, result.Output)
	if err := writeOutput(outPath, result.Result.Data); err != nil {
		return err
	}
	printFile(outPath)
	return nil
}

// writeOutput writes data to path, creating parent directories as needed.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// collectSources expands args (files and directories) into named pipeline
// sources. Markdown files contribute one source per fenced block.
func collectSources(args []string, markdown bool) ([]pipeline.Source, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", arg)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := globSources(arg, markdown)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	var sources []pipeline.Source
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		if markdown && strings.HasSuffix(path, ".md") {
			for i, block := range mermaid.ExtractBlocks(string(data)) {
				sources = append(sources, pipeline.Source{
					Name: fmt.Sprintf("%s_%d", stem, i+1),
					Text: block,
				})
			}
			continue
		}
		sources = append(sources, pipeline.Source{Name: stem, Text: string(data)})
	}
	return sources, nil
}

// globSources lists the diagram sources inside dir in sorted order.
func globSources(dir string, markdown bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.mmd"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "glob %s", dir)
	}
	if markdown {
		mds, err := filepath.Glob(filepath.Join(dir, "*.md"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "glob %s", dir)
		}
		files = append(files, mds...)
	}
	sort.Strings(files)
	return files, nil
}

// pickSource shows the interactive picker over the sources found in args
// and returns the chosen path, or "" when the user quits without choosing.
func pickSource(args []string, markdown bool) (string, error) {
	entries, err := discoverSources(args, markdown)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New(errors.ErrCodeFileNotFound, "no diagram sources found")
	}

	p := tea.NewProgram(NewSourceListModel(entries))
	finalModel, err := p.Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "interactive picker")
	}

	m, ok := finalModel.(SourceListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.Path, nil
}
