package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/pipeline"
)

const (
	flowSource = "graph TD\nA[Start] --> B{Decide}\nB -->|yes| C(End)"
	seqSource  = "sequenceDiagram\nAlice->Bob: hi"
)

// testCLI returns a CLI whose logger is silenced, plus a context carrying it.
func testCLI(t *testing.T) (*CLI, context.Context) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	return c, withLogger(context.Background(), c.Logger)
}

func TestPipelineOptions(t *testing.T) {
	opts := convertOpts{name: "flow", format: pipeline.FormatDOT, refresh: true, markdown: true}

	p, err := pipelineOptions(&opts)
	if err != nil {
		t.Fatalf("pipelineOptions: %v", err)
	}
	if p.Name != "flow" || p.Format != pipeline.FormatDOT {
		t.Errorf("options = %+v", p)
	}
	if !p.Refresh || !p.MarkdownBlocks {
		t.Errorf("flags not carried: %+v", p)
	}
}

func TestPipelineOptionsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.toml")
	config := "[flowchart]\nnode_width = 300\n\n[er]\nspacing_y = 400\n"
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	p, err := pipelineOptions(&convertOpts{format: pipeline.FormatXML, configPath: path})
	if err != nil {
		t.Fatalf("pipelineOptions: %v", err)
	}
	if p.Geometry.Flowchart.NodeWidth != 300 {
		t.Errorf("NodeWidth = %d, want 300", p.Geometry.Flowchart.NodeWidth)
	}
	if p.Geometry.ER.SpacingY != 400 {
		t.Errorf("SpacingY = %d, want 400", p.Geometry.ER.SpacingY)
	}
	// Unnamed values keep their defaults.
	if p.Geometry.Sequence.NodeWidth != 150 {
		t.Errorf("Sequence.NodeWidth = %d, want default 150", p.Geometry.Sequence.NodeWidth)
	}
}

func TestPipelineOptionsConfigMissing(t *testing.T) {
	_, err := pipelineOptions(&convertOpts{format: pipeline.FormatXML, configPath: "/does/not/exist.toml"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "flow.mmd"), flowSource)
	writeTestFile(t, filepath.Join(dir, "doc.md"), "intro\n```mermaid\n"+flowSource+"\n```\ntext\n```mermaid\n"+seqSource+"\n```\n")

	sources, err := collectSources([]string{dir}, true)
	if err != nil {
		t.Fatalf("collectSources: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("sources = %d, want 3", len(sources))
	}
	names := []string{sources[0].Name, sources[1].Name, sources[2].Name}
	want := []string{"doc_1", "doc_2", "flow"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}
}

func TestCollectSourcesSkipsMarkdownByDefault(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "flow.mmd"), flowSource)
	writeTestFile(t, filepath.Join(dir, "doc.md"), "```mermaid\n"+seqSource+"\n```\n")

	sources, err := collectSources([]string{dir}, false)
	if err != nil {
		t.Fatalf("collectSources: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "flow" {
		t.Errorf("sources = %+v, want just flow", sources)
	}
}

func TestCollectSourcesMissing(t *testing.T) {
	_, err := collectSources([]string{"/does/not/exist.mmd"}, false)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.drawio")

	if err := writeOutput(path, []byte("<mxfile/>")); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "<mxfile/>" {
		t.Errorf("content = %q", data)
	}
}

func TestRunConvertSingleFile(t *testing.T) {
	c, ctx := testCLI(t)
	dir := t.TempDir()
	out := t.TempDir()
	input := filepath.Join(dir, "flow.mmd")
	writeTestFile(t, input, flowSource)

	opts := convertOpts{format: pipeline.FormatXML, noCache: true, outputDir: out}
	if err := c.runConvert(ctx, []string{input}, &opts); err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "flow.drawio"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"<mxfile", `name="flow"`, `value="Start"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunConvertWritesNextToInput(t *testing.T) {
	c, ctx := testCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "flow.mmd")
	writeTestFile(t, input, flowSource)

	opts := convertOpts{format: pipeline.FormatDOT, noCache: true}
	if err := c.runConvert(ctx, []string{input}, &opts); err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "flow.dot"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("output = %q", data)
	}
}

func TestRunConvertDir(t *testing.T) {
	c, ctx := testCLI(t)
	dir := t.TempDir()
	out := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.mmd"), flowSource)
	writeTestFile(t, filepath.Join(dir, "b.mmd"), seqSource)

	opts := convertOpts{format: pipeline.FormatXML, noCache: true, outputDir: out}
	if err := c.runConvert(ctx, []string{dir}, &opts); err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	for _, name := range []string{"a.drawio", "b.drawio"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestRunConvertMarkdown(t *testing.T) {
	c, ctx := testCLI(t)
	dir := t.TempDir()
	out := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	writeTestFile(t, input, "```mermaid\n"+flowSource+"\n```\n\n```mermaid\n"+seqSource+"\n```\n")

	opts := convertOpts{format: pipeline.FormatXML, noCache: true, outputDir: out, markdown: true}
	if err := c.runConvert(ctx, []string{input}, &opts); err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	for _, name := range []string{"doc_1.drawio", "doc_2.drawio"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestRunConvertCombine(t *testing.T) {
	c, ctx := testCLI(t)
	dir := t.TempDir()
	out := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.mmd"), flowSource)
	writeTestFile(t, filepath.Join(dir, "b.mmd"), seqSource)

	opts := convertOpts{format: pipeline.FormatXML, noCache: true, outputDir: out, combine: true}
	if err := c.runConvert(ctx, []string{dir}, &opts); err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "combined.drawio"))
	if err != nil {
		t.Fatalf("read combined output: %v", err)
	}
	for _, want := range []string{`name="a"`, `name="b"`, `id="diagram2"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("combined output missing %q", want)
		}
	}
}

func TestRunConvertCombineRejectsNonXML(t *testing.T) {
	c, ctx := testCLI(t)
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.mmd"), flowSource)

	opts := convertOpts{format: pipeline.FormatSVG, noCache: true, combine: true}
	err := c.runConvert(ctx, []string{dir}, &opts)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRunConvertMissingInput(t *testing.T) {
	c, ctx := testCLI(t)

	opts := convertOpts{format: pipeline.FormatXML, noCache: true}
	err := c.runConvert(ctx, []string{"/does/not/exist.mmd"}, &opts)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
