package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/mermaid"
)

// SourceEntry describes one candidate conversion input shown in the picker.
type SourceEntry struct {
	Path     string    // path to the source file
	Kind     string    // detected diagram kind, or "markdown" for block files
	Blocks   int       // fenced block count (markdown sources only)
	Size     int64     // file size in bytes
	Modified time.Time // file modification time
}

// SourceListModel is the bubbletea model behind `convert -i`: a scrolling
// single-select list of discovered sources. Selected stays nil when the
// user quits without choosing.
type SourceListModel struct {
	Entries  []SourceEntry
	Cursor   int
	Selected *SourceEntry
	Height   int
	Offset   int
}

// NewSourceListModel creates a source list with the default viewport height.
func NewSourceListModel(entries []SourceEntry) SourceListModel {
	return SourceListModel{
		Entries: entries,
		Height:  15,
	}
}

func (m SourceListModel) Init() tea.Cmd {
	return nil
}

func (m SourceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		case "enter":
			if len(m.Entries) > 0 {
				entry := m.Entries[m.Cursor]
				m.Selected = &entry
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, hint and footer lines.
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m SourceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram Source"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		kind := e.Kind
		if e.Blocks > 0 {
			kind = fmt.Sprintf("%s (%d blocks)", e.Kind, e.Blocks)
		}

		rows = append(rows, []string{cursor, e.Path, kind, formatSize(e.Size), formatRelativeTime(e.Modified)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Source", "Kind", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}

			// Size and Modified render dim; source and kind carry the row.
			meta := col >= 3
			current := idx == m.Cursor

			st := lipgloss.NewStyle()
			switch {
			case current && meta:
				return st.Foreground(colorGray).Bold(true)
			case current:
				return st.Foreground(colorGreen).Bold(true)
			case meta:
				return st.Foreground(colorDim)
			default:
				return st.Foreground(colorWhite)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// discoverSources builds picker entries for the sources found in args.
// Markdown files without fenced mermaid blocks are skipped.
func discoverSources(args []string, markdown bool) ([]SourceEntry, error) {
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

	var entries []SourceEntry
	for _, path := range files {
		entry, ok, err := describeSource(path, markdown)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// describeSource stats and classifies one source file. It reports ok=false
// for markdown files with no mermaid blocks.
func describeSource(path string, markdown bool) (SourceEntry, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceEntry{}, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceEntry{}, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	entry := SourceEntry{Path: path, Size: info.Size(), Modified: info.ModTime()}

	if markdown && strings.HasSuffix(path, ".md") {
		blocks := mermaid.ExtractBlocks(string(data))
		if len(blocks) == 0 {
			return SourceEntry{}, false, nil
		}
		entry.Kind = "markdown"
		entry.Blocks = len(blocks)
		return entry, true, nil
	}

	entry.Kind = mermaid.Detect(string(data)).String()
	return entry, true, nil
}

// formatRelativeTime renders t relative to now for recent times, falling
// back to an absolute date for anything older than a week.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// formatSize renders a byte count in a compact human-readable form.
func formatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
