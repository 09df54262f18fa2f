package mermaid

import (
	"regexp"
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// messagePattern captures "From <arrow> To : text" for the sequence arrow
// vocabulary. Alternatives are ordered so longer arrows match before their
// prefixes.
var messagePattern = regexp.MustCompile(`([A-Za-z0-9_]+)\s*(->>?|-?\.->|-->|->|-x|\+|-)\s*([A-Za-z0-9_]+)\s*:\s*(.+)`)

// reservedSequenceKeywords open structured blocks that are recognized but
// produce no nodes or messages.
var reservedSequenceKeywords = []string{"Note", "loop", "alt", "opt"}

func parseSequence(source string) *diagram.Diagram {
	d := diagram.New(diagram.Sequence)

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "sequenceDiagram") {
			continue
		}

		if strings.HasPrefix(line, "participant") || strings.HasPrefix(line, "actor") {
			name, label := splitParticipant(line)
			if name != "" {
				d.EnsureNode(name, label, diagram.NodeStyle{})
			}
			continue
		}

		if isReservedSequenceLine(line) {
			continue
		}

		if m := messagePattern.FindStringSubmatch(line); m != nil {
			from := d.EnsureNode(m[1], m[1], diagram.NodeStyle{})
			to := d.EnsureNode(m[3], m[3], diagram.NodeStyle{})
			d.AddEdge(from, to, strings.TrimSpace(m[4]), SequenceArrowStyle(m[2]))
		}
	}

	return d
}

// splitParticipant takes a "participant X" or "actor X as Label" line apart.
// The label defaults to the participant name when no alias is given.
func splitParticipant(line string) (name, label string) {
	decl, alias, hasAlias := strings.Cut(line, " as ")
	decl = strings.TrimPrefix(decl, "participant")
	decl = strings.TrimPrefix(decl, "actor")
	name = strings.TrimSpace(decl)
	if hasAlias {
		return name, strings.TrimSpace(alias)
	}
	return name, name
}

func isReservedSequenceLine(line string) bool {
	for _, kw := range reservedSequenceKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
