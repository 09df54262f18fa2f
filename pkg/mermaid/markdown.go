package mermaid

import "regexp"

var fencePattern = regexp.MustCompile("(?s)```mermaid\n(.*?)\n```")

// ExtractBlocks returns the body of every ```mermaid fenced code block in a
// Markdown document, in document order. Documents without such blocks yield
// an empty slice.
func ExtractBlocks(markdown string) []string {
	var blocks []string
	for _, m := range fencePattern.FindAllStringSubmatch(markdown, -1) {
		blocks = append(blocks, m[1])
	}
	return blocks
}
