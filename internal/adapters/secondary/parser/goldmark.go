package parser

import (
	"bytes"
	"context"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// GoldmarkParser splits a markdown deck into frontmatter and raw slides.
// The slide bodies are parsed into an AST later by DeckAdapter.
type GoldmarkParser struct {
	notes *NotesExtractor
}

// NewGoldmarkParser creates a new markdown deck parser
func NewGoldmarkParser() *GoldmarkParser {
	return &GoldmarkParser{notes: NewNotesExtractor()}
}

// Parse parses markdown content into frontmatter and slides
func (p *GoldmarkParser) Parse(ctx context.Context, content []byte) (*ports.ParsedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frontmatter, remaining := extractFrontmatter(content)
	slides := splitSlides(remaining)

	parsedSlides := make([]ports.RawSlide, 0, len(slides))
	for i, slideContent := range slides {
		parsedSlides = append(parsedSlides, p.parseSlide(slideContent, i))
	}

	return &ports.ParsedContent{
		Frontmatter: frontmatter,
		Slides:      parsedSlides,
	}, nil
}

// parseSlide pulls notes and directives out of a single slide
func (p *GoldmarkParser) parseSlide(content []byte, index int) ports.RawSlide {
	main, layout := p.notes.ExtractLayout(string(content))
	main, notes := p.notes.ExtractNotes(main)

	return ports.RawSlide{
		Content:     strings.TrimSpace(main),
		Notes:       notes,
		Index:       index,
		LayoutIndex: layout,
	}
}

// extractFrontmatter extracts YAML frontmatter from markdown content
func extractFrontmatter(content []byte) (map[string]interface{}, []byte) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, content
	}

	lines := bytes.Split(content, []byte("\n"))
	endIndex := -1

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			endIndex = i
			break
		}
	}

	if endIndex == -1 {
		return nil, content
	}

	frontmatterBytes := bytes.Join(lines[1:endIndex], []byte("\n"))

	var frontmatter map[string]interface{}
	if len(bytes.TrimSpace(frontmatterBytes)) == 0 {
		frontmatter = make(map[string]interface{})
	} else if err := yaml.Unmarshal(frontmatterBytes, &frontmatter); err != nil {
		// Not YAML: the leading rule is part of the content
		return nil, content
	}

	return frontmatter, bytes.Join(lines[endIndex+1:], []byte("\n"))
}

// splitSlides splits content into individual slides on horizontal rules
func splitSlides(content []byte) [][]byte {
	contentStr := strings.ReplaceAll(string(content), "\r\n", "\n")
	slideStrings := strings.Split(contentStr, "\n---\n")

	slides := make([][]byte, 0, len(slideStrings))
	for _, slide := range slideStrings {
		trimmed := strings.TrimSpace(slide)
		if trimmed != "" {
			slides = append(slides, []byte(trimmed))
		}
	}

	return slides
}
