package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// DeckAdapter adapts a MarkdownParser to the DeckParser interface.
//
// Within a slide the first level-1 heading becomes the title and the first
// level-2 heading the subtitle. Top-level list items become bullets and
// every other top-level block becomes a line of the body.
type DeckAdapter struct {
	markdownParser ports.MarkdownParser
	goldmark       goldmark.Markdown
}

// NewDeckAdapter creates a new deck adapter
func NewDeckAdapter(markdownParser ports.MarkdownParser) *DeckAdapter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	return &DeckAdapter{
		markdownParser: markdownParser,
		goldmark:       md,
	}
}

// ParseDeck implements the DeckParser interface
func (a *DeckAdapter) ParseDeck(ctx context.Context, content []byte) (*entities.GenerateRequest, error) {
	parsed, err := a.markdownParser.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown: %w", err)
	}

	req := &entities.GenerateRequest{
		Slides: make([]entities.ContentBlock, 0, len(parsed.Slides)),
	}

	if id, ok := getStringFromMap(parsed.Frontmatter, "template"); ok {
		req.TemplateID = id
	}
	if output, ok := getStringFromMap(parsed.Frontmatter, "output"); ok {
		req.OutputFilename = output
	}
	req.Metadata = metadataFrom(parsed.Frontmatter)

	for _, raw := range parsed.Slides {
		req.Slides = append(req.Slides, a.blockFrom(raw))
	}

	return req, nil
}

// blockFrom walks the top-level blocks of one slide
func (a *DeckAdapter) blockFrom(raw ports.RawSlide) entities.ContentBlock {
	block := entities.ContentBlock{Notes: raw.Notes}
	if raw.LayoutIndex != nil {
		block.LayoutIndex = *raw.LayoutIndex
	}

	source := []byte(raw.Content)
	doc := a.goldmark.Parser().Parse(text.NewReader(source))

	var body []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			line := inlineText(n, source)
			switch {
			case n.Level == 1 && block.Title == "":
				block.Title = line
			case n.Level == 2 && block.Subtitle == "":
				block.Subtitle = line
			default:
				body = appendNonEmpty(body, line)
			}
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if bullet := listItemText(item, source); bullet != "" {
					block.Bullets = append(block.Bullets, bullet)
				}
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			body = appendNonEmpty(body, strings.TrimRight(linesText(n, source), "\n"))
		case *ast.HTMLBlock, *ast.ThematicBreak:
			// Comments and rules carry no slide text
		default:
			body = appendNonEmpty(body, inlineText(n, source))
		}
	}
	block.Body = strings.Join(body, "\n")

	return block
}

// listItemText returns the text of an item's own paragraph, ignoring nested lists
func listItemText(item ast.Node, source []byte) string {
	var parts []string
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			parts = appendNonEmpty(parts, inlineText(child, source))
		}
	}
	return strings.Join(parts, " ")
}

// inlineText concatenates the text segments below a node.
// Soft line breaks become spaces and hard line breaks newlines.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			switch {
			case t.HardLineBreak():
				sb.WriteByte('\n')
			case t.SoftLineBreak():
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// linesText returns the raw lines of a block node
func linesText(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func appendNonEmpty(lines []string, line string) []string {
	if line == "" {
		return lines
	}
	return append(lines, line)
}

func metadataFrom(frontmatter map[string]interface{}) *entities.DocumentMetadata {
	meta := &entities.DocumentMetadata{}
	if author, ok := getStringFromMap(frontmatter, "author"); ok {
		meta.Author = &author
	}
	if title, ok := getStringFromMap(frontmatter, "title"); ok {
		meta.Title = &title
	}
	if subject, ok := getStringFromMap(frontmatter, "subject"); ok {
		meta.Subject = &subject
	}
	if meta.IsEmpty() {
		return nil
	}
	return meta
}

// getStringFromMap safely extracts a string value from a map
func getStringFromMap(m map[string]interface{}, key string) (string, bool) {
	if m == nil {
		return "", false
	}

	val, exists := m[key]
	if !exists {
		return "", false
	}

	str, ok := val.(string)
	return str, ok
}

var _ ports.DeckParser = (*DeckAdapter)(nil)
