package ports

import (
	"context"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// MarkdownParser defines the interface for splitting a markdown deck
type MarkdownParser interface {
	Parse(ctx context.Context, content []byte) (*ParsedContent, error)
}

// ParsedContent represents the result of parsing a markdown file
type ParsedContent struct {
	Frontmatter map[string]interface{}
	Slides      []RawSlide
}

// RawSlide represents a single slide before it becomes a content block
type RawSlide struct {
	Content string
	Notes   string
	Index   int

	// LayoutIndex is set by a layout directive comment
	LayoutIndex *int
}

// DeckParser turns a markdown deck into a generation request
type DeckParser interface {
	ParseDeck(ctx context.Context, content []byte) (*entities.GenerateRequest, error)
}

// RequestDecoder reads request documents in the format named by their file extension
type RequestDecoder interface {
	DecodeGenerate(ctx context.Context, filename string, data []byte) (*entities.GenerateRequest, error)
	DecodeFill(ctx context.Context, filename string, data []byte) (*entities.FillRequest, error)
}
