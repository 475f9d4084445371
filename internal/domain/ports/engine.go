package ports

import (
	"context"
	"io"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// PresentationEngine loads and creates presentation packages
type PresentationEngine interface {
	// Open parses a presentation package from its bytes
	Open(ctx context.Context, data []byte) (PresentationDocument, error)

	// New creates an empty presentation with the default master and layouts
	New(ctx context.Context) (PresentationDocument, error)
}

// PresentationDocument is one in-memory presentation owned by a single request
type PresentationDocument interface {
	// Describe returns the read-only analysis of the package
	Describe(previewLen int) *entities.TemplateDescription

	// LayoutCount returns the number of layouts across all masters
	LayoutCount() int

	// SlideCount returns the number of slides
	SlideCount() int

	// DropExistingSlides removes every slide and returns how many were removed
	DropExistingSlides() int

	// AddSlide appends a slide based on the layout at layoutIndex
	AddSlide(layoutIndex int) (SlideEditor, error)

	// Slide returns the existing slide at index i
	Slide(i int) (SlideEditor, error)

	// SetCoreProperties writes the metadata keys that are present
	SetCoreProperties(meta *entities.DocumentMetadata) error

	// Serialize writes the package as a zip container
	Serialize(w io.Writer) error
}

// SlideEditor mutates the placeholders and notes of one slide
type SlideEditor interface {
	// Placeholders lists the slide's placeholders in shape-tree order
	Placeholders() []entities.PlaceholderRef

	// TitlePlaceholder returns the slide's title placeholder, if any
	TitlePlaceholder() (entities.PlaceholderRef, bool)

	// SetText replaces all text of a placeholder with a single run
	SetText(idx int, text string, fontSize *float64) error

	// SetBullets replaces the placeholder's paragraphs with one level-0 paragraph per item
	SetBullets(idx int, bullets []string, fontSize *float64) error

	// SetNotes replaces the speaker notes, creating the notes slide on first use
	SetNotes(text string) error
}
