package pptx

import (
	"context"
	"io"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// Engine adapts the package model to ports.PresentationEngine
type Engine struct {
	maxPackageBytes int64
}

// NewEngine creates a new presentation engine
func NewEngine() *Engine {
	return &Engine{maxPackageBytes: DefaultMaxPackageBytes}
}

// NewEngineWithLimit creates an engine that rejects packages whose parts
// inflate to more than maxBytes
func NewEngineWithLimit(maxBytes int64) *Engine {
	return &Engine{maxPackageBytes: maxBytes}
}

// Open parses a package; load failures are reported as corrupt packages
func (e *Engine) Open(ctx context.Context, data []byte) (ports.PresentationDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pkg, err := OpenLimited(data, e.maxPackageBytes)
	if err != nil {
		return nil, entities.NewCorruptPackage("", err)
	}
	return &document{pkg: pkg}, nil
}

// New creates an empty presentation
func (e *Engine) New(ctx context.Context) (ports.PresentationDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pkg, err := New()
	if err != nil {
		return nil, err
	}
	return &document{pkg: pkg}, nil
}

type document struct {
	pkg *Package
}

func (d *document) Describe(previewLen int) *entities.TemplateDescription {
	return d.pkg.Describe(previewLen)
}

func (d *document) LayoutCount() int { return d.pkg.LayoutCount() }

func (d *document) SlideCount() int { return d.pkg.SlideCount() }

func (d *document) DropExistingSlides() int { return d.pkg.DropExistingSlides() }

func (d *document) AddSlide(layoutIndex int) (ports.SlideEditor, error) {
	s, err := d.pkg.AddSlide(layoutIndex)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *document) Slide(i int) (ports.SlideEditor, error) {
	s, err := d.pkg.Slide(i)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *document) SetCoreProperties(meta *entities.DocumentMetadata) error {
	return d.pkg.SetCoreProperties(meta)
}

func (d *document) Serialize(w io.Writer) error {
	return d.pkg.Serialize(w)
}

var (
	_ ports.PresentationEngine   = (*Engine)(nil)
	_ ports.PresentationDocument = (*document)(nil)
	_ ports.SlideEditor          = (*Slide)(nil)
)
