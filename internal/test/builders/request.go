package builders

import (
	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// ContentBlockBuilder builds content blocks for testing
type ContentBlockBuilder struct {
	block entities.ContentBlock
}

// NewContentBlockBuilder creates a block targeting layout 0 with no content
func NewContentBlockBuilder() *ContentBlockBuilder {
	return &ContentBlockBuilder{}
}

// WithLayout sets the target layout index
func (b *ContentBlockBuilder) WithLayout(index int) *ContentBlockBuilder {
	b.block.LayoutIndex = index
	return b
}

// WithTitle sets the title
func (b *ContentBlockBuilder) WithTitle(title string) *ContentBlockBuilder {
	b.block.Title = title
	return b
}

// WithSubtitle sets the subtitle
func (b *ContentBlockBuilder) WithSubtitle(subtitle string) *ContentBlockBuilder {
	b.block.Subtitle = subtitle
	return b
}

// WithBody sets the body text
func (b *ContentBlockBuilder) WithBody(body string) *ContentBlockBuilder {
	b.block.Body = body
	return b
}

// WithBullets sets the bullets
func (b *ContentBlockBuilder) WithBullets(bullets ...string) *ContentBlockBuilder {
	b.block.Bullets = bullets
	return b
}

// WithNotes sets the speaker notes
func (b *ContentBlockBuilder) WithNotes(notes string) *ContentBlockBuilder {
	b.block.Notes = notes
	return b
}

// WithPlaceholder adds an explicit placeholder override
func (b *ContentBlockBuilder) WithPlaceholder(idx int, text string) *ContentBlockBuilder {
	if b.block.Placeholders == nil {
		b.block.Placeholders = make(map[int]string)
	}
	b.block.Placeholders[idx] = text
	return b
}

// WithFontSize sets the font size in points
func (b *ContentBlockBuilder) WithFontSize(points float64) *ContentBlockBuilder {
	b.block.FontSize = &points
	return b
}

// Build returns the content block
func (b *ContentBlockBuilder) Build() entities.ContentBlock {
	block := b.block
	if b.block.Placeholders != nil {
		block.Placeholders = make(map[int]string, len(b.block.Placeholders))
		for k, v := range b.block.Placeholders {
			block.Placeholders[k] = v
		}
	}
	return block
}

// GenerateRequestBuilder builds generate requests for testing
type GenerateRequestBuilder struct {
	req entities.GenerateRequest
}

// NewGenerateRequestBuilder creates a request with no template and no slides
func NewGenerateRequestBuilder() *GenerateRequestBuilder {
	return &GenerateRequestBuilder{req: entities.GenerateRequest{Slides: []entities.ContentBlock{}}}
}

// WithTemplate sets the template id
func (b *GenerateRequestBuilder) WithTemplate(id string) *GenerateRequestBuilder {
	b.req.TemplateID = id
	return b
}

// WithSlide appends a content block
func (b *GenerateRequestBuilder) WithSlide(block entities.ContentBlock) *GenerateRequestBuilder {
	b.req.Slides = append(b.req.Slides, block)
	return b
}

// WithOutputFilename sets the requested output filename
func (b *GenerateRequestBuilder) WithOutputFilename(name string) *GenerateRequestBuilder {
	b.req.OutputFilename = name
	return b
}

// WithMetadata sets author, title and subject; empty values are left absent
func (b *GenerateRequestBuilder) WithMetadata(author, title, subject string) *GenerateRequestBuilder {
	meta := &entities.DocumentMetadata{}
	if author != "" {
		meta.Author = &author
	}
	if title != "" {
		meta.Title = &title
	}
	if subject != "" {
		meta.Subject = &subject
	}
	b.req.Metadata = meta
	return b
}

// Build returns the request
func (b *GenerateRequestBuilder) Build() *entities.GenerateRequest {
	req := b.req
	req.Slides = append([]entities.ContentBlock{}, b.req.Slides...)
	return &req
}

// FillSlideBuilder builds fill slides for testing
type FillSlideBuilder struct {
	slide entities.FillSlide
}

// NewFillSlideBuilder creates a fill slide with no fields present
func NewFillSlideBuilder() *FillSlideBuilder {
	return &FillSlideBuilder{}
}

// WithTitle marks the title present
func (b *FillSlideBuilder) WithTitle(title string) *FillSlideBuilder {
	b.slide.Title = &title
	return b
}

// WithSubtitle marks the subtitle present
func (b *FillSlideBuilder) WithSubtitle(subtitle string) *FillSlideBuilder {
	b.slide.Subtitle = &subtitle
	return b
}

// WithPlaceholder sets the text for a placeholder idx given as a string key
func (b *FillSlideBuilder) WithPlaceholder(key, text string) *FillSlideBuilder {
	if b.slide.Placeholders == nil {
		b.slide.Placeholders = make(map[string]string)
	}
	b.slide.Placeholders[key] = text
	return b
}

// WithNotes marks the notes present
func (b *FillSlideBuilder) WithNotes(notes string) *FillSlideBuilder {
	b.slide.Notes = &notes
	return b
}

// Build returns the fill slide
func (b *FillSlideBuilder) Build() entities.FillSlide {
	return b.slide
}

// FillRequest creates a fill request from slides
func FillRequest(slides ...entities.FillSlide) *entities.FillRequest {
	return &entities.FillRequest{Slides: slides}
}

// QuarterlyReviewRequest is the one-slide request used with QuarterlyTemplate
func QuarterlyReviewRequest(templateID string) *entities.GenerateRequest {
	return NewGenerateRequestBuilder().
		WithTemplate(templateID).
		WithSlide(NewContentBlockBuilder().WithLayout(1).WithTitle("Q1 Review").WithBody("Revenue up 12%").Build()).
		Build()
}
