package entities

// ContentBlock is one caller-supplied unit of content destined for one slide.
// Empty strings and empty bullet lists count as "not supplied".
type ContentBlock struct {
	LayoutIndex  int            `json:"layout_index" yaml:"layout_index"`
	Title        string         `json:"title,omitempty" yaml:"title,omitempty" validate:"max=10000"`
	Subtitle     string         `json:"subtitle,omitempty" yaml:"subtitle,omitempty" validate:"max=10000"`
	Body         string         `json:"body,omitempty" yaml:"body,omitempty" validate:"max=100000"`
	Bullets      []string       `json:"bullets,omitempty" yaml:"bullets,omitempty" validate:"max=500,dive,max=10000"`
	Notes        string         `json:"notes,omitempty" yaml:"notes,omitempty" validate:"max=100000"`
	Placeholders map[int]string `json:"placeholders,omitempty" yaml:"placeholders,omitempty" validate:"dive,keys,min=0,endkeys,max=100000"`

	// FontSize in points, applied to every non-title text binding of the block
	FontSize *float64 `json:"font_size,omitempty" yaml:"font_size,omitempty" validate:"omitempty,gte=1,lte=4000"`
}

// HasBullets reports whether the block carries at least one bullet
func (c ContentBlock) HasBullets() bool {
	return len(c.Bullets) > 0
}

// DocumentMetadata is written to the package's core document properties
type DocumentMetadata struct {
	Author  *string `json:"author,omitempty" yaml:"author,omitempty" validate:"omitempty,max=1000"`
	Title   *string `json:"title,omitempty" yaml:"title,omitempty" validate:"omitempty,max=1000"`
	Subject *string `json:"subject,omitempty" yaml:"subject,omitempty" validate:"omitempty,max=1000"`
}

// IsEmpty returns true if no metadata key is present
func (m *DocumentMetadata) IsEmpty() bool {
	return m == nil || (m.Author == nil && m.Title == nil && m.Subject == nil)
}

// GenerateRequest asks for a new presentation built from content blocks
type GenerateRequest struct {
	TemplateID     string            `json:"template_id,omitempty" yaml:"template_id,omitempty" validate:"omitempty,max=128,excludesall=/\\"`
	Slides         []ContentBlock    `json:"slides" yaml:"slides" validate:"required,max=1000,dive"`
	OutputFilename string            `json:"output_filename,omitempty" yaml:"output_filename,omitempty" validate:"omitempty,max=255,excludesall=/\\"`
	Metadata       *DocumentMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FillSlide is the content applied to one existing template slide.
// Presence, not emptiness, decides whether a field is applied.
type FillSlide struct {
	Title        *string           `json:"title,omitempty" yaml:"title,omitempty" validate:"omitempty,max=10000"`
	Subtitle     *string           `json:"subtitle,omitempty" yaml:"subtitle,omitempty" validate:"omitempty,max=10000"`
	Placeholders map[string]string `json:"placeholders,omitempty" yaml:"placeholders,omitempty" validate:"dive,keys,numeric,endkeys,max=100000"`
	Notes        *string           `json:"notes,omitempty" yaml:"notes,omitempty" validate:"omitempty,max=100000"`
}

// FillRequest asks for a template's existing slides to be filled in place
type FillRequest struct {
	Slides         []FillSlide `json:"slides" yaml:"slides" validate:"max=1000,dive"`
	OutputFilename string      `json:"output_filename,omitempty" yaml:"output_filename,omitempty" validate:"omitempty,max=255,excludesall=/\\"`
}

// BindingAction is what the mutator does with a bound placeholder
type BindingAction int

const (
	ActionSetText BindingAction = iota + 1
	ActionSetBullets
)

// String returns a short name for logs
func (a BindingAction) String() string {
	switch a {
	case ActionSetText:
		return "set_text"
	case ActionSetBullets:
		return "set_bullets"
	default:
		return "none"
	}
}

// Binding pairs a placeholder with the action that fills it
type Binding struct {
	Placeholder PlaceholderRef
	Action      BindingAction
	Text        string
	Bullets     []string
	FontSize    *float64

	// Source names the content field that produced the binding
	Source string
}
