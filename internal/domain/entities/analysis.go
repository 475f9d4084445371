package entities

// Geometry is a placeholder's local frame in inches; nil fields are inherited or unset
type Geometry struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Left   *float64 `json:"left"`
	Top    *float64 `json:"top"`
}

// PlaceholderInfo describes one placeholder of a layout or slide
type PlaceholderInfo struct {
	Idx     int             `json:"idx"`
	Type    PlaceholderType `json:"type"`
	RawType string          `json:"raw_type"`
	Name    string          `json:"name"`
	Geometry
}

// ShapeKind classifies a shape-tree element
type ShapeKind string

const (
	ShapePlaceholder  ShapeKind = "placeholder"
	ShapeAutoShape    ShapeKind = "auto_shape"
	ShapeTextBox      ShapeKind = "text_box"
	ShapePicture      ShapeKind = "picture"
	ShapeGraphicFrame ShapeKind = "graphic_frame"
	ShapeGroup        ShapeKind = "group"
	ShapeConnector    ShapeKind = "connector"
)

// ShapeInfo is a bounded summary of a shape on an existing slide
type ShapeInfo struct {
	Name         string    `json:"name"`
	Kind         ShapeKind `json:"shape_type"`
	HasTextFrame bool      `json:"has_text_frame"`
	Text         *string   `json:"text,omitempty"`
}

// MasterInfo describes a slide master
type MasterInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// LayoutInfo describes a slide layout and its placeholder definitions
type LayoutInfo struct {
	Index        int               `json:"index"`
	Name         string            `json:"name"`
	MasterIndex  int               `json:"master_index"`
	Placeholders []PlaceholderInfo `json:"placeholders"`
}

// LayoutSummary is the short layout listing used by template listings and uploads
type LayoutSummary struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// SlideInfo describes an existing slide of a template
type SlideInfo struct {
	Index        int               `json:"slide_index"`
	LayoutIndex  int               `json:"layout_index"`
	LayoutName   string            `json:"layout_name"`
	Placeholders []PlaceholderInfo `json:"placeholders"`
	Shapes       []ShapeInfo       `json:"shapes"`
	HasNotes     bool              `json:"has_notes"`
}

// TemplateDescription is the read-only analysis of a presentation package
type TemplateDescription struct {
	TemplateID   string       `json:"template_id,omitempty"`
	SlideMasters []MasterInfo `json:"slide_masters"`
	Layouts      []LayoutInfo `json:"layouts"`
	Slides       []SlideInfo  `json:"slides"`
}

// LayoutSummaries returns the index/name pairs of every layout
func (d *TemplateDescription) LayoutSummaries() []LayoutSummary {
	out := make([]LayoutSummary, len(d.Layouts))
	for i, l := range d.Layouts {
		out[i] = LayoutSummary{Index: l.Index, Name: l.Name}
	}
	return out
}
