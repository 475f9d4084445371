package pptx

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// DefaultPreviewLength is the shape text preview length used when none is given
const DefaultPreviewLength = 100

// Describe returns a read-only description of masters, layouts and slides.
// Text previews are truncated to previewLen runes.
func (p *Package) Describe(previewLen int) *entities.TemplateDescription {
	if previewLen <= 0 {
		previewLen = DefaultPreviewLength
	}

	desc := &entities.TemplateDescription{
		SlideMasters: make([]entities.MasterInfo, 0, len(p.masters)),
		Layouts:      make([]entities.LayoutInfo, 0, len(p.layouts)),
		Slides:       make([]entities.SlideInfo, 0, len(p.slides)),
	}

	for i, m := range p.masters {
		name := m.name
		if name == "" {
			name = fmt.Sprintf("Master %d", i)
		}
		desc.SlideMasters = append(desc.SlideMasters, entities.MasterInfo{Index: i, Name: name})
	}

	for i, l := range p.layouts {
		desc.Layouts = append(desc.Layouts, entities.LayoutInfo{
			Index:        i,
			Name:         l.name,
			MasterIndex:  l.master,
			Placeholders: describePlaceholders(l.part.root()),
		})
	}

	for i, s := range p.slides {
		desc.Slides = append(desc.Slides, entities.SlideInfo{
			Index:        i,
			LayoutIndex:  s.layout,
			LayoutName:   p.layouts[s.layout].name,
			Placeholders: describePlaceholders(s.part.root()),
			Shapes:       describeShapes(s.part.root(), previewLen),
			HasNotes:     s.notes != nil,
		})
	}

	return desc
}

func describePlaceholders(root *etree.Element) []entities.PlaceholderInfo {
	phs := placeholders(root)
	out := make([]entities.PlaceholderInfo, 0, len(phs))
	for _, ph := range phs {
		out = append(out, entities.PlaceholderInfo{
			Idx:      ph.idx,
			Type:     ph.kind(),
			RawType:  rawTypeOrDefault(ph.rawType),
			Name:     ph.name,
			Geometry: geometry(ph.el),
		})
	}
	return out
}

func rawTypeOrDefault(raw string) string {
	if raw == "" {
		return "obj"
	}
	return raw
}

func describeShapes(root *etree.Element, previewLen int) []entities.ShapeInfo {
	bound := make(map[*etree.Element]bool)
	for _, ph := range placeholders(root) {
		bound[ph.el] = true
	}

	all := shapes(shapeTree(root))
	out := make([]entities.ShapeInfo, 0, len(all))
	for _, shape := range all {
		info := entities.ShapeInfo{
			Name: shapeName(shape),
			Kind: shapeKind(shape, bound[shape]),
		}
		if shape.Tag == "sp" {
			info.HasTextFrame = true
			text := truncateRunes(textOf(firstChild(shape, "txBody")), previewLen)
			info.Text = &text
		}
		out = append(out, info)
	}
	return out
}

func shapeKind(shape *etree.Element, isPlaceholder bool) entities.ShapeKind {
	if isPlaceholder {
		return entities.ShapePlaceholder
	}
	switch shape.Tag {
	case "pic":
		return entities.ShapePicture
	case "graphicFrame":
		return entities.ShapeGraphicFrame
	case "grpSp":
		return entities.ShapeGroup
	case "cxnSp":
		return entities.ShapeConnector
	}
	if cNvSpPr := firstChild(nonVisualProps(shape), "cNvSpPr"); cNvSpPr != nil {
		if v, _ := plainAttr(cNvSpPr, "txBox"); v == "1" || v == "true" {
			return entities.ShapeTextBox
		}
	}
	return entities.ShapeAutoShape
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
