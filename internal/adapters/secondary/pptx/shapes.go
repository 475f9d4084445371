package pptx

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// placeholder is a shape carrying a p:ph element
type placeholder struct {
	el      *etree.Element
	idx     int
	rawType string
	name    string
}

func (ph placeholder) kind() entities.PlaceholderType {
	return entities.PlaceholderTypeFromToken(ph.rawType)
}

func (ph placeholder) ref() entities.PlaceholderRef {
	return entities.PlaceholderRef{Idx: ph.idx, Type: ph.kind(), Name: ph.name}
}

// hasTextBody reports whether the placeholder is a p:sp, the only shape that can hold text
func (ph placeholder) hasTextBody() bool {
	return ph.el.Tag == "sp"
}

func shapeTree(root *etree.Element) *etree.Element {
	return descend(root, "cSld", "spTree")
}

// shapes returns the top-level shapes of a shape tree in document order
func shapes(tree *etree.Element) []*etree.Element {
	if tree == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range tree.ChildElements() {
		switch c.Tag {
		case "sp", "pic", "graphicFrame", "grpSp", "cxnSp":
			out = append(out, c)
		}
	}
	return out
}

// nonVisualProps returns the nvSpPr/nvPicPr/... child of a shape
func nonVisualProps(shape *etree.Element) *etree.Element {
	for _, c := range shape.ChildElements() {
		if strings.HasPrefix(c.Tag, "nv") {
			return c
		}
	}
	return nil
}

func shapeName(shape *etree.Element) string {
	if cNvPr := firstChild(nonVisualProps(shape), "cNvPr"); cNvPr != nil {
		name, _ := plainAttr(cNvPr, "name")
		return name
	}
	return ""
}

func readPlaceholder(shape *etree.Element) (placeholder, bool) {
	ph := descend(nonVisualProps(shape), "nvPr", "ph")
	if ph == nil {
		return placeholder{}, false
	}
	rawType, _ := plainAttr(ph, "type")
	return placeholder{
		el:      shape,
		idx:     intAttr(ph, "idx", 0),
		rawType: rawType,
		name:    shapeName(shape),
	}, true
}

// placeholders lists a part's placeholders; a repeated idx keeps the first shape
func placeholders(root *etree.Element) []placeholder {
	var out []placeholder
	seen := make(map[int]bool)
	for _, shape := range shapes(shapeTree(root)) {
		ph, ok := readPlaceholder(shape)
		if !ok || seen[ph.idx] {
			continue
		}
		seen[ph.idx] = true
		out = append(out, ph)
	}
	return out
}

// findPlaceholder returns the placeholder with the given idx
func findPlaceholder(root *etree.Element, idx int) (placeholder, bool) {
	for _, ph := range placeholders(root) {
		if ph.idx == idx {
			return ph, true
		}
	}
	return placeholder{}, false
}

// titlePlaceholder picks the first title-typed placeholder, else the one at idx 0
func titlePlaceholder(phs []placeholder) (placeholder, bool) {
	for _, ph := range phs {
		if ph.kind() == entities.PlaceholderTitle {
			return ph, true
		}
	}
	for _, ph := range phs {
		if ph.idx == 0 {
			return ph, true
		}
	}
	return placeholder{}, false
}

// xfrm returns the shape's own transform, if it sets one
func xfrm(shape *etree.Element) *etree.Element {
	if shape.Tag == "graphicFrame" {
		return firstChild(shape, "xfrm")
	}
	for _, c := range shape.ChildElements() {
		if c.Tag == "spPr" || c.Tag == "grpSpPr" {
			return firstChild(c, "xfrm")
		}
	}
	return nil
}

func geometry(shape *etree.Element) entities.Geometry {
	var g entities.Geometry
	x := xfrm(shape)
	if x == nil {
		return g
	}
	if off := firstChild(x, "off"); off != nil {
		g.Left = inchesAttr(off, "x")
		g.Top = inchesAttr(off, "y")
	}
	if ext := firstChild(x, "ext"); ext != nil {
		g.Width = inchesAttr(ext, "cx")
		g.Height = inchesAttr(ext, "cy")
	}
	return g
}

func inchesAttr(e *etree.Element, key string) *float64 {
	emu, ok := int64Attr(e, key)
	if !ok {
		return nil
	}
	v := EMUToInches(emu)
	return &v
}

// textOf joins the text of a txBody: paragraphs by newline, line breaks as newline
func textOf(txBody *etree.Element) string {
	var b strings.Builder
	for i, p := range childrenNamed(txBody, "p") {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range p.ChildElements() {
			switch c.Tag {
			case "r", "fld":
				if t := firstChild(c, "t"); t != nil {
					b.WriteString(t.Text())
				}
			case "br":
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
