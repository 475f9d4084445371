package pptx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

var (
	// ErrNoTextBody is returned when a placeholder shape cannot hold text
	ErrNoTextBody = errors.New("pptx: placeholder has no text body")

	// ErrPlaceholderNotFound is returned for an idx the slide does not have
	ErrPlaceholderNotFound = errors.New("pptx: placeholder not found")
)

// Placeholders lists the slide's placeholders in shape-tree order
func (s *Slide) Placeholders() []entities.PlaceholderRef {
	phs := placeholders(s.part.root())
	refs := make([]entities.PlaceholderRef, len(phs))
	for i, ph := range phs {
		refs[i] = ph.ref()
	}
	return refs
}

// TitlePlaceholder returns the slide's title placeholder, if any
func (s *Slide) TitlePlaceholder() (entities.PlaceholderRef, bool) {
	ph, ok := titlePlaceholder(placeholders(s.part.root()))
	if !ok {
		return entities.PlaceholderRef{}, false
	}
	return ph.ref(), true
}

// LayoutIndex returns the index of the layout the slide is based on
func (s *Slide) LayoutIndex() int {
	return s.layout
}

// Text returns the text of the placeholder at idx
func (s *Slide) Text(idx int) (string, error) {
	ph, ok := findPlaceholder(s.part.root(), idx)
	if !ok {
		return "", fmt.Errorf("%w: idx %d", ErrPlaceholderNotFound, idx)
	}
	return textOf(firstChild(ph.el, "txBody")), nil
}

// ParagraphCount returns how many a:p elements the placeholder holds
func (s *Slide) ParagraphCount(idx int) (int, error) {
	ph, ok := findPlaceholder(s.part.root(), idx)
	if !ok {
		return 0, fmt.Errorf("%w: idx %d", ErrPlaceholderNotFound, idx)
	}
	return len(childrenNamed(firstChild(ph.el, "txBody"), "p")), nil
}

// SetText replaces every paragraph of the placeholder with one paragraph
// holding a single run. The first paragraph's properties are kept.
func (s *Slide) SetText(idx int, text string, fontSize *float64) error {
	txBody, err := s.textBody(idx)
	if err != nil {
		return err
	}

	var pPr *etree.Element
	paragraphs := childrenNamed(txBody, "p")
	if len(paragraphs) > 0 {
		if old := firstChild(paragraphs[0], "pPr"); old != nil {
			pPr = old.Copy()
		}
	}
	for _, p := range paragraphs {
		txBody.RemoveChild(p)
	}

	p := txBody.CreateElement("a:p")
	if pPr != nil {
		p.AddChild(pPr)
	}
	p.AddChild(newRun(text, fontSize))
	return nil
}

// SetBullets rewrites the placeholder as exactly one level-0 paragraph per
// bullet. The first existing paragraph is reused as the template for the rest.
func (s *Slide) SetBullets(idx int, bullets []string, fontSize *float64) error {
	txBody, err := s.textBody(idx)
	if err != nil {
		return err
	}

	paragraphs := childrenNamed(txBody, "p")
	for i, p := range paragraphs {
		if i > 0 || len(bullets) == 0 {
			txBody.RemoveChild(p)
		}
	}
	if len(bullets) == 0 {
		return nil
	}

	var first *etree.Element
	if len(paragraphs) > 0 {
		first = paragraphs[0]
		removeChildren(first, "r", "br", "fld")
		if pPr := firstChild(first, "pPr"); pPr != nil {
			removePlainAttr(pPr, "lvl")
		}
	} else {
		first = txBody.CreateElement("a:p")
	}

	blank := first.Copy()
	for i, bullet := range bullets {
		p := first
		if i > 0 {
			p = blank.Copy()
			txBody.AddChild(p)
		}
		appendRun(p, newRun(bullet, fontSize))
	}
	return nil
}

// textBody returns the placeholder's p:txBody, creating an empty one when
// a text-capable shape has none.
func (s *Slide) textBody(idx int) (*etree.Element, error) {
	ph, ok := findPlaceholder(s.part.root(), idx)
	if !ok {
		return nil, fmt.Errorf("%w: idx %d", ErrPlaceholderNotFound, idx)
	}
	if !ph.hasTextBody() {
		return nil, fmt.Errorf("%w: idx %d is a %s", ErrNoTextBody, idx, ph.el.Tag)
	}
	txBody := firstChild(ph.el, "txBody")
	if txBody == nil {
		txBody = newTextBody()
		insertOrdered(ph.el, txBody, spSequence)
	}
	return txBody, nil
}

var spSequence = []string{"nvSpPr", "spPr", "style", "txBody", "extLst"}

func newTextBody() *etree.Element {
	txBody := etree.NewElement("p:txBody")
	txBody.CreateElement("a:bodyPr")
	txBody.CreateElement("a:lstStyle")
	return txBody
}

func newRun(text string, fontSize *float64) *etree.Element {
	r := etree.NewElement("a:r")
	if fontSize != nil {
		r.CreateElement("a:rPr").CreateAttr("sz", strconv.Itoa(FontSizeToHundredths(*fontSize)))
	}
	r.CreateElement("a:t").SetText(cleanText(text))
	return r
}

// appendRun places r ahead of a trailing a:endParaRPr
func appendRun(p, r *etree.Element) {
	if end := firstChild(p, "endParaRPr"); end != nil {
		p.InsertChildAt(end.Index(), r)
		return
	}
	p.AddChild(r)
}

// cleanText normalises to NFC and drops characters XML 1.0 cannot carry
func cleanText(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r < 0x20:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		case r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
}
