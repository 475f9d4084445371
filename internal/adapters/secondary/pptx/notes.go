package pptx

import (
	"strings"

	"github.com/beevik/etree"
)

// HasNotes reports whether the slide has a notes slide
func (s *Slide) HasNotes() bool {
	return s.notes != nil
}

// Notes returns the text of the slide's notes body
func (s *Slide) Notes() string {
	if s.notes == nil {
		return ""
	}
	for _, ph := range placeholders(s.notes.root()) {
		if ph.rawType == "body" {
			return textOf(firstChild(ph.el, "txBody"))
		}
	}
	return ""
}

// SetNotes replaces the speaker notes with one paragraph per line, creating
// the notes slide (and a notes master when the package has none) on first use.
func (s *Slide) SetNotes(text string) error {
	if s.notes == nil {
		s.notes = s.pkg.addNotesSlide(s)
	}

	txBody := notesTextBody(s.notes.root())
	for _, p := range childrenNamed(txBody, "p") {
		txBody.RemoveChild(p)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		p := txBody.CreateElement("a:p")
		if line != "" {
			p.AddChild(newRun(line, nil))
		}
	}
	return nil
}

// notesTextBody returns the body placeholder's text body, adding the
// placeholder when the notes slide lacks one.
func notesTextBody(root *etree.Element) *etree.Element {
	for _, ph := range placeholders(root) {
		if ph.rawType == "body" && ph.hasTextBody() {
			txBody := firstChild(ph.el, "txBody")
			if txBody == nil {
				txBody = newTextBody()
				insertOrdered(ph.el, txBody, spSequence)
			}
			return txBody
		}
	}

	body := newDocument(wrapNS(notesBodyXML)).Root().ChildElements()[0]
	shapeTree(root).AddChild(body)
	return firstChild(body, "txBody")
}

func (p *Package) addNotesSlide(s *Slide) *part {
	nm := p.relatedPart(p.pres, relNotesMaster)
	if nm == nil {
		nm = p.addDefaultNotesMaster()
	}

	np := p.addPart(p.nextPartName("ppt/notesSlides/notesSlide%d.xml"), ctNotesSlide, newDocument(notesSlideXML))
	p.relate(np, relNotesMaster, nm)
	p.relate(np, relSlide, s.part)
	p.relate(s.part, relNotesSlide, np)
	return np
}

func (p *Package) addDefaultNotesMaster() *part {
	theme := p.addPart(p.nextPartName("ppt/theme/theme%d.xml"), ctTheme, newDocument(themeXML))
	nm := p.addPart(p.nextPartName("ppt/notesMasters/notesMaster%d.xml"), ctNotesMaster, newDocument(notesMasterXML))
	p.relate(nm, relTheme, theme)
	relID := p.relate(p.pres, relNotesMaster, nm)

	root := p.pres.root()
	ensureNamespace(root, "r", nsR)
	lst := firstChild(root, "notesMasterIdLst")
	if lst == nil {
		lst = etree.NewElement("p:notesMasterIdLst")
		insertOrdered(root, lst, presentationSequence)
	}
	removeChildren(lst, "notesMasterId")
	lst.CreateElement("p:notesMasterId").CreateAttr("r:id", relID)
	return nm
}
