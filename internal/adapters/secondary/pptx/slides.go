package pptx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// presentationSequence is the schema order of p:presentation children
var presentationSequence = []string{
	"sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst", "sldIdLst",
	"sldSz", "notesSz", "smartTags", "embeddedFontLst", "custShowLst",
	"photoAlbum", "custDataLst", "kinsoku", "defaultTextStyle", "modifyVerifier", "extLst",
}

const (
	minSlideID = 256
	maxSlideID = 2147483647
)

// AddSlide appends a slide based on the layout at layoutIndex. Layout
// placeholders other than date, footer and slide number are cloned with
// inherited geometry and an empty text body.
func (p *Package) AddSlide(layoutIndex int) (*Slide, error) {
	if layoutIndex < 0 || layoutIndex >= len(p.layouts) {
		return nil, fmt.Errorf("layout index %d out of range [0, %d)", layoutIndex, len(p.layouts))
	}
	l := p.layouts[layoutIndex]

	doc := newDocument(slideXML)
	tree := shapeTree(doc.Root())
	shapeID := 2
	for _, ph := range placeholders(l.part.root()) {
		switch ph.rawType {
		case "dt", "ftr", "sldNum":
			continue
		}
		tree.AddChild(clonePlaceholder(ph, shapeID))
		shapeID++
	}

	sp := p.addPart(p.nextPartName("ppt/slides/slide%d.xml"), ctSlide, doc)
	p.relate(sp, relSlideLayout, l.part)
	relID := p.relate(p.pres, relSlide, sp)
	if err := p.appendSlideID(relID); err != nil {
		return nil, err
	}

	s := &Slide{pkg: p, part: sp, layout: layoutIndex, relID: relID}
	p.slides = append(p.slides, s)
	return s, nil
}

func clonePlaceholder(ph placeholder, id int) *etree.Element {
	name := ph.name
	if name == "" {
		name = "Placeholder " + strconv.Itoa(id-1)
	}

	sp := etree.NewElement("p:sp")
	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nv.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")

	phEl := nv.CreateElement("p:nvPr").CreateElement("p:ph")
	source := descend(nonVisualProps(ph.el), "nvPr", "ph")
	for _, key := range []string{"type", "orient", "sz", "idx"} {
		if v, ok := plainAttr(source, key); ok {
			phEl.CreateAttr(key, v)
		}
	}

	sp.CreateElement("p:spPr")
	if ph.rawType != "pic" {
		txBody := newTextBody()
		txBody.CreateElement("a:p")
		sp.AddChild(txBody)
	}
	return sp
}

func (p *Package) appendSlideID(relID string) error {
	root := p.pres.root()
	ensureNamespace(root, "r", nsR)

	lst := firstChild(root, "sldIdLst")
	if lst == nil {
		lst = etree.NewElement("p:sldIdLst")
		insertOrdered(root, lst, presentationSequence)
	}

	next := minSlideID
	for _, id := range childrenNamed(lst, "sldId") {
		if n := intAttr(id, "id", 0); n >= next {
			next = n + 1
		}
	}
	if next > maxSlideID {
		return fmt.Errorf("no slide id left for %s", relID)
	}

	el := lst.CreateElement("p:sldId")
	el.CreateAttr("id", strconv.Itoa(next))
	el.CreateAttr("r:id", relID)
	addToLastSection(root, strconv.Itoa(next))
	return nil
}

// addToLastSection lists a new slide id in the last section of a sectioned
// presentation; slides are appended, so they belong to the final section.
func addToLastSection(root *etree.Element, slideID string) {
	for _, secLst := range descendants(root, "sectionLst") {
		sections := childrenNamed(secLst, "section")
		if len(sections) == 0 {
			continue
		}
		last := sections[len(sections)-1]
		lst := firstChild(last, "sldIdLst")
		if lst == nil {
			lst = last.CreateElement(qualified(last, "sldIdLst"))
		}
		lst.CreateElement(qualified(lst, "sldId")).CreateAttr("id", slideID)
	}
}

// forgetSlide removes the other references presentation.xml keeps to a
// slide: section membership by slide id and custom shows by relationship id.
func forgetSlide(root *etree.Element, slideID, relID string) {
	for _, secLst := range descendants(root, "sectionLst") {
		for _, section := range childrenNamed(secLst, "section") {
			lst := firstChild(section, "sldIdLst")
			for _, ref := range childrenNamed(lst, "sldId") {
				if id, _ := plainAttr(ref, "id"); slideID != "" && id == slideID {
					lst.RemoveChild(ref)
				}
			}
		}
	}
	for _, show := range childrenNamed(firstChild(root, "custShowLst"), "custShow") {
		lst := firstChild(show, "sldLst")
		for _, ref := range childrenNamed(lst, "sld") {
			if relAttr(ref, "id") == relID {
				lst.RemoveChild(ref)
			}
		}
	}
}

// DropExistingSlides removes every slide in reverse order and returns how
// many were removed. Masters and layouts are untouched.
func (p *Package) DropExistingSlides() int {
	n := len(p.slides)
	for i := n - 1; i >= 0; i-- {
		p.removeSlide(i)
	}
	p.prune()
	return n
}

// removeSlide drops the slide's sldId entry, its section and custom show
// references and its presentation relationship together; its parts go
// with the next prune.
func (p *Package) removeSlide(i int) {
	s := p.slides[i]
	root := p.pres.root()
	slideID := ""
	if lst := firstChild(root, "sldIdLst"); lst != nil {
		for _, id := range childrenNamed(lst, "sldId") {
			if relAttr(id, "id") == s.relID {
				slideID, _ = plainAttr(id, "id")
				lst.RemoveChild(id)
				break
			}
		}
	}
	forgetSlide(root, slideID, s.relID)
	p.pres.rels.remove(s.relID)
	p.slides = append(p.slides[:i], p.slides[i+1:]...)
}
