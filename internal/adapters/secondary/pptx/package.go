package pptx

import (
	"fmt"

	"github.com/beevik/etree"
)

// Package is an in-memory presentation. Masters, layouts and slides live in
// arenas addressed by index; a slide refers to its layout by index.
type Package struct {
	parts        map[string]*part
	order        []string
	contentTypes *contentTypes
	rootRels     *relationships

	pres    *part
	masters []*master
	layouts []*layout
	slides  []*Slide
}

type master struct {
	part    *part
	name    string
	layouts []int
}

type layout struct {
	part   *part
	name   string
	master int
}

// Slide is one slide of a Package
type Slide struct {
	pkg    *Package
	part   *part
	layout int
	relID  string
	notes  *part
}

// DefaultMaxPackageBytes caps the uncompressed size of a package read by Open
const DefaultMaxPackageBytes int64 = 256 << 20

// Open loads a package from the bytes of a .pptx file
func Open(data []byte) (*Package, error) {
	return OpenLimited(data, DefaultMaxPackageBytes)
}

// OpenLimited is Open with a cap on the total uncompressed size of the parts
func OpenLimited(data []byte, maxBytes int64) (*Package, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPackageBytes
	}
	c, err := readContainer(data, maxBytes)
	if err != nil {
		return nil, err
	}

	p := &Package{
		parts:        c.parts,
		order:        c.order,
		contentTypes: c.contentTypes,
		rootRels:     c.rootRels,
	}

	rel := p.rootRels.firstOfType(relOfficeDoc)
	if rel == nil {
		return nil, fmt.Errorf("%w: no officeDocument relationship", ErrInvalidPackage)
	}
	if p.pres, err = p.loadXMLPart("", rel); err != nil {
		return nil, err
	}
	if p.pres.rels == nil {
		return nil, fmt.Errorf("%w: %s has no relationships", ErrInvalidPackage, p.pres.name)
	}

	if err := p.loadMasters(); err != nil {
		return nil, err
	}
	if err := p.loadSlides(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Package) loadMasters() error {
	layoutByPart := make(map[string]int)

	for _, id := range childrenNamed(firstChild(p.pres.root(), "sldMasterIdLst"), "sldMasterId") {
		mp, err := p.loadXMLPart(p.pres.name, p.pres.rels.byID(relAttr(id, "id")))
		if err != nil {
			return err
		}
		m := &master{part: mp}
		if cSld := firstChild(mp.root(), "cSld"); cSld != nil {
			m.name, _ = plainAttr(cSld, "name")
		}
		masterIndex := len(p.masters)
		p.masters = append(p.masters, m)

		for _, rel := range p.masterLayoutRels(mp) {
			lp, err := p.loadXMLPart(mp.name, rel)
			if err != nil {
				return err
			}
			if _, seen := layoutByPart[lp.name]; seen {
				continue
			}
			l := &layout{part: lp, master: masterIndex}
			if cSld := firstChild(lp.root(), "cSld"); cSld != nil {
				l.name, _ = plainAttr(cSld, "name")
			}
			layoutByPart[lp.name] = len(p.layouts)
			m.layouts = append(m.layouts, len(p.layouts))
			p.layouts = append(p.layouts, l)
		}
	}

	if len(p.masters) == 0 {
		return fmt.Errorf("%w: presentation has no slide masters", ErrInvalidPackage)
	}
	return nil
}

// masterLayoutRels lists a master's layout relationships in sldLayoutIdLst
// order, falling back to relationship order when the list is absent.
func (p *Package) masterLayoutRels(mp *part) []*relationship {
	if mp.rels == nil {
		return nil
	}
	var rels []*relationship
	if lst := firstChild(mp.root(), "sldLayoutIdLst"); lst != nil {
		for _, id := range childrenNamed(lst, "sldLayoutId") {
			rels = append(rels, mp.rels.byID(relAttr(id, "id")))
		}
		return rels
	}
	for _, rel := range mp.rels.Items {
		if isRelType(rel.Type, relSlideLayout) {
			rels = append(rels, rel)
		}
	}
	return rels
}

func (p *Package) loadSlides() error {
	layoutByPart := make(map[string]int, len(p.layouts))
	for i, l := range p.layouts {
		layoutByPart[l.part.name] = i
	}

	for _, id := range childrenNamed(firstChild(p.pres.root(), "sldIdLst"), "sldId") {
		relID := relAttr(id, "id")
		sp, err := p.loadXMLPart(p.pres.name, p.pres.rels.byID(relID))
		if err != nil {
			return err
		}
		if sp.rels == nil {
			return fmt.Errorf("%w: %s has no layout relationship", ErrInvalidPackage, sp.name)
		}

		lrel := sp.rels.firstOfType(relSlideLayout)
		if lrel == nil {
			return fmt.Errorf("%w: %s has no layout relationship", ErrInvalidPackage, sp.name)
		}
		layoutIndex, ok := layoutByPart[resolveTarget(sp.name, lrel.Target)]
		if !ok {
			return fmt.Errorf("%w: %s uses a layout no master lists", ErrInvalidPackage, sp.name)
		}

		s := &Slide{pkg: p, part: sp, layout: layoutIndex, relID: relID}
		if nrel := sp.rels.firstOfType(relNotesSlide); nrel != nil {
			if s.notes, err = p.loadXMLPart(sp.name, nrel); err != nil {
				return err
			}
		}
		p.slides = append(p.slides, s)
	}
	return nil
}

// loadXMLPart resolves rel from source and parses the target as XML
func (p *Package) loadXMLPart(source string, rel *relationship) (*part, error) {
	if rel == nil {
		return nil, fmt.Errorf("%w: dangling relationship id in %s", ErrInvalidPackage, source)
	}
	if rel.external() {
		return nil, fmt.Errorf("%w: %s points outside the package", ErrInvalidPackage, rel.ID)
	}
	name := resolveTarget(source, rel.Target)
	pt, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing part %s", ErrInvalidPackage, name)
	}
	if err := pt.parseXML(); err != nil {
		return nil, err
	}
	return pt, nil
}

// relatedPart returns the first internal part source relates to with relType
func (p *Package) relatedPart(source *part, relType string) *part {
	if source.rels == nil {
		return nil
	}
	rel := source.rels.firstOfType(relType)
	if rel == nil || rel.external() {
		return nil
	}
	return p.parts[resolveTarget(source.name, rel.Target)]
}

// LayoutCount returns the number of layouts across all masters
func (p *Package) LayoutCount() int {
	return len(p.layouts)
}

// SlideCount returns the number of slides
func (p *Package) SlideCount() int {
	return len(p.slides)
}

// Slide returns the slide at index i
func (p *Package) Slide(i int) (*Slide, error) {
	if i < 0 || i >= len(p.slides) {
		return nil, fmt.Errorf("slide index %d out of range [0, %d)", i, len(p.slides))
	}
	return p.slides[i], nil
}

// addPart registers a new XML part with its content type
func (p *Package) addPart(name, contentType string, doc *etree.Document) *part {
	pt := &part{name: name, doc: doc, rels: &relationships{}}
	p.parts[name] = pt
	p.order = append(p.order, name)
	p.contentTypes.setOverride(name, contentType)
	return pt
}

// nextPartName returns the first unused name produced by pattern, e.g. "ppt/slides/slide%d.xml"
func (p *Package) nextPartName(pattern string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf(pattern, n)
		if _, taken := p.parts[name]; !taken {
			return name
		}
	}
}

// relate adds a relationship from source to target and returns its id
func (p *Package) relate(source *part, relType string, target *part) string {
	if source.rels == nil {
		source.rels = &relationships{}
	}
	return source.rels.add(relType, relativeTarget(source.name, target.name))
}
