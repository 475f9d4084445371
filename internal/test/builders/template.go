package builders

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
)

const (
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsP14 = "http://schemas.microsoft.com/office/powerpoint/2010/main"

	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	ctBase  = "application/vnd.openxmlformats-officedocument."

	decl    = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	nsAttrs = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`
	grpHead = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`
)

// PlaceholderSpec describes one placeholder of a fixture layout
type PlaceholderSpec struct {
	Type  string // raw p:ph@type, empty for the schema default
	Idx   int
	Name  string
	Shape string // "sp" (default) or "pic"
}

// Title returns a title placeholder at idx 0
func Title() PlaceholderSpec {
	return PlaceholderSpec{Type: "title", Idx: 0, Name: "Title 1"}
}

// Subtitle returns a subtitle placeholder at idx 1
func Subtitle() PlaceholderSpec {
	return PlaceholderSpec{Type: "subTitle", Idx: 1, Name: "Subtitle 2"}
}

// Body returns a body placeholder at idx
func Body(idx int) PlaceholderSpec {
	return PlaceholderSpec{Type: "body", Idx: idx, Name: fmt.Sprintf("Text Placeholder %d", idx+1)}
}

// Content returns a placeholder without a type attribute (an "obj" slot)
func Content(idx int) PlaceholderSpec {
	return PlaceholderSpec{Idx: idx, Name: fmt.Sprintf("Content Placeholder %d", idx+1)}
}

// Picture returns a picture placeholder drawn as p:pic
func Picture(idx int) PlaceholderSpec {
	return PlaceholderSpec{Type: "pic", Idx: idx, Name: fmt.Sprintf("Picture Placeholder %d", idx+1), Shape: "pic"}
}

// Footer returns a footer placeholder
func Footer(idx int) PlaceholderSpec {
	return PlaceholderSpec{Type: "ftr", Idx: idx, Name: fmt.Sprintf("Footer Placeholder %d", idx+1)}
}

type fixtureLayout struct {
	name         string
	placeholders []PlaceholderSpec
}

type fixtureSlide struct {
	layout int
	texts  map[int][]string
	notes  *string
	extra  []string
}

// slideGroup names a set of slides by their position in the fixture
type slideGroup struct {
	name   string
	slides []int
}

// TemplateBuilder assembles small .pptx packages for tests
type TemplateBuilder struct {
	masterName  string
	layouts     []fixtureLayout
	slides      []fixtureSlide
	coreTitle   *string
	sections    []slideGroup
	customShows []slideGroup
}

// NewTemplateBuilder creates a builder with one master and no layouts
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{masterName: "Test Master"}
}

// WithMasterName sets the master's cSld name
func (b *TemplateBuilder) WithMasterName(name string) *TemplateBuilder {
	b.masterName = name
	return b
}

// WithLayout appends a layout
func (b *TemplateBuilder) WithLayout(name string, placeholders ...PlaceholderSpec) *TemplateBuilder {
	b.layouts = append(b.layouts, fixtureLayout{name: name, placeholders: placeholders})
	return b
}

// WithSlide appends a slide instantiating every placeholder of the layout.
// texts maps placeholder idx to its paragraphs.
func (b *TemplateBuilder) WithSlide(layout int, texts map[int][]string) *TemplateBuilder {
	b.slides = append(b.slides, fixtureSlide{layout: layout, texts: texts})
	return b
}

// WithNotes attaches speaker notes to the last slide
func (b *TemplateBuilder) WithNotes(notes string) *TemplateBuilder {
	if len(b.slides) > 0 {
		b.slides[len(b.slides)-1].notes = &notes
	}
	return b
}

// WithTextBox adds a non-placeholder text box to the last slide
func (b *TemplateBuilder) WithTextBox(name, text string) *TemplateBuilder {
	if len(b.slides) > 0 {
		s := &b.slides[len(b.slides)-1]
		s.extra = append(s.extra, textBoxXML(len(s.extra)+100, name, text))
	}
	return b
}

// WithCoreTitle adds docProps/core.xml with a dc:title
func (b *TemplateBuilder) WithCoreTitle(title string) *TemplateBuilder {
	b.coreTitle = &title
	return b
}

// QuarterlyTemplate returns the two-layout fixture: a title slide layout and
// a title-and-content layout with two body placeholders (idx 1 and 2).
func QuarterlyTemplate() *TemplateBuilder {
	return NewTemplateBuilder().
		WithLayout("Title Slide", PlaceholderSpec{Type: "ctrTitle", Idx: 0, Name: "Title 1"}, Subtitle()).
		WithLayout("Title and Content", Title(), Body(1), Body(2), Footer(11))
}

// WithSection adds a p14 section listing the slides at the given positions
func (b *TemplateBuilder) WithSection(name string, slides ...int) *TemplateBuilder {
	b.sections = append(b.sections, slideGroup{name: name, slides: slides})
	return b
}

// WithCustomShow adds a custom show listing the slides at the given positions
func (b *TemplateBuilder) WithCustomShow(name string, slides ...int) *TemplateBuilder {
	b.customShows = append(b.customShows, slideGroup{name: name, slides: slides})
	return b
}

// Build returns the package bytes
func (b *TemplateBuilder) Build() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, body string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			panic(err)
		}
	}

	overrides := []string{
		override("/ppt/presentation.xml", "presentationml.presentation.main+xml"),
		override("/ppt/slideMasters/slideMaster1.xml", "presentationml.slideMaster+xml"),
		override("/ppt/theme/theme1.xml", "theme+xml"),
	}

	rootRels := []string{rel(1, "officeDocument", "ppt/presentation.xml")}
	if b.coreTitle != nil {
		rootRels = append(rootRels, fmt.Sprintf(`<Relationship Id="rId2" Type="%s" Target="docProps/core.xml"/>`,
			"http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"))
		overrides = append(overrides, `<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
		write("docProps/core.xml", decl+`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" `+
			`xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>`+html.EscapeString(*b.coreTitle)+`</dc:title></cp:coreProperties>`)
	}
	write("_rels/.rels", relsDoc(rootRels))

	// master
	var layoutIDs, masterRels []string
	for i := range b.layouts {
		layoutIDs = append(layoutIDs, fmt.Sprintf(`<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483649+i, i+1))
		masterRels = append(masterRels, rel(i+1, "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)))
	}
	masterRels = append(masterRels, rel(len(b.layouts)+1, "theme", "../theme/theme1.xml"))
	write("ppt/slideMasters/slideMaster1.xml", decl+`<p:sldMaster `+nsAttrs+`><p:cSld name="`+html.EscapeString(b.masterName)+`"><p:spTree>`+grpHead+
		`</p:spTree></p:cSld><p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" `+
		`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`+
		`<p:sldLayoutIdLst>`+strings.Join(layoutIDs, "")+`</p:sldLayoutIdLst></p:sldMaster>`)
	write("ppt/slideMasters/_rels/slideMaster1.xml.rels", relsDoc(masterRels))
	write("ppt/theme/theme1.xml", decl+`<a:theme xmlns:a="`+nsA+`" name="Fixture"><a:themeElements/></a:theme>`)

	// layouts
	for i, l := range b.layouts {
		name := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		overrides = append(overrides, override("/"+name, "presentationml.slideLayout+xml"))
		var shapes strings.Builder
		for j, ph := range l.placeholders {
			shapes.WriteString(placeholderXML(j+2, ph, nil, true))
		}
		write(name, decl+`<p:sldLayout `+nsAttrs+`><p:cSld name="`+html.EscapeString(l.name)+`"><p:spTree>`+grpHead+
			shapes.String()+`</p:spTree></p:cSld></p:sldLayout>`)
		write(fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1),
			relsDoc([]string{rel(1, "slideMaster", "../slideMasters/slideMaster1.xml")}))
	}

	// slides
	presRels := []string{rel(1, "slideMaster", "slideMasters/slideMaster1.xml")}
	var slideIDs []string
	hasNotes := false
	for i, s := range b.slides {
		n := i + 1
		name := fmt.Sprintf("ppt/slides/slide%d.xml", n)
		overrides = append(overrides, override("/"+name, "presentationml.slide+xml"))
		rid := len(presRels) + 1
		presRels = append(presRels, rel(rid, "slide", fmt.Sprintf("slides/slide%d.xml", n)))
		slideIDs = append(slideIDs, fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 255+n, rid))

		var shapes strings.Builder
		for j, ph := range b.layouts[s.layout].placeholders {
			shapes.WriteString(placeholderXML(j+2, ph, s.texts[ph.Idx], false))
		}
		for _, extra := range s.extra {
			shapes.WriteString(extra)
		}
		write(name, decl+`<p:sld `+nsAttrs+`><p:cSld><p:spTree>`+grpHead+shapes.String()+`</p:spTree></p:cSld></p:sld>`)

		slideRels := []string{rel(1, "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", s.layout+1))}
		if s.notes != nil {
			hasNotes = true
			notesName := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n)
			overrides = append(overrides, override("/"+notesName, "presentationml.notesSlide+xml"))
			slideRels = append(slideRels, rel(2, "notesSlide", fmt.Sprintf("../notesSlides/notesSlide%d.xml", n)))
			write(notesName, decl+`<p:notes `+nsAttrs+`><p:cSld><p:spTree>`+grpHead+
				placeholderXML(2, PlaceholderSpec{Type: "body", Idx: 1, Name: "Notes Placeholder 1"}, []string{*s.notes}, false)+
				`</p:spTree></p:cSld></p:notes>`)
			write(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), relsDoc([]string{
				rel(1, "notesMaster", "../notesMasters/notesMaster1.xml"),
				rel(2, "slide", fmt.Sprintf("../slides/slide%d.xml", n)),
			}))
		}
		write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), relsDoc(slideRels))
	}

	notesMasterList := ""
	if hasNotes {
		rid := len(presRels) + 1
		presRels = append(presRels, rel(rid, "notesMaster", "notesMasters/notesMaster1.xml"))
		notesMasterList = fmt.Sprintf(`<p:notesMasterIdLst><p:notesMasterId r:id="rId%d"/></p:notesMasterIdLst>`, rid)
		overrides = append(overrides, override("/ppt/notesMasters/notesMaster1.xml", "presentationml.notesMaster+xml"))
		write("ppt/notesMasters/notesMaster1.xml", decl+`<p:notesMaster `+nsAttrs+`><p:cSld><p:spTree>`+grpHead+
			placeholderXML(2, PlaceholderSpec{Type: "body", Idx: 3, Name: "Notes Placeholder 3"}, nil, true)+
			`</p:spTree></p:cSld></p:notesMaster>`)
		write("ppt/notesMasters/_rels/notesMaster1.xml.rels",
			relsDoc([]string{rel(1, "theme", "../theme/theme1.xml")}))
	}

	slideList := ""
	if len(slideIDs) > 0 {
		slideList = `<p:sldIdLst>` + strings.Join(slideIDs, "") + `</p:sldIdLst>`
	}
	// slide n (0-based) is sldId 256+n with presentation relationship rId(n+2)
	var customShows strings.Builder
	if len(b.customShows) > 0 {
		customShows.WriteString(`<p:custShowLst>`)
		for i, show := range b.customShows {
			fmt.Fprintf(&customShows, `<p:custShow name="%s" id="%d"><p:sldLst>`, html.EscapeString(show.name), i)
			for _, n := range show.slides {
				fmt.Fprintf(&customShows, `<p:sld r:id="rId%d"/>`, n+2)
			}
			customShows.WriteString(`</p:sldLst></p:custShow>`)
		}
		customShows.WriteString(`</p:custShowLst>`)
	}
	var sections strings.Builder
	if len(b.sections) > 0 {
		sections.WriteString(`<p:extLst><p:ext uri="{521415D9-36F7-43E2-AB2F-B90AF26B5E84}">` +
			`<p14:sectionLst xmlns:p14="` + nsP14 + `">`)
		for i, sec := range b.sections {
			fmt.Fprintf(&sections, `<p14:section name="%s" id="{00000000-0000-0000-0000-%012d}"><p14:sldIdLst>`,
				html.EscapeString(sec.name), i+1)
			for _, n := range sec.slides {
				fmt.Fprintf(&sections, `<p14:sldId id="%d"/>`, 256+n)
			}
			sections.WriteString(`</p14:sldIdLst></p14:section>`)
		}
		sections.WriteString(`</p14:sectionLst></p:ext></p:extLst>`)
	}

	write("ppt/presentation.xml", decl+`<p:presentation `+nsAttrs+`>`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		notesMasterList+slideList+
		`<p:sldSz cx="9144000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>`+
		customShows.String()+sections.String()+`</p:presentation>`)
	write("ppt/_rels/presentation.xml.rels", relsDoc(presRels))

	write("[Content_Types].xml", decl+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+strings.Join(overrides, "")+`</Types>`)

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func override(partName, suffix string) string {
	return fmt.Sprintf(`<Override PartName="%s" ContentType="%s%s"/>`, partName, ctBase, suffix)
}

func rel(id int, relType, target string) string {
	return fmt.Sprintf(`<Relationship Id="rId%d" Type="%s%s" Target="%s"/>`, id, relBase, relType, target)
}

func relsDoc(rels []string) string {
	return decl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(rels, "") + `</Relationships>`
}

func placeholderXML(id int, ph PlaceholderSpec, paragraphs []string, withFrame bool) string {
	phAttrs := ""
	if ph.Type != "" {
		phAttrs += ` type="` + ph.Type + `"`
	}
	if ph.Idx != 0 {
		phAttrs += fmt.Sprintf(` idx="%d"`, ph.Idx)
	}
	spPr := `<p:spPr/>`
	if withFrame {
		spPr = fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="457200" y="%d"/><a:ext cx="8229600" cy="1143000"/></a:xfrm></p:spPr>`,
			274638+ph.Idx*1143000)
	}
	name := html.EscapeString(ph.Name)

	if ph.Shape == "pic" {
		return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr/><p:nvPr><p:ph%s/></p:nvPr></p:nvPicPr>`+
			`<p:blipFill/>%s</p:pic>`, id, name, phAttrs, spPr)
	}

	var body strings.Builder
	body.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	if len(paragraphs) == 0 {
		body.WriteString(`<a:p/>`)
	}
	for _, text := range paragraphs {
		body.WriteString(`<a:p><a:pPr lvl="1"/><a:r><a:rPr lang="en-US"/><a:t>` + html.EscapeString(text) + `</a:t></a:r></a:p>`)
	}
	body.WriteString(`</p:txBody>`)

	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`+
		`<p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr>%s%s</p:sp>`, id, name, phAttrs, spPr, body.String())
}

func textBoxXML(id int, name, text string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, html.EscapeString(name), html.EscapeString(text))
}
