package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

type frame struct {
	x, y, cx, cy int64
}

// phSpec describes a placeholder of the built-in master and layouts
type phSpec struct {
	name  string
	ph    string
	frame *frame
}

func (s phSpec) xml(id int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, id, s.name)
	fmt.Fprintf(&b, `<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr>`, s.ph)
	if s.frame != nil {
		fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`,
			s.frame.x, s.frame.y, s.frame.cx, s.frame.cy)
	} else {
		b.WriteString(`<p:spPr/>`)
	}
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>`)
	return b.String()
}

type layoutSpec struct {
	name   string
	kind   string
	shapes []phSpec
}

var layoutFooters = []phSpec{
	{name: "Date Placeholder", ph: ` type="dt" sz="half" idx="10"`},
	{name: "Footer Placeholder", ph: ` type="ftr" sz="quarter" idx="11"`},
	{name: "Slide Number Placeholder", ph: ` type="sldNum" sz="quarter" idx="12"`},
}

var masterShapes = []phSpec{
	{name: "Title Placeholder", ph: ` type="title"`, frame: &frame{457200, 274638, 8229600, 1143000}},
	{name: "Text Placeholder", ph: ` type="body" idx="1"`, frame: &frame{457200, 1600200, 8229600, 4525963}},
	{name: "Date Placeholder", ph: ` type="dt" sz="half" idx="2"`, frame: &frame{457200, 6356350, 2133600, 365125}},
	{name: "Footer Placeholder", ph: ` type="ftr" sz="quarter" idx="3"`, frame: &frame{3124200, 6356350, 2895600, 365125}},
	{name: "Slide Number Placeholder", ph: ` type="sldNum" sz="quarter" idx="4"`, frame: &frame{6553200, 6356350, 2133600, 365125}},
}

var titleSpec = phSpec{name: "Title", ph: ` type="title"`}

// defaultLayouts mirrors the eleven layouts of the stock Office theme
var defaultLayouts = []layoutSpec{
	{name: "Title Slide", kind: "title", shapes: []phSpec{
		{name: "Title", ph: ` type="ctrTitle"`, frame: &frame{685800, 2130425, 7772400, 1470025}},
		{name: "Subtitle", ph: ` type="subTitle" idx="1"`, frame: &frame{1371600, 3886200, 6400800, 1752600}},
	}},
	{name: "Title and Content", kind: "obj", shapes: []phSpec{
		titleSpec,
		{name: "Content Placeholder", ph: ` idx="1"`},
	}},
	{name: "Section Header", kind: "secHead", shapes: []phSpec{
		{name: "Title", ph: ` type="title"`, frame: &frame{722313, 4406900, 7772400, 1362075}},
		{name: "Text Placeholder", ph: ` type="body" idx="1"`, frame: &frame{722313, 2906713, 7772400, 1500187}},
	}},
	{name: "Two Content", kind: "twoObj", shapes: []phSpec{
		titleSpec,
		{name: "Content Placeholder", ph: ` sz="half" idx="1"`, frame: &frame{457200, 1600200, 4038600, 4525963}},
		{name: "Content Placeholder", ph: ` sz="half" idx="2"`, frame: &frame{4648200, 1600200, 4038600, 4525963}},
	}},
	{name: "Comparison", kind: "twoTxTwoObj", shapes: []phSpec{
		titleSpec,
		{name: "Text Placeholder", ph: ` type="body" idx="1"`, frame: &frame{457200, 1535113, 4040188, 639762}},
		{name: "Content Placeholder", ph: ` sz="half" idx="2"`, frame: &frame{457200, 2174875, 4040188, 3951288}},
		{name: "Text Placeholder", ph: ` type="body" sz="quarter" idx="3"`, frame: &frame{4645025, 1535113, 4041775, 639762}},
		{name: "Content Placeholder", ph: ` sz="quarter" idx="4"`, frame: &frame{4645025, 2174875, 4041775, 3951288}},
	}},
	{name: "Title Only", kind: "titleOnly", shapes: []phSpec{titleSpec}},
	{name: "Blank", kind: "blank"},
	{name: "Content with Caption", kind: "objTx", shapes: []phSpec{
		{name: "Title", ph: ` type="title"`, frame: &frame{457200, 273050, 3008313, 1162050}},
		{name: "Content Placeholder", ph: ` idx="1"`, frame: &frame{3575050, 273050, 5111750, 5853113}},
		{name: "Text Placeholder", ph: ` type="body" sz="half" idx="2"`, frame: &frame{457200, 1435100, 3008313, 4691063}},
	}},
	{name: "Picture with Caption", kind: "picTx", shapes: []phSpec{
		{name: "Title", ph: ` type="title"`, frame: &frame{1792288, 4800600, 5486400, 566738}},
		{name: "Picture Placeholder", ph: ` type="pic" idx="1"`, frame: &frame{1792288, 612775, 5486400, 4114800}},
		{name: "Text Placeholder", ph: ` type="body" sz="quarter" idx="2"`, frame: &frame{1792288, 5367338, 5486400, 804862}},
	}},
	{name: "Title and Vertical Text", kind: "vertTx", shapes: []phSpec{
		titleSpec,
		{name: "Vertical Text Placeholder", ph: ` type="body" orient="vert" idx="1"`},
	}},
	{name: "Vertical Title and Text", kind: "vertTitleAndTx", shapes: []phSpec{
		{name: "Vertical Title", ph: ` type="title" orient="vert"`, frame: &frame{6629400, 274638, 2057400, 5851525}},
		{name: "Vertical Text Placeholder", ph: ` type="body" orient="vert" idx="1"`, frame: &frame{457200, 274638, 6019800, 5851525}},
	}},
}

// New creates an empty 4:3 presentation with one master, the eleven default
// layouts and a theme. The parts are generated and loaded through Open.
func New() (*Package, error) {
	data, err := blankPackage()
	if err != nil {
		return nil, fmt.Errorf("building blank package: %w", err)
	}
	return Open(data)
}

func spTreeXML(specs []phSpec) string {
	var b strings.Builder
	b.WriteString(groupHeader)
	for i, s := range specs {
		numbered := s
		numbered.name = fmt.Sprintf("%s %d", s.name, i+1)
		b.WriteString(numbered.xml(i + 2))
	}
	return b.String()
}

func relsXML(rels ...[2]string) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteString(`<Relationships xmlns="` + nsRel + `">`)
	for i, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, i+1, r[0], r[1])
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

type zipEntry struct {
	name string
	body string
}

func blankPackage() ([]byte, error) {
	var entries []zipEntry
	overrides := map[string]string{
		"ppt/presentation.xml":              ctPresentation,
		"ppt/slideMasters/slideMaster1.xml": ctSlideMaster,
		"ppt/theme/theme1.xml":              ctTheme,
		"ppt/presProps.xml":                 ctPresProps,
		"ppt/tableStyles.xml":               ctTableStyles,
		"docProps/core.xml":                 ctCoreProps,
		"docProps/app.xml":                  ctExtended,
	}

	var layoutIDs strings.Builder
	masterRels := make([][2]string, 0, len(defaultLayouts)+1)
	for i, l := range defaultLayouts {
		name := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		overrides[name] = ctSlideLayout
		shapes := append(append([]phSpec{}, l.shapes...), layoutFooters...)
		entries = append(entries,
			zipEntry{name, xmlDeclaration + `<p:sldLayout ` + nsDecl + ` type="` + l.kind + `" preserve="1">` +
				`<p:cSld name="` + l.name + `"><p:spTree>` + spTreeXML(shapes) + `</p:spTree></p:cSld>` +
				`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`},
			zipEntry{relsName(name), relsXML([2]string{relSlideMaster, "../slideMasters/slideMaster1.xml"})},
		)
		fmt.Fprintf(&layoutIDs, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483649+i, i+1)
		masterRels = append(masterRels, [2]string{relSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)})
	}
	masterRels = append(masterRels, [2]string{relTheme, "../theme/theme1.xml"})

	entries = append(entries,
		zipEntry{"ppt/presentation.xml", xmlDeclaration + `<p:presentation ` + nsDecl + ` saveSubsetFonts="1">` +
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
			fmt.Sprintf(`<p:sldSz cx="%d" cy="%d" type="screen4x3"/>`, DefaultSlideWidth, DefaultSlideHeight) +
			fmt.Sprintf(`<p:notesSz cx="%d" cy="%d"/>`, DefaultNotesWidth, DefaultNotesHeight) +
			`</p:presentation>`},
		zipEntry{"ppt/_rels/presentation.xml.rels", relsXML(
			[2]string{relSlideMaster, "slideMasters/slideMaster1.xml"},
			[2]string{relTheme, "theme/theme1.xml"},
			[2]string{relPresProps, "presProps.xml"},
			[2]string{relTableStyles, "tableStyles.xml"},
		)},
		zipEntry{"ppt/slideMasters/slideMaster1.xml", xmlDeclaration + `<p:sldMaster ` + nsDecl + `>` +
			`<p:cSld name="Office Theme">` + background + `<p:spTree>` + spTreeXML(masterShapes) + `</p:spTree></p:cSld>` +
			clrMap + `<p:sldLayoutIdLst>` + layoutIDs.String() + `</p:sldLayoutIdLst>` + masterTextStyles +
			`</p:sldMaster>`},
		zipEntry{"ppt/slideMasters/_rels/slideMaster1.xml.rels", relsXML(masterRels...)},
		zipEntry{"ppt/theme/theme1.xml", themeXML},
		zipEntry{"ppt/presProps.xml", presPropsXML},
		zipEntry{"ppt/tableStyles.xml", tableStylesXML},
		zipEntry{"docProps/core.xml", corePropsXML},
		zipEntry{"docProps/app.xml", appPropsXML},
		zipEntry{"_rels/.rels", relsXML(
			[2]string{relOfficeDoc, "ppt/presentation.xml"},
			[2]string{relCoreProps, "docProps/core.xml"},
			[2]string{relExtendedProp, "docProps/app.xml"},
		)},
	)

	ct := &contentTypes{}
	ct.ensureDefault("rels", ctRels)
	ct.ensureDefault("xml", "application/xml")
	for _, e := range entries {
		if ctype, ok := overrides[e.name]; ok {
			ct.setOverride(e.name, ctype)
		}
	}
	ctData, err := ct.marshal()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := writeEntry(zw, contentTypesName, ctData); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := writeEntry(zw, e.name, []byte(e.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
