// Package pptx reads, edits and writes PresentationML packages.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ErrInvalidPackage is wrapped by every load failure
var ErrInvalidPackage = errors.New("pptx: invalid presentation package")

const (
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeBase     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	relOfficeDoc    = relTypeBase + "officeDocument"
	relSlideMaster  = relTypeBase + "slideMaster"
	relSlideLayout  = relTypeBase + "slideLayout"
	relSlide        = relTypeBase + "slide"
	relNotesSlide   = relTypeBase + "notesSlide"
	relNotesMaster  = relTypeBase + "notesMaster"
	relTheme        = relTypeBase + "theme"
	relPresProps    = relTypeBase + "presProps"
	relTableStyles  = relTypeBase + "tableStyles"
	relExtendedProp = relTypeBase + "extended-properties"
	relCoreProps    = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	ctBase         = "application/vnd.openxmlformats-officedocument."
	ctPresentation = ctBase + "presentationml.presentation.main+xml"
	ctSlide        = ctBase + "presentationml.slide+xml"
	ctSlideLayout  = ctBase + "presentationml.slideLayout+xml"
	ctSlideMaster  = ctBase + "presentationml.slideMaster+xml"
	ctNotesSlide   = ctBase + "presentationml.notesSlide+xml"
	ctNotesMaster  = ctBase + "presentationml.notesMaster+xml"
	ctTheme        = ctBase + "theme+xml"
	ctPresProps    = ctBase + "presentationml.presProps+xml"
	ctTableStyles  = ctBase + "presentationml.tableStyles+xml"
	ctExtended     = ctBase + "extended-properties+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"

	contentTypesName = "[Content_Types].xml"
	xmlDeclaration   = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// isRelType matches a relationship type by its last path segment so that
// strict-conformance URIs resolve the same as transitional ones.
func isRelType(relType, want string) bool {
	if relType == want {
		return true
	}
	return strings.HasSuffix(relType, want[strings.LastIndex(want, "/"):])
}

// part is one entry of the container. XML parts the engine edits are held
// as documents; everything else is carried as raw bytes.
type part struct {
	name string
	data []byte
	doc  *etree.Document
	rels *relationships
}

func (p *part) bytes() ([]byte, error) {
	if p.doc == nil {
		return p.data, nil
	}
	return p.doc.WriteToBytes()
}

func (p *part) root() *etree.Element {
	if p.doc == nil {
		return nil
	}
	return p.doc.Root()
}

// parseXML promotes a raw part to an editable document
func (p *part) parseXML() error {
	if p.doc != nil {
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(p.data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPackage, p.name, err)
	}
	if doc.Root() == nil {
		return fmt.Errorf("%w: %s: empty document", ErrInvalidPackage, p.name)
	}
	p.doc = doc
	p.data = nil
	return nil
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func (r *relationship) external() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

type relationships struct {
	XMLName xml.Name        `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []*relationship `xml:"Relationship"`
}

func parseRelationships(name string, data []byte) (*relationships, error) {
	rels := &relationships{}
	if err := xml.Unmarshal(data, rels); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackage, name, err)
	}
	return rels, nil
}

func (r *relationships) byID(id string) *relationship {
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel
		}
	}
	return nil
}

func (r *relationships) firstOfType(relType string) *relationship {
	for _, rel := range r.Items {
		if isRelType(rel.Type, relType) {
			return rel
		}
	}
	return nil
}

func (r *relationships) add(relType, target string) string {
	id := r.nextID()
	r.Items = append(r.Items, &relationship{ID: id, Type: relType, Target: target})
	return id
}

func (r *relationships) remove(id string) {
	for i, rel := range r.Items {
		if rel.ID == id {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return
		}
	}
}

func (r *relationships) nextID() string {
	highest := 0
	for _, rel := range r.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

func (r *relationships) marshal() ([]byte, error) {
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDeclaration), out...), nil
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

func (c *contentTypes) setOverride(partName, contentType string) {
	name := "/" + partName
	for i := range c.Overrides {
		if strings.EqualFold(c.Overrides[i].PartName, name) {
			c.Overrides[i].ContentType = contentType
			return
		}
	}
	c.Overrides = append(c.Overrides, ctOverride{PartName: name, ContentType: contentType})
}

func (c *contentTypes) removeOverride(partName string) {
	name := "/" + partName
	kept := c.Overrides[:0]
	for _, o := range c.Overrides {
		if !strings.EqualFold(o.PartName, name) {
			kept = append(kept, o)
		}
	}
	c.Overrides = kept
}

func (c *contentTypes) ensureDefault(ext, contentType string) {
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	c.Defaults = append(c.Defaults, ctDefault{Extension: ext, ContentType: contentType})
}

func (c *contentTypes) marshal() ([]byte, error) {
	out, err := xml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDeclaration), out...), nil
}

// container is the raw zip view of a package before the presentation graph is built
type container struct {
	parts        map[string]*part
	order        []string
	contentTypes *contentTypes
	rootRels     *relationships
}

// readContainer inflates every entry. The uncompressed total may not exceed
// maxBytes; declared sizes are checked before inflating and actual sizes
// while reading.
func readContainer(data []byte, maxBytes int64) (*container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}
	if !hasEntry(zr, contentTypesName) {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPackage, contentTypesName)
	}

	c := &container{parts: make(map[string]*part)}
	relsFiles := make(map[string][]byte)

	remaining := maxBytes
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if f.UncompressedSize64 > uint64(remaining) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackage, f.Name, errPackageTooLarge(maxBytes))
		}
		content, err := readZipFile(f, remaining)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidPackage, f.Name, err)
		}
		remaining -= int64(len(content))
		name := strings.TrimPrefix(f.Name, "/")

		switch {
		case name == contentTypesName:
			ct := &contentTypes{}
			if err := xml.Unmarshal(content, ct); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackage, name, err)
			}
			c.contentTypes = ct
		case strings.HasSuffix(name, ".rels") && path.Base(path.Dir(name)) == "_rels":
			relsFiles[name] = content
		default:
			c.parts[name] = &part{name: name, data: content}
			c.order = append(c.order, name)
		}
	}

	if c.contentTypes == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPackage, contentTypesName)
	}

	for name, content := range relsFiles {
		rels, err := parseRelationships(name, content)
		if err != nil {
			return nil, err
		}
		owner := relsOwner(name)
		if owner == "" {
			c.rootRels = rels
			continue
		}
		if p, ok := c.parts[owner]; ok {
			p.rels = rels
		}
	}

	if c.rootRels == nil {
		return nil, fmt.Errorf("%w: missing package relationships", ErrInvalidPackage)
	}
	return c, nil
}

func hasEntry(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if strings.TrimPrefix(f.Name, "/") == name {
			return true
		}
	}
	return false
}

func errPackageTooLarge(maxBytes int64) error {
	return fmt.Errorf("package expands beyond %d bytes", maxBytes)
}

// readZipFile inflates f, failing once more than limit bytes come out
func readZipFile(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errPackageTooLarge(limit)
	}
	return data, nil
}

// relsOwner maps "ppt/slides/_rels/slide1.xml.rels" to "ppt/slides/slide1.xml";
// the package relationships "_rels/.rels" map to "".
func relsOwner(relsName string) string {
	dir := path.Dir(path.Dir(relsName))
	base := strings.TrimSuffix(path.Base(relsName), ".rels")
	if base == "" {
		return ""
	}
	if dir == "." {
		return base
	}
	return dir + "/" + base
}

// relsName is the inverse of relsOwner
func relsName(owner string) string {
	if owner == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(owner)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget turns a relationship target into a part name relative to the package root
func resolveTarget(source, target string) string {
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	base := "."
	if source != "" {
		base = path.Dir(source)
	}
	return strings.TrimPrefix(path.Join(base, target), "/")
}

// relativeTarget builds the relationship target that points from source to target
func relativeTarget(source, target string) string {
	from := strings.Split(path.Dir(source), "/")
	if path.Dir(source) == "." {
		from = nil
	}
	to := strings.Split(target, "/")

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(from); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[common:], "/"))
	return b.String()
}
