package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source string
		target string
		want   string
	}{
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
		{"ppt/presentation.xml", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml", "ppt/slideLayouts/slideLayout2.xml"},
		{"ppt/slides/slide1.xml", "/ppt/notesSlides/notesSlide1.xml", "ppt/notesSlides/notesSlide1.xml"},
		{"ppt/slides/slide1.xml", "../media/image%201.png", "ppt/media/image 1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveTarget(tt.source, tt.target))
		})
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source string
		target string
		want   string
	}{
		{"ppt/presentation.xml", "ppt/slides/slide3.xml", "slides/slide3.xml"},
		{"ppt/slides/slide3.xml", "ppt/slideLayouts/slideLayout1.xml", "../slideLayouts/slideLayout1.xml"},
		{"ppt/notesSlides/notesSlide1.xml", "ppt/slides/slide1.xml", "../slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "slide2.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := relativeTarget(tt.source, tt.target)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.target, resolveTarget(tt.source, got))
		})
	}
}

func TestRelsNames(t *testing.T) {
	assert.Equal(t, "ppt/slides/slide1.xml", relsOwner("ppt/slides/_rels/slide1.xml.rels"))
	assert.Equal(t, "", relsOwner("_rels/.rels"))
	assert.Equal(t, "ppt/slides/_rels/slide1.xml.rels", relsName("ppt/slides/slide1.xml"))
	assert.Equal(t, "_rels/.rels", relsName(""))
}

func TestIsRelType(t *testing.T) {
	assert.True(t, isRelType(relSlide, relSlide))
	assert.True(t, isRelType("http://purl.oclc.org/ooxml/officeDocument/relationships/slide", relSlide))
	assert.False(t, isRelType(relSlideLayout, relSlide))
	assert.False(t, isRelType(relNotesSlide, relSlide))
}

func TestRelationships(t *testing.T) {
	rels := &relationships{}
	assert.Equal(t, "rId1", rels.add(relSlide, "slides/slide1.xml"))
	assert.Equal(t, "rId2", rels.add(relSlide, "slides/slide2.xml"))

	rels.remove("rId1")
	assert.Nil(t, rels.byID("rId1"))
	assert.Equal(t, "rId3", rels.nextID())

	data, err := rels.marshal()
	require.NoError(t, err)
	parsed, err := parseRelationships("test.rels", data)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "slides/slide2.xml", parsed.Items[0].Target)
}

func TestContentTypes(t *testing.T) {
	ct := &contentTypes{}
	ct.setOverride("ppt/slides/slide1.xml", ctSlide)
	ct.setOverride("ppt/slides/slide1.xml", ctSlide)
	ct.ensureDefault("xml", "application/xml")
	ct.ensureDefault("XML", "application/xml")

	assert.Len(t, ct.Overrides, 1)
	assert.Equal(t, "/ppt/slides/slide1.xml", ct.Overrides[0].PartName)
	assert.Len(t, ct.Defaults, 1)

	ct.removeOverride("ppt/slides/slide1.xml")
	assert.Empty(t, ct.Overrides)
}

func TestUnits(t *testing.T) {
	assert.Equal(t, 1.0, EMUToInches(EMUPerInch))
	assert.Equal(t, 10.0, EMUToInches(DefaultSlideWidth))
	assert.Equal(t, 0.3, EMUToInches(274638))
	assert.Equal(t, 2400, FontSizeToHundredths(24))
	assert.Equal(t, 1050, FontSizeToHundredths(10.5))
}

func TestTextOf(t *testing.T) {
	doc := newDocument(wrapNS(`<p:txBody><a:bodyPr/>` +
		`<a:p><a:r><a:t>Hello</a:t></a:r><a:br/><a:r><a:t>world</a:t></a:r></a:p>` +
		`<a:p><a:fld type="slidenum"><a:t>7</a:t></a:fld></a:p>` +
		`</p:txBody>`))

	assert.Equal(t, "Hello\nworld\n7", textOf(firstChild(doc.Root(), "txBody")))
	assert.Equal(t, "", textOf(nil))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "\u00e9", cleanText("e\u0301"))
	assert.Equal(t, "a\tb\nc", cleanText("a\tb\x00\nc\x1f"))
}
