package builders

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(body)
	}
	return entries
}

func TestTemplateBuilder(t *testing.T) {
	t.Run("builds package skeleton", func(t *testing.T) {
		entries := readEntries(t, NewTemplateBuilder().WithLayout("Only", Title()).Build())

		for _, name := range []string{
			"[Content_Types].xml",
			"_rels/.rels",
			"ppt/presentation.xml",
			"ppt/_rels/presentation.xml.rels",
			"ppt/slideMasters/slideMaster1.xml",
			"ppt/slideLayouts/slideLayout1.xml",
			"ppt/theme/theme1.xml",
		} {
			assert.Contains(t, entries, name)
		}
		assert.NotContains(t, entries["ppt/presentation.xml"], "sldIdLst")
		assert.Contains(t, entries["ppt/slideLayouts/slideLayout1.xml"], `name="Only"`)
	})

	t.Run("writes slides with text and notes", func(t *testing.T) {
		entries := readEntries(t, QuarterlyTemplate().
			WithSlide(1, map[int][]string{0: {"Agenda"}, 1: {"one", "two"}}).
			WithNotes("remember").
			Build())

		slide := entries["ppt/slides/slide1.xml"]
		assert.Contains(t, slide, "Agenda")
		assert.Contains(t, slide, `<p:ph type="body" idx="2"/>`)
		assert.Contains(t, entries["ppt/notesSlides/notesSlide1.xml"], "remember")
		assert.Contains(t, entries, "ppt/notesMasters/notesMaster1.xml")
		assert.Contains(t, entries["ppt/presentation.xml"], `<p:sldId id="256" r:id="rId2"/>`)
	})

	t.Run("picture placeholders carry no text body", func(t *testing.T) {
		entries := readEntries(t, NewTemplateBuilder().
			WithLayout("Picture", Title(), Picture(1)).
			WithSlide(0, nil).
			Build())

		assert.Contains(t, entries["ppt/slides/slide1.xml"], `<p:pic><p:nvPicPr>`)
	})

	t.Run("escapes text", func(t *testing.T) {
		entries := readEntries(t, NewTemplateBuilder().
			WithLayout("Title Only", Title()).
			WithSlide(0, map[int][]string{0: {"R&D <2024>"}}).
			WithCoreTitle("A & B").
			Build())

		assert.Contains(t, entries["ppt/slides/slide1.xml"], "R&amp;D &lt;2024&gt;")
		assert.Contains(t, entries["docProps/core.xml"], "A &amp; B")
	})
}

func TestRequestBuilders(t *testing.T) {
	t.Run("content block", func(t *testing.T) {
		block := NewContentBlockBuilder().
			WithLayout(2).
			WithTitle("Title").
			WithBullets("a", "b").
			WithPlaceholder(3, "override").
			WithFontSize(18).
			Build()

		assert.Equal(t, 2, block.LayoutIndex)
		assert.Equal(t, "Title", block.Title)
		assert.True(t, block.HasBullets())
		assert.Equal(t, "override", block.Placeholders[3])
		require.NotNil(t, block.FontSize)
		assert.Equal(t, 18.0, *block.FontSize)
	})

	t.Run("generate request metadata keeps empty keys absent", func(t *testing.T) {
		req := NewGenerateRequestBuilder().WithMetadata("Ana", "", "Plans").Build()

		require.NotNil(t, req.Metadata)
		assert.Equal(t, "Ana", *req.Metadata.Author)
		assert.Nil(t, req.Metadata.Title)
		assert.Equal(t, "Plans", *req.Metadata.Subject)
		assert.Empty(t, req.Slides)
	})

	t.Run("fill slide presence", func(t *testing.T) {
		slide := NewFillSlideBuilder().WithTitle("").WithPlaceholder("2", "x").Build()

		require.NotNil(t, slide.Title)
		assert.Equal(t, "", *slide.Title)
		assert.Nil(t, slide.Subtitle)
		assert.Nil(t, slide.Notes)
		assert.Len(t, FillRequest(slide, slide).Slides, 2)
	})

	t.Run("quarterly review request", func(t *testing.T) {
		req := QuarterlyReviewRequest("quarterly")

		assert.Equal(t, "quarterly", req.TemplateID)
		require.Len(t, req.Slides, 1)
		assert.Equal(t, 1, req.Slides[0].LayoutIndex)
		assert.Equal(t, "Revenue up 12%", req.Slides[0].Body)
	})
}
