package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/test/builders"
)

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	t.Run("accepts a well-formed request", func(t *testing.T) {
		assert.NoError(t, v.Validate(builders.QuarterlyReviewRequest("quarterly")))
	})

	t.Run("accepts zero slides", func(t *testing.T) {
		assert.NoError(t, v.Validate(builders.NewGenerateRequestBuilder().Build()))
	})

	tests := []struct {
		name  string
		req   interface{}
		field string
	}{
		{
			name:  "missing slides",
			req:   &entities.GenerateRequest{},
			field: "slides",
		},
		{
			name: "oversized title",
			req: builders.NewGenerateRequestBuilder().
				WithSlide(builders.NewContentBlockBuilder().WithTitle(strings.Repeat("x", 10001)).Build()).
				Build(),
			field: "slides[0].title",
		},
		{
			name: "font size below one point",
			req: builders.NewGenerateRequestBuilder().
				WithSlide(builders.NewContentBlockBuilder().WithFontSize(0.5).Build()).
				Build(),
			field: "slides[0].font_size",
		},
		{
			name:  "output filename with a path",
			req:   builders.NewGenerateRequestBuilder().WithOutputFilename("../deck").Build(),
			field: "output_filename",
		},
		{
			name:  "fill placeholder key that is not an index",
			req:   builders.FillRequest(builders.NewFillSlideBuilder().WithPlaceholder("body", "x").Build()),
			field: "slides[0].placeholders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, entities.ErrInvalidRequestShape)

			de, ok := entities.AsDeckError(err)
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(de.Field, tt.field), de.Field)
			assert.NotEmpty(t, de.Message)
		})
	}
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "slides[0].title", fieldPath("GenerateRequest.slides[0].title"))
	assert.Equal(t, "slides", fieldPath("GenerateRequest.slides"))
	assert.Equal(t, "slides", fieldPath("slides"))
}

func TestCheckTemplateID(t *testing.T) {
	assert.NoError(t, checkTemplateID("quarterly-2026"))
	assert.NoError(t, checkTemplateID("deck v2"))

	for _, id := range []string{"", "../etc", "a/b", `a\b`, ".hidden", "x..y"} {
		err := checkTemplateID(id)
		assert.ErrorIs(t, err, entities.ErrInvalidRequestShape, id)

		de, ok := entities.AsDeckError(err)
		require.True(t, ok, id)
		assert.Equal(t, "template_id", de.Field, id)
	}
}

func TestOutputNames(t *testing.T) {
	name, err := outputName("", generatedName())
	require.NoError(t, err)
	assert.Regexp(t, `^presentation_[0-9a-f]{8}\.pptx$`, name)

	name, err = outputName("", filledName("quarterly"))
	require.NoError(t, err)
	assert.Regexp(t, `^filled_quarterly_[0-9a-f]{8}\.pptx$`, name)

	name, err = outputName("board deck", "unused")
	require.NoError(t, err)
	assert.Equal(t, "board deck.pptx", name)

	name, err = outputName("ready.pptx", "unused")
	require.NoError(t, err)
	assert.Equal(t, "ready.pptx", name)

	for _, bad := range []string{"a/b", `a\b`, ".env"} {
		_, err := outputName(bad, "unused")
		assert.ErrorIs(t, err, entities.ErrInvalidRequestShape, bad)
	}

	assert.NotEqual(t, generatedName(), generatedName())
	assert.Equal(t, "/download/board%20deck.pptx", downloadURL("/download/", "board deck.pptx"))
	assert.Equal(t, "/files/x.pptx", downloadURL("/files", "x.pptx"))
}
