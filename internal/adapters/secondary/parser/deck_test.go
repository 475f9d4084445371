package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

type failingMarkdownParser struct{}

func (failingMarkdownParser) Parse(context.Context, []byte) (*ports.ParsedContent, error) {
	return nil, errors.New("boom")
}

func TestDeckAdapter_ParseDeck(t *testing.T) {
	adapter := NewDeckAdapter(NewGoldmarkParser())
	ctx := context.Background()

	t.Run("frontmatter and slides", func(t *testing.T) {
		req, err := adapter.ParseDeck(ctx, []byte(quarterlyDeck))
		require.NoError(t, err)

		assert.Equal(t, "quarterly", req.TemplateID)
		assert.Equal(t, "q1-review", req.OutputFilename)
		require.NotNil(t, req.Metadata)
		require.NotNil(t, req.Metadata.Author)
		assert.Equal(t, "Ana Ruiz", *req.Metadata.Author)
		assert.Nil(t, req.Metadata.Title)
		assert.Nil(t, req.Metadata.Subject)

		require.Len(t, req.Slides, 2)

		first := req.Slides[0]
		assert.Equal(t, 0, first.LayoutIndex)
		assert.Equal(t, "Q1 Review", first.Title)
		assert.Equal(t, "Highlights", first.Subtitle)
		assert.Equal(t, "Revenue up 12%", first.Body)
		assert.Empty(t, first.Bullets)
		assert.Equal(t, "Mention churn first", first.Notes)

		second := req.Slides[1]
		assert.Equal(t, 2, second.LayoutIndex)
		assert.Equal(t, "Plan", second.Title)
		assert.Empty(t, second.Subtitle)
		assert.Empty(t, second.Body)
		assert.Equal(t, []string{"Hire", "Ship"}, second.Bullets)
	})

	t.Run("body paragraphs and extra headings", func(t *testing.T) {
		content := "# First\n\nOne line\nwrapped here\n\n### Detail\n\n# Second title\n\n```\nx := 1\n```\n\nLast *word*"

		req, err := adapter.ParseDeck(ctx, []byte(content))
		require.NoError(t, err)
		require.Len(t, req.Slides, 1)

		block := req.Slides[0]
		assert.Equal(t, "First", block.Title)
		assert.Equal(t, "One line wrapped here\nDetail\nSecond title\nx := 1\nLast word", block.Body)
		assert.Nil(t, req.Metadata)
		assert.Empty(t, req.TemplateID)
	})

	t.Run("only top-level list items become bullets", func(t *testing.T) {
		content := "1. Top\n   - Nested\n2. Second [link](https://example.com)\n\n- Third"

		req, err := adapter.ParseDeck(ctx, []byte(content))
		require.NoError(t, err)
		require.Len(t, req.Slides, 1)
		assert.Equal(t, []string{"Top", "Second link", "Third"}, req.Slides[0].Bullets)
	})

	t.Run("empty deck has no slides", func(t *testing.T) {
		req, err := adapter.ParseDeck(ctx, []byte("---\ntitle: Empty\n---\n"))
		require.NoError(t, err)

		assert.NotNil(t, req.Slides)
		assert.Empty(t, req.Slides)
		require.NotNil(t, req.Metadata)
		assert.Equal(t, "Empty", *req.Metadata.Title)
	})

	t.Run("non-string frontmatter values are ignored", func(t *testing.T) {
		req, err := adapter.ParseDeck(ctx, []byte("---\ntemplate: 42\nsubject: [a, b]\n---\n# A"))
		require.NoError(t, err)

		assert.Empty(t, req.TemplateID)
		assert.Nil(t, req.Metadata)
	})

	t.Run("parser failure", func(t *testing.T) {
		_, err := NewDeckAdapter(failingMarkdownParser{}).ParseDeck(ctx, []byte("# A"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing markdown")
	})
}
