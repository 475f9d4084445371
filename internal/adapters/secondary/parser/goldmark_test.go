package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quarterlyDeck = `---
template: quarterly
author: Ana Ruiz
output: q1-review
---

# Q1 Review
## Highlights

Revenue **up** 12%

Note: Mention churn first

---

<!-- layout: 2 -->
# Plan

- Hire
- Ship
`

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser()
	ctx := context.Background()

	t.Run("parse with frontmatter and slides", func(t *testing.T) {
		result, err := parser.Parse(ctx, []byte(quarterlyDeck))
		require.NoError(t, err)

		assert.Equal(t, "quarterly", result.Frontmatter["template"])
		assert.Equal(t, "Ana Ruiz", result.Frontmatter["author"])
		require.Len(t, result.Slides, 2)

		first := result.Slides[0]
		assert.Equal(t, 0, first.Index)
		assert.Equal(t, "# Q1 Review\n## Highlights\n\nRevenue **up** 12%", first.Content)
		assert.Equal(t, "Mention churn first", first.Notes)
		assert.Nil(t, first.LayoutIndex)

		second := result.Slides[1]
		assert.Equal(t, 1, second.Index)
		assert.Equal(t, "# Plan\n\n- Hire\n- Ship", second.Content)
		assert.Empty(t, second.Notes)
		require.NotNil(t, second.LayoutIndex)
		assert.Equal(t, 2, *second.LayoutIndex)
	})

	t.Run("parse without frontmatter", func(t *testing.T) {
		content := []byte("# Title Slide\n\nContent without frontmatter\n\n---\n\n## Another Slide")

		result, err := parser.Parse(ctx, content)
		require.NoError(t, err)

		assert.Nil(t, result.Frontmatter)
		assert.Len(t, result.Slides, 2)
	})

	t.Run("windows line endings", func(t *testing.T) {
		content := []byte("---\r\ntitle: CRLF\r\n---\r\n# One\r\n\r\n---\r\n\r\n# Two\r\n")

		result, err := parser.Parse(ctx, content)
		require.NoError(t, err)

		assert.Equal(t, "CRLF", result.Frontmatter["title"])
		require.Len(t, result.Slides, 2)
		assert.Equal(t, "# One", result.Slides[0].Content)
		assert.Equal(t, "# Two", result.Slides[1].Content)
	})

	t.Run("empty content has no slides", func(t *testing.T) {
		result, err := parser.Parse(ctx, []byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, result.Slides)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := parser.Parse(cancelled, []byte(quarterlyDeck))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExtractFrontmatter(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		wantFrontmatter map[string]interface{}
		wantRemaining   string
	}{
		{
			name:            "no frontmatter",
			content:         "# Slide",
			wantFrontmatter: nil,
			wantRemaining:   "# Slide",
		},
		{
			name:            "empty frontmatter",
			content:         "---\n---\n# Slide",
			wantFrontmatter: map[string]interface{}{},
			wantRemaining:   "# Slide",
		},
		{
			name:            "unclosed frontmatter",
			content:         "---\ntitle: x\n# Slide",
			wantFrontmatter: nil,
			wantRemaining:   "---\ntitle: x\n# Slide",
		},
		{
			name:            "subject and title",
			content:         "---\ntitle: Board\nsubject: Finance\n---\nbody",
			wantFrontmatter: map[string]interface{}{"title": "Board", "subject": "Finance"},
			wantRemaining:   "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frontmatter, remaining := extractFrontmatter([]byte(tt.content))
			assert.Equal(t, tt.wantFrontmatter, frontmatter)
			assert.Equal(t, tt.wantRemaining, string(remaining))
		})
	}
}

func TestSplitSlides(t *testing.T) {
	slides := splitSlides([]byte("one\n---\n\n---\ntwo\n---\nthree"))

	require.Len(t, slides, 3)
	assert.Equal(t, "one", string(slides[0]))
	assert.Equal(t, "two", string(slides[1]))
	assert.Equal(t, "three", string(slides[2]))
}
