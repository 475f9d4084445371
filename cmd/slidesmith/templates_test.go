package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/test/builders"
)

func TestTemplatesList_Table(t *testing.T) {
	env := newCLIEnv(t)
	env.addTemplate(t, "quarterly", builders.QuarterlyTemplate())

	out, err := env.run(t, "templates", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[2], "quarterly"))
}

func TestTemplatesList_JSON(t *testing.T) {
	env := newCLIEnv(t)
	env.addTemplate(t, "quarterly", builders.QuarterlyTemplate())

	out, err := env.run(t, "templates", "list", "--format", "json")
	require.NoError(t, err)

	var templates []entities.TemplateInfo
	require.NoError(t, json.Unmarshal([]byte(out), &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, "quarterly", templates[0].ID)
	assert.Len(t, templates[0].Layouts, 2)
}

func TestTemplatesList_Empty(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "templates", "list")
	require.NoError(t, err)
	assert.Equal(t, "No templates found.\n", out)
}

func TestTemplatesList_InvalidFormat(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "templates", "list", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestTemplatesUpload(t *testing.T) {
	env := newCLIEnv(t)
	src := filepath.Join(env.root, "corporate.pptx")
	require.NoError(t, os.WriteFile(src, builders.QuarterlyTemplate().Build(), 0o644))

	t.Run("default id", func(t *testing.T) {
		out, err := env.run(t, "templates", "upload", src)
		require.NoError(t, err)
		assert.Contains(t, out, "corporate (2 layouts)")
		assert.FileExists(t, filepath.Join(env.templatesDir, "corporate.pptx"))
	})

	t.Run("explicit id", func(t *testing.T) {
		_, err := env.run(t, "templates", "upload", src, "--id", "brand-2025")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(env.templatesDir, "brand-2025.pptx"))
	})

	t.Run("not a pptx", func(t *testing.T) {
		txt := env.writeFile(t, "notes.txt", "hello")
		_, err := env.run(t, "templates", "upload", txt)
		assert.ErrorIs(t, err, entities.ErrUnsupportedUpload)
	})

	t.Run("corrupt package", func(t *testing.T) {
		bad := env.writeFile(t, "broken.pptx", "not a zip")
		_, err := env.run(t, "templates", "upload", bad)
		assert.ErrorIs(t, err, entities.ErrCorruptPackage)
		assert.NoFileExists(t, filepath.Join(env.templatesDir, "broken.pptx"))
	})
}

func TestPrintTemplatesTable_TruncatesDescription(t *testing.T) {
	var out strings.Builder
	err := printTemplatesTable(&out, []entities.TemplateInfo{{
		ID:          "long",
		Description: strings.Repeat("x", 80),
		CreatedAt:   time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "2025-03-01 09:30")
	assert.Contains(t, out.String(), strings.Repeat("x", 47)+"...")
	assert.NotContains(t, out.String(), strings.Repeat("x", 48))
}
