package services

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

const pptxExt = ".pptx"

// randomSuffix returns 8 random hex characters
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// outputName returns the requested name with a .pptx extension, or the
// generated fallback when none was requested.
func outputName(requested, fallback string) (string, error) {
	name := requested
	if name == "" {
		name = fallback
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") || strings.ContainsRune(name, 0) {
		return "", entities.NewInvalidRequest("output_filename", fmt.Sprintf("invalid output filename %q", requested))
	}
	if !strings.HasSuffix(name, pptxExt) {
		name += pptxExt
	}
	return name, nil
}

func generatedName() string {
	return "presentation_" + randomSuffix() + pptxExt
}

func filledName(templateID string) string {
	return fmt.Sprintf("filled_%s_%s%s", templateID, randomSuffix(), pptxExt)
}

// downloadURL joins the download prefix and an escaped filename
func downloadURL(prefix, filename string) string {
	return path.Join(prefix, url.PathEscape(filename))
}
