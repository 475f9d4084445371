package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// requestField names the offending input in decode errors
const requestField = "request_file"

// FileRequestDecoder reads JSON, YAML and markdown request files
type FileRequestDecoder struct {
	deck ports.DeckParser
}

// NewFileRequestDecoder creates a decoder that hands markdown files to deck
func NewFileRequestDecoder(deck ports.DeckParser) *FileRequestDecoder {
	return &FileRequestDecoder{deck: deck}
}

// DecodeGenerate decodes a generation request.
// Markdown files are parsed as decks.
func (d *FileRequestDecoder) DecodeGenerate(ctx context.Context, filename string, data []byte) (*entities.GenerateRequest, error) {
	if isMarkdown(filename) {
		req, err := d.deck.ParseDeck(ctx, data)
		if err != nil {
			return nil, entities.NewInvalidRequest(requestField, err.Error())
		}
		return req, nil
	}

	var req entities.GenerateRequest
	if err := decodeStructured(filename, data, &req); err != nil {
		return nil, err
	}
	if req.Slides == nil {
		req.Slides = []entities.ContentBlock{}
	}
	return &req, nil
}

// DecodeFill decodes a fill request from JSON or YAML
func (d *FileRequestDecoder) DecodeFill(_ context.Context, filename string, data []byte) (*entities.FillRequest, error) {
	if isMarkdown(filename) {
		return nil, entities.NewInvalidRequest(requestField, "fill requests must be JSON or YAML")
	}

	var req entities.FillRequest
	if err := decodeStructured(filename, data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// decodeStructured picks the decoder from the extension and rejects unknown keys
func decodeStructured(filename string, data []byte, v interface{}) error {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return entities.NewInvalidRequest(requestField, fmt.Sprintf("invalid JSON in %s: %v", filepath.Base(filename), err))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return entities.NewInvalidRequest(requestField, fmt.Sprintf("invalid YAML in %s: %v", filepath.Base(filename), err))
		}
	default:
		return entities.NewInvalidRequest(requestField, fmt.Sprintf("unsupported request format %q", ext))
	}
	return nil
}

func isMarkdown(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

var _ ports.RequestDecoder = (*FileRequestDecoder)(nil)
