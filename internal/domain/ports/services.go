package ports

import (
	"context"
	"io"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// DeckService defines the main service interface for presentation generation
type DeckService interface {
	// Generate builds a new presentation from content blocks
	Generate(ctx context.Context, req *entities.GenerateRequest) (*entities.GenerationResult, error)

	// GenerateFromJSON decodes a JSON request document and generates from it
	GenerateFromJSON(ctx context.Context, jsonContent, templateID string) (*entities.GenerationResult, error)

	// Fill writes content into a template's existing slides
	Fill(ctx context.Context, templateID string, req *entities.FillRequest) (*entities.GenerationResult, error)

	// Analyze describes a stored template
	Analyze(ctx context.Context, templateID string) (*entities.TemplateDescription, error)

	// ListTemplates describes every stored template
	ListTemplates(ctx context.Context) ([]entities.TemplateInfo, error)

	// UploadTemplate validates and stores a new template
	UploadTemplate(ctx context.Context, upload *entities.TemplateUpload) (*entities.UploadResult, error)

	// Download opens a generated file
	Download(ctx context.Context, filename string) (io.ReadCloser, error)

	// Delete removes a generated file
	Delete(ctx context.Context, filename string) error
}
