package entities

import "time"

// GenerationMode distinguishes the two ways a presentation is produced
type GenerationMode string

const (
	ModeGenerate GenerationMode = "generate"
	ModeFill     GenerationMode = "fill"
)

// GenerationResult is returned by every generation call
type GenerationResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	SlideCount  int    `json:"slide_count"`

	// Warnings lists placeholders that could not be filled
	Warnings []string `json:"warnings,omitempty"`
}

// TemplateInfo is one entry of the template listing
type TemplateInfo struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Layouts     []LayoutSummary `json:"layouts"`
	CreatedAt   time.Time       `json:"created_at"`
	FilePath    string          `json:"file_path"`
}

// UploadResult is returned after a template has been stored
type UploadResult struct {
	Message     string          `json:"message"`
	TemplateID  string          `json:"template_id"`
	Description string          `json:"description,omitempty"`
	Layouts     []LayoutSummary `json:"layouts"`
}

// StoredTemplate is a template file as seen by the template store
type StoredTemplate struct {
	ID       string
	Path     string
	Modified time.Time
}

// TemplateUpload is a template file submitted for storage
type TemplateUpload struct {
	Filename    string
	TemplateID  string
	Description string
	Data        []byte
}
