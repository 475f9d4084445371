package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// pptxContentType is the media type of generated files
const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success    bool      `json:"success"`
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	Field      string    `json:"field,omitempty"`
	TemplateID string    `json:"template_id,omitempty"`
	Time       time.Time `json:"time"`
}

// HealthResponse is served on the root path
type HealthResponse struct {
	Status  string                 `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Checks  map[string]interface{} `json:"checks,omitempty"`
}

// MessageResponse carries a single human-readable message
type MessageResponse struct {
	Message string `json:"message"`
}

// handleHealth reports service identity and, when attached, process health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	health := s.health
	s.mu.RUnlock()

	response := HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	}
	if health != nil {
		response.Checks = health.GetHealthStatus()
		if !health.IsHealthy() {
			response.Status = "degraded"
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.decks.ListTemplates(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.GetMaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.handleError(w, r, entities.NewInvalidRequest("file", fmt.Sprintf("invalid multipart form: %v", err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.handleError(w, r, entities.NewInvalidRequest("file", "file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, r, entities.NewInvalidRequest("file", fmt.Sprintf("reading upload: %v", err)))
		return
	}

	result, err := s.decks.UploadTemplate(r.Context(), &entities.TemplateUpload{
		Filename:    header.Filename,
		TemplateID:  r.FormValue("template_id"),
		Description: r.FormValue("description"),
		Data:        data,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	desc, err := s.decks.Analyze(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sanitizeDescription(desc))
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req entities.FillRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.decks.Fill(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req entities.GenerateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.decks.Generate(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleGenerateFromJSON accepts the request document as the json_content form field
func (s *Server) handleGenerateFromJSON(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.GetMaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := r.ParseMultipartForm(maxBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		s.handleError(w, r, entities.NewInvalidRequest("json_content", fmt.Sprintf("invalid form: %v", err)))
		return
	}

	jsonContent := r.FormValue("json_content")
	if jsonContent == "" {
		s.handleError(w, r, entities.NewInvalidRequest("json_content", "json_content is required"))
		return
	}

	result, err := s.decks.GenerateFromJSON(r.Context(), jsonContent, r.FormValue("template_id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	rc, err := s.decks.Download(r.Context(), filename)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream download", zap.String("filename", filename), zap.Error(err))
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	if err := s.decks.Delete(r.Context(), filename); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("File %s deleted", filename)})
}

// decodeBody reads a JSON request body, writing the error response on failure
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.GetMaxUploadBytes())
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.handleError(w, r, entities.NewInvalidRequest("body", fmt.Sprintf("invalid JSON body: %v", err)))
		return false
	}
	return true
}

// statusForKind maps error kinds to HTTP status codes
func statusForKind(kind entities.ErrorKind) int {
	switch kind {
	case entities.KindTemplateNotFound, entities.KindFileNotFound:
		return http.StatusNotFound
	case entities.KindInvalidRequestShape, entities.KindUnsupportedUpload, entities.KindCorruptPackage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes categorized errors as-is and hides everything else
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	de, ok := entities.AsDeckError(err)
	if !ok {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	status := statusForKind(de.Kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeErrorBody(w, status, string(de.Kind), de.Message, de)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorBody(w, status, code, message, nil)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string, de *entities.DeckError) {
	response := ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
		Time:    time.Now().UTC(),
	}
	if de != nil {
		response.Field = de.Field
		response.TemplateID = de.TemplateID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

var textSanitizer = bluemonday.StrictPolicy()

// sanitizeText strips markup from template text while keeping it readable
func sanitizeText(s string) string {
	return html.UnescapeString(textSanitizer.Sanitize(s))
}

// sanitizeDescription strips markup from every text preview and name
func sanitizeDescription(desc *entities.TemplateDescription) *entities.TemplateDescription {
	for i := range desc.Slides {
		slide := &desc.Slides[i]
		slide.LayoutName = sanitizeText(slide.LayoutName)
		for j := range slide.Shapes {
			shape := &slide.Shapes[j]
			shape.Name = sanitizeText(shape.Name)
			if shape.Text != nil {
				clean := sanitizeText(*shape.Text)
				shape.Text = &clean
			}
		}
	}
	for i := range desc.Layouts {
		desc.Layouts[i].Name = sanitizeText(desc.Layouts[i].Name)
	}
	return desc
}
