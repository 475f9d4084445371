package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// DeckOptions tunes the deck service
type DeckOptions struct {
	PreviewLength   int
	DownloadPrefix  string
	ListConcurrency int
}

// DeckOptionsFromConfig reads the generation section of the configuration
func DeckOptionsFromConfig(cfg entities.GenerationConfig) DeckOptions {
	return DeckOptions{
		PreviewLength:   cfg.GetPreviewLength(),
		DownloadPrefix:  cfg.GetDownloadPrefix(),
		ListConcurrency: cfg.GetListConcurrency(),
	}
}

// DeckService implements template analysis and presentation generation
type DeckService struct {
	engine    ports.PresentationEngine
	templates ports.TemplateStore
	outputs   ports.OutputStore
	metrics   ports.GenerationMetrics
	logger    *zap.Logger
	validator *RequestValidator
	opts      DeckOptions
}

// NewDeckService creates a new deck service instance
func NewDeckService(
	engine ports.PresentationEngine,
	templates ports.TemplateStore,
	outputs ports.OutputStore,
	metrics ports.GenerationMetrics,
	logger *zap.Logger,
	opts DeckOptions,
) *DeckService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = 100
	}
	if opts.DownloadPrefix == "" {
		opts.DownloadPrefix = "/download/"
	}
	if opts.ListConcurrency <= 0 {
		opts.ListConcurrency = 4
	}
	return &DeckService{
		engine:    engine,
		templates: templates,
		outputs:   outputs,
		metrics:   metrics,
		logger:    logger,
		validator: NewRequestValidator(),
		opts:      opts,
	}
}

// Generate builds a new presentation from content blocks. With a template,
// the template's own slides are dropped and its layouts reused.
func (s *DeckService) Generate(ctx context.Context, req *entities.GenerateRequest) (result *entities.GenerationResult, err error) {
	start := time.Now()
	defer func() { s.observe(entities.ModeGenerate, result, err, start) }()

	if req == nil {
		return nil, entities.NewInvalidRequest("", "request body is required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	filename, err := outputName(req.OutputFilename, generatedName())
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("template_id", req.TemplateID), zap.String("filename", filename))

	var doc ports.PresentationDocument
	if req.TemplateID != "" {
		if doc, err = s.openTemplate(ctx, req.TemplateID); err != nil {
			return nil, err
		}
		if dropped := doc.DropExistingSlides(); dropped > 0 {
			logger.Debug("dropped template slides", zap.Int("count", dropped))
		}
	} else if doc, err = s.engine.New(ctx); err != nil {
		return nil, fmt.Errorf("creating presentation: %w", err)
	}

	if err := doc.SetCoreProperties(req.Metadata); err != nil {
		return nil, entities.NewCorruptPackage(req.TemplateID, err)
	}

	var warnings []string
	layouts := doc.LayoutCount()
	for i, block := range req.Slides {
		layout := block.LayoutIndex
		if layout < 0 || layout >= layouts {
			logger.Warn("layout index out of range, using layout 0",
				zap.Int("slide", i), zap.Int("layout_index", layout), zap.Int("layout_count", layouts))
			s.metrics.IncLayoutClamp()
			layout = 0
		}

		slide, err := doc.AddSlide(layout)
		if err != nil {
			return nil, entities.NewCorruptPackage(req.TemplateID, fmt.Errorf("adding slide %d: %w", i, err))
		}

		shape := ShapeOf(slide)
		for _, idx := range unboundOverrides(block, shape) {
			s.metrics.IncPlaceholderSkip("unknown_idx")
			warnings = append(warnings, fmt.Sprintf("slide %d: no placeholder with idx %d", i, idx))
		}
		warnings = append(warnings, s.apply(logger, i, slide, Bind(block, shape))...)

		if block.Notes != "" {
			if err := slide.SetNotes(block.Notes); err != nil {
				logger.Warn("skipping notes", zap.Int("slide", i), zap.Error(err))
				warnings = append(warnings, fmt.Sprintf("slide %d: notes: %v", i, err))
			}
		}
	}

	if err := s.commit(ctx, doc, filename); err != nil {
		return nil, err
	}

	logger.Info("presentation generated", zap.Int("slides", doc.SlideCount()))
	return &entities.GenerationResult{
		Success:     true,
		Message:     "Presentation generated successfully",
		Filename:    filename,
		DownloadURL: downloadURL(s.opts.DownloadPrefix, filename),
		SlideCount:  doc.SlideCount(),
		Warnings:    warnings,
	}, nil
}

// GenerateFromJSON decodes a JSON request document and generates from it.
// A non-empty templateID overrides the document's template_id.
func (s *DeckService) GenerateFromJSON(ctx context.Context, jsonContent, templateID string) (*entities.GenerationResult, error) {
	var req entities.GenerateRequest
	dec := json.NewDecoder(strings.NewReader(jsonContent))
	if err := dec.Decode(&req); err != nil {
		return nil, entities.NewInvalidRequest("json_content", fmt.Sprintf("invalid JSON content: %v", err))
	}
	if req.Slides == nil {
		req.Slides = []entities.ContentBlock{}
	}
	if templateID != "" {
		req.TemplateID = templateID
	}
	return s.Generate(ctx, &req)
}

// Fill writes content into a template's existing slides in order. Extra
// slides or extra content entries are left alone.
func (s *DeckService) Fill(ctx context.Context, templateID string, req *entities.FillRequest) (result *entities.GenerationResult, err error) {
	start := time.Now()
	defer func() { s.observe(entities.ModeFill, result, err, start) }()

	if err := checkTemplateID(templateID); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, entities.NewInvalidRequest("", "request body is required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	filename, err := outputName(req.OutputFilename, filledName(templateID))
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("template_id", templateID), zap.String("filename", filename))

	doc, err := s.openTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	existing := doc.SlideCount()
	n := min(existing, len(req.Slides))
	if existing != len(req.Slides) {
		logger.Info("fill content and template slide counts differ",
			zap.Int("template_slides", existing), zap.Int("content_slides", len(req.Slides)), zap.Int("filled", n))
		s.metrics.IncFillTruncation()
	}

	var warnings []string
	for i := 0; i < n; i++ {
		slide, err := doc.Slide(i)
		if err != nil {
			return nil, entities.NewCorruptPackage(templateID, err)
		}
		content := req.Slides[i]
		warnings = append(warnings, s.apply(logger, i, slide, BindFill(content, ShapeOf(slide)))...)

		if content.Notes != nil {
			if err := slide.SetNotes(*content.Notes); err != nil {
				logger.Warn("skipping notes", zap.Int("slide", i), zap.Error(err))
				warnings = append(warnings, fmt.Sprintf("slide %d: notes: %v", i, err))
			}
		}
	}

	if err := s.commit(ctx, doc, filename); err != nil {
		return nil, err
	}

	logger.Info("template filled", zap.Int("filled", n), zap.Int("slides", doc.SlideCount()))
	return &entities.GenerationResult{
		Success:     true,
		Message:     "Template filled successfully",
		Filename:    filename,
		DownloadURL: downloadURL(s.opts.DownloadPrefix, filename),
		SlideCount:  doc.SlideCount(),
		Warnings:    warnings,
	}, nil
}

// Analyze describes a stored template
func (s *DeckService) Analyze(ctx context.Context, templateID string) (*entities.TemplateDescription, error) {
	if err := checkTemplateID(templateID); err != nil {
		return nil, err
	}
	doc, err := s.openTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	desc := doc.Describe(s.opts.PreviewLength)
	desc.TemplateID = templateID
	return desc, nil
}

// ListTemplates loads every stored template concurrently. Templates that
// fail to load are logged and left out.
func (s *DeckService) ListTemplates(ctx context.Context) ([]entities.TemplateInfo, error) {
	stored, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	infos := make([]*entities.TemplateInfo, len(stored))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ListConcurrency)

	for i, st := range stored {
		g.Go(func() error {
			doc, err := s.openTemplate(gctx, st.ID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("skipping unreadable template", zap.String("template_id", st.ID), zap.Error(err))
				return nil
			}
			infos[i] = &entities.TemplateInfo{
				ID:          st.ID,
				Name:        st.ID,
				Description: "Template: " + st.ID,
				Layouts:     doc.Describe(1).LayoutSummaries(),
				CreatedAt:   st.Modified,
				FilePath:    st.Path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]entities.TemplateInfo, 0, len(infos))
	for _, info := range infos {
		if info != nil {
			out = append(out, *info)
		}
	}
	return out, nil
}

// UploadTemplate checks that the upload is a loadable .pptx and stores it.
// The template id defaults to the file name without extension.
func (s *DeckService) UploadTemplate(ctx context.Context, upload *entities.TemplateUpload) (*entities.UploadResult, error) {
	if upload == nil {
		return nil, entities.NewInvalidRequest("file", "no file uploaded")
	}
	base := filepath.Base(filepath.ToSlash(upload.Filename))
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, pptxExt) {
		return nil, entities.NewUnsupportedUpload(upload.Filename)
	}

	id := upload.TemplateID
	if id == "" {
		id = strings.TrimSuffix(base, ext)
	}
	if err := checkTemplateID(id); err != nil {
		return nil, err
	}

	doc, err := s.engine.Open(ctx, upload.Data)
	if err != nil {
		return nil, withTemplateID(err, id)
	}
	if _, err := s.templates.Save(ctx, id, upload.Data); err != nil {
		return nil, err
	}

	s.logger.Info("template uploaded", zap.String("template_id", id), zap.Int("layouts", doc.LayoutCount()))
	return &entities.UploadResult{
		Message:     "Template uploaded successfully",
		TemplateID:  id,
		Description: upload.Description,
		Layouts:     doc.Describe(1).LayoutSummaries(),
	}, nil
}

// Download opens a generated file
func (s *DeckService) Download(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.outputs.Get(ctx, filename)
}

// Delete removes a generated file
func (s *DeckService) Delete(ctx context.Context, filename string) error {
	if err := s.outputs.Delete(ctx, filename); err != nil {
		return err
	}
	s.logger.Info("file deleted", zap.String("filename", filename))
	return nil
}

func (s *DeckService) openTemplate(ctx context.Context, templateID string) (ports.PresentationDocument, error) {
	if err := checkTemplateID(templateID); err != nil {
		return nil, err
	}
	data, err := s.templates.Open(ctx, templateID)
	if err != nil {
		return nil, err
	}
	doc, err := s.engine.Open(ctx, data)
	if err != nil {
		return nil, withTemplateID(err, templateID)
	}
	return doc, nil
}

// apply runs the bindings against a slide; failures are logged and returned as warnings
func (s *DeckService) apply(logger *zap.Logger, slideIndex int, slide ports.SlideEditor, bindings []entities.Binding) []string {
	var warnings []string
	for _, b := range bindings {
		var err error
		switch b.Action {
		case entities.ActionSetText:
			err = slide.SetText(b.Placeholder.Idx, b.Text, b.FontSize)
		case entities.ActionSetBullets:
			err = slide.SetBullets(b.Placeholder.Idx, b.Bullets, b.FontSize)
		}
		if err == nil {
			continue
		}

		logger.Warn("skipping placeholder",
			zap.Int("slide", slideIndex),
			zap.Int("placeholder_idx", b.Placeholder.Idx),
			zap.String("source", b.Source),
			zap.Stringer("action", b.Action),
			zap.Error(err))
		s.metrics.IncPlaceholderSkip("apply_failed")
		warnings = append(warnings, fmt.Sprintf("slide %d: placeholder %d: %v", slideIndex, b.Placeholder.Idx, err))
	}
	return warnings
}

// commit serializes the document and hands it to the output store, which
// publishes it atomically.
func (s *DeckService) commit(ctx context.Context, doc ports.PresentationDocument, filename string) error {
	var buf bytes.Buffer
	if err := doc.Serialize(&buf); err != nil {
		return entities.NewSerializationFailure(filename, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.outputs.Put(ctx, filename, &buf); err != nil {
		var de *entities.DeckError
		if errors.As(err, &de) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return entities.NewSerializationFailure(filename, err)
	}
	return nil
}

func (s *DeckService) observe(mode entities.GenerationMode, result *entities.GenerationResult, err error, start time.Time) {
	outcome, slides := "success", 0
	if err != nil {
		outcome = "error"
		if de, ok := entities.AsDeckError(err); ok {
			outcome = string(de.Kind)
		}
	} else if result != nil {
		slides = result.SlideCount
	}
	s.metrics.ObserveGeneration(mode, outcome, slides, time.Since(start))
}

// withTemplateID fills in the template id of a corrupt package error
func withTemplateID(err error, templateID string) error {
	if de, ok := entities.AsDeckError(err); ok && de.Kind == entities.KindCorruptPackage && de.TemplateID == "" {
		return entities.NewCorruptPackage(templateID, de.Cause)
	}
	return err
}

type noopMetrics struct{}

func (noopMetrics) ObserveGeneration(entities.GenerationMode, string, int, time.Duration) {}
func (noopMetrics) IncLayoutClamp()                                                       {}
func (noopMetrics) IncFillTruncation()                                                    {}
func (noopMetrics) IncPlaceholderSkip(string)                                             {}

var _ ports.DeckService = (*DeckService)(nil)
