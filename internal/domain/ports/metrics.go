package ports

import (
	"time"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// GenerationMetrics records deck service telemetry
type GenerationMetrics interface {
	// ObserveGeneration records one generate or fill call
	ObserveGeneration(mode entities.GenerationMode, outcome string, slides int, duration time.Duration)

	// IncLayoutClamp counts a layout index replaced by layout 0
	IncLayoutClamp()

	// IncFillTruncation counts a fill request whose slide count differs from the template's
	IncFillTruncation()

	// IncPlaceholderSkip counts a binding that could not be applied
	IncPlaceholderSkip(reason string)
}
