package services

import (
	"sort"
	"strconv"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// SlideShape is the placeholder inventory of an instantiated slide
type SlideShape struct {
	Placeholders []entities.PlaceholderRef
	Title        *entities.PlaceholderRef
}

// ShapeOf reads the placeholder inventory of a slide
func ShapeOf(slide ports.SlideEditor) SlideShape {
	shape := SlideShape{Placeholders: slide.Placeholders()}
	if title, ok := slide.TitlePlaceholder(); ok {
		shape.Title = &title
	}
	return shape
}

// Bind decides which placeholder receives which part of a content block.
//
// The title goes to the slide's title placeholder unless the explicit index
// map names the same idx. Every other placeholder takes the first matching
// rule: explicit index map, subtitle at idx 1, body text on a body
// placeholder, bullets on a body placeholder. Subtitle, body and bullets are
// each consumed by at most one placeholder.
func Bind(block entities.ContentBlock, slide SlideShape) []entities.Binding {
	var bindings []entities.Binding
	claimed := make(map[int]bool, len(slide.Placeholders))

	if slide.Title != nil && block.Title != "" {
		if _, overridden := block.Placeholders[slide.Title.Idx]; !overridden {
			bindings = append(bindings, entities.Binding{
				Placeholder: *slide.Title,
				Action:      entities.ActionSetText,
				Text:        block.Title,
				Source:      "title",
			})
			claimed[slide.Title.Idx] = true
		}
	}

	subtitle := block.Subtitle != ""
	body := block.Body != ""
	bullets := block.HasBullets()

	for _, ph := range slide.Placeholders {
		if claimed[ph.Idx] {
			continue
		}

		b := entities.Binding{Placeholder: ph, FontSize: block.FontSize}
		if text, ok := block.Placeholders[ph.Idx]; ok {
			b.Action, b.Text, b.Source = entities.ActionSetText, text, "placeholders"
		} else if ph.Idx == 1 && subtitle {
			b.Action, b.Text, b.Source = entities.ActionSetText, block.Subtitle, "subtitle"
			subtitle = false
		} else if ph.Type == entities.PlaceholderBody && body {
			b.Action, b.Text, b.Source = entities.ActionSetText, block.Body, "body"
			body = false
		} else if ph.Type == entities.PlaceholderBody && bullets {
			b.Action, b.Bullets, b.Source = entities.ActionSetBullets, block.Bullets, "bullets"
			bullets = false
		} else {
			continue
		}

		claimed[ph.Idx] = true
		bindings = append(bindings, b)
	}
	return bindings
}

// BindFill maps fill-mode content onto an existing slide: idx 0 takes the
// title, idx 1 the subtitle, anything else its entry in the placeholder map.
// A field counts when present, even if empty.
func BindFill(content entities.FillSlide, slide SlideShape) []entities.Binding {
	var bindings []entities.Binding
	for _, ph := range slide.Placeholders {
		b := entities.Binding{Placeholder: ph, Action: entities.ActionSetText}
		switch {
		case ph.Idx == 0 && content.Title != nil:
			b.Text, b.Source = *content.Title, "title"
		case ph.Idx == 1 && content.Subtitle != nil:
			b.Text, b.Source = *content.Subtitle, "subtitle"
		default:
			text, ok := content.Placeholders[strconv.Itoa(ph.Idx)]
			if !ok {
				continue
			}
			b.Text, b.Source = text, "placeholders"
		}
		bindings = append(bindings, b)
	}
	return bindings
}

// unboundOverrides returns the explicit indices the slide has no placeholder for
func unboundOverrides(block entities.ContentBlock, slide SlideShape) []int {
	present := make(map[int]bool, len(slide.Placeholders))
	for _, ph := range slide.Placeholders {
		present[ph.Idx] = true
	}
	var missing []int
	for idx := range block.Placeholders {
		if !present[idx] {
			missing = append(missing, idx)
		}
	}
	sort.Ints(missing)
	return missing
}
