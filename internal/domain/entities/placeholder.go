package entities

import "fmt"

// PlaceholderType is the semantic role of a placeholder slot
type PlaceholderType int

const (
	PlaceholderOther PlaceholderType = iota
	PlaceholderTitle
	PlaceholderSubtitle
	PlaceholderBody
	PlaceholderPicture
)

// String returns the lowercase name used in analysis output
func (t PlaceholderType) String() string {
	switch t {
	case PlaceholderTitle:
		return "title"
	case PlaceholderSubtitle:
		return "subtitle"
	case PlaceholderBody:
		return "body"
	case PlaceholderPicture:
		return "picture"
	default:
		return "other"
	}
}

// MarshalText encodes the type by name so JSON and YAML output stay readable
func (t PlaceholderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name produced by MarshalText
func (t *PlaceholderType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "title":
		*t = PlaceholderTitle
	case "subtitle":
		*t = PlaceholderSubtitle
	case "body":
		*t = PlaceholderBody
	case "picture":
		*t = PlaceholderPicture
	case "other":
		*t = PlaceholderOther
	default:
		return fmt.Errorf("unknown placeholder type %q", string(text))
	}
	return nil
}

// PlaceholderTypeFromToken maps a raw p:ph@type token to its semantic type.
// An empty token is the schema default ("obj"), a generic content slot.
func PlaceholderTypeFromToken(token string) PlaceholderType {
	switch token {
	case "title", "ctrTitle":
		return PlaceholderTitle
	case "subTitle":
		return PlaceholderSubtitle
	case "body", "obj", "":
		return PlaceholderBody
	case "pic":
		return PlaceholderPicture
	default:
		return PlaceholderOther
	}
}

// PlaceholderRef identifies a placeholder on an instantiated slide
type PlaceholderRef struct {
	Idx  int             `json:"idx"`
	Type PlaceholderType `json:"type"`
	Name string          `json:"name,omitempty"`
}
