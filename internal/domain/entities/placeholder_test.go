package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderTypeFromToken(t *testing.T) {
	tests := map[string]PlaceholderType{
		"title":    PlaceholderTitle,
		"ctrTitle": PlaceholderTitle,
		"subTitle": PlaceholderSubtitle,
		"body":     PlaceholderBody,
		"obj":      PlaceholderBody,
		"":         PlaceholderBody,
		"pic":      PlaceholderPicture,
		"dt":       PlaceholderOther,
		"ftr":      PlaceholderOther,
		"sldNum":   PlaceholderOther,
		"chart":    PlaceholderOther,
		"tbl":      PlaceholderOther,
	}

	for token, want := range tests {
		t.Run(token, func(t *testing.T) {
			assert.Equal(t, want, PlaceholderTypeFromToken(token))
		})
	}
}

func TestPlaceholderType_JSON(t *testing.T) {
	ref := PlaceholderRef{Idx: 1, Type: PlaceholderSubtitle, Name: "Subtitle 2"}

	data, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.JSONEq(t, `{"idx":1,"type":"subtitle","name":"Subtitle 2"}`, string(data))

	var decoded PlaceholderRef
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ref, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"chart"}`), &decoded))
}

func TestContentHelpers(t *testing.T) {
	assert.False(t, ContentBlock{}.HasBullets())
	assert.True(t, ContentBlock{Bullets: []string{"a"}}.HasBullets())

	var meta *DocumentMetadata
	assert.True(t, meta.IsEmpty())
	author := "Ana"
	assert.False(t, (&DocumentMetadata{Author: &author}).IsEmpty())

	assert.Equal(t, "set_bullets", ActionSetBullets.String())
	assert.Equal(t, "none", BindingAction(0).String())
}
