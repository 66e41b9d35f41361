package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bitlatte/suspect/internal/model"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []model.Tag
	}{
		{"empty", "", nil},
		{"single", "go", []model.Tag{"go"}},
		{"trimmed", " go ,  rust,web ", []model.Tag{"go", "rust", "web"}},
		{"empty_items_dropped", "a,, ,b,", []model.Tag{"a", "b"}},
		{"duplicates_kept", "a,a", []model.Tag{"a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ParseTags(tt.list))
		})
	}
}

func TestPost_HasTag(t *testing.T) {
	p := model.Post{Tags: model.ParseTags("x, y")}
	assert.True(t, p.HasTag("x"))
	assert.True(t, p.HasTag(model.NewTag(" y ")))
	assert.False(t, p.HasTag("z"))
}
