package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostURLs(t *testing.T) {
	p := &Post{ID: 42}
	assert.Equal(t, "/blog/42/", p.AbsoluteURL())
	assert.Equal(t, "/blog/42/update/", p.UpdateURL())
	assert.Equal(t, p.AbsoluteURL()+"update/", p.UpdateURL())
}

func TestPostCanEdit(t *testing.T) {
	p := &Post{ID: 1, AuthorID: 10}

	assert.True(t, p.CanEdit(Identity{UserID: 10, Username: "smith"}))
	assert.False(t, p.CanEdit(Identity{UserID: 11, Username: "nosaram"}))
	assert.False(t, p.CanEdit(Anonymous))
}

func TestPostHasTag(t *testing.T) {
	p := &Post{Tags: []Tag{{ID: 1, Name: "bad_guy"}, {ID: 2, Name: "america"}}}
	assert.True(t, p.HasTag(2))
	assert.False(t, p.HasTag(3))
}

func TestPostInputPrefill(t *testing.T) {
	catID := int64(3)
	p := &Post{
		Title:      "The first post",
		Content:    "Hello World. We are the world",
		CategoryID: &catID,
		Tags:       []Tag{{ID: 1, Name: "america"}},
	}
	in := p.Input()
	assert.Equal(t, p.Title, in.Title)
	assert.Equal(t, p.Content, in.Content)
	require.NotNil(t, in.CategoryID)
	assert.Equal(t, catID, *in.CategoryID)
	assert.Equal(t, []string{"america"}, in.Tags)
	assert.Nil(t, in.HeadImage, "prefilled input must not touch the head image")
}

func TestPostInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        PostInput
		wantField string
		wantMsg   string
	}{
		{
			name: "valid",
			in:   PostInput{Title: "The first post", Content: "Hello"},
		},
		{
			name:      "missing title",
			in:        PostInput{Title: "   ", Content: "Hello"},
			wantField: "title",
			wantMsg:   "Title is required.",
		},
		{
			name:      "title too long",
			in:        PostInput{Title: strings.Repeat("a", 31), Content: "Hello"},
			wantField: "title",
			wantMsg:   "Title is too long (max 30 characters).",
		},
		{
			name: "thirty hangul runes fit",
			in:   PostInput{Title: strings.Repeat("가", 30), Content: "Hello"},
		},
		{
			name:      "missing content",
			in:        PostInput{Title: "Title", Content: ""},
			wantField: "content",
			wantMsg:   "Content is required.",
		},
		{
			name:      "tag too long",
			in:        PostInput{Title: "Title", Content: "Hello", Tags: []string{"ok", strings.Repeat("t", 41)}},
			wantField: "tags",
			wantMsg:   "Tag is too long (max 40 characters).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestPostInputValidateTrims(t *testing.T) {
	in := PostInput{Title: "  Padded  ", Content: "\nbody\n"}
	require.NoError(t, in.Validate())
	assert.Equal(t, "Padded", in.Title)
	assert.Equal(t, "body", in.Content)
}
