// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strconv"
	"time"
)

// Post is a blog entry owned by exactly one author. It has at most one
// category and any number of tags.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	HeadImage  string    `json:"head_image,omitempty"` // storage key, "" when none
	Created    time.Time `json:"created"`
	UpdatedAt  time.Time `json:"updated_at"`
	AuthorID   int64     `json:"author_id"`
	CategoryID *int64    `json:"category_id,omitempty"`

	// Virtual fields populated by store methods.
	AuthorName string    `json:"author_name"`
	Category   *Category `json:"category,omitempty"`
	Tags       []Tag     `json:"tags"`
}

// PostInput carries the user-editable fields of a post for create and update.
type PostInput struct {
	Title      string   `form:"title" validate:"required,max=30"`
	Content    string   `form:"content" validate:"required"`
	CategoryID *int64   `form:"category"`
	Tags       []string `form:"tags" validate:"dive,required,max=40"`

	// HeadImage is the storage key of a freshly uploaded image. nil keeps
	// the current image on update; a pointer to "" clears it.
	HeadImage *string `form:"-"`
}

// AbsoluteURL returns the canonical detail path of the post.
func (p *Post) AbsoluteURL() string {
	return "/blog/" + strconv.FormatInt(p.ID, 10) + "/"
}

// UpdateURL returns the edit form path of the post.
func (p *Post) UpdateURL() string {
	return p.AbsoluteURL() + "update/"
}

// CanEdit reports whether who may change the post. Only the author can.
func (p *Post) CanEdit(who Identity) bool {
	return who.Is(p.AuthorID)
}

// HasTag reports whether the hydrated tag list contains tagID.
func (p *Post) HasTag(tagID int64) bool {
	for _, t := range p.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// Input returns the editable fields of p, used to prefill the edit form.
func (p *Post) Input() PostInput {
	names := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		names[i] = t.Name
	}
	return PostInput{
		Title:      p.Title,
		Content:    p.Content,
		CategoryID: p.CategoryID,
		Tags:       names,
	}
}
