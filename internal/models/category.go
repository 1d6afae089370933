// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"myblog/internal/slug"
)

// UncategorizedSlug selects posts whose category is NULL.
const UncategorizedSlug = slug.Uncategorized

// UncategorizedName is the label shown for posts without a category.
const UncategorizedName = "Uncategorized"

// Category groups posts under a unique name. A post has at most one category.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`

	// Virtual field populated by store methods.
	PostCount int `json:"post_count"`
}

// CategoryInput carries the user-editable fields of a category.
type CategoryInput struct {
	Name        string `form:"name" validate:"required,max=25"`
	Description string `form:"description"`
}

// AbsoluteURL returns the canonical listing path for the category.
func (c *Category) AbsoluteURL() string {
	return "/blog/category/" + c.Slug + "/"
}

// CategoryURL returns the listing path for a post's category, falling back
// to the uncategorized listing when c is nil.
func CategoryURL(c *Category) string {
	if c == nil {
		return "/blog/category/" + UncategorizedSlug + "/"
	}
	return c.AbsoluteURL()
}

// CategoryName returns the display name of c, or UncategorizedName when nil.
func CategoryName(c *Category) string {
	if c == nil {
		return UncategorizedName
	}
	return c.Name
}
