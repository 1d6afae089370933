// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"strings"
	"time"
)

// maxTagNameLen mirrors the tags.name column constraint.
const maxTagNameLen = 40

// Tag is a unique label attached to any number of posts.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// AbsoluteURL returns the canonical listing path for the tag.
func (t *Tag) AbsoluteURL() string {
	return "/blog/tag/" + t.Slug + "/"
}

// TagSet is the set of tag IDs linked to one post. It mirrors the
// post_tags association rows and is used to compute the rows to insert
// and delete when a post's tags change.
type TagSet map[int64]struct{}

// NewTagSet builds a set from the given IDs.
func NewTagSet(ids ...int64) TagSet {
	s := make(TagSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was missing.
func (s TagSet) Add(id int64) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present.
func (s TagSet) Remove(id int64) bool {
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)
	return true
}

// Contains reports whether id is in the set.
func (s TagSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of tags in the set.
func (s TagSet) Len() int {
	return len(s)
}

// Minus returns the IDs in s that are not in other, sorted ascending.
func (s TagSet) Minus(other TagSet) []int64 {
	var out []int64
	for id := range s {
		if !other.Contains(id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// IDs returns the members sorted ascending.
func (s TagSet) IDs() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ParseTagNames splits a comma-separated tag field into names. Surrounding
// whitespace and a leading '#' are removed, blanks are skipped, and
// duplicates (case-sensitive) keep their first position.
func ParseTagNames(field string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(field, ",") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// JoinTagNames is the inverse of ParseTagNames, used to prefill forms.
func JoinTagNames(tags []Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
