// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HeadImagePrefix namespaces head image keys in the bucket.
const HeadImagePrefix = "blog"

// ImageUpload describes a head image received from a post form before it
// is written to object storage.
type ImageUpload struct {
	OriginalName string
	ContentType  string
	SizeBytes    int64
}

// IsImage returns true if the upload has an image content type.
func (m *ImageUpload) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// Ext returns the lowercased file extension of the original name,
// including the dot, or "" if there is none.
func (m *ImageUpload) Ext() string {
	return strings.ToLower(path.Ext(m.OriginalName))
}

// HumanSize returns a human-readable file size string.
func (m *ImageUpload) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}

// HeadImageKey builds the date-partitioned storage key for a head image:
// blog/YYYY/MM/DD/<id><ext>.
func HeadImageKey(at time.Time, id uuid.UUID, ext string) string {
	return path.Join(HeadImagePrefix, at.Format("2006/01/02"), id.String()+ext)
}
