// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
//
// Slugs keep letters and digits from every script, so category names such
// as "정치/사회" stay readable ("정치사회"). The input is NFKC-normalized
// first, which folds compatibility forms (full-width Latin, ligatures) and
// composes Hangul and accented letters, so visually identical names always
// produce the same slug.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Uncategorized is the reserved category slug that selects posts without
// a category. No stored category may use it.
const Uncategorized = "_none"

// Generate creates a URL-friendly slug from the given string.
//
// Rules, applied in order:
//   - NFKC normalization, then unicode lowercasing
//   - '/' and '\' are dropped
//   - runs of whitespace and '-' become a single '-'
//   - letters, combining marks, digits and '_' are kept; everything else is dropped
//   - no leading or trailing '-'
//
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	hyphen := false
	for _, r := range s {
		switch {
		case r == '/' || r == '\\':
			continue
		case unicode.IsSpace(r) || r == '-':
			// Only emit the separator once the next kept rune shows up.
			hyphen = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '_':
			if hyphen {
				b.WriteByte('-')
				hyphen = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsReserved reports whether s cannot be assigned to a stored entity.
func IsReserved(s string) bool {
	return s == Uncategorized
}

// WithSuffix returns the n-th disambiguated form of base ("base-2", "base-3", ...).
// n <= 1 returns base unchanged.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
