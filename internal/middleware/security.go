// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// SecureHeaders adds security-related HTTP headers to every response.
// imageOrigins lists extra origins allowed in img-src, typically the
// public URL of the head image bucket.
func SecureHeaders(imageOrigins ...string) func(http.Handler) http.Handler {
	imgSrc := "'self' data:"
	for _, o := range imageOrigins {
		if o = strings.TrimRight(o, "/"); o != "" {
			imgSrc += " " + o
		}
	}
	csp := "default-src 'self'; img-src " + imgSrc +
		"; style-src 'self' 'unsafe-inline'; frame-ancestors 'self'; form-action 'self'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}
