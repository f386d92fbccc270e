// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package routing classifies request paths that no declared route matched.
package routing

import "strings"

// Kind is the outcome of classifying a path.
type Kind int

const (
	// Reserved paths live under the API or static prefix and are never
	// treated as shortcodes.
	Reserved Kind = iota
	// SPA paths are served the single page application shell.
	SPA
	// Shortcode paths are looked up and redirected.
	Shortcode
)

func (k Kind) String() string {
	switch k {
	case Reserved:
		return "reserved"
	case SPA:
		return "spa"
	case Shortcode:
		return "shortcode"
	default:
		return "unknown"
	}
}

const (
	APIPrefix    = "api"
	StaticPrefix = "static"
)

// SPARoutes are the client-side routes of the frontend. They win over
// shortcodes with the same name.
var SPARoutes = []string{"", "login", "register", "redirects"}

// Classify strips one leading slash from path and returns its Kind together
// with the remaining name. Prefix matching is textual, so "apiary" is
// reserved as well.
func Classify(path string) (Kind, string) {
	name := strings.TrimPrefix(path, "/")

	if strings.HasPrefix(name, APIPrefix) || strings.HasPrefix(name, StaticPrefix) {
		return Reserved, name
	}
	for _, route := range SPARoutes {
		if name == route {
			return SPA, name
		}
	}
	return Shortcode, name
}
