// utils/slug.go
package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims and NFC-normalises a display name so names typed on
// different keyboards compare equal byte for byte.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// MakeSlug transliterates name (Cyrillic included) into a URL slug.
func MakeSlug(name string) string {
	return slug.Make(NormalizeName(name))
}
