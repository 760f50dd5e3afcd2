// Package normalize cleans user-supplied strings before validation and
// storage. Keep these cheap and side-effect free; folding for
// case-insensitive keys lives in waffle's text package.
package normalize

import "strings"

// Name trims and collapses internal runs of whitespace to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Token trims surrounding whitespace from a query or form value.
func Token(s string) string {
	return strings.TrimSpace(s)
}

// Place normalizes an address-level value. Blank stays blank so unknown
// levels never compare equal to each other.
func Place(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Gender lowercases and trims a gender value for comparison with the
// model constants.
func Gender(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
