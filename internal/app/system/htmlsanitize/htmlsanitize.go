// Package htmlsanitize strips unsafe markup from member-authored blog
// content before it is stored. Post bodies are written by community
// members and rendered back to browsers, so everything passes through the
// UGC policy: formatting, links, and tables survive; scripts and event
// handlers do not.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with disallowed tags and attributes removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
