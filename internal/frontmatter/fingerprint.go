package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint returns the mdfp content fingerprint of a document.
//
// The raw front matter block (minus one trailing newline) and the body are hashed
// separately, so the value changes whenever either side changes. Documents without front
// matter are hashed as body only.
func Fingerprint(content []byte) string {
	fm, body, had, _, err := Split(content)
	if err != nil || !had {
		return mdfp.CalculateFingerprintFromParts("", string(content))
	}
	return mdfp.CalculateFingerprintFromParts(trimSingleTrailingNewline(string(fm)), string(body))
}

func trimSingleTrailingNewline(s string) string {
	if before, ok := strings.CutSuffix(s, "\r\n"); ok {
		return before
	}
	if before, ok := strings.CutSuffix(s, "\n"); ok {
		return before
	}
	return s
}
