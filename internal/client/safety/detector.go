// Package safety flags user text that needs a crisis response.
package safety

import "strings"

// Detector reports whether text indicates the user may be in crisis.
type Detector interface {
	Detect(text string) bool
}

// DefaultKeywords are matched case-insensitively as substrings.
var DefaultKeywords = []string{"suicide", "kill myself", "end it all", "self harm"}

// KeywordDetector matches a fixed keyword list.
type KeywordDetector struct {
	keywords []string
}

// NewKeywordDetector builds a detector for keywords, or DefaultKeywords
// when none are given. Blank keywords are ignored.
func NewKeywordDetector(keywords ...string) *KeywordDetector {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	d := &KeywordDetector{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			d.keywords = append(d.keywords, k)
		}
	}
	return d
}

func (d *KeywordDetector) Detect(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
