// Correction extraction.
//
// The tutor persona is instructed to phrase corrections in a handful of
// fixed natural-language templates. This file matches a reply against an
// ordered list of pattern extractors; the first match wins. It is a
// best-effort heuristic producing advisory UI decoration, not a
// correctness-critical parse.
package tutor

import (
	"regexp"
	"strings"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

// Each template captures three groups: original phrase, corrected phrase,
// and an explanation clause running to end-of-line or end-of-text.
var correctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)I noticed you said ['"]([^'"]+)['"]\. A more natural way would be ['"]([^'"]+)['"]\. ([^\n]+)`),
	regexp.MustCompile(`(?i)Instead of ['"]([^'"]+)['"], try ['"]([^'"]+)['"]\. ([^\n]+)`),
	regexp.MustCompile(`(?i)You said ['"]([^'"]+)['"], but it should be ['"]([^'"]+)['"]\. ([^\n]+)`),
}

// ExtractCorrection scans reply text for a correction template and returns
// the structured triple when one matches. Adding a template means appending
// a pattern here; call sites are untouched.
func ExtractCorrection(text string) (*domain.GrammarCorrection, bool) {
	for _, re := range correctionPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return &domain.GrammarCorrection{
				Original:    m[1],
				Corrected:   m[2],
				Explanation: strings.TrimSpace(m[3]),
			}, true
		}
	}
	return nil, false
}
