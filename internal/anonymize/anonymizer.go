// Package anonymize strips PII-shaped substrings from user text before it is
// retained. There is no reverse mapping.
package anonymize

import "regexp"

// Replacement tokens.
const (
	NameToken  = "[NAME]"
	PhoneToken = "[PHONE]"
	EmailToken = "[EMAIL]"
	IDToken    = "[ID]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// rules run in order. The name rule keeps the boundary character and the
// honorific so only the name itself is masked.
var rules = []rule{
	{
		re:          regexp.MustCompile(`(^|[^가-힣])[가-힣]{2,4}(\s*(?:님|씨))`),
		replacement: "${1}" + NameToken + "${2}",
	},
	{
		re:          regexp.MustCompile(`\b\d{2,3}-\d{3,4}-\d{4}\b`),
		replacement: PhoneToken,
	},
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailToken,
	},
	{
		re:          regexp.MustCompile(`\b\d{6}-\d{7}\b`),
		replacement: IDToken,
	},
}

// Text replaces names next to honorifics, phone numbers, emails and national
// ID numbers with fixed tokens. The rules are re-applied until nothing
// changes, so Text(Text(s)) == Text(s).
func Text(text string) string {
	out := text
	// Every replacement removes Hangul, digits or '@', so the loop settles
	// long before len(text) passes.
	for i := 0; i <= len(text); i++ {
		next := apply(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func apply(text string) string {
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}
