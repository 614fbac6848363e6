// Package textnorm turns raw scraped or user-typed product titles into
// short display titles: strips emoji and promo noise, dedupes repeated
// words, and caps length at a word boundary.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/reviewcheckk/dealbot/internal/util"
)

const (
	// MinRawLen and MaxRawLen bound what counts as a usable raw title
	// before any cleaning is attempted.
	MinRawLen = 5
	MaxRawLen = 300

	maxCleanLen = 100
)

// Ordered noise patterns removed before tokenization: marketplace
// boilerplate ("Buy ... Online at Low Price in India on Amazon.in"),
// MRP fragments, and promo phrases.
var noiseRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbuy\b[a-z0-9\s&',.-]{0,40}?\bonline\b`),
	regexp.MustCompile(`(?i)\bmrp\b[\s.:]*(?:rs\.?)?[\d,]*`),
	regexp.MustCompile(`(?i)\b(?:on\s+)?(?:amazon\.(?:in|com)|flipkart|meesho|myntra|ajio|snapdeal|nykaa)(?:\.(?:in|com))?\b`),
	regexp.MustCompile(`(?i)\b(?:at\s+)?low(?:est)?\s+price\b`),
	regexp.MustCompile(`(?i)\bin\s+india\b`),
	regexp.MustCompile(`(?i)\bbest\s+(?:price|deal|offer)\b`),
	regexp.MustCompile(`(?i)\b(?:loot|steal)\s+deal\b`),
	regexp.MustCompile(`(?i)\blimited\s+(?:time|stock)\b`),
	regexp.MustCompile(`(?i)\bgrab\s+(?:fast|now)\b`),
	regexp.MustCompile(`(?i)\bhurry\s+up\b`),
	regexp.MustCompile(`(?i)\b(?:buy|shop|order)\s+now\b`),
	regexp.MustCompile(`(?i)\bdon'?t\s+miss\b`),
	regexp.MustCompile(`(?i)\bprice\s+drop\b`),
	regexp.MustCompile(`(?i)\bflash\s+sale\b`),
	regexp.MustCompile(`(?i)\btoday\s+only\b`),
	regexp.MustCompile(`(?i)\bfree\s+(?:shipping|delivery)\b`),
	regexp.MustCompile(`(?i)\bcash\s+on\s+delivery\b`),
	regexp.MustCompile(`(?i)\bcod\s+available\b`),
	regexp.MustCompile(`(?i)\bofficial\s+store\b`),
	regexp.MustCompile(`(?i)\bgreat\s+indian\b`),
}

// Single promo tokens dropped wherever they appear.
var promoWords = map[string]struct{}{
	"deal": {}, "deals": {}, "offer": {}, "offers": {}, "sale": {},
	"discount": {}, "loot": {}, "steal": {}, "hurry": {}, "fast": {},
	"limited": {}, "exclusive": {}, "mega": {}, "bumper": {}, "free": {},
	"cheapest": {}, "wow": {}, "omg": {}, "amazing": {}, "crazy": {},
	"india": {},
}

var (
	allowedCharRegex = regexp.MustCompile(`[^A-Za-z0-9&.,'\-\s]`)
	punctOnlyRegex   = regexp.MustCompile(`^[^A-Za-z0-9]+$`)
)

// Clean normalizes a raw title. It returns "" when the input is outside
// the usable length bounds or cleans down to nonsense, so callers can
// fall through to their next title source.
func Clean(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < MinRawLen || len(raw) > MaxRawLen {
		return ""
	}

	s := allowedCharRegex.ReplaceAllString(raw, " ")
	for _, re := range noiseRegexes {
		s = re.ReplaceAllString(s, " ")
	}

	seen := make(map[string]struct{})
	var kept []string
	for _, tok := range strings.Fields(s) {
		key := strings.ToLower(strings.Trim(tok, ".,'-&"))
		if key == "" || punctOnlyRegex.MatchString(tok) {
			continue
		}
		if _, promo := promoWords[key]; promo {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, tok)
	}

	title := util.CollapseWhitespace(strings.Join(kept, " "))
	if isNonsense(title) {
		return ""
	}
	if len(title) > maxCleanLen {
		title = title[:maxCleanLen]
		if idx := strings.LastIndex(title, " "); idx > 0 {
			title = title[:idx]
		}
		title += "..."
	}
	return title
}

// isNonsense rejects titles too short to mean anything, with almost no
// vowels, or dominated by a single repeated character.
func isNonsense(title string) bool {
	if len(title) < 3 {
		return true
	}
	var letters, vowels int
	for _, r := range title {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch unicode.ToLower(r) {
		case 'a', 'e', 'i', 'o', 'u':
			vowels++
		}
	}
	if letters > 0 && vowels*10 < letters {
		return true
	}
	return hasRepeatRun(title, 5)
}

func hasRepeatRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev, run = r, 1
		}
	}
	return false
}
