// Package linkex finds candidate product URLs inside free-form message text.
package linkex

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// ShortenerDomains lists URL-shortening services whose links must be
// resolved before cleaning.
var ShortenerDomains = []string{
	"amzn.to", "fkrt.cc", "spoo.me", "wishlink.com", "bitli.in",
	"da.gd", "cutt.ly", "bit.ly", "tinyurl.com", "goo.gl", "t.co",
	"short.me", "u.to", "ow.ly", "tiny.cc", "is.gd",
}

// MarketplaceDomains lists marketplaces recognized even when mentioned
// without a scheme.
var MarketplaceDomains = []string{
	"amazon.in", "flipkart.com", "meesho.com", "myntra.com",
	"ajio.com", "snapdeal.com", "wishlink.com", "extp.in", "faym.co",
}

const minCandidateLen = 11

var (
	schemeURLRegex = regexp.MustCompile(`https?://[^\s<>"']+`)
	wwwURLRegex    = regexp.MustCompile(`(?i)\bwww\.[^\s<>"']+`)
	bareDomainOnce sync.Once
	bareDomainRe   *regexp.Regexp
)

// IsShortener reports whether the URL's host belongs to a known shortener.
// Matching is a case-insensitive substring test against the host.
func IsShortener(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, s := range ShortenerDomains {
		if strings.Contains(host, s) {
			return true
		}
	}
	return false
}

func bareDomainRegex() *regexp.Regexp {
	bareDomainOnce.Do(func() {
		domains := make([]string, 0, len(MarketplaceDomains)+len(ShortenerDomains))
		for _, d := range MarketplaceDomains {
			domains = append(domains, regexp.QuoteMeta(d))
		}
		for _, d := range ShortenerDomains {
			domains = append(domains, regexp.QuoteMeta(d))
		}
		bareDomainRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(domains, "|") + `)(?:/[^\s<>"']*)?`)
	})
	return bareDomainRe
}

// Extract returns the unique candidate URLs found in text, in first-seen
// order. An empty result means nothing to do, not a failure.
//
// Detection is a union of four rules: scheme-prefixed URLs, www-prefixed
// hosts, bare marketplace domains, and bare shortener domains. Later rules
// only scan text not already claimed by an earlier rule, so a bare-domain
// mention inside a full URL is not double-counted.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var raw []string
	remaining := text

	raw = append(raw, schemeURLRegex.FindAllString(remaining, -1)...)
	remaining = mask(remaining, schemeURLRegex)

	// The minimum-length rule applies to the token as it appeared in the
	// text, before any scheme is prepended: a bare "t.co" mention is noise,
	// "meesho.com/s/p/4kdnp" is a link.
	for _, m := range wwwURLRegex.FindAllString(remaining, -1) {
		if len(trimTrailingPunct(m)) >= minCandidateLen {
			raw = append(raw, "https://"+m)
		}
	}
	remaining = mask(remaining, wwwURLRegex)

	for _, m := range bareDomainRegex().FindAllString(remaining, -1) {
		if len(trimTrailingPunct(m)) >= minCandidateLen {
			raw = append(raw, "https://"+m)
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, candidate := range raw {
		candidate = trimTrailingPunct(candidate)
		if !isValidCandidate(candidate) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// mask blanks out every match so later rules cannot re-match inside it.
func mask(text string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?)]")
}

func isValidCandidate(candidate string) bool {
	if len(candidate) < minCandidateLen {
		return false
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return strings.Contains(parsed.Hostname(), ".")
}
