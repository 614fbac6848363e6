// Package cleaner rewrites resolved product URLs into canonical,
// tracker-free form.
package cleaner

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/reviewcheckk/dealbot/internal/models"
)

// Ordered identifier patterns per platform. First match wins.
var amazonASINPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Za-z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/product/([A-Za-z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`[?&]asin=([A-Za-z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Za-z0-9]{10})(?:[/?]|$)`),
}

var flipkartIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/p/(itm[A-Za-z0-9]+)`),
	regexp.MustCompile(`[?&]pid=([A-Za-z0-9]+)`),
	regexp.MustCompile(`/([A-Za-z0-9]{16})(?:[/?]|$)`),
}

var myntraIDPattern = regexp.MustCompile(`/(\d{5,})(?:[/?]|$)`)

// trackingSubstrings drops any query parameter whose name contains one of
// these. Short ambiguous names go in trackingExact instead so that e.g.
// "size" survives.
var trackingSubstrings = []string{
	"utm_", "ref", "tag", "aff", "fbclid", "gclid", "mc_", "_gl", "pf_rd",
}

var trackingExact = map[string]bool{
	"si": true, "igshid": true, "cmpid": true, "spm": true,
}

// Clean rewrites rawURL into its canonical tracker-free form for the URL's
// platform. It is idempotent, and any parse failure returns the input
// unchanged.
func Clean(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	switch models.DetectPlatform(rawURL) {
	case models.PlatformAmazon:
		return cleanAmazon(parsed)
	case models.PlatformFlipkart:
		return cleanFlipkart(parsed)
	case models.PlatformMeesho, models.PlatformAjio:
		return stripQuery(parsed)
	case models.PlatformMyntra:
		return cleanMyntra(parsed)
	default:
		return cleanGeneric(parsed, nil)
	}
}

func cleanAmazon(parsed *url.URL) string {
	searchable := parsed.Path + "?" + parsed.RawQuery
	for _, re := range amazonASINPatterns {
		if m := re.FindStringSubmatch(searchable); m != nil {
			return "https://www.amazon.in/dp/" + m[1]
		}
	}
	// No product identifier; keep only search keywords.
	return cleanGeneric(parsed, map[string]bool{"keywords": true, "field-keywords": true})
}

func cleanFlipkart(parsed *url.URL) string {
	searchable := parsed.Path + "?" + parsed.RawQuery
	for _, re := range flipkartIDPatterns {
		if m := re.FindStringSubmatch(searchable); m != nil {
			return "https://www.flipkart.com/p/" + m[1]
		}
	}
	return cleanGeneric(parsed, map[string]bool{"pid": true, "lid": true})
}

func cleanMyntra(parsed *url.URL) string {
	if m := myntraIDPattern.FindStringSubmatch(parsed.Path); m != nil {
		return "https://www.myntra.com/" + m[1]
	}
	return stripQuery(parsed)
}

func stripQuery(parsed *url.URL) string {
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

// cleanGeneric drops tracking parameters. When keep is non-nil, only the
// named parameters survive.
func cleanGeneric(parsed *url.URL, keep map[string]bool) string {
	query := parsed.Query()
	for name := range query {
		switch {
		case keep != nil:
			if !keep[name] {
				query.Del(name)
			}
		case isTrackingParam(name):
			query.Del(name)
		}
	}
	parsed.RawQuery = query.Encode()
	parsed.Fragment = ""
	return parsed.String()
}

func isTrackingParam(name string) bool {
	lower := strings.ToLower(name)
	if trackingExact[lower] {
		return true
	}
	for _, sub := range trackingSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
