// Package manual extracts price, PIN, brand, gender, quantity, sizes, and a
// fallback title directly from message text, with no network access.
package manual

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/reviewcheckk/dealbot/internal/models"
	"github.com/reviewcheckk/dealbot/internal/util"
)

// Info holds everything parsed from the message text. Every field is
// independently optional; zero values mean "not present".
type Info struct {
	Price     int
	PriceFrom bool
	Pin       string
	Brand     string
	Gender    string
	Quantity  string
	Sizes     []string
	Title     string
}

// Ordered price phrasings; the first match wins per phrasing and all
// matches feed the minimum-price rule for "from" pricing.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*(\d[\d,]*)`),
	regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:₹|rs\b|rupees)`),
	regexp.MustCompile(`(?i)price\s*:?\s*(?:₹|rs\.?)?\s*(\d[\d,]*)`),
	regexp.MustCompile(`(?i)cost\s*:?\s*(?:₹|rs\.?)?\s*(\d[\d,]*)`),
	regexp.MustCompile(`(?i)@\s*(\d[\d,]*)\s*rs`),
}

var pinRegex = regexp.MustCompile(`\b([1-9]\d{5})\b`)

var knownBrands = []string{
	"nike", "adidas", "puma", "reebok", "boat", "jbl", "sony",
	"samsung", "apple", "mi", "realme", "oneplus", "vivo", "oppo",
	"libas", "aurelia", "biba", "global desi", "chemistry", "aqualogica",
	"mamaearth", "titan", "fastrack", "hrx", "roadster", "levis",
}

var brandRegex = regexp.MustCompile(`(?i)\b(` + strings.Join(knownBrands, "|") + `)\b`)

// Gender keyword tables, matched in category priority order.
var genderPatterns = []struct {
	gender string
	re     *regexp.Regexp
}{
	{models.GenderMen, regexp.MustCompile(`(?i)\b(men's|mens|men|boys?|male|gents)\b`)},
	{models.GenderWomen, regexp.MustCompile(`(?i)\b(women's|womens|women|ladies|girls?|female)\b`)},
	{models.GenderKids, regexp.MustCompile(`(?i)\b(kids?|children|child|baby|infant)\b`)},
}

// Ordered quantity phrasings with their normalized output forms.
var quantityPatterns = []struct {
	re     *regexp.Regexp
	prefix string
	suffix string
}{
	{regexp.MustCompile(`(?i)\bpack of (\d+)\b`), "Pack of ", ""},
	{regexp.MustCompile(`(?i)\bset of (\d+)\b`), "Set of ", ""},
	{regexp.MustCompile(`(?i)\bcombo of (\d+)\b`), "Combo of ", ""},
	{regexp.MustCompile(`(?i)\b(\d+)\s*(?:pcs?|pieces?|units?)\b`), "", " Pcs"},
	{regexp.MustCompile(`(?i)\b(\d+)\s*pairs?\b`), "", " Pairs"},
	{regexp.MustCompile(`(?i)\b(\d+)\s*kg\b`), "", "kg"},
	{regexp.MustCompile(`(?i)\b(\d+)\s*g\b`), "", "g"},
	{regexp.MustCompile(`(?i)\b(\d+)\s*ml\b`), "", "ml"},
	{regexp.MustCompile(`(?i)\b(\d+)\s*l\b`), "", "L"},
	{regexp.MustCompile(`(?i)\bmultipack\s*(\d+)\b`), "Multipack ", ""},
	{regexp.MustCompile(`(?i)\b(\d+)\s*in\s*1\b`), "", " in 1"},
}

var (
	sizeLineRegex  = regexp.MustCompile(`(?i)size\s*-\s*([A-Za-z0-9, \t]+)`)
	sizeTokenRegex = regexp.MustCompile(`\b(X{0,3}S|X{1,3}L|M|XXL)\b`)
	stockLineRegex = regexp.MustCompile(`(?i)stock\s*:\s*([A-Za-z0-9, \t]+)`)
	urlRegex       = regexp.MustCompile(`https?://\S+`)
	fromRegex      = regexp.MustCompile(`(?i)\bfrom\b`)
)

const maxManualTitleLen = 60

// Parse extracts every manual field from text. Absent fields stay zero.
func Parse(text string) Info {
	info := Info{
		Pin:      extractPin(text),
		Brand:    ExtractBrand(text),
		Gender:   ExtractGender(text),
		Quantity: ExtractQuantity(text),
		Sizes:    extractSizes(text),
	}
	info.Price, info.PriceFrom = extractPrice(text)
	info.Title = extractTitle(text, info)
	return info
}

// extractPrice returns the minimum valid price found and whether the deal
// reads as "from" pricing (explicit "from", or several prices quoted).
func extractPrice(text string) (int, bool) {
	seen := make(map[int]struct{})
	var prices []int
	for _, re := range pricePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			p := util.SafeAtoi(m[1])
			if !models.ValidPrice(p) {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			prices = append(prices, p)
		}
	}
	if len(prices) == 0 {
		return 0, false
	}

	minPrice := prices[0]
	for _, p := range prices[1:] {
		if p < minPrice {
			minPrice = p
		}
	}
	from := len(prices) > 1 || fromRegex.MatchString(text)
	return minPrice, from
}

// extractPin finds the first plausible 6-digit Indian PIN: no leading zero,
// not a single repeated digit, not an obvious sequence.
func extractPin(text string) string {
	for _, m := range pinRegex.FindAllStringSubmatch(text, -1) {
		pin := m[1]
		if pin == "123456" || pin == "654321" {
			continue
		}
		if strings.Count(pin, pin[:1]) == len(pin) {
			continue
		}
		return pin
	}
	return ""
}

// ExtractBrand returns the first known brand mentioned in text, in display
// casing. Also used to re-derive the brand from scraped titles.
func ExtractBrand(text string) string {
	m := brandRegex.FindString(text)
	if m == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(m))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ExtractGender matches gender keyword tables in Men, Women, Kids priority
// order. Also used to re-derive gender from scraped titles.
func ExtractGender(text string) string {
	for _, gp := range genderPatterns {
		if gp.re.MatchString(text) {
			return gp.gender
		}
	}
	return ""
}

// StripGenderTokens removes the keyword tokens of the given gender from
// text, so a formatter can show the gender once without repeating it
// inside the title.
func StripGenderTokens(text, gender string) string {
	for _, gp := range genderPatterns {
		if gp.gender == gender {
			return strings.TrimSpace(gp.re.ReplaceAllString(text, " "))
		}
	}
	return text
}

// ExtractQuantity normalizes the first quantity phrasing found ("pack of
// 3", "2 pcs", "500 ml", ...). Also used on scraped titles.
func ExtractQuantity(text string) string {
	for _, qp := range quantityPatterns {
		if m := qp.re.FindStringSubmatch(text); m != nil {
			return qp.prefix + m[1] + qp.suffix
		}
	}
	return ""
}

func extractSizes(text string) []string {
	if m := sizeLineRegex.FindStringSubmatch(text); m != nil {
		listed := strings.TrimSpace(m[1])
		if listed == "" {
			return nil
		}
		if strings.EqualFold(strings.Fields(listed)[0], "all") {
			return []string{"All"}
		}
		var sizes []string
		for _, tok := range strings.Split(listed, ",") {
			tok = strings.ToUpper(strings.TrimSpace(tok))
			if tok != "" {
				sizes = append(sizes, tok)
			}
		}
		return sizes
	}

	if found := sizeTokenRegex.FindAllString(strings.ToUpper(text), -1); len(found) > 0 {
		seen := make(map[string]struct{})
		var sizes []string
		for _, s := range found {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			sizes = append(sizes, s)
		}
		return sizes
	}

	if m := stockLineRegex.FindStringSubmatch(text); m != nil {
		return []string{strings.ToUpper(strings.TrimSpace(m[1]))}
	}
	return nil
}

// extractTitle builds the best-effort manual title. Forwarded captions
// usually put the product name on its own lines above the link, so the
// first two non-URL lines are tried before collapsing the whole text.
func extractTitle(text string, info Info) string {
	if t := scrubTitle(forwardedTitle(text), info); t != "" {
		return t
	}
	return scrubTitle(text, info)
}

// forwardedTitle joins the first two lines long enough to be a product
// name that carry no URL.
func forwardedTitle(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) <= 5 || urlRegex.MatchString(line) {
			continue
		}
		kept = append(kept, line)
		if len(kept) == 2 {
			break
		}
	}
	return strings.Join(kept, " ")
}

// scrubTitle strips URLs and the already-extracted price/PIN substrings,
// then caps the result at a word boundary.
func scrubTitle(text string, info Info) string {
	title := urlRegex.ReplaceAllString(text, " ")
	for _, re := range pricePatterns {
		title = re.ReplaceAllString(title, " ")
	}
	if info.Pin != "" {
		title = strings.ReplaceAll(title, info.Pin, " ")
	}
	title = sizeLineRegex.ReplaceAllString(title, " ")
	title = util.CollapseWhitespace(title)
	if len(title) > maxManualTitleLen {
		n := maxManualTitleLen
		for n > 0 && !utf8.RuneStart(title[n]) {
			n--
		}
		title = title[:n]
		if idx := strings.LastIndex(title, " "); idx > 0 {
			title = title[:idx]
		}
	}
	return strings.TrimSpace(title)
}
