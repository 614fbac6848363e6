// Package scraper turns a canonical product URL into a best-effort
// ProductRecord. Strategies run in priority order and only fill fields the
// message text did not already supply: embedded structured data first, then
// per-platform selector tables, then a URL-slug title, then raw-markup
// pattern search. A record always comes back, placeholder-titled if every
// strategy failed.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewcheckk/dealbot/internal/config"
	"github.com/reviewcheckk/dealbot/internal/manual"
	"github.com/reviewcheckk/dealbot/internal/models"
	"github.com/reviewcheckk/dealbot/internal/textnorm"
	"github.com/reviewcheckk/dealbot/internal/util"
)

const (
	maxAttempts  = 2
	attemptDelay = 700 * time.Millisecond
	maxBodyBytes = 4 << 20
)

type Scraper interface {
	Scrape(ctx context.Context, rawURL string, seed manual.Info) *models.ProductRecord
}

type Client struct {
	httpClient *http.Client
	selectors  SelectorConfig
	profiles   []headerProfile
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		selectors: LoadConfig(cfg.SelectorsPath),
		profiles:  defaultProfiles(),
	}
}

// Scrape fetches rawURL and assembles a record. seed carries the fields
// already parsed from the message text; those always win. Scrape never
// fails: when nothing could be extracted the record carries a placeholder
// title and an error marker instead.
func (c *Client) Scrape(ctx context.Context, rawURL string, seed manual.Info) *models.ProductRecord {
	rec := &models.ProductRecord{Platform: models.DetectPlatform(rawURL)}
	applySeed(rec, seed)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(attemptDelay):
			}
			if ctx.Err() != nil {
				break
			}
		}

		body, err := c.fetch(ctx, rawURL, c.profiles[attempt%len(c.profiles)])
		if err != nil {
			slog.Warn("Scrape attempt failed", "url", rawURL, "attempt", attempt+1, "error", err)
			continue
		}

		c.extract(rec, rawURL, body)
		if rec.HasCoreData() {
			break
		}
	}

	deriveFromTitle(rec)
	rec.ComputeDiscount()

	if !rec.HasCoreData() {
		rec.Title = rec.Platform.PlaceholderTitle()
		rec.Error = models.ErrNoData.Error()
	}
	return rec
}

// applySeed copies manual fields into the record before any scraping so the
// provenance rule (manual wins) holds for free via the Fill helpers.
func applySeed(rec *models.ProductRecord, seed manual.Info) {
	rec.Title = seed.Title
	rec.Price = seed.Price
	rec.PriceFrom = seed.PriceFrom
	rec.Pin = seed.Pin
	rec.Brand = seed.Brand
	rec.Gender = seed.Gender
	rec.Quantity = seed.Quantity
	for _, s := range seed.Sizes {
		rec.AddSize(s)
	}
}

func (c *Client) fetch(ctx context.Context, rawURL string, profile headerProfile) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", profile.UserAgent)
	for k, v := range profile.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL %s: status code %d", rawURL, res.StatusCode)
	}

	return readBody(res)
}

// extract runs every strategy in priority order against one page body.
func (c *Client) extract(rec *models.ProductRecord, rawURL string, body []byte) {
	if sp, ok := extractStructuredData(body); ok {
		rec.FillTitle(textnorm.Clean(sp.Title))
		rec.FillPrice(sp.Price)
		rec.FillOriginalPrice(sp.OriginalPrice)
		rec.FillString(&rec.Brand, sp.Brand)
		rec.FillString(&rec.Rating, sp.Rating)
		rec.FillString(&rec.ReviewCount, sp.ReviewCount)
		rec.FillString(&rec.ImageURL, sp.ImageURL)
	}

	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		c.extractWithSelectors(rec, doc)
	}

	rec.FillTitle(slugTitle(rawURL))
	extractFromRawMarkup(rec, body)
}

func (c *Client) extractWithSelectors(rec *models.ProductRecord, doc *goquery.Document) {
	sel := c.selectors.For(rec.Platform)

	if raw := firstMatch(doc, sel.Title); raw != "" &&
		len(raw) >= textnorm.MinRawLen && len(raw) <= textnorm.MaxRawLen {
		rec.FillTitle(textnorm.Clean(raw))
	}
	if raw := firstMatch(doc, sel.Price); raw != "" {
		rec.FillPrice(util.SafeAtoi(util.FirstNumber(raw)))
	}
	if raw := firstMatch(doc, sel.OriginalPrice); raw != "" {
		rec.FillOriginalPrice(util.SafeAtoi(util.FirstNumber(raw)))
	}
	if raw := firstMatch(doc, sel.Rating); raw != "" {
		rec.FillString(&rec.Rating, util.FirstNumber(raw))
	}
	if raw := firstMatch(doc, sel.ReviewCount); raw != "" {
		rec.FillString(&rec.ReviewCount, util.FirstNumber(raw))
	}
	if raw := firstAttr(doc, sel.Image); raw != "" {
		rec.FillString(&rec.ImageURL, raw)
	}
}

// firstMatch returns the first non-empty text for an ordered selector list.
// Meta tags yield their content attribute instead of text.
func firstMatch(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		node := doc.Find(s).First()
		if node.Length() == 0 {
			continue
		}
		if strings.HasPrefix(s, "meta") {
			if content, ok := node.Attr("content"); ok && strings.TrimSpace(content) != "" {
				return strings.TrimSpace(content)
			}
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr resolves image selectors, preferring src then content.
func firstAttr(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		node := doc.Find(s).First()
		if node.Length() == 0 {
			continue
		}
		for _, attr := range []string{"src", "content", "data-src"} {
			if v, ok := node.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

var slugSkipSegments = map[string]struct{}{
	"dp": {}, "p": {}, "product": {}, "products": {}, "gp": {}, "buy": {},
	"item": {}, "itm": {}, "s": {}, "pd": {},
}

// slugTitle derives a human title from the URL path, picking the longest
// hyphenated segment. Used when the page itself gave no usable title.
func slugTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	var best string
	for _, seg := range strings.Split(parsed.Path, "/") {
		if _, skip := slugSkipSegments[strings.ToLower(seg)]; skip {
			continue
		}
		if strings.Count(seg, "-") >= 2 && len(seg) > len(best) {
			best = seg
		}
	}
	if best == "" {
		return ""
	}

	words := strings.FieldsFunc(best, func(r rune) bool { return r == '-' || r == '_' })
	var kept []string
	for _, w := range words {
		// Product IDs and size tokens in slugs are noise, keep real words.
		if len(w) < 2 || util.FirstNumber(w) == w {
			continue
		}
		kept = append(kept, strings.ToUpper(w[:1])+strings.ToLower(w[1:]))
	}
	return textnorm.Clean(strings.Join(kept, " "))
}

var (
	rawPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`₹\s*([\d,]+)`),
		regexp.MustCompile(`(?i)rs\.?\s*([\d,]+)`),
		regexp.MustCompile(`"price"\s*:\s*"?([\d][\d,.]*)`),
	}
	deliveryRegex = regexp.MustCompile(`(?i)(free delivery|delivery by [A-Za-z0-9 ,]{3,40}|get it by [A-Za-z0-9 ,]{3,40})`)
	stockPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcurrently unavailable\b`),
		regexp.MustCompile(`(?i)\bout of stock\b`),
		regexp.MustCompile(`(?i)\bsold out\b`),
		regexp.MustCompile(`(?i)\bonly \d+ left\b`),
		regexp.MustCompile(`(?i)\bin stock\b`),
	}
	colorRegex = regexp.MustCompile(`(?i)\b(black|white|red|blue|green|yellow|pink|purple|orange|brown|grey|gray|beige|maroon|navy|olive|teal|gold|silver|cream)\b`)
)

// extractFromRawMarkup is the last-resort pass over the unparsed page text.
func extractFromRawMarkup(rec *models.ProductRecord, body []byte) {
	text := string(body)

	for _, re := range rawPricePatterns {
		if rec.Price != 0 {
			break
		}
		if m := re.FindStringSubmatch(text); m != nil {
			rec.FillPrice(util.SafeAtoi(util.FirstNumber(m[1])))
		}
	}

	if m := deliveryRegex.FindString(text); m != "" {
		rec.FillString(&rec.DeliveryInfo, util.CollapseWhitespace(m))
	}
	for _, re := range stockPatterns {
		if m := re.FindString(text); m != "" {
			rec.FillString(&rec.StockStatus, strings.ToLower(m))
			break
		}
	}

	for _, m := range colorRegex.FindAllString(text, -1) {
		rec.AddColor(m)
	}
}

// deriveFromTitle backfills brand, gender, and quantity from the final
// title when the message text did not supply them.
func deriveFromTitle(rec *models.ProductRecord) {
	if rec.Title == "" {
		return
	}
	rec.FillString(&rec.Brand, manual.ExtractBrand(rec.Title))
	rec.FillString(&rec.Gender, manual.ExtractGender(rec.Title))
	rec.FillString(&rec.Quantity, manual.ExtractQuantity(rec.Title))
}
