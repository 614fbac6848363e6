// Package format assembles the outbound deal text from a ProductRecord.
// Formatting is deterministic: the same record and URL always produce
// byte-identical output.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/reviewcheckk/dealbot/internal/manual"
	"github.com/reviewcheckk/dealbot/internal/models"
	"github.com/reviewcheckk/dealbot/internal/util"
)

// MaxDealLen is the hard ceiling on one outbound message.
const MaxDealLen = 4096

const maxShownColors = 3

// Formatter carries the channel-level constants every deal shares.
type Formatter struct {
	Signature  string
	DefaultPin string
}

func New(signature, defaultPin string) *Formatter {
	return &Formatter{Signature: signature, DefaultPin: defaultPin}
}

// Deal renders one record into the final multi-line message.
func (f *Formatter) Deal(rec *models.ProductRecord, canonicalURL string) string {
	var b strings.Builder

	b.WriteString(headline(rec))

	if rec.Rating != "" {
		b.WriteString("\n⭐ " + rec.Rating)
		if rec.ReviewCount != "" {
			b.WriteString(" | " + rec.ReviewCount + " ratings")
		}
	}

	if stock := stockLine(rec); stock != "" {
		b.WriteString("\n" + stock)
	}

	if len(rec.Colors) > 0 {
		b.WriteString("\nColors: " + colorList(rec.Colors))
	}

	b.WriteString("\n\n" + canonicalURL + "\n")

	if rec.Platform == models.PlatformMeesho {
		b.WriteString("\nSize - " + sizeList(rec.Sizes))
		pin := rec.Pin
		if pin == "" {
			pin = f.DefaultPin
		}
		b.WriteString("\nPin - " + pin)
	}

	b.WriteString("\n🛒 " + rec.Platform.Label())

	if badge := discountBadge(rec.DiscountPercent); badge != "" {
		b.WriteString("\n" + badge)
	}

	b.WriteString("\n\n" + f.Signature)

	return truncate(b.String(), MaxDealLen)
}

// headline is the first line: brand and gender once, title with their
// tokens stripped, then the price clause.
func headline(rec *models.ProductRecord) string {
	title := rec.Title

	var parts []string
	if rec.Brand != "" {
		parts = append(parts, rec.Brand)
		title = stripToken(title, rec.Brand)
	}
	if rec.Gender != "" {
		parts = append(parts, rec.Gender)
		title = manual.StripGenderTokens(title, rec.Gender)
	}
	if title = util.CollapseWhitespace(title); title != "" {
		parts = append(parts, title)
	}
	if price := priceClause(rec); price != "" {
		parts = append(parts, price)
	}
	return strings.Join(parts, " ")
}

func priceClause(rec *models.ProductRecord) string {
	if rec.Price == 0 {
		return ""
	}
	if rec.OriginalPrice > rec.Price && rec.DiscountPercent > 0 {
		return fmt.Sprintf("@%d rs (MRP %d, %d%% off)", rec.Price, rec.OriginalPrice, rec.DiscountPercent)
	}
	if rec.PriceFrom {
		return fmt.Sprintf("from @%d rs", rec.Price)
	}
	return fmt.Sprintf("@%d rs", rec.Price)
}

func stockLine(rec *models.ProductRecord) string {
	if rec.StockStatus == "" && rec.DeliveryInfo == "" {
		return ""
	}

	var line string
	switch {
	case rec.StockStatus == "":
		line = "✅"
	case strings.Contains(rec.StockStatus, "unavailable"),
		strings.Contains(rec.StockStatus, "out of stock"),
		strings.Contains(rec.StockStatus, "sold out"):
		line = "❌ " + rec.StockStatus
	case strings.Contains(rec.StockStatus, "left"):
		line = "⚠️ " + rec.StockStatus
	default:
		line = "✅ " + rec.StockStatus
	}
	if rec.DeliveryInfo != "" {
		line += " | " + rec.DeliveryInfo
	}
	return line
}

func colorList(colors []string) string {
	if len(colors) <= maxShownColors {
		return strings.Join(colors, ", ")
	}
	return fmt.Sprintf("%s +%d more",
		strings.Join(colors[:maxShownColors], ", "), len(colors)-maxShownColors)
}

// sizeList shows explicit sizes when a meaningful subset is known, and
// "All" when none were found or the product seems to come in everything.
func sizeList(sizes []string) string {
	if len(sizes) == 0 || len(sizes) >= 5 {
		return "All"
	}
	for _, s := range sizes {
		if strings.EqualFold(s, "all") {
			return "All"
		}
	}
	return strings.Join(sizes, ",")
}

func discountBadge(discount int) string {
	switch {
	case discount >= 50:
		return fmt.Sprintf("🔥🔥 %d%% OFF", discount)
	case discount >= 30:
		return fmt.Sprintf("🔥 %d%% OFF", discount)
	case discount >= 15:
		return fmt.Sprintf("💰 %d%% OFF", discount)
	default:
		return ""
	}
}

// stripToken removes standalone occurrences of token from text,
// case-insensitively.
func stripToken(text, token string) string {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	if err != nil {
		return text
	}
	return strings.TrimSpace(re.ReplaceAllString(text, " "))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := limit - 3
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	cut := s[:n]
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
