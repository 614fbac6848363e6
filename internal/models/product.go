package models

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoData is returned when every extraction strategy came up empty.
var ErrNoData = errors.New("no product data extracted")

// ErrDuplicateMessage is returned when a message was already processed.
var ErrDuplicateMessage = errors.New("message already processed")

// Price bounds for any extracted price, in rupees. Values outside the
// range are treated as misparses and discarded.
const (
	MinPrice = 10
	MaxPrice = 1_000_000
)

// ValidPrice reports whether p is inside the accepted price range.
func ValidPrice(p int) bool {
	return p >= MinPrice && p <= MaxPrice
}

// Platform identifies the marketplace a product URL belongs to.
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
	PlatformMeesho   Platform = "meesho"
	PlatformMyntra   Platform = "myntra"
	PlatformAjio     Platform = "ajio"
	PlatformSnapdeal Platform = "snapdeal"
	PlatformGeneric  Platform = "generic"
)

// platformHosts maps a host substring to its platform. Order matters only
// for readability; substrings are disjoint.
var platformHosts = []struct {
	substr   string
	platform Platform
}{
	{"amazon.", PlatformAmazon},
	{"amzn.", PlatformAmazon},
	{"flipkart.", PlatformFlipkart},
	{"fkrt.", PlatformFlipkart},
	{"meesho.", PlatformMeesho},
	{"myntra.", PlatformMyntra},
	{"ajio.", PlatformAjio},
	{"snapdeal.", PlatformSnapdeal},
}

// DetectPlatform classifies a URL by host substring, defaulting to generic.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformGeneric
	}
	host := strings.ToLower(parsed.Hostname())
	for _, ph := range platformHosts {
		if strings.Contains(host, ph.substr) {
			return ph.platform
		}
	}
	return PlatformGeneric
}

// Label returns the display name used in formatted deals.
func (p Platform) Label() string {
	switch p {
	case PlatformAmazon:
		return "Amazon"
	case PlatformFlipkart:
		return "Flipkart"
	case PlatformMeesho:
		return "Meesho"
	case PlatformMyntra:
		return "Myntra"
	case PlatformAjio:
		return "Ajio"
	case PlatformSnapdeal:
		return "Snapdeal"
	default:
		return "Product"
	}
}

// PlaceholderTitle is the guaranteed fallback title when no strategy
// produced a usable one.
func (p Platform) PlaceholderTitle() string {
	if p == PlatformGeneric {
		return "Product Deal"
	}
	return p.Label() + " Product"
}

// Gender values carried by a ProductRecord.
const (
	GenderMen   = "Men"
	GenderWomen = "Women"
	GenderKids  = "Kids"
)

const (
	maxSizes  = 5
	maxColors = 5
)

// RawMessage is the immutable inbound unit of work.
type RawMessage struct {
	ChatID      int64
	MessageID   int64
	Text        string
	PhotoFileID string
}

// ProductRecord is the normalized product entity assembled by the pipeline.
//
// Provenance rule: fields seeded from the message text (manual info) are set
// before any scraping and are never overwritten; scrape strategies run in
// priority order and only ever fill fields that are still empty. The Fill*
// helpers enforce this.
type ProductRecord struct {
	Title           string   `validate:"omitempty,max=300"`
	Price           int      `validate:"omitempty,gte=10,lte=1000000"`
	PriceFrom       bool
	OriginalPrice   int      `validate:"omitempty,gte=10,lte=1000000"`
	DiscountPercent int      `validate:"gte=0,lte=99"`
	Rating          string   `validate:"omitempty,max=10"`
	ReviewCount     string   `validate:"omitempty,max=20"`
	DeliveryInfo    string   `validate:"omitempty,max=120"`
	StockStatus     string   `validate:"omitempty,max=120"`
	ImageURL        string   `validate:"omitempty,url"`
	Sizes           []string `validate:"max=5"`
	Colors          []string `validate:"max=5"`
	Brand           string
	Gender          string `validate:"omitempty,oneof=Men Women Kids"`
	Quantity        string
	Pin             string `validate:"omitempty,len=6,numeric"`
	Platform        Platform
	Error           string
}

// FillTitle sets the title if none is set yet.
func (r *ProductRecord) FillTitle(t string) {
	if r.Title == "" && t != "" {
		r.Title = t
	}
}

// FillPrice sets the price if none is set yet and p is within bounds.
func (r *ProductRecord) FillPrice(p int) {
	if r.Price == 0 && ValidPrice(p) {
		r.Price = p
	}
}

// FillOriginalPrice sets the strike-through price if none is set yet and p
// is within bounds.
func (r *ProductRecord) FillOriginalPrice(p int) {
	if r.OriginalPrice == 0 && ValidPrice(p) {
		r.OriginalPrice = p
	}
}

// FillString sets *dst to v if *dst is still empty.
func (r *ProductRecord) FillString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// AddSize appends a case-normalized size, deduplicated, capped at 5.
func (r *ProductRecord) AddSize(size string) {
	size = strings.ToUpper(strings.TrimSpace(size))
	if size == "" || len(r.Sizes) >= maxSizes {
		return
	}
	for _, s := range r.Sizes {
		if s == size {
			return
		}
	}
	r.Sizes = append(r.Sizes, size)
}

// AddColor appends a title-cased color, deduplicated, capped at 5.
func (r *ProductRecord) AddColor(color string) {
	color = strings.TrimSpace(color)
	if color == "" || len(r.Colors) >= maxColors {
		return
	}
	color = strings.ToUpper(color[:1]) + strings.ToLower(color[1:])
	for _, c := range r.Colors {
		if c == color {
			return
		}
	}
	r.Colors = append(r.Colors, color)
}

// ComputeDiscount derives the discount percentage. It is never scraped:
// only computed, and only when both prices are known and the result is a
// positive integer.
func (r *ProductRecord) ComputeDiscount() {
	if r.Price == 0 || r.OriginalPrice == 0 || r.OriginalPrice <= r.Price {
		return
	}
	d := (r.OriginalPrice - r.Price) * 100 / r.OriginalPrice
	if d > 0 {
		r.DiscountPercent = d
	}
}

// HasCoreData reports whether at least a title or a price was found.
func (r *ProductRecord) HasCoreData() bool {
	return r.Title != "" || r.Price != 0
}
