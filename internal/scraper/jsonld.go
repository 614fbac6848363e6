package scraper

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// jsonLDProduct is the subset of schema.org Product metadata the pipeline
// cares about. Fields that sites emit inconsistently (brand as a string or
// an object, offers as one object or an array) use loose types.
type jsonLDProduct struct {
	Type            json.RawMessage        `json:"@type"`
	Name            string                 `json:"name"`
	Brand           json.RawMessage        `json:"brand"`
	Image           json.RawMessage        `json:"image"`
	Offers          json.RawMessage        `json:"offers"`
	AggregateRating *jsonLDAggregateRating `json:"aggregateRating"`
	Graph           []jsonLDProduct        `json:"@graph"`
}

type jsonLDOffer struct {
	Price     json.Number `json:"price"`
	LowPrice  json.Number `json:"lowPrice"`
	HighPrice json.Number `json:"highPrice"`
}

type jsonLDAggregateRating struct {
	RatingValue json.Number `json:"ratingValue"`
	ReviewCount json.Number `json:"reviewCount"`
	RatingCount json.Number `json:"ratingCount"`
}

// structuredProduct is the normalized result of one JSON-LD block.
type structuredProduct struct {
	Title         string
	Brand         string
	Price         int
	OriginalPrice int
	Rating        string
	ReviewCount   string
	ImageURL      string
}

// extractStructuredData walks the page for application/ld+json scripts and
// returns the first block describing a Product.
func extractStructuredData(body []byte) (structuredProduct, bool) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return structuredProduct{}, false
	}

	var found structuredProduct
	var ok bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if ok {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, attr := range n.Attr {
				if attr.Key == "type" && attr.Val == "application/ld+json" && n.FirstChild != nil {
					if p, parsed := parseProductBlock(n.FirstChild.Data); parsed {
						found, ok = p, true
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found, ok
}

func parseProductBlock(data string) (structuredProduct, bool) {
	data = strings.TrimSpace(data)

	var item jsonLDProduct
	if err := json.Unmarshal([]byte(data), &item); err == nil {
		if p, ok := productFromItem(item); ok {
			return p, true
		}
		for _, g := range item.Graph {
			if p, ok := productFromItem(g); ok {
				return p, true
			}
		}
	}

	var items []jsonLDProduct
	if err := json.Unmarshal([]byte(data), &items); err == nil {
		for _, it := range items {
			if p, ok := productFromItem(it); ok {
				return p, true
			}
		}
	}

	return structuredProduct{}, false
}

func productFromItem(item jsonLDProduct) (structuredProduct, bool) {
	if !typeIs(item.Type, "Product") || item.Name == "" {
		return structuredProduct{}, false
	}

	p := structuredProduct{
		Title: strings.TrimSpace(item.Name),
		Brand: stringOrName(item.Brand),
	}

	if offer, ok := firstOffer(item.Offers); ok {
		p.Price = numberToPrice(offer.Price)
		if p.Price == 0 {
			p.Price = numberToPrice(offer.LowPrice)
		}
		p.OriginalPrice = numberToPrice(offer.HighPrice)
	}

	if r := item.AggregateRating; r != nil {
		p.Rating = r.RatingValue.String()
		p.ReviewCount = r.ReviewCount.String()
		if p.ReviewCount == "" {
			p.ReviewCount = r.RatingCount.String()
		}
	}

	if img := firstImage(item.Image); img != "" {
		p.ImageURL = img
	}

	return p, true
}

// typeIs matches @type whether it is a string or an array of strings.
func typeIs(raw json.RawMessage, want string) bool {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s == want
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		for _, t := range list {
			if t == want {
				return true
			}
		}
	}
	return false
}

// stringOrName handles values emitted either as "Nike" or {"name": "Nike"}.
func stringOrName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}

func firstOffer(raw json.RawMessage) (jsonLDOffer, bool) {
	if len(raw) == 0 {
		return jsonLDOffer{}, false
	}
	var offer jsonLDOffer
	if json.Unmarshal(raw, &offer) == nil && (offer.Price != "" || offer.LowPrice != "") {
		return offer, true
	}
	var offers []jsonLDOffer
	if json.Unmarshal(raw, &offers) == nil && len(offers) > 0 {
		return offers[0], true
	}
	return jsonLDOffer{}, false
}

func firstImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// numberToPrice truncates a JSON number to whole rupees. Bounds checking
// happens when the value is filled into the record.
func numberToPrice(n json.Number) int {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int(f)
}
