package scraper

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reviewcheckk/dealbot/internal/models"
)

// SelectorConfig maps each platform to its ordered selector lists. For every
// field the first selector yielding a usable value wins.
type SelectorConfig struct {
	Platforms map[string]FieldSelectors `json:"platforms"`
}

type FieldSelectors struct {
	Title         []string `json:"title"`
	Price         []string `json:"price"`
	OriginalPrice []string `json:"original_price"`
	Rating        []string `json:"rating"`
	ReviewCount   []string `json:"review_count"`
	Image         []string `json:"image"`
}

// For returns the selector lists for a platform, falling back to the
// generic entry when the platform has no table of its own.
func (c SelectorConfig) For(p models.Platform) FieldSelectors {
	if sel, ok := c.Platforms[string(p)]; ok {
		return sel
	}
	return c.Platforms[string(models.PlatformGeneric)]
}

// LoadSelectors loads the selector configuration from the specified JSON file.
func LoadSelectors(path string) (SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to read selector config file: %w", err)
	}

	return LoadSelectorsFromBytes(data)
}

// LoadSelectorsFromBytes parses selector configuration from raw JSON bytes.
// This supports loading from embedded data via go:embed.
func LoadSelectorsFromBytes(data []byte) (SelectorConfig, error) {
	var config SelectorConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to parse selector config JSON: %w", err)
	}
	if len(config.Platforms) == 0 {
		return SelectorConfig{}, fmt.Errorf("selector config has no platform entries")
	}

	return config, nil
}

// DefaultSelectors returns the fallback configuration if no JSON file is
// loaded. The embedded selectors.json should be preferred.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		Platforms: map[string]FieldSelectors{
			"amazon": {
				Title:         []string{"#productTitle", "h1#title", "span#productTitle"},
				Price:         []string{".a-price-whole", "#priceblock_dealprice", "#priceblock_ourprice", ".a-price .a-offscreen"},
				OriginalPrice: []string{".a-text-price .a-offscreen", "#priceblock_listprice", ".basisPrice .a-offscreen"},
				Rating:        []string{"#acrPopover .a-icon-alt", "span.a-icon-alt"},
				ReviewCount:   []string{"#acrCustomerReviewText"},
				Image:         []string{"#landingImage", "#imgBlkFront"},
			},
			"flipkart": {
				Title:         []string{"span.B_NuCI", "span.VU-ZEz", "h1.yhB1nd"},
				Price:         []string{"div._30jeq3._16Jk6d", "div._30jeq3", "div.Nx9bqj.CxhGGd", "div.Nx9bqj"},
				OriginalPrice: []string{"div._3I9_wc._2p6lqe", "div._3I9_wc", "div.yRaY8j"},
				Rating:        []string{"div._3LWZlK", "div.XQDdHH"},
				ReviewCount:   []string{"span._2_R_DZ", "span.Wphh3N"},
				Image:         []string{"img._396cs4", "img._53J4C-", "img.DByuf4"},
			},
			"meesho": {
				Title:         []string{"span[class*='Text__StyledText'][class*='fhfLdV']", "h1"},
				Price:         []string{"h4[class*='Text__StyledText']", "h5[class*='Text__StyledText']"},
				OriginalPrice: []string{"p[class*='StrikedPrice']", "span[class*='StrikedPrice']"},
				Rating:        []string{"span[class*='Rating__StyledPill']"},
				Image:         []string{"img[class*='ProductImage']"},
			},
			"myntra": {
				Title:         []string{"h1.pdp-title", "h1.pdp-name"},
				Price:         []string{"span.pdp-price strong", "span.pdp-price"},
				OriginalPrice: []string{"span.pdp-mrp s", "span.pdp-mrp"},
				Rating:        []string{"div.index-overallRating div"},
				Image:         []string{"div.image-grid-image"},
			},
			"ajio": {
				Title:         []string{"h1.prod-name", "div.prod-name"},
				Price:         []string{"div.prod-sp", "span.prod-sp"},
				OriginalPrice: []string{"span.prod-cp", "div.prod-cp"},
				Image:         []string{"img.rilrtl-lazy-img"},
			},
			"snapdeal": {
				Title:         []string{"h1.pdp-e-i-head", "h1[itemprop='name']"},
				Price:         []string{"span.payBlkBig", "span.pdp-final-price"},
				OriginalPrice: []string{"span.pdpCutPrice"},
				Rating:        []string{"span.avrg-rating"},
				Image:         []string{"img.cloudzoom"},
			},
			"generic": {
				Title:         []string{"meta[property='og:title']", "h1", "title"},
				Price:         []string{"meta[property='product:price:amount']", "meta[property='og:price:amount']", "[itemprop='price']"},
				OriginalPrice: []string{"[itemprop='highPrice']", "del", "s.strike"},
				Image:         []string{"meta[property='og:image']", "[itemprop='image']"},
			},
		},
	}
}
