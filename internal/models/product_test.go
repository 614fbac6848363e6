package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.amazon.in/dp/B0XYZ12345", PlatformAmazon},
		{"https://amzn.to/abc1234", PlatformAmazon},
		{"https://dl.flipkart.com/dl/x", PlatformFlipkart},
		{"https://www.meesho.com/p/x", PlatformMeesho},
		{"https://www.myntra.com/123", PlatformMyntra},
		{"https://www.ajio.com/p/x", PlatformAjio},
		{"https://www.snapdeal.com/product/x", PlatformSnapdeal},
		{"https://example.com/shop", PlatformGeneric},
		{"not a url", PlatformGeneric},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPlatform(tt.url), "url %q", tt.url)
	}
}

func TestPlaceholderTitle(t *testing.T) {
	assert.Equal(t, "Amazon Product", PlatformAmazon.PlaceholderTitle())
	assert.Equal(t, "Meesho Product", PlatformMeesho.PlaceholderTitle())
	assert.Equal(t, "Product Deal", PlatformGeneric.PlaceholderTitle())
}

func TestFillHelpersRespectProvenance(t *testing.T) {
	rec := &ProductRecord{Title: "Manual Title", Price: 499}

	rec.FillTitle("Scraped Title")
	rec.FillPrice(999)
	assert.Equal(t, "Manual Title", rec.Title)
	assert.Equal(t, 499, rec.Price)

	rec.FillString(&rec.Brand, "Nike")
	rec.FillString(&rec.Brand, "Adidas")
	assert.Equal(t, "Nike", rec.Brand)
}

func TestFillPriceRejectsOutOfBounds(t *testing.T) {
	rec := &ProductRecord{}
	rec.FillPrice(5)
	assert.Zero(t, rec.Price)
	rec.FillPrice(2_000_000)
	assert.Zero(t, rec.Price)
	rec.FillPrice(1299)
	assert.Equal(t, 1299, rec.Price)
}

func TestAddSizeAndColorCaps(t *testing.T) {
	rec := &ProductRecord{}
	for _, s := range []string{"xs", "s", "m", "M", "l", "xl", "xxl", "xxxl"} {
		rec.AddSize(s)
	}
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL"}, rec.Sizes)

	for _, c := range []string{"black", "BLACK", "navy", "red", "teal", "gold", "cream"} {
		rec.AddColor(c)
	}
	assert.Len(t, rec.Colors, 5)
	assert.Equal(t, "Black", rec.Colors[0])
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		price    int
		original int
		want     int
	}{
		{"normal", 499, 1299, 61},
		{"no original", 499, 0, 0},
		{"original below price", 499, 400, 0},
		{"equal prices", 499, 499, 0},
		{"tiny gap rounds to zero", 1000, 1001, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ProductRecord{Price: tt.price, OriginalPrice: tt.original}
			rec.ComputeDiscount()
			assert.Equal(t, tt.want, rec.DiscountPercent)
		})
	}
}
