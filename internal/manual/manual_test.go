package manual

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     int
		wantFrom bool
	}{
		{"rupee symbol", "Kurta set ₹499 only", 499, false},
		{"rs prefix", "Shoes Rs. 1,299", 1299, false},
		{"rs suffix", "Grab at 350 rs today", 350, false},
		{"price label", "Price: 799", 799, false},
		{"at rs phrasing", "Combo @249 rs", 249, false},
		{"from keyword", "Sarees from ₹299", 299, true},
		{"multiple prices pick min", "Tops ₹499 ₹299 ₹799", 299, true},
		{"below floor rejected", "Sticker ₹5", 0, false},
		{"above ceiling rejected", "Villa Rs 20,00,000", 0, false},
		{"no price", "Beautiful cotton kurta", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, from := extractPrice(tt.text)
			if got != tt.want || from != tt.wantFrom {
				t.Errorf("extractPrice(%q) = (%d, %v), want (%d, %v)",
					tt.text, got, from, tt.want, tt.wantFrom)
			}
		})
	}
}

func TestExtractPin(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain pin", "Deliverable to 560001", "560001"},
		{"leading zero skipped", "Pin 012345 then 400001", "400001"},
		{"repeated digits skipped", "111111 999999 700032", "700032"},
		{"sequence skipped", "123456 is not a pin, 122001 is", "122001"},
		{"no pin", "No delivery info here", ""},
		{"embedded in longer number skipped", "Order 98765432101", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractPin(tt.text); got != tt.want {
				t.Errorf("extractPin(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractBrand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"single word", "NIKE running shoes", "Nike"},
		{"two words", "global desi printed dress", "Global Desi"},
		{"no brand", "printed cotton dress", ""},
		{"brand inside word ignored", "dynamike toys", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBrand(tt.text); got != tt.want {
				t.Errorf("ExtractBrand(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractGender(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"men", "Men's slim fit jeans", "Men"},
		{"women", "Kurta for women", "Women"},
		{"kids", "Toys for kids", "Kids"},
		{"women does not trip men", "Women ethnic wear", "Women"},
		{"men beats kids on tie", "Shoes for men and kids", "Men"},
		{"none", "Steel water bottle", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractGender(tt.text); got != tt.want {
				t.Errorf("ExtractGender(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"pack of", "Pack of 3 socks", "Pack of 3"},
		{"set of", "set of 6 bowls", "Set of 6"},
		{"pcs", "12 pcs hangers", "12 Pcs"},
		{"pairs", "2 pairs combo", "2 Pairs"},
		{"weight", "Almonds 500 g", "500g"},
		{"volume", "Shampoo 650ml", "650ml"},
		{"n in 1", "5 in 1 styler", "5 in 1"},
		{"none", "Cotton bedsheet", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractQuantity(tt.text); got != tt.want {
				t.Errorf("ExtractQuantity(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractSizes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"size line", "Kurti Size - S, M, L", []string{"S", "M", "L"}},
		{"size line all", "Size - All", []string{"All"}},
		{"bare tokens deduped", "Available in M and XL, more M soon", []string{"M", "XL"}},
		{"stock fallback", "Stock: XXL", []string{"XXL"}},
		{"none", "One size fits most", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSizes(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractSizes(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseTitle(t *testing.T) {
	info := Parse("Libas Women Kurta Set ₹499 https://amzn.to/abc123 Pin 560001")
	if info.Title != "Libas Women Kurta Set Pin" {
		t.Errorf("title = %q", info.Title)
	}
	if info.Price != 499 || info.Brand != "Libas" || info.Gender != "Women" || info.Pin != "560001" {
		t.Errorf("unexpected fields: %+v", info)
	}

	long := Parse("Super ultra premium deluxe extraordinarily comfortable oversized cotton blend winter hoodie")
	if len(long.Title) > 60 {
		t.Errorf("title not capped: %d chars", len(long.Title))
	}
}

func TestParseForwardedCaptionTitle(t *testing.T) {
	text := "Libas Women Kurta Set\n" +
		"Beautiful festive collection\n" +
		"Price: ₹499\n" +
		"https://amzn.to/abc123\n" +
		"Forwarded from some other channel with a very long tail"
	info := Parse(text)

	if info.Title != "Libas Women Kurta Set Beautiful festive collection" {
		t.Errorf("title = %q", info.Title)
	}
	if strings.Contains(info.Title, "Forwarded") {
		t.Errorf("title picked up trailing lines: %q", info.Title)
	}
	if info.Price != 499 {
		t.Errorf("price = %d", info.Price)
	}
}

func TestParseTitleCapsOnRuneBoundary(t *testing.T) {
	info := Parse("a" + strings.Repeat("क", 30))
	if !utf8.ValidString(info.Title) {
		t.Errorf("title contains a split rune: %q", info.Title)
	}
	if len(info.Title) > 60 {
		t.Errorf("title not capped: %d bytes", len(info.Title))
	}
}
