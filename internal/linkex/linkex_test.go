package linkex

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Plain https URL",
			input: "Check this https://www.amazon.in/dp/B0TEST1234 out",
			want:  []string{"https://www.amazon.in/dp/B0TEST1234"},
		},
		{
			name:  "Trailing punctuation stripped",
			input: "Deal: https://meesho.com/p/abc123xyz!",
			want:  []string{"https://meesho.com/p/abc123xyz"},
		},
		{
			name:  "www without scheme",
			input: "see www.flipkart.com/p/itm123456",
			want:  []string{"https://www.flipkart.com/p/itm123456"},
		},
		{
			name:  "Bare marketplace domain",
			input: "on meesho.com/s/p/4kdnp today",
			want:  []string{"https://meesho.com/s/p/4kdnp"},
		},
		{
			name:  "Bare shortener",
			input: "grab amzn.to/3xYz12Q fast",
			want:  []string{"https://amzn.to/3xYz12Q"},
		},
		{
			name:  "Duplicates collapsed, order preserved",
			input: "https://amzn.to/abc123 again https://amzn.to/abc123 then https://bit.ly/xyz789",
			want:  []string{"https://amzn.to/abc123", "https://bit.ly/xyz789"},
		},
		{
			name:  "Full URL not re-counted as bare domain",
			input: "https://www.amazon.in/dp/B0TEST1234?tag=x",
			want:  []string{"https://www.amazon.in/dp/B0TEST1234?tag=x"},
		},
		{
			name:  "Too-short candidate dropped",
			input: "go to t.co now",
			want:  nil,
		},
		{
			name:  "No links",
			input: "Nike shoes at 1299 rs, size L",
			want:  nil,
		},
		{
			name:  "Empty text",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsShortener(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://amzn.to/3xYz", true},
		{"https://fkrt.cc/abc", true},
		{"https://cutt.ly/abc", true},
		{"https://www.amazon.in/dp/B0TEST1234", false},
		{"https://meesho.com/p/x", false},
		{"::not a url::", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsShortener(tt.url); got != tt.want {
				t.Errorf("IsShortener(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
