package scraper

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

// headerProfile is a browser identity with a matching user agent and
// header set. Each fetch attempt uses a different profile.
type headerProfile struct {
	UserAgent string
	Headers   map[string]string
}

func defaultProfiles() []headerProfile {
	return []headerProfile{
		// Chrome on Windows
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Headers: map[string]string{
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
				"Accept-Language": "en-IN,en;q=0.9",
				"Accept-Encoding": "gzip, br",
				"Sec-Fetch-Dest":  "document",
				"Sec-Fetch-Mode":  "navigate",
				"Sec-Fetch-Site":  "none",
			},
		},
		// Firefox on Linux
		{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0",
			Headers: map[string]string{
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "en-IN,en;q=0.5",
				"Accept-Encoding": "gzip, br",
				"DNT":             "1",
			},
		},
	}
}

// readBody reads and decompresses an HTTP response body.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	return io.ReadAll(io.LimitReader(reader, maxBodyBytes))
}
