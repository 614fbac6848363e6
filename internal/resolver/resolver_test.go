package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestResolve_NonShortenerPassthrough(t *testing.T) {
	r := New()
	in := "https://www.amazon.in/dp/B0TEST1234"
	if got := r.Resolve(context.Background(), in); got != in {
		t.Errorf("Resolve() = %q, want passthrough %q", got, in)
	}
}

func TestResolve_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/product/very-long-canonical-path-9321", http.StatusFound)
	})
	mux.HandleFunc("/product/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := New()
	// The resolver only treats shortener hosts specially; exercise the
	// redirect-following core directly.
	final, ok := r.follow(context.Background(), http.MethodHead, srv.URL+"/short", r.headClient)
	if !ok {
		t.Fatal("follow() rejected a valid redirect")
	}
	if !strings.HasSuffix(final, "/product/very-long-canonical-path-9321") {
		t.Errorf("follow() = %q, want redirect target", final)
	}
}

func TestFollow_RejectsShorterFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/este-es-un-camino-largo", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/e", http.StatusFound)
	})
	mux.HandleFunc("/e", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := New()
	_, ok := r.follow(context.Background(), http.MethodGet, srv.URL+"/este-es-un-camino-largo", r.getClient)
	if ok {
		t.Error("follow() should reject a final URL shorter than the input")
	}
}

func TestFollow_RejectsNoRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New()
	_, ok := r.follow(context.Background(), http.MethodHead, srv.URL+"/same", r.headClient)
	if ok {
		t.Error("follow() should reject when the final URL equals the input")
	}
}

func TestResolve_DeadShortenerReturnsOriginal(t *testing.T) {
	// Unroutable address: every attempt fails, original URL comes back.
	r := New()
	r.headClient = &http.Client{Timeout: 50 * time.Millisecond, Transport: failingTransport{}}
	r.getClient = r.headClient

	in := "https://amzn.to/dead1234"
	if got := r.resolve(context.Background(), in); got != in {
		t.Errorf("resolve() = %q, want original %q", got, in)
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: context.DeadlineExceeded}
}
