package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCustomSearchParamsAndMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "OSI model" || q.Get("num") != "3" || q.Get("cx") != "cx1" || q.Get("key") != "gk" {
			t.Errorf("unexpected query: %v", q)
		}
		_, _ = w.Write([]byte(`{"items":[
			{"title":"OSI Model - GfG","link":"https://www.geeksforgeeks.org/osi-model/","snippet":"The OSI model...","displayLink":"www.geeksforgeeks.org"},
			{"title":"No display","link":"https://example.com/a","snippet":"s"}
		]}`))
	}))
	defer srv.Close()

	cs, err := NewCustomSearch(CustomSearchConfig{APIKey: "gk", CX: "cx1", BaseURL: srv.URL, Retry: noRetry})
	if err != nil {
		t.Fatal(err)
	}
	results, err := cs.SearchWeb(context.Background(), "OSI model", 3)
	if err != nil {
		t.Fatalf("SearchWeb: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].DisplayLink != "www.geeksforgeeks.org" {
		t.Errorf("DisplayLink = %q", results[0].DisplayLink)
	}
	if results[1].DisplayLink != "example.com" {
		t.Errorf("missing displayLink should fall back to URL host, got %q", results[1].DisplayLink)
	}
}

func TestCustomSearchNoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchInformation":{"totalResults":"0"}}`))
	}))
	defer srv.Close()

	cs, _ := NewCustomSearch(CustomSearchConfig{APIKey: "gk", CX: "cx1", BaseURL: srv.URL, Retry: noRetry})
	results, err := cs.SearchWeb(context.Background(), "nothing", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestNewCustomSearchRequiresCredentials(t *testing.T) {
	if _, err := NewCustomSearch(CustomSearchConfig{APIKey: "k"}); err == nil {
		t.Error("expected error without cx")
	}
}

func TestSearxngSearchWeb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Error("format=json missing")
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"TCP/IP","url":"https://developer.mozilla.org/en-US/docs/Glossary/TCP","content":"TCP is..."},
			{"title":"dup","url":"https://developer.mozilla.org/en-US/docs/Glossary/TCP","content":"dup"},
			{"title":"Blog","url":"https://blog.example.net/tcp","content":"x"},
			{"title":"Third","url":"https://arxiv.org/abs/1","content":"y"}
		]}`))
	}))
	defer srv.Close()

	sx, err := NewSearxng(SearxngConfig{BaseURL: srv.URL + "/", Retry: noRetry})
	if err != nil {
		t.Fatal(err)
	}
	results, err := sx.SearchWeb(context.Background(), "TCP/IP networking", 2)
	if err != nil {
		t.Fatalf("SearchWeb: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (dedup + limit), got %d", len(results))
	}
	if results[0].DisplayLink != "developer.mozilla.org" {
		t.Errorf("DisplayLink = %q", results[0].DisplayLink)
	}
	if results[1].Link != "https://blog.example.net/tcp" {
		t.Errorf("second result = %q", results[1].Link)
	}
}
