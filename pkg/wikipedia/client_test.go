package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("action") {
		case "parse":
			if r.URL.Query().Get("page") == "存在しない" {
				w.Write([]byte(`{"error":{"info":"missing title"}}`))
				return
			}
			w.Write([]byte(`{"parse":{"title":"テスト人物","pageid":42,"text":{"*":"<p>本文。</p>"}}}`))
		case "query":
			w.Write([]byte(`{"query":{"pages":{"42":{"categories":[{"title":"Category:物理学者"},{"title":"Category:1879年生"}]}}}}`))
		default:
			http.Error(w, "unexpected action", http.StatusBadRequest)
		}
	}))
}

func TestClientFetchPage(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	page, err := c.FetchPage(context.Background(), "テスト人物")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if page.PageID != 42 {
		t.Errorf("page id: got %d, want 42", page.PageID)
	}
	if page.HTML != "<p>本文。</p>" {
		t.Errorf("html: got %q", page.HTML)
	}
	want := []string{"Category:物理学者", "Category:1879年生"}
	if !reflect.DeepEqual(page.Categories, want) {
		t.Errorf("categories: got %v, want %v", page.Categories, want)
	}
	if page.FetchedAt.IsZero() {
		t.Error("fetched_at must be set")
	}
}

func TestClientAPIError(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	if _, err := c.FetchPage(context.Background(), "存在しない"); err == nil {
		t.Fatal("expected an error for a missing page")
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	if _, err := c.FetchPage(context.Background(), "テスト人物"); err == nil {
		t.Fatal("expected an error on HTTP 500")
	}
}

func TestClientCanceledContext(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, nil, nil)
	if _, err := c.FetchPage(ctx, "テスト人物"); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}
