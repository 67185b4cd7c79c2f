package whttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "" {
			w.Write([]byte(r.Header.Get("X-Test")))
			return
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("city,country\n"))
	}))
	defer srv.Close()

	client, err := NewClient(0, "")
	if err != nil {
		t.Fatal(err)
	}

	body, err := Get(context.Background(), srv.URL+"/places.csv", client)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "city,country\n" {
		t.Fatalf("body = %q", body)
	}

	if _, err := Get(context.Background(), srv.URL+"/missing", client); err == nil {
		t.Fatal("expected an error for 404")
	}

	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{
		URL:     srv.URL,
		Headers: []WHTTPHeader{{Name: "X-Test", Value: "echo"}},
	}, client)
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Body) != "echo" || res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected response %d %q", res.StatusCode, res.Body)
	}
}

func TestNewClientRejectsBadProxy(t *testing.T) {
	if _, err := NewClient(1, "://bad"); err == nil {
		t.Fatal("expected error for malformed proxy")
	}
}
