package handler_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestHandleHome(t *testing.T) {
	users, signIn := newTestServices(t)
	srv := newTestServer(t, users, signIn)

	for _, path := range []string{"/", "/Home/Index", "/Home/Privacy"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if !strings.Contains(string(body), `href="/Home/SignIn"`) {
			t.Fatalf("%s: expected anonymous navigation", path)
		}
	}
}

func TestHandleHomeNotFound(t *testing.T) {
	users, signIn := newTestServices(t)
	srv := newTestServer(t, users, signIn)

	resp, err := http.Get(srv.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
