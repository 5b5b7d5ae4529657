package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/sweetshop/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestBasicRouting(t *testing.T) {
	r := router.New()
	r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong")) //nolint:errcheck
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGroupPrefix(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/sweets", "sweets.list", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sweets")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("grouped route status = %d, want 200", resp.StatusCode)
	}
}

func TestNestedGroupMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	outer := r.Group("/api", mw("outer"))
	inner := outer.Group("", mw("inner"))
	inner.Get("/x", "x", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/x")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v, want [outer inner]", order)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)
	api := r.Group("/api")
	api.Delete("/sweets/{id}", "sweets.delete", ok)

	infos := r.Routes()
	if len(infos) != 3 {
		t.Fatalf("got %d routes, want 3", len(infos))
	}

	found := false
	for _, ri := range infos {
		if ri.Name == "sweets.delete" {
			found = true
			if ri.Method != http.MethodDelete {
				t.Errorf("method = %s, want DELETE", ri.Method)
			}
			if ri.Path != "/api/sweets/{id}" {
				t.Errorf("path = %s, want /api/sweets/{id}", ri.Path)
			}
		}
	}
	if !found {
		t.Error("named route sweets.delete not listed")
	}
}

func TestURLGeneration(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/sweets/{id}", "sweets.show", ok)

	url, err := r.URL("sweets.show", map[string]string{"id": "7"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/api/sweets/7" {
		t.Errorf("url = %q, want /api/sweets/7", url)
	}

	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}

func TestMethodMismatch(t *testing.T) {
	r := router.New()
	r.Post("/only-post", "op", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/only-post")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
