package covidapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientFetchDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dataset" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected auth header, got %s", got)
		}
		_, _ = w.Write([]byte(`{"days":[
			{"date":"2020-03-02","values":{"confirmed":5,"deaths":1}},
			{"date":"2020-03-01","values":{"confirmed":3}}
		]}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	data, err := client.Dataset(context.Background())
	if err != nil {
		t.Fatalf("fetch dataset: %v", err)
	}
	if data.Len() != 2 || data.Labels[0] != "2020-03-01" {
		t.Fatalf("expected rows ordered by date, got %v", data.Labels)
	}
	if got := data.Series["confirmed"]; got[0] != 3 || got[1] != 5 {
		t.Fatalf("unexpected confirmed series %v", got)
	}
	if got := data.Series["deaths"]; got[0] != 0 || got[1] != 1 {
		t.Fatalf("expected missing day filled with zero, got %v", got)
	}
}

func TestHTTPClientErrors(t *testing.T) {
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil {
		t.Fatalf("expected base url error")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			http.Error(w, "upstream down", http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"days":[{"date":"yesterday","values":{}}]}`))
		}
	}))
	t.Cleanup(server.Close)

	broken, _ := NewHTTPClient(HTTPConfig{BaseURL: server.URL, Path: "/broken"})
	if _, err := broken.Dataset(context.Background()); err == nil {
		t.Fatalf("expected remote error")
	}
	invalid, _ := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if _, err := invalid.Dataset(context.Background()); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
