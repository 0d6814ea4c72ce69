package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestListBranchesDecodesResponse(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/branches" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 200,
			"success": true,
			"data": {
				"branches": [
					{"id": 1, "name": "District 1", "address": "12 Le Loi", "phone_number": "0283 000 111"},
					{"id": 2, "name": "Thu Duc", "address": "45 Vo Van Ngan"}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewCatalogService(server.URL, 5*time.Second)
	branches, err := client.ListBranches(context.Background(), "secret-token")
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}
	if branches[0].Name != "District 1" || branches[0].PhoneNumber != "0283 000 111" {
		t.Fatalf("unexpected branch: %+v", branches[0])
	}
}

func TestGetProductDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products/3" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"product": {"id": 3, "name": "Whey Protein", "price": 1190000, "unit": "box"}
			}
		}`))
	}))
	defer server.Close()

	client := NewCatalogService(server.URL, 5*time.Second)
	product, err := client.GetProduct(context.Background(), "secret-token", 3)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}

	if product == nil || product.Name != "Whey Protein" || product.Price != 1190000 {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestGetProductMissingIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	client := NewCatalogService(server.URL, 5*time.Second)
	product, err := client.GetProduct(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil product, got %+v", product)
	}
}

func TestCatalogErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewCatalogService(server.URL, 5*time.Second)
	_, err := client.ListBranches(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if !strings.Contains(err.Error(), "status 502") || !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCatalogTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	client := NewCatalogService(server.URL, 50*time.Millisecond)
	if _, err := client.ListBranches(context.Background(), ""); err == nil {
		t.Fatal("expected timeout error")
	}
}
