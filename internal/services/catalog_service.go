package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CatalogService talks to the external catalog API for branch and product
// lookups. The API is a black box; only the two reads the auto-reply flow
// needs are wired. The caller's upstream token is passed through untouched.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogService(baseURL string, timeout time.Duration) *CatalogService {
	return &CatalogService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type Branch struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

func (s *CatalogService) ListBranches(ctx context.Context, token string) ([]Branch, error) {
	var response struct {
		Data struct {
			Branches []Branch `json:"branches"`
		} `json:"data"`
	}

	if err := s.get(ctx, s.baseURL+"/api/v1/branches", token, &response); err != nil {
		return nil, err
	}

	return response.Data.Branches, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, token string, productID int64) (*Product, error) {
	var response struct {
		Data struct {
			Product *Product `json:"product"`
		} `json:"data"`
	}

	url := s.baseURL + "/api/v1/products/" + strconv.FormatInt(productID, 10)
	if err := s.get(ctx, url, token, &response); err != nil {
		return nil, err
	}

	return response.Data.Product, nil
}

func (s *CatalogService) get(ctx context.Context, url, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("catalog request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}

	return nil
}
