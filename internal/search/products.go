package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

type ProductIndex struct {
	Client *elasticsearch.Client
	Name   string
}

func (ix *ProductIndex) Put(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	res, err := ix.Client.Index(
		ix.Name,
		&buf,
		ix.Client.Index.WithContext(ctx),
		ix.Client.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("index product", res.Status(), res.Body)
	}
	return nil
}

// Remove is a no-op for documents the index never had.
func (ix *ProductIndex) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := ix.Client.Delete(ix.Name, id.String(), ix.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("remove product", res.Status(), res.Body)
	}
	return nil
}

func (ix *ProductIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "tagline", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := ix.Client.Search(
		ix.Client.Search.WithContext(ctx),
		ix.Client.Search.WithIndex(ix.Name),
		ix.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("%s: %s: %s", op, status, bytes.TrimSpace(b))
}
