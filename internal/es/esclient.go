package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/eshop-dev/eshop-api/internal/config"
	"github.com/eshop-dev/eshop-api/internal/models"
)

const ProductIndex = "products"

// NewClient connects to Elasticsearch when ES_URL is configured. It returns
// nil when search should run against the relational store instead.
func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	if cfg.ESUrl == "" {
		return nil, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ESUrl},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es error response: %s", body)
	}

	log.Printf("connected to Elasticsearch at %s", cfg.ESUrl)
	return client, nil
}

// IndexProduct upserts a catalog document keyed by the product id.
func IndexProduct(ctx context.Context, client *elasticsearch.Client, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := client.Index(
		ProductIndex,
		bytes.NewReader(data),
		client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// DeleteProduct removes a catalog document; missing documents are not errors.
func DeleteProduct(ctx context.Context, client *elasticsearch.Client, id uint) error {
	res, err := client.Delete(
		ProductIndex,
		strconv.FormatUint(uint64(id), 10),
		client.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// SearchProducts runs a fuzzy multi-match over name and description.
func SearchProducts(ctx context.Context, client *elasticsearch.Client, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(ProductIndex),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es search: %s", res.Status())
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
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
