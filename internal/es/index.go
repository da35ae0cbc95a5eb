package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/online_catalog/internal/transport"
)

// ProductIndex mirrors product views into one Elasticsearch index.
type ProductIndex struct {
	Client *elasticsearch.Client
	Name   string
}

const productMapping = `{
  "mappings": {
    "properties": {
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "slug":        {"type": "keyword"},
      "price":       {"type": "double"},
      "enabled":     {"type": "boolean"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.Client.Indices.Exists([]string{x.Name}, x.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.Client.Indices.Create(x.Name,
		x.Client.Indices.Create.WithContext(ctx),
		x.Client.Indices.Create.WithBody(bytes.NewReader([]byte(productMapping))),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	return responseError(res, "create index")
}

func (x *ProductIndex) IndexProduct(ctx context.Context, v transport.ProductView) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("es: encode product: %w", err)
	}

	res, err := x.Client.Index(x.Name, bytes.NewReader(body),
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(strconv.FormatUint(uint64(v.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index product %d: %w", v.ID, err)
	}
	return responseError(res, "index product")
}

func (x *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(x.Name, strconv.FormatUint(uint64(id), 10), x.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete product %d: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return responseError(res, "delete product")
}

// SearchProducts runs a fuzzy multi_match over name and description.
func (x *ProductIndex) SearchProducts(ctx context.Context, query string, from, size int) (int64, []transport.ProductView, error) {
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
		"sort": []any{"_score", map[string]any{"id": "asc"}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Name),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("es: search returned %s: %s", res.Status(), msg)
	}

	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) (int64, []transport.ProductView, error) {
	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source transport.ProductView `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("es: decode hits: %w", err)
	}

	views := make([]transport.ProductView, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		views = append(views, h.Source)
	}
	return out.Hits.Total.Value, views, nil
}

func responseError(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s returned %s: %s", op, res.Status(), msg)
	}
	return nil
}
