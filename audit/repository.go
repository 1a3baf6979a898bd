// audit/repository.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultIndex = "permy-decisions"

type Repository interface {
	LogDecision(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceKey string) ([]AuditLog, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	return NewElasticsearchRepositoryWithConfig(elasticsearch.Config{
		Addresses: []string{esURL},
	})
}

func NewElasticsearchRepositoryWithConfig(cfg elasticsearch.Config) (*ElasticsearchRepository, error) {
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient, index: defaultIndex}, nil
}

// LogDecision indexes the decision under its ID.
func (r *ElasticsearchRepository) LogDecision(ctx context.Context, log AuditLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: log.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source AuditLog `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// QueryLogs searches decisions within a time frame, optionally filtered by
// subject and resource key.
func (r *ElasticsearchRepository) QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceKey string) ([]AuditLog, error) {
	must := []map[string]any{{
		"range": map[string]any{
			"timestamp": map[string]any{
				"gte": from.Format(time.RFC3339),
				"lte": to.Format(time.RFC3339),
			},
		},
	}}
	if subjectID != "" {
		must = append(must, map[string]any{"term": map[string]any{"subject_id": subjectID}})
	}
	if resourceKey != "" {
		must = append(must, map[string]any{"term": map[string]any{"resources.resource_key": resourceKey}})
	}

	var buf bytes.Buffer
	query := map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"sort":  []map[string]any{{"timestamp": "asc"}},
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.index),
		r.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	logs := make([]AuditLog, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		logs = append(logs, hit.Source)
	}
	return logs, nil
}

// NopRepository drops every entry; used when no Elasticsearch is configured.
type NopRepository struct{}

func (NopRepository) LogDecision(context.Context, AuditLog) error { return nil }

func (NopRepository) QueryLogs(context.Context, time.Time, time.Time, string, string) ([]AuditLog, error) {
	return nil, nil
}
