package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/taskforge/taskforge/internal/models"
)

const TaskIndex = "tasks"

// IndexTask upserts a task document. Failures are the caller's to log;
// indexing is best effort and never blocks the write path.
func IndexTask(ctx context.Context, es *elasticsearch.Client, task *models.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("index task: %w", err)
	}

	res, err := es.Index(
		TaskIndex,
		bytes.NewReader(data),
		es.Index.WithDocumentID(task.ID),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index task: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index task: %s", res.Status())
	}
	return nil
}

func DeleteTask(ctx context.Context, es *elasticsearch.Client, id string) error {
	res, err := es.Delete(TaskIndex, id, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete task document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete task document: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy full-text query over the caller's own tasks.
func Search(ctx context.Context, es *elasticsearch.Client, userID, query string, from, size int) (int64, []models.Task, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(TaskIndex),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Task `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	tasks := make([]models.Task, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		tasks[i] = hit.Source
	}
	return r.Hits.Total.Value, tasks, nil
}
