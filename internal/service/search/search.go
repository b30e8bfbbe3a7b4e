package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mkotelnikov/elearning_platform/internal/models"
)

// Search runs a fuzzy multi_match over the course index.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Course, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description", "instructor"},
				"fuzziness": "AUTO",
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
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 }            `json:"total"`
			Hits  []struct{ Source models.Course } `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	courses := make([]models.Course, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		courses[i] = hit.Source
	}
	return r.Hits.Total.Value, courses, nil
}

// IndexCourse upserts one course document, keyed by its id.
func IndexCourse(ctx context.Context, es *elasticsearch.Client, index string, course models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("search: encode course: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(course.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index course: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index course: %s", res.Status())
	}
	return nil
}

func DeleteCourse(ctx context.Context, es *elasticsearch.Client, index string, id uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete course: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete course: %s", res.Status())
	}
	return nil
}
