package search

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/internal/shared"

	"github.com/redis/go-redis/v9"
)

// redisSearch implements Service on RediSearch. Documents live in hashes
// keyed "<collection>:<id>"; the index of a collection is "idx:<collection>".
type redisSearch struct {
	client *redis.Client
}

func NewRedisSearch(client *redis.Client) Service {
	return &redisSearch{client: client}
}

func indexName(collection string) string {
	return "idx:" + collection
}

func docKey(collection string, id int64) string {
	return fmt.Sprintf("%s:%d", collection, id)
}

func (s *redisSearch) EnsureCollection(ctx context.Context, collection string, fields []Field) error {
	err := s.client.FTInfo(ctx, indexName(collection)).Err()
	if err == nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unknown index") &&
		!strings.Contains(strings.ToLower(err.Error()), "no such index") {
		return fmt.Errorf("failed to inspect index %s: %w", collection, err)
	}

	return s.createIndex(ctx, collection, fields)
}

func (s *redisSearch) createIndex(ctx context.Context, collection string, fields []Field) error {
	schema := make([]*redis.FieldSchema, 0, len(fields))
	for _, f := range fields {
		fieldSchema := &redis.FieldSchema{
			FieldName: f.Name,
			Sortable:  f.Sortable,
		}
		switch f.Type {
		case FieldTypeNumeric:
			fieldSchema.FieldType = redis.SearchFieldTypeNumeric
		case FieldTypeTag:
			fieldSchema.FieldType = redis.SearchFieldTypeTag
		default:
			fieldSchema.FieldType = redis.SearchFieldTypeText
		}
		schema = append(schema, fieldSchema)
	}

	options := &redis.FTCreateOptions{
		OnHash: true,
		Prefix: []interface{}{collection + ":"},
	}

	if err := s.client.FTCreate(ctx, indexName(collection), options, schema...).Err(); err != nil {
		return fmt.Errorf("failed to create index %s: %w", collection, err)
	}

	return nil
}

func (s *redisSearch) AddDocument(ctx context.Context, collection string, id int64, doc Doc) error {
	values := make([]interface{}, 0, len(doc)*2)
	for field, value := range doc {
		values = append(values, field, fmt.Sprint(value))
	}

	if err := s.client.HSet(ctx, docKey(collection, id), values...).Err(); err != nil {
		return fmt.Errorf("failed to index document %d in %s: %w", id, collection, err)
	}

	return nil
}

// UpdateDocument rewrites the hash in place; HSET overwrites field-wise, so
// stale fields not present in doc are removed first.
func (s *redisSearch) UpdateDocument(ctx context.Context, collection string, id int64, doc Doc) error {
	if err := s.client.Del(ctx, docKey(collection, id)).Err(); err != nil {
		return fmt.Errorf("failed to clear document %d in %s: %w", id, collection, err)
	}
	return s.AddDocument(ctx, collection, id, doc)
}

func (s *redisSearch) DeleteDocument(ctx context.Context, collection string, id int64) error {
	if err := s.client.Del(ctx, docKey(collection, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete document %d from %s: %w", id, collection, err)
	}
	return nil
}

func (s *redisSearch) DeleteCollection(ctx context.Context, collection string) error {
	err := s.client.FTDropIndexWithArgs(ctx, indexName(collection), &redis.FTDropIndexOptions{
		DeleteDocs: true,
	}).Err()
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "unknown index") &&
		!strings.Contains(strings.ToLower(err.Error()), "no such index") {
		return fmt.Errorf("failed to drop index %s: %w", collection, err)
	}

	return nil
}

func (s *redisSearch) SearchByFilters(
	ctx context.Context,
	collection string,
	filters []shared.Filter,
	skip, limit int,
	sorting *shared.Sorting,
	fields []Field,
) ([]Result, int64, error) {
	options := &redis.FTSearchOptions{
		LimitOffset: skip,
		Limit:       limit,
	}
	if sorting != nil {
		options.SortBy = []redis.FTSearchSortBy{{
			FieldName: sorting.FieldName,
			Asc:       !sorting.Desc,
			Desc:      sorting.Desc,
		}}
	}

	query := buildQuery(filters, fields)

	res, err := s.client.FTSearchWithArgs(ctx, indexName(collection), query, options).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search %s: %w", collection, err)
	}

	results := make([]Result, 0, len(res.Docs))
	for _, doc := range res.Docs {
		results = append(results, Result{
			ID:     doc.ID,
			Fields: doc.Fields,
		})
	}

	return results, int64(res.Total), nil
}
