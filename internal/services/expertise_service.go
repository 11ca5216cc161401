package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"crmdashboard/internal/models"
	"crmdashboard/internal/repositories"
)

type ExpertiseService struct {
	Store      repositories.Store
	Collection string
}

func NewExpertiseService(store repositories.Store, collection string) *ExpertiseService {
	if collection == "" {
		collection = "expertise"
	}
	return &ExpertiseService{Store: store, Collection: collection}
}

// List returns the stored entries in store order. Rows without a type are skipped.
func (s *ExpertiseService) List(ctx context.Context) ([]models.Expertise, error) {
	rows, err := s.Store.Query(ctx, s.Collection)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Expertise, 0, len(rows))
	for _, row := range rows {
		t, ok := row["type"]
		if !ok || t == nil {
			continue
		}
		entries = append(entries, models.Expertise{
			Type:  stringField(t),
			Value: stringField(row["value"]),
		})
	}
	return entries, nil
}

// Get returns the collection as a type -> value mapping. Later rows win on duplicate types.
func (s *ExpertiseService) Get(ctx context.Context) (map[string]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Type] = e.Value
	}
	return out, nil
}

// Replace erases the collection and writes one row per mapping entry.
// Delete and inserts share one transaction.
func (s *ExpertiseService) Replace(ctx context.Context, mapping map[string]interface{}) error {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]models.Row, 0, len(keys))
	for _, k := range keys {
		v, err := expertiseValue(mapping[k])
		if err != nil {
			return fmt.Errorf("value for %q: %w", k, err)
		}
		rows = append(rows, models.Row{"type": k, "value": v})
	}

	return s.Store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.DeleteAll(ctx, s.Collection); err != nil {
			return err
		}
		for _, row := range rows {
			if err := tx.Insert(ctx, s.Collection, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Strings are stored verbatim, null as NULL, anything else as compact JSON.
func expertiseValue(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
}
