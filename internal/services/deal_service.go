package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"crmdashboard/internal/models"
	"crmdashboard/internal/repositories"
)

const DefaultCategory = "기타"

type DealService struct {
	Store           repositories.Store
	Collection      string
	DefaultCategory string
}

func NewDealService(store repositories.Store, collection, defaultCategory string) *DealService {
	if collection == "" {
		collection = "deals"
	}
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &DealService{Store: store, Collection: collection, DefaultCategory: defaultCategory}
}

// List returns every deal in store order, or the sample set when the store has none.
func (s *DealService) List(ctx context.Context) ([]models.Deal, error) {
	rows, err := s.Store.Query(ctx, s.Collection)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows = sampleDeals
	}

	deals := make([]models.Deal, 0, len(rows))
	for _, row := range rows {
		deals = append(deals, s.reshape(row))
	}
	return deals, nil
}

// reshape renames columns. An absent column gets its default while a NULL one
// stays nil.
func (s *DealService) reshape(row models.Row) models.Deal {
	return models.Deal{
		ID:        intColumn(row, "id"),
		Staff:     stringColumn(row, "deal_owner", ""),
		Status:    stringColumn(row, "deal_status", ""),
		CreatedAt: stringColumn(row, "deal_created_at", ""),
		Category:  stringColumn(row, "category", s.DefaultCategory),
	}
}

func intColumn(row models.Row, key string) *int64 {
	v, ok := row[key]
	if !ok {
		n := int64(0)
		return &n
	}
	if v == nil {
		return nil
	}
	n := intField(v)
	return &n
}

func stringColumn(row models.Row, key, def string) *string {
	v, ok := row[key]
	if !ok {
		return &def
	}
	if v == nil {
		return nil
	}
	str := stringField(v)
	return &str
}

func intField(v interface{}) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// stringField renders a non-nil column value. DATE columns already arrive as
// text from the store, so any time.Time here is a timestamp.
func stringField(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
