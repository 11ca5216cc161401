package services

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"crmdashboard/internal/models"
	"crmdashboard/internal/repositories"
)

// MockStore is a testify mock for repositories.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Query(ctx context.Context, collection string) ([]models.Row, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Row), args.Error(1)
}

func (m *MockStore) DeleteAll(ctx context.Context, collection string) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockStore) Insert(ctx context.Context, collection string, row models.Row) error {
	return m.Called(ctx, collection, row).Error(0)
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(repositories.Store) error) error {
	return fn(m)
}

var errInsertFailed = errors.New("insert failed")

// memStore keeps collections in memory. WithinTx restores a snapshot when fn fails.
type memStore struct {
	data        map[string][]models.Row
	failInserts int // fail the insert with this 1-based index; 0 disables
	inserts     int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]models.Row{}}
}

func (m *memStore) Query(_ context.Context, collection string) ([]models.Row, error) {
	return append([]models.Row(nil), m.data[collection]...), nil
}

func (m *memStore) DeleteAll(_ context.Context, collection string) error {
	delete(m.data, collection)
	return nil
}

func (m *memStore) Insert(_ context.Context, collection string, row models.Row) error {
	m.inserts++
	if m.failInserts > 0 && m.inserts == m.failInserts {
		return errInsertFailed
	}
	cp := models.Row{}
	for k, v := range row {
		cp[k] = v
	}
	m.data[collection] = append(m.data[collection], cp)
	return nil
}

func (m *memStore) WithinTx(_ context.Context, fn func(repositories.Store) error) error {
	snapshot := map[string][]models.Row{}
	for k, v := range m.data {
		snapshot[k] = append([]models.Row(nil), v...)
	}
	if err := fn(m); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}
