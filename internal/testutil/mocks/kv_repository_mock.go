package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockKVRepository is a mock implementation of repository.KVRepository
type MockKVRepository struct {
	mock.Mock
}

func (m *MockKVRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	args := m.Called(ctx, namespace, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockKVRepository) Put(ctx context.Context, namespace, key string, value []byte) error {
	args := m.Called(ctx, namespace, key, value)
	return args.Error(0)
}

func (m *MockKVRepository) Delete(ctx context.Context, namespace, key string) error {
	args := m.Called(ctx, namespace, key)
	return args.Error(0)
}

func (m *MockKVRepository) Keys(ctx context.Context, namespace string) ([]string, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockKVRepository) DeleteNamespace(ctx context.Context, namespace string) error {
	args := m.Called(ctx, namespace)
	return args.Error(0)
}
