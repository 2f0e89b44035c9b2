package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"content-assistant/internal/assistant"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateJob(ctx context.Context, text string, sel assistant.Selection) (Job, error) {
	args := m.Called(ctx, text, sel)
	return args.Get(0).(Job), args.Error(1)
}

func (m *MockStore) GetJob(ctx context.Context, id uuid.UUID) (Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Job), args.Error(1)
}

func (m *MockStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStore) SaveResult(ctx context.Context, id uuid.UUID, result Result) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *MockStore) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
