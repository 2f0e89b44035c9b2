package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompleter is a mock implementation of Completer using testify/mock.
type MockCompleter struct {
	mock.Mock
	name string
}

// NewMockCompleter returns a mock reporting the given backend name.
func NewMockCompleter(name string) *MockCompleter {
	return &MockCompleter{name: name}
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Name() string { return m.name }

// MockInvoker is a mock implementation of Invoker using testify/mock.
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, prompt string, temperature float64) Result {
	args := m.Called(ctx, prompt, temperature)
	return args.Get(0).(Result)
}
