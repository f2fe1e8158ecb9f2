package app

import (
	"context"
	"sync"

	"dispatchhub_backend/internal/email"
)

// MockEmailProvider records outbound mail instead of delivering it. Used by
// the integration tests and by local runs without an SMTP relay.
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []*email.Message
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (m *MockEmailProvider) Send(_ context.Context, msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}
