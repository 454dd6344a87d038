package services

import (
	"context"
	"fmt"
	"sync"
)

// SentSMS records one message handed to MockSMSService
type SentSMS struct {
	To   string
	Body string
	SID  string
}

// MockSMSService is an in-memory SMSSender for testing
type MockSMSService struct {
	mu   sync.Mutex
	sent []SentSMS

	// SendErr, when set, is returned by every Send call
	SendErr error

	// OnSend, when set, runs at the start of every Send call
	OnSend func(to, body string)
}

// NewMockSMSService creates a new mock SMS sender
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

// Send records the message and returns a fake SID
func (m *MockSMSService) Send(ctx context.Context, to, body string) (string, error) {
	if m.OnSend != nil {
		m.OnSend(to, body)
	}
	if m.SendErr != nil {
		return "", m.SendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sid := fmt.Sprintf("SMmock%04d", len(m.sent)+1)
	m.sent = append(m.sent, SentSMS{To: to, Body: body, SID: sid})
	return sid, nil
}

// Sent returns a copy of every recorded message
func (m *MockSMSService) Sent() []SentSMS {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := make([]SentSMS, len(m.sent))
	copy(sent, m.sent)
	return sent
}
