package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockS3Service is an in-memory ObjectStorage for testing
type MockS3Service struct {
	objects map[string][]byte // map of S3 key to object content
	mu      sync.RWMutex

	// PutErr, when set, is returned by every PutObject call
	PutErr error
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
	}
}

// PutObject stores the object in memory
func (m *MockS3Service) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	if m.PutErr != nil {
		return m.PutErr
	}

	content := make([]byte, len(body))
	copy(content, body)

	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()

	return nil
}

// GetPresignedURL returns a fake URL for an existing object
func (m *MockS3Service) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("object not found in mock S3: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true&expires=%d", key, int(expires.Seconds())), nil
}

// Object returns the stored content for key
func (m *MockS3Service) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.objects[key]
	return content, ok
}

// Keys lists every stored key
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
