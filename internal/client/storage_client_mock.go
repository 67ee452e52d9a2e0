package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStorageClient implements StorageClientInterface for testing without
// AWS credentials. Uploaded artifacts are kept in memory.
type MockStorageClient struct {
	Bucket string
	Region string

	mu      sync.Mutex
	Objects map[string][]byte

	// Optional function overrides for custom test behavior
	GenerateExportKeyFunc func(businessID uuid.UUID, kind string) string
	UploadExportFunc      func(ctx context.Context, key string, data []byte) (string, error)
	PresignDownloadFunc   func(ctx context.Context, key string) (string, error)
	DeleteExportFunc      func(ctx context.Context, key string) error
}

// NewMockStorageClient creates a new mock storage client for testing
func NewMockStorageClient() *MockStorageClient {
	return &MockStorageClient{
		Bucket:  "test-bucket",
		Region:  "us-east-1",
		Objects: make(map[string][]byte),
	}
}

// GenerateExportKey generates a unique export key
func (m *MockStorageClient) GenerateExportKey(businessID uuid.UUID, kind string) string {
	if m.GenerateExportKeyFunc != nil {
		return m.GenerateExportKeyFunc(businessID, kind)
	}

	now := time.Now()
	return fmt.Sprintf("exports/%s/%s/%s/%s_%s_%d.csv",
		businessID, now.Format("2006"), now.Format("01"), kind, uuid.New(), now.Unix())
}

// UploadExport stores the artifact in memory
func (m *MockStorageClient) UploadExport(ctx context.Context, key string, data []byte) (string, error) {
	if m.UploadExportFunc != nil {
		return m.UploadExportFunc(ctx, key, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	return key, nil
}

// PresignDownload returns a mock presigned URL
func (m *MockStorageClient) PresignDownload(ctx context.Context, key string) (string, error) {
	if m.PresignDownloadFunc != nil {
		return m.PresignDownloadFunc(ctx, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=900&X-Amz-Signature=mocksignature123",
		m.Bucket, m.Region, key), nil
}

// DeleteExport removes the artifact from memory
func (m *MockStorageClient) DeleteExport(ctx context.Context, key string) error {
	if m.DeleteExportFunc != nil {
		return m.DeleteExportFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}

// Ensure MockStorageClient implements StorageClientInterface
var _ StorageClientInterface = (*MockStorageClient)(nil)
