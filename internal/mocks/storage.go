package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vibe-service/internal/storage"
)

type ObjectStoreMock struct {
	mock.Mock
}

func (m *ObjectStoreMock) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, bucket, path, data, contentType)
	return args.String(0), args.Error(1)
}

var _ storage.ObjectStore = (*ObjectStoreMock)(nil)
