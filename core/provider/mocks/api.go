package mocks

import (
	"context"

	"picklr/core/provider"

	"github.com/stretchr/testify/mock"
)

// API is a mock implementation of provider.API
type API struct {
	mock.Mock
}

func (m *API) Delta(ctx context.Context, root, cursor string) (*provider.DeltaPage, error) {
	args := m.Called(ctx, root, cursor)
	if page, ok := args.Get(0).(*provider.DeltaPage); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateShareLink(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *API) Thumbnail(ctx context.Context, path, size, format string) ([]byte, error) {
	args := m.Called(ctx, path, size, format)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateFolder(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// Factory hands out the same mock API for every token and records the
// tokens it was asked for.
type Factory struct {
	API    provider.API
	Tokens []string
}

func (f *Factory) ForToken(token string) provider.API {
	f.Tokens = append(f.Tokens, token)
	return f.API
}
