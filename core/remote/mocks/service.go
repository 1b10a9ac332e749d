package mocks

import (
	"context"

	"bulkdozer/core/remote"

	"github.com/stretchr/testify/mock"
)

// Service is a mock implementation of remote.Service
type Service struct {
	mock.Mock
}

func (m *Service) List(ctx context.Context, typ, listField string, params remote.Options) (remote.Page, error) {
	args := m.Called(ctx, typ, listField, params)
	return args.Get(0).(remote.Page), args.Error(1)
}

func (m *Service) Get(ctx context.Context, typ, id string) (remote.Entity, error) {
	args := m.Called(ctx, typ, id)
	if e, ok := args.Get(0).(remote.Entity); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Service) Insert(ctx context.Context, typ string, obj remote.Entity) (remote.Entity, error) {
	args := m.Called(ctx, typ, obj)
	if e, ok := args.Get(0).(remote.Entity); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Service) Update(ctx context.Context, typ string, obj remote.Entity) (remote.Entity, error) {
	args := m.Called(ctx, typ, obj)
	if e, ok := args.Get(0).(remote.Entity); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
