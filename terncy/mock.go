package terncy

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockClient) DevID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetAddress(host string, port int) {
	m.Called(host, port)
}

func (m *MockClient) GetEntities(ctx context.Context, entityType string, forceRefresh bool) (*EntitiesResponse, error) {
	args := m.Called(ctx, entityType, forceRefresh)

	var rsp *EntitiesResponse
	if v := args.Get(0); v != nil {
		rsp = v.(*EntitiesResponse)
	}

	return rsp, args.Error(1)
}

func (m *MockClient) SetAttribute(ctx context.Context, eid string, attr string, value int64, method int) error {
	args := m.Called(ctx, eid, attr, value, method)
	return args.Error(0)
}

func (m *MockClient) SetAttributes(ctx context.Context, eid string, attrs []AttrValue, method int) error {
	args := m.Called(ctx, eid, attrs, method)
	return args.Error(0)
}

func (m *MockClient) RegisterEventHandler(handler func(any)) {
	m.Called(handler)
}
