package entity

import (
	"context"

	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

var _ API = (*MockAPI)(nil)

func (m *MockAPI) SetAttribute(ctx context.Context, eid string, attr string, value int64) error {
	args := m.Called(ctx, eid, attr, value)
	return args.Error(0)
}

func (m *MockAPI) SetAttributes(ctx context.Context, eid string, attrs []terncy.AttrValue) error {
	args := m.Called(ctx, eid, attrs)
	return args.Error(0)
}

func (m *MockAPI) SendEvent(event any) {
	m.Called(event)
}

func (m *MockAPI) Logger() logwrap.Logger {
	return logwrap.New(discard.Discard())
}
