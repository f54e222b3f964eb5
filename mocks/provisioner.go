package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Provisioner struct {
	mock.Mock
}

func (m *Provisioner) TryAcquire(ctx context.Context, shardID string) error {
	ret := m.Called(shardID)

	r0 := ret.Error(0)

	return r0
}
func (m *Provisioner) Heartbeat(ctx context.Context, shardID string) error {
	ret := m.Called(shardID)

	r0 := ret.Error(0)

	return r0
}
func (m *Provisioner) Release(ctx context.Context, shardID string) error {
	ret := m.Called(shardID)

	r0 := ret.Error(0)

	return r0
}
