package mocks

import (
	"context"

	k "github.com/remind101/shardtail/interface"
	"github.com/stretchr/testify/mock"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) ListShards(ctx context.Context, stream string) ([]k.Shard, error) {
	ret := m.Called(stream)

	var r0 []k.Shard
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]k.Shard)
	}
	r1 := ret.Error(1)

	return r0, r1
}
func (m *Provider) GetIteratorAfter(ctx context.Context, stream string, shard k.Shard, position string) (string, error) {
	ret := m.Called(stream, shard, position)

	r0 := ret.String(0)
	r1 := ret.Error(1)

	return r0, r1
}
func (m *Provider) GetIteratorAtLatest(ctx context.Context, stream string, shard k.Shard) (string, error) {
	ret := m.Called(stream, shard)

	r0 := ret.String(0)
	r1 := ret.Error(1)

	return r0, r1
}
func (m *Provider) Pull(ctx context.Context, cursor string, limit int64) (*k.Batch, error) {
	ret := m.Called(cursor, limit)

	var r0 *k.Batch
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*k.Batch)
	}
	r1 := ret.Error(1)

	return r0, r1
}
