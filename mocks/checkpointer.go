package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Checkpointer struct {
	mock.Mock
}

func (m *Checkpointer) Load(ctx context.Context) (string, bool, error) {
	ret := m.Called()

	r0 := ret.String(0)
	r1 := ret.Bool(1)
	r2 := ret.Error(2)

	return r0, r1, r2
}
func (m *Checkpointer) Save(ctx context.Context, position string) error {
	ret := m.Called(position)

	r0 := ret.Error(0)

	return r0
}
