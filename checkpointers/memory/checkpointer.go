package memorycheckpointer

import (
	"context"
	"sync"
)

// Checkpointer keeps the position in process memory. It survives a consumer
// restart within the same process, which is what the tests rely on.
type Checkpointer struct {
	mut      sync.Mutex
	position string
	saves    int
}

func New(position string) *Checkpointer {
	return &Checkpointer{position: position}
}

func (c *Checkpointer) Load(context.Context) (string, bool, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.position, c.position != "", nil
}

func (c *Checkpointer) Save(_ context.Context, position string) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.position = position
	c.saves++
	return nil
}

func (c *Checkpointer) Clear(context.Context) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.position = ""
	return nil
}

// Saves is the number of successful Save calls.
func (c *Checkpointer) Saves() int {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.saves
}
