package engine

import (
	"context"
	"errors"

	"github.com/ducat-dev/ducat/internal/unit"
)

// runContext is the unit.RunContext handed to a routine while it runs. It
// borrows the executor's store handle; routines only ever see it through
// the interface and cannot close or replace the handle.
type runContext struct {
	store     Store
	sourceSQL string
}

func (c *runContext) Source(ctx context.Context) (*unit.Table, error) {
	if c.sourceSQL == "" {
		return nil, errors.New("unit declares no source query")
	}
	return c.store.Query(ctx, c.sourceSQL)
}

func (c *runContext) Query(ctx context.Context, sql string) (*unit.Table, error) {
	return c.store.Query(ctx, sql)
}
