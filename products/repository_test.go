package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/apperr"
)

func TestCountWhile(t *testing.T) {
	ctx := context.Background()

	fetched := false
	total, err := countWhile(ctx,
		func(context.Context) (int64, error) { return 42, nil },
		func(context.Context) error { fetched = true; return nil },
	)
	require.NoError(t, err)
	assert.EqualValues(t, 42, total)
	assert.True(t, fetched)

	t.Run("count failure cancels the page query", func(t *testing.T) {
		total, err := countWhile(ctx,
			func(context.Context) (int64, error) {
				return 0, apperr.Persistence("count products", errors.New("socket closed"))
			},
			func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(5 * time.Second):
					return errors.New("page query was not cancelled")
				}
			},
		)
		assert.Zero(t, total)
		assert.True(t, apperr.Is(err, apperr.KindPersistence), "%v", err)
	})

	t.Run("page failure wins over a good count", func(t *testing.T) {
		total, err := countWhile(ctx,
			func(context.Context) (int64, error) { return 7, nil },
			func(context.Context) error { return apperr.Persistence("decode products", errors.New("bad document")) },
		)
		assert.Zero(t, total)
		assert.Equal(t, "decode products", err.(*apperr.Error).Message)
	})
}
