package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pass.share/internal/models"
)

// runStoreContract exercises behavior every Store must share.
func runStoreContract(t *testing.T, s Store, now time.Time) {
	ctx := context.Background()

	t.Run("consume counts down and deletes at zero", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, &models.StoredSecret{
			ID: "two-views", Sealed: []byte("sealed"), ViewsLeft: 2,
			ExpireAt: now.Add(time.Hour), CreatedAt: now,
		}))

		got, err := s.Consume(ctx, "two-views")
		require.NoError(t, err)
		assert.Equal(t, 1, got.ViewsLeft)
		assert.Equal(t, []byte("sealed"), got.Sealed)

		got, err = s.Consume(ctx, "two-views")
		require.NoError(t, err)
		assert.Equal(t, 0, got.ViewsLeft)

		_, err = s.Consume(ctx, "two-views")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Consume(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, &models.StoredSecret{
			ID: "doomed", ViewsLeft: 1, ExpireAt: now.Add(time.Hour), CreatedAt: now,
		}))
		require.NoError(t, s.Delete(ctx, "doomed"))
		_, err := s.Consume(ctx, "doomed")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already expired is rejected", func(t *testing.T) {
		err := s.Save(ctx, &models.StoredSecret{
			ID: "stale", ViewsLeft: 1, ExpireAt: now.Add(-time.Minute), CreatedAt: now,
		})
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("concurrent consumers share the views", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, &models.StoredSecret{
			ID: "race", ViewsLeft: 3, ExpireAt: now.Add(time.Hour), CreatedAt: now,
		}))

		var (
			wg sync.WaitGroup
			mu sync.Mutex
			ok int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Consume(ctx, "race"); err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.LessOrEqual(t, ok, 3)
	})
}
