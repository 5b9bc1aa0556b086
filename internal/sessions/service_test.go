package sessions

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndValidateSession(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	ctx := context.Background()
	r, err := svc.CreateSession(ctx, "user-1", "go-test")
	require.NoError(t, err)
	require.Len(t, r, 64)

	sess, err := svc.ValidateRefresh(ctx, r)
	require.NoError(t, err)
	require.Equal(t, "user-1", sess.UserID)
	require.Equal(t, "go-test", sess.UserAgent)

	require.NoError(t, svc.DeleteRefresh(ctx, r))
	_, err = svc.ValidateRefresh(ctx, r)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestValidateRefresh_Unknown(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	_, err := svc.ValidateRefresh(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = svc.ValidateRefresh(context.Background(), "nope")
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestValidateRefresh_Expired(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{RefreshToken: "old", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}))

	_, err := svc.ValidateRefresh(ctx, "old")
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRotate_IsSingleUse(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	ctx := context.Background()
	first, err := svc.CreateSession(ctx, "user-1", "")
	require.NoError(t, err)

	sess, next, err := svc.Rotate(ctx, first, "")
	require.NoError(t, err)
	require.Equal(t, "user-1", sess.UserID)
	require.NotEqual(t, first, next)

	_, _, err = svc.Rotate(ctx, first, "")
	require.ErrorIs(t, err, ErrInvalidRefresh, "rotated token must not be reusable")

	again, err := svc.ValidateRefresh(ctx, next)
	require.NoError(t, err)
	require.Equal(t, "user-1", again.UserID)
}

func TestRotate_ConcurrentUseYieldsOneSession(t *testing.T) {
	stores := map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository { return NewMemoryRepository() },
		"redis": func(t *testing.T) Repository {
			repo, _ := newRedisRepo(t, "")
			return repo
		},
	}
	for name, newRepo := range stores {
		t.Run(name, func(t *testing.T) {
			svc := NewService(newRepo(t), time.Hour)
			ctx := context.Background()
			refresh, err := svc.CreateSession(ctx, "user-1", "")
			require.NoError(t, err)

			var ok atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, _, err := svc.Rotate(ctx, refresh, ""); err == nil {
						ok.Add(1)
					}
				}()
			}
			wg.Wait()
			require.Equal(t, int32(1), ok.Load())
		})
	}
}

func TestRotate_ExpiredSessionIsConsumed(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{RefreshToken: "old", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}))

	_, _, err := svc.Rotate(ctx, "old", "")
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, _, err = svc.Rotate(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidRefresh)

	got, err := repo.GetByRefresh(ctx, "old")
	require.NoError(t, err)
	require.Nil(t, got)
}
