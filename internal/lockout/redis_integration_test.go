package lockout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securevote/internal/lockout"
	id "securevote/pkg/domain"
	"securevote/pkg/testutil"
)

func TestRedisLockoutStore(t *testing.T) {
	client := testutil.StartRedis(t)
	ctx := testutil.WaitCtx(t)
	st := lockout.NewRedis(client)

	handle := id.VoterHandle("h1")
	now := time.Now()

	for want := 1; want <= 3; want++ {
		count, err := st.AddFailure(ctx, handle, now, time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, count)
	}

	until, err := st.LockedUntil(ctx, handle)
	require.NoError(t, err)
	require.True(t, until.IsZero())

	lockUntil := now.Add(time.Minute)
	require.NoError(t, st.Lock(ctx, handle, lockUntil))

	until, err = st.LockedUntil(ctx, handle)
	require.NoError(t, err)
	require.WithinDuration(t, lockUntil, until, time.Second)

	// Locking resets the failure window.
	count, err := st.AddFailure(ctx, handle, now, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, st.Clear(ctx, handle))
	until, err = st.LockedUntil(ctx, handle)
	require.NoError(t, err)
	require.True(t, until.IsZero())
}
