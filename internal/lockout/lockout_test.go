package lockout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securevote/internal/lockout"
	"securevote/internal/platform/config"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
)

func testConfig() config.Config {
	return config.Config{
		LockoutThreshold: 3,
		LockoutWindow:    5 * time.Minute,
		LockoutDuration:  10 * time.Minute,
	}
}

func TestLockoutTripsAtThreshold(t *testing.T) {
	svc := lockout.New(lockout.NewInMemory(), testConfig())
	ctx := context.Background()
	handle := id.VoterHandle("a1")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		locked, err := svc.RecordFailure(ctx, handle, now)
		require.NoError(t, err)
		require.False(t, locked)
		require.NoError(t, svc.Check(ctx, handle, now))
	}

	locked, err := svc.RecordFailure(ctx, handle, now)
	require.NoError(t, err)
	require.True(t, locked)

	err = svc.Check(ctx, handle, now)
	require.True(t, derrors.HasCode(err, derrors.CodeTooManyRequests))
}

func TestLockExpires(t *testing.T) {
	svc := lockout.New(lockout.NewInMemory(), testConfig())
	ctx := context.Background()
	handle := id.VoterHandle("a1")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordFailure(ctx, handle, now)
		require.NoError(t, err)
	}
	require.Error(t, svc.Check(ctx, handle, now))
	require.NoError(t, svc.Check(ctx, handle, now.Add(10*time.Minute+time.Second)))
}

func TestOldFailuresFallOutOfWindow(t *testing.T) {
	svc := lockout.New(lockout.NewInMemory(), testConfig())
	ctx := context.Background()
	handle := id.VoterHandle("a1")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		_, err := svc.RecordFailure(ctx, handle, now)
		require.NoError(t, err)
	}

	// Third failure arrives after the first two aged out.
	locked, err := svc.RecordFailure(ctx, handle, now.Add(6*time.Minute))
	require.NoError(t, err)
	require.False(t, locked)
}

func TestClearResetsState(t *testing.T) {
	svc := lockout.New(lockout.NewInMemory(), testConfig())
	ctx := context.Background()
	handle := id.VoterHandle("a1")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordFailure(ctx, handle, now)
		require.NoError(t, err)
	}
	require.Error(t, svc.Check(ctx, handle, now))

	require.NoError(t, svc.Clear(ctx, handle))
	require.NoError(t, svc.Check(ctx, handle, now))
}
