package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securevote/internal/authflow/models"
	"securevote/internal/authflow/store"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
	"securevote/pkg/testutil"
)

func TestRedisChallengeRoundTrip(t *testing.T) {
	client := testutil.StartRedis(t)
	ctx := testutil.WaitCtx(t)
	st := store.NewRedis(client, 15*time.Minute)

	handle := id.VoterHandle("h1")
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	challenge := &models.Challenge{
		Handle:       handle,
		Stage:        models.StageCodeIssued,
		Code:         "123456",
		CodeIssuedAt: issued,
		StartedAt:    issued.Add(-time.Minute),
	}
	require.NoError(t, st.Put(ctx, challenge))

	loaded, err := st.Get(ctx, handle)
	require.NoError(t, err)
	require.Equal(t, models.StageCodeIssued, loaded.Stage)
	require.Equal(t, "123456", loaded.Code)
	require.True(t, loaded.CodeIssuedAt.Equal(issued))

	// Put replaces wholesale, so only one challenge per handle can exist.
	challenge.Stage = models.StageBiometricVerified
	challenge.Code = ""
	require.NoError(t, st.Put(ctx, challenge))

	loaded, err = st.Get(ctx, handle)
	require.NoError(t, err)
	require.Equal(t, models.StageBiometricVerified, loaded.Stage)
	require.Empty(t, loaded.Code)

	require.NoError(t, st.Delete(ctx, handle))
	_, err = st.Get(ctx, handle)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisChallengeExpires(t *testing.T) {
	client := testutil.StartRedis(t)
	ctx := testutil.WaitCtx(t)
	st := store.NewRedis(client, time.Second)

	challenge := &models.Challenge{
		Handle:    "h2",
		Stage:     models.StageBiometricVerified,
		StartedAt: time.Now(),
	}
	require.NoError(t, st.Put(ctx, challenge))

	time.Sleep(1500 * time.Millisecond)
	_, err := st.Get(ctx, "h2")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
