package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"securevote/internal/roll/service"
	"securevote/internal/roll/store"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/sentinel"
)

func TestAuthorizeIsIdempotent(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	ctx := context.Background()
	electionID := id.NewElectionID()
	handles := []id.VoterHandle{"h1", "h2", "h3"}

	added, err := svc.Authorize(ctx, electionID, handles)
	require.NoError(t, err)
	require.Equal(t, 3, added)

	added, err = svc.Authorize(ctx, electionID, handles)
	require.NoError(t, err)
	require.Equal(t, 0, added)
}

func TestReauthorizeNeverResetsHasVoted(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	ctx := context.Background()
	electionID := id.NewElectionID()
	handle := id.VoterHandle("h1")

	_, err := svc.Authorize(ctx, electionID, []id.VoterHandle{handle})
	require.NoError(t, err)

	ticket, err := st.CheckAndMarkVoted(ctx, electionID, handle)
	require.NoError(t, err)
	require.True(t, ticket.Granted())

	_, err = svc.Authorize(ctx, electionID, []id.VoterHandle{handle})
	require.NoError(t, err)

	voter, err := svc.Status(ctx, electionID, handle)
	require.NoError(t, err)
	require.True(t, voter.HasVoted)
}

func TestCheckAndMarkVotedFlipsOnce(t *testing.T) {
	st := store.NewInMemory()
	ctx := context.Background()
	electionID := id.NewElectionID()
	handle := id.VoterHandle("h1")

	_, err := st.Authorize(ctx, electionID, []id.VoterHandle{handle})
	require.NoError(t, err)

	_, err = st.CheckAndMarkVoted(ctx, electionID, handle)
	require.NoError(t, err)

	_, err = st.CheckAndMarkVoted(ctx, electionID, handle)
	require.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestCheckAndMarkVotedUnauthorized(t *testing.T) {
	st := store.NewInMemory()
	_, err := st.CheckAndMarkVoted(context.Background(), id.NewElectionID(), "stranger")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRollsAreScopedPerElection(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	ctx := context.Background()
	first := id.NewElectionID()
	second := id.NewElectionID()
	handle := id.VoterHandle("h1")

	_, err := svc.Authorize(ctx, first, []id.VoterHandle{handle})
	require.NoError(t, err)

	_, err = st.CheckAndMarkVoted(ctx, first, handle)
	require.NoError(t, err)

	// Voting in one election says nothing about another.
	_, err = svc.Status(ctx, second, handle)
	require.True(t, derrors.HasCode(err, derrors.CodeForbidden))

	_, err = svc.Authorize(ctx, second, []id.VoterHandle{handle})
	require.NoError(t, err)
	voter, err := svc.Status(ctx, second, handle)
	require.NoError(t, err)
	require.False(t, voter.HasVoted)
}
