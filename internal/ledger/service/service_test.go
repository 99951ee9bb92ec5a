package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securevote/internal/ledger/models"
	"securevote/internal/ledger/service"
	"securevote/internal/ledger/store"
	rollmodels "securevote/internal/roll/models"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/requestcontext"
)

func appendBallot(t *testing.T, svc *service.Service, st *store.InMemoryStore, electionID id.ElectionID, candidateID id.CandidateID, salt string) (*models.Ballot, string) {
	t.Helper()
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	ballot, receipt, err := svc.Append(ctx, st, rollmodels.GrantTicket(electionID), candidateID, salt)
	require.NoError(t, err)
	return ballot, receipt
}

func TestAppendChainsBallots(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	electionID := id.NewElectionID()
	candidateID := id.NewCandidateID()

	first, receipt := appendBallot(t, svc, st, electionID, candidateID, "salt-1")
	require.Equal(t, models.GenesisHash, first.PreviousHash)
	require.Equal(t, int64(1), first.Seq)
	require.Equal(t, models.Receipt(first.ID, "salt-1"), receipt)

	second, _ := appendBallot(t, svc, st, electionID, candidateID, "salt-2")
	require.Equal(t, first.BlockHash, second.PreviousHash)
	require.Equal(t, int64(2), second.Seq)
}

func TestAppendRequiresGrantedTicket(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)

	_, _, err := svc.Append(context.Background(), st, rollmodels.Ticket{}, id.NewCandidateID(), "salt")
	require.Error(t, err)

	ballots, err := st.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, ballots)
}

func TestVerifyEmptyChain(t *testing.T) {
	svc := service.New(store.NewInMemory())
	result, err := svc.VerifyChainIntegrity(context.Background())
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, -1, result.FirstBrokenIndex)
	require.Zero(t, result.Length)
}

func TestVerifyDetectsContentTampering(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	electionID := id.NewElectionID()

	for i := 0; i < 5; i++ {
		appendBallot(t, svc, st, electionID, id.NewCandidateID(), "salt")
	}

	// Flip the recorded choice on the third ballot.
	st.Tamper(2, func(b *models.Ballot) { b.CandidateID = id.NewCandidateID() })

	result, err := svc.VerifyChainIntegrity(context.Background())
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, 2, result.FirstBrokenIndex)
}

func TestVerifyDetectsRehashedTampering(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	electionID := id.NewElectionID()

	for i := 0; i < 4; i++ {
		appendBallot(t, svc, st, electionID, id.NewCandidateID(), "salt")
	}

	// An attacker who edits a ballot and recomputes its own hash still
	// breaks the link from the next ballot.
	st.Tamper(1, func(b *models.Ballot) {
		b.CandidateID = id.NewCandidateID()
		b.BlockHash = models.ComputeBlockHash(b)
	})

	result, err := svc.VerifyChainIntegrity(context.Background())
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, 2, result.FirstBrokenIndex)
}

func TestTallyCountsPerElection(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	electionID := id.NewElectionID()
	otherElection := id.NewElectionID()
	alice := id.NewCandidateID()
	bob := id.NewCandidateID()

	for i := 0; i < 3; i++ {
		appendBallot(t, svc, st, electionID, alice, "salt")
	}
	appendBallot(t, svc, st, electionID, bob, "salt")
	appendBallot(t, svc, st, otherElection, id.NewCandidateID(), "salt")

	counts, err := svc.Tally(context.Background(), electionID)
	require.NoError(t, err)
	require.Equal(t, map[id.CandidateID]int{alice: 3, bob: 1}, counts)
}

func TestVerifiedTallyWithheldOnBrokenChain(t *testing.T) {
	st := store.NewInMemory()
	svc := service.New(st)
	electionID := id.NewElectionID()
	candidateID := id.NewCandidateID()

	appendBallot(t, svc, st, electionID, candidateID, "salt")
	appendBallot(t, svc, st, electionID, candidateID, "salt")

	counts, err := svc.VerifiedTally(context.Background(), electionID)
	require.NoError(t, err)
	require.Equal(t, 2, counts[candidateID])

	st.Tamper(0, func(b *models.Ballot) { b.CandidateID = id.NewCandidateID() })

	_, err = svc.VerifiedTally(context.Background(), electionID)
	require.True(t, derrors.HasCode(err, derrors.CodeIntegrity))
}
