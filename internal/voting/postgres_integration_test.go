package voting_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	electionmodels "securevote/internal/election/models"
	electionstore "securevote/internal/election/store"
	ledgerservice "securevote/internal/ledger/service"
	ledgerstore "securevote/internal/ledger/store"
	rollstore "securevote/internal/roll/store"
	"securevote/internal/voting"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/testutil"
)

// registryOverStore adapts the election postgres store to the voting
// service's registry interface without pulling in the full election service.
type registryOverStore struct {
	store *electionstore.PostgresStore
}

func (r registryOverStore) Get(ctx context.Context, electionID id.ElectionID) (*electionmodels.Election, []*electionmodels.Candidate, error) {
	election, err := r.store.FindByID(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := r.store.CandidatesByElection(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	return election, candidates, nil
}

func (r registryOverStore) Candidate(ctx context.Context, candidateID id.CandidateID) (*electionmodels.Candidate, error) {
	return r.store.FindCandidate(ctx, candidateID)
}

func TestPostgresVoteTransaction(t *testing.T) {
	db := testutil.StartPostgres(t)
	ctx := testutil.WaitCtx(t)

	elections := electionstore.NewPostgres(db)
	roll := rollstore.NewPostgres(db)
	ballots := ledgerstore.NewPostgres(db)
	ledger := ledgerservice.New(ballots)
	svc := voting.New(registryOverStore{store: elections}, ledger, voting.NewPostgresRunner(db))

	election := &electionmodels.Election{
		ID:          id.NewElectionID(),
		Title:       "Integration Election",
		WindowStart: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC),
		Status:      electionmodels.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, elections.Create(ctx, election))

	candidate := &electionmodels.Candidate{
		ID:         id.NewCandidateID(),
		ElectionID: election.ID,
		Name:       "Alice Johnson",
	}
	require.NoError(t, elections.AddCandidate(ctx, candidate))

	handle := id.VoterHandle("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	added, err := roll.Authorize(ctx, election.ID, []id.VoterHandle{handle})
	require.NoError(t, err)
	require.Equal(t, 1, added)

	// Race the same voter against themselves.
	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.CastVote(ctx, handle, election.ID, candidate.ID, "salt")
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.True(t, derrors.HasCode(err, derrors.CodeConflict), "unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)

	all, err := ballots.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	lastHash, lastSeq, err := ballots.Tail(ctx)
	require.NoError(t, err)
	require.Equal(t, all[0].BlockHash, lastHash)
	require.Equal(t, all[0].Seq, lastSeq)

	result, err := ledger.VerifyChainIntegrity(ctx)
	require.NoError(t, err)
	require.True(t, result.Valid)

	counts, err := ledger.Tally(ctx, election.ID)
	require.NoError(t, err)
	require.Equal(t, 1, counts[candidate.ID])
}

func TestPostgresAuthorizeIdempotent(t *testing.T) {
	db := testutil.StartPostgres(t)
	ctx := testutil.WaitCtx(t)

	elections := electionstore.NewPostgres(db)
	roll := rollstore.NewPostgres(db)

	election := &electionmodels.Election{
		ID:          id.NewElectionID(),
		Title:       "Roll Election",
		WindowStart: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC),
		Status:      electionmodels.StatusDraft,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, elections.Create(ctx, election))

	handle := id.VoterHandle("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	added, err := roll.Authorize(ctx, election.ID, []id.VoterHandle{handle})
	require.NoError(t, err)
	require.Equal(t, 1, added)

	added, err = roll.Authorize(ctx, election.ID, []id.VoterHandle{handle})
	require.NoError(t, err)
	require.Equal(t, 0, added)

	voter, err := roll.Find(ctx, election.ID, handle)
	require.NoError(t, err)
	require.False(t, voter.HasVoted)
}
