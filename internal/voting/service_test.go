package voting_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	electionmodels "securevote/internal/election/models"
	electionservice "securevote/internal/election/service"
	electionstore "securevote/internal/election/store"
	ledgerservice "securevote/internal/ledger/service"
	ledgerstore "securevote/internal/ledger/store"
	rollstore "securevote/internal/roll/store"
	"securevote/internal/voting"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
)

type CastVoteSuite struct {
	suite.Suite

	elections *electionservice.Service
	roll      *rollstore.InMemoryStore
	ballots   *ledgerstore.InMemoryStore
	svc       *voting.Service

	electionID  id.ElectionID
	candidateID id.CandidateID
	handle      id.VoterHandle
}

func TestCastVoteSuite(t *testing.T) {
	suite.Run(t, new(CastVoteSuite))
}

func (s *CastVoteSuite) SetupTest() {
	ctx := context.Background()
	s.elections = electionservice.New(electionstore.NewInMemory())
	s.roll = rollstore.NewInMemory()
	s.ballots = ledgerstore.NewInMemory()

	ledger := ledgerservice.New(s.ballots)
	runner := voting.NewMemoryRunner(s.roll, s.ballots)
	s.svc = voting.New(s.elections, ledger, runner)

	election, err := s.elections.Create(ctx, "General Election", "",
		time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.electionID = election.ID

	first, err := s.elections.AddCandidate(ctx, s.electionID, "Alice Johnson", "")
	s.Require().NoError(err)
	s.candidateID = first.ID
	_, err = s.elections.AddCandidate(ctx, s.electionID, "Bob Smith", "")
	s.Require().NoError(err)

	_, err = s.elections.Transition(ctx, s.electionID, electionmodels.StatusActive)
	s.Require().NoError(err)

	s.handle = id.VoterHandle("voter-1")
	_, err = s.roll.Authorize(ctx, s.electionID, []id.VoterHandle{s.handle})
	s.Require().NoError(err)
}

func (s *CastVoteSuite) TestCastReturnsReceipt() {
	result, err := s.svc.CastVote(context.Background(), s.handle, s.electionID, s.candidateID, "salt-1")
	s.Require().NoError(err)
	s.False(result.BallotID.IsNil())
	s.Len(result.Receipt, 64)

	ballots, err := s.ballots.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(ballots, 1)
	s.Equal(s.candidateID, ballots[0].CandidateID)
}

func (s *CastVoteSuite) TestSecondCastRejected() {
	ctx := context.Background()
	_, err := s.svc.CastVote(ctx, s.handle, s.electionID, s.candidateID, "salt-1")
	s.Require().NoError(err)

	_, err = s.svc.CastVote(ctx, s.handle, s.electionID, s.candidateID, "salt-2")
	s.True(derrors.HasCode(err, derrors.CodeConflict))

	ballots, err := s.ballots.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(ballots, 1)
}

func (s *CastVoteSuite) TestConcurrentDuplicateCastsYieldOneBallot() {
	ctx := context.Background()
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.svc.CastVote(ctx, s.handle, s.electionID, s.candidateID, "salt")
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			s.True(derrors.HasCode(err, derrors.CodeConflict))
		}
	}
	s.Equal(1, successes)

	ballots, err := s.ballots.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(ballots, 1)
}

func (s *CastVoteSuite) TestUnauthorizedVoterRejected() {
	_, err := s.svc.CastVote(context.Background(), "stranger", s.electionID, s.candidateID, "salt")
	s.True(derrors.HasCode(err, derrors.CodeForbidden))
}

func (s *CastVoteSuite) TestPausedElectionRejectsBallots() {
	ctx := context.Background()
	_, err := s.elections.Transition(ctx, s.electionID, electionmodels.StatusPaused)
	s.Require().NoError(err)

	_, err = s.svc.CastVote(ctx, s.handle, s.electionID, s.candidateID, "salt")
	s.True(derrors.HasCode(err, derrors.CodeConflict))

	// Resume and the same voter can still cast: the rejection consumed
	// nothing.
	_, err = s.elections.Transition(ctx, s.electionID, electionmodels.StatusActive)
	s.Require().NoError(err)
	_, err = s.svc.CastVote(ctx, s.handle, s.electionID, s.candidateID, "salt")
	s.Require().NoError(err)
}

func (s *CastVoteSuite) TestCandidateFromOtherElectionRejected() {
	ctx := context.Background()
	other, err := s.elections.Create(ctx, "Other", "",
		time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	stray, err := s.elections.AddCandidate(ctx, other.ID, "Carol White", "")
	s.Require().NoError(err)

	_, err = s.svc.CastVote(ctx, s.handle, s.electionID, stray.ID, "salt")
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *CastVoteSuite) TestVotesInTwoElectionsShareOneChain() {
	ctx := context.Background()
	second, err := s.elections.Create(ctx, "Runoff", "",
		time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	c1, err := s.elections.AddCandidate(ctx, second.ID, "Carol White", "")
	s.Require().NoError(err)
	_, err = s.elections.AddCandidate(ctx, second.ID, "Dan Brown", "")
	s.Require().NoError(err)
	_, err = s.elections.Transition(ctx, second.ID, electionmodels.StatusActive)
	s.Require().NoError(err)
	_, err = s.roll.Authorize(ctx, second.ID, []id.VoterHandle{s.handle})
	s.Require().NoError(err)

	first, err := s.svc.CastVote(ctx, s.handle, s.electionID, s.candidateID, "salt-1")
	s.Require().NoError(err)
	_, err = s.svc.CastVote(ctx, s.handle, second.ID, c1.ID, "salt-2")
	s.Require().NoError(err)

	ballots, err := s.ballots.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(ballots, 2)
	s.Equal(first.BallotID, ballots[0].ID)
	s.Equal(ballots[0].BlockHash, ballots[1].PreviousHash)
}
