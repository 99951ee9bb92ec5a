package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"securevote/internal/election/models"
	"securevote/internal/election/service"
	"securevote/internal/election/store"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
)

type ElectionServiceSuite struct {
	suite.Suite

	svc *service.Service

	windowStart time.Time
	windowEnd   time.Time
}

func TestElectionServiceSuite(t *testing.T) {
	suite.Run(t, new(ElectionServiceSuite))
}

func (s *ElectionServiceSuite) SetupTest() {
	s.svc = service.New(store.NewInMemory())
	s.windowStart = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	s.windowEnd = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
}

func (s *ElectionServiceSuite) createDraft() *models.Election {
	election, err := s.svc.Create(context.Background(), "General Election", "", s.windowStart, s.windowEnd)
	s.Require().NoError(err)
	return election
}

func (s *ElectionServiceSuite) addCandidates(electionID id.ElectionID, n int) {
	names := []string{"Alice Johnson", "Bob Smith", "Carol White"}
	for i := 0; i < n; i++ {
		_, err := s.svc.AddCandidate(context.Background(), electionID, names[i], "")
		s.Require().NoError(err)
	}
}

func (s *ElectionServiceSuite) TestCreateStartsInDraft() {
	election := s.createDraft()
	s.Equal(models.StatusDraft, election.Status)
	s.False(election.ID.IsNil())
}

func (s *ElectionServiceSuite) TestCreateRejectsInvertedWindow() {
	_, err := s.svc.Create(context.Background(), "Bad", "", s.windowEnd, s.windowStart)
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *ElectionServiceSuite) TestActivationRequiresTwoCandidates() {
	election := s.createDraft()
	ctx := context.Background()

	_, err := s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.True(derrors.HasCode(err, derrors.CodeConflict))

	s.addCandidates(election.ID, 1)
	_, err = s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.True(derrors.HasCode(err, derrors.CodeConflict))

	s.addCandidates(election.ID, 2)
	updated, err := s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, updated.Status)
}

func (s *ElectionServiceSuite) TestClosedIsTerminal() {
	election := s.createDraft()
	ctx := context.Background()
	s.addCandidates(election.ID, 2)

	_, err := s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.Require().NoError(err)
	_, err = s.svc.Transition(ctx, election.ID, models.StatusClosed)
	s.Require().NoError(err)

	for _, next := range []models.Status{models.StatusDraft, models.StatusActive, models.StatusPaused, models.StatusClosed} {
		_, err = s.svc.Transition(ctx, election.ID, next)
		s.True(derrors.HasCode(err, derrors.CodeConflict), "CLOSED must not transition to %s", next)
	}
}

func (s *ElectionServiceSuite) TestPauseAndResume() {
	election := s.createDraft()
	ctx := context.Background()
	s.addCandidates(election.ID, 2)

	_, err := s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.Require().NoError(err)

	paused, err := s.svc.Transition(ctx, election.ID, models.StatusPaused)
	s.Require().NoError(err)
	s.Equal(models.StatusPaused, paused.Status)

	resumed, err := s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, resumed.Status)
}

func (s *ElectionServiceSuite) TestDraftCanBeAbandoned() {
	ctx := context.Background()

	closed, err := s.svc.Transition(ctx, s.createDraft().ID, models.StatusClosed)
	s.Require().NoError(err)
	s.Equal(models.StatusClosed, closed.Status)

	_, err = s.svc.Transition(ctx, closed.ID, models.StatusActive)
	s.True(derrors.HasCode(err, derrors.CodeConflict))
}

func (s *ElectionServiceSuite) TestDraftCanBePaused() {
	paused, err := s.svc.Transition(context.Background(), s.createDraft().ID, models.StatusPaused)
	s.Require().NoError(err)
	s.Equal(models.StatusPaused, paused.Status)
}

func (s *ElectionServiceSuite) TestCandidatesFrozenOutsideDraft() {
	election := s.createDraft()
	ctx := context.Background()
	s.addCandidates(election.ID, 2)

	_, err := s.svc.Transition(ctx, election.ID, models.StatusActive)
	s.Require().NoError(err)

	_, err = s.svc.AddCandidate(ctx, election.ID, "Late Entry", "")
	s.True(derrors.HasCode(err, derrors.CodeConflict))
}

func (s *ElectionServiceSuite) TestTransitionRejectsUnknownStatus() {
	election := s.createDraft()
	_, err := s.svc.Transition(context.Background(), election.ID, models.Status("ARCHIVED"))
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *ElectionServiceSuite) TestGetReturnsCandidates() {
	election := s.createDraft()
	s.addCandidates(election.ID, 3)

	got, candidates, err := s.svc.Get(context.Background(), election.ID)
	s.Require().NoError(err)
	s.Equal(election.ID, got.ID)
	s.Len(candidates, 3)
}

func (s *ElectionServiceSuite) TestUnknownElection() {
	_, _, err := s.svc.Get(context.Background(), id.NewElectionID())
	s.True(derrors.HasCode(err, derrors.CodeNotFound))
}
