package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"securevote/internal/biometric"
	"securevote/internal/identity/models"
	"securevote/internal/identity/service"
	"securevote/internal/identity/store"
	"securevote/internal/platform/config"
	"securevote/mocks"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/requestcontext"
)

type IdentityServiceSuite struct {
	suite.Suite

	ctrl    *gomock.Controller
	matcher *mocks.MockMatcher
	store   *store.InMemoryStore
	cfg     config.Config
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.matcher = mocks.NewMockMatcher(s.ctrl)
	s.store = store.NewInMemory()
	s.cfg = config.Config{
		HandlePepper:     "test-pepper",
		MinEnrollSamples: 2,
		EnrollmentPolicy: config.EnrollmentReject,
	}
}

func (s *IdentityServiceSuite) newService() *service.Service {
	return service.New(s.store, s.matcher, s.cfg)
}

func (s *IdentityServiceSuite) TestEnrollStoresDerivedIdentity() {
	samples := [][]byte{[]byte("sample-a"), []byte("sample-b")}
	s.matcher.EXPECT().
		ExtractTemplate(gomock.Any(), gomock.Any()).
		Return(biometric.Template("tpl"), nil).
		Times(2)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	handle, err := s.newService().Enroll(ctx, "ID-1234-5678", "voter@example.com", samples)
	s.Require().NoError(err)
	s.Equal(models.DeriveHandle("ID-1234-5678", "test-pepper"), handle)

	stored, err := s.store.FindByHandle(ctx, handle)
	s.Require().NoError(err)
	s.Len(stored.Templates, 2)
	s.Equal(now, stored.EnrolledAt)
	s.NotContains(stored.ContactHash, "@", "contact must not be stored in the clear")
}

func (s *IdentityServiceSuite) TestEnrollIsDeterministicPerIdentifier() {
	s.matcher.EXPECT().
		ExtractTemplate(gomock.Any(), gomock.Any()).
		Return(biometric.Template("tpl"), nil).
		AnyTimes()

	svc := s.newService()
	ctx := context.Background()
	samples := [][]byte{[]byte("a"), []byte("b")}

	first, err := svc.Enroll(ctx, "id 1234 5678", "voter@example.com", samples)
	s.Require().NoError(err)

	// Same identifier modulo case and whitespace collides with the first
	// enrollment instead of minting a second handle.
	_, err = svc.Enroll(ctx, "Id 1234 5678", "other@example.com", samples)
	s.Require().Error(err)
	s.True(derrors.HasCode(err, derrors.CodeConflict))
	s.Equal(models.DeriveHandle("ID12345678", "test-pepper"), first)
}

func (s *IdentityServiceSuite) TestEnrollReplacePolicyOverwrites() {
	s.cfg.EnrollmentPolicy = config.EnrollmentReplace
	s.matcher.EXPECT().
		ExtractTemplate(gomock.Any(), gomock.Any()).
		Return(biometric.Template("tpl"), nil).
		AnyTimes()

	svc := s.newService()
	ctx := context.Background()
	samples := [][]byte{[]byte("a"), []byte("b")}

	first, err := svc.Enroll(ctx, "ID-9", "voter@example.com", samples)
	s.Require().NoError(err)
	second, err := svc.Enroll(ctx, "ID-9", "voter@example.com", samples)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *IdentityServiceSuite) TestEnrollRejectsTooFewUsableSamples() {
	// Two samples submitted, but one yields no features.
	gomock.InOrder(
		s.matcher.EXPECT().ExtractTemplate(gomock.Any(), gomock.Any()).Return(biometric.Template("tpl"), nil),
		s.matcher.EXPECT().ExtractTemplate(gomock.Any(), gomock.Any()).Return(nil, biometric.ErrNoFeatures),
	)

	_, err := s.newService().Enroll(context.Background(), "ID-1", "voter@example.com",
		[][]byte{[]byte("good"), []byte("blank")})
	s.Require().Error(err)
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *IdentityServiceSuite) TestEnrollRejectsMissingInput() {
	svc := s.newService()
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "", "voter@example.com", [][]byte{[]byte("a"), []byte("b")})
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))

	_, err = svc.Enroll(ctx, "ID-1", "", [][]byte{[]byte("a"), []byte("b")})
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))

	_, err = svc.Enroll(ctx, "ID-1", "voter@example.com", [][]byte{[]byte("a")})
	s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *IdentityServiceSuite) TestAuthenticateMatchesStoredTemplates() {
	s.matcher.EXPECT().
		ExtractTemplate(gomock.Any(), gomock.Any()).
		Return(biometric.Template("tpl"), nil).
		Times(2)

	svc := s.newService()
	ctx := context.Background()
	handle, err := svc.Enroll(ctx, "ID-1", "voter@example.com", [][]byte{[]byte("a"), []byte("b")})
	s.Require().NoError(err)

	s.matcher.EXPECT().
		Match(gomock.Any(), []byte("probe"), gomock.Len(2)).
		Return(biometric.MatchResult{Matched: true, Distance: 0.31}, nil)

	result, err := svc.Authenticate(ctx, handle, []byte("probe"))
	s.Require().NoError(err)
	s.True(result.Matched)
	s.InDelta(0.31, result.Distance, 1e-9)
}

func (s *IdentityServiceSuite) TestAuthenticateUnknownHandle() {
	_, err := s.newService().Authenticate(context.Background(), models.DeriveHandle("nobody", "test-pepper"), []byte("probe"))
	s.Require().Error(err)
	s.True(derrors.HasCode(err, derrors.CodeNotFound))
}
