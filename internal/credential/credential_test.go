package credential_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securevote/internal/credential"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
)

func TestIssueAndValidate(t *testing.T) {
	svc := credential.NewService("signing-key")
	handle := id.VoterHandle("handle-1")
	now := time.Now()

	token, err := svc.Issue(handle, credential.RoleVoter, 10*time.Minute, now)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, handle.String(), claims.VoterHandle)
	require.Equal(t, credential.RoleVoter, claims.Role)
}

func TestExpiredCredentialRejected(t *testing.T) {
	svc := credential.NewService("signing-key")

	token, err := svc.Issue("handle-1", credential.RoleVoter, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.True(t, derrors.HasCode(err, derrors.CodeUnauthorized))
}

func TestWrongKeyRejected(t *testing.T) {
	token, err := credential.NewService("key-a").Issue("handle-1", credential.RoleVoter, time.Minute, time.Now())
	require.NoError(t, err)

	_, err = credential.NewService("key-b").Validate(token)
	require.True(t, derrors.HasCode(err, derrors.CodeUnauthorized))
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := credential.NewService("signing-key")
	_, err := svc.Validate("not-a-token")
	require.True(t, derrors.HasCode(err, derrors.CodeUnauthorized))
}

func TestAdminCredentialCarriesNoHandle(t *testing.T) {
	svc := credential.NewService("signing-key")

	token, err := svc.Issue("", credential.RoleAdmin, time.Minute, time.Now())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Empty(t, claims.VoterHandle)
	require.Equal(t, credential.RoleAdmin, claims.Role)
}
