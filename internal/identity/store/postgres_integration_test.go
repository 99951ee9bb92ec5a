package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"securevote/internal/biometric"
	"securevote/internal/identity/models"
	"securevote/internal/identity/store"
	"securevote/pkg/platform/sentinel"
	"securevote/pkg/testutil"
)

func TestPostgresIdentityRoundTrip(t *testing.T) {
	db := testutil.StartPostgres(t)
	ctx := testutil.WaitCtx(t)
	st := store.NewPostgres(db)

	identity := &models.Identity{
		Handle:      models.DeriveHandle("ID-1234-5678", "pepper"),
		ContactHash: models.DeriveContactRef("voter@example.com", "pepper"),
		Templates:   []biometric.Template{[]byte("tpl-1"), []byte("tpl-2")},
		EnrolledAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.Create(ctx, identity))

	// Duplicate enrollment hits the primary key.
	require.ErrorIs(t, st.Create(ctx, identity), sentinel.ErrConflict)

	loaded, err := st.FindByHandle(ctx, identity.Handle)
	require.NoError(t, err)
	require.Equal(t, identity.ContactHash, loaded.ContactHash)
	require.Equal(t, identity.Templates, loaded.Templates)
	require.True(t, loaded.EnrolledAt.Equal(identity.EnrolledAt))

	// Replace swaps templates wholesale.
	identity.Templates = []biometric.Template{[]byte("tpl-3")}
	require.NoError(t, st.Replace(ctx, identity))
	loaded, err = st.FindByHandle(ctx, identity.Handle)
	require.NoError(t, err)
	require.Len(t, loaded.Templates, 1)

	require.NoError(t, st.Delete(ctx, identity.Handle))
	_, err = st.FindByHandle(ctx, identity.Handle)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.ErrorIs(t, st.Delete(ctx, identity.Handle), sentinel.ErrNotFound)
}
