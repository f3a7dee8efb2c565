package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/auth"
)

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(ctx, dsn, nil)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)

	require.NoError(t, s.Save(ctx, "one"))
	require.NoError(t, s.Save(ctx, "two"))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", got)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, dsn, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", got, "the slot survives a restart")

	require.NoError(t, reopened.Delete(ctx))
	_, err = reopened.Load(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)
}
