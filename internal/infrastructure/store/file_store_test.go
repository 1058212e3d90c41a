package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "c1:cart", `[{"id":1,"quantity":2}]`))
	require.NoError(t, s.Set(ctx, "c1:loggedInUser", `{"name":"Amina"}`))
	require.NoError(t, s.Delete(ctx, "c1:loggedInUser"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "c1:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1,"quantity":2}]`, v)

	_, ok, err = reopened.Get(ctx, "c1:loggedInUser")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreMissingAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenFileStore(filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	_, ok, _ := s.Get(context.Background(), "k")
	assert.False(t, ok)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = OpenFileStore(empty)
	assert.NoError(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("[1,2"), 0o644))
	_, err = OpenFileStore(broken)
	assert.Error(t, err)
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	assert.NoError(t, s.Delete(context.Background(), "nothing"))
}
