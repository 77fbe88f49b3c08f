package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_AppendList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	s, err := NewFileStore(path)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	empty, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, kind := range []Kind{KindClaimWeth, KindClaimToken, KindBurn} {
		r := NewRecord(kind)
		r.TxHash = "0x" + string(kind)
		r.Success = true
		require.NoError(t, s.Append(ctx, r))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, KindBurn, all[0].Kind, "newest first")
	assert.Equal(t, KindClaimWeth, all[2].Kind)
	assert.NotEmpty(t, all[0].ID)
	assert.False(t, all[0].CreatedAt.IsZero())

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, KindClaimToken, two[1].Kind)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, NewRecord(KindSubmit)))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, s.Append(ctx, NewRecord(KindBurn)))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, KindBurn, all[0].Kind)
}

func TestFileStore_DefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	s, err := NewFileStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "clawctl", FileName), s.Path())
}

func TestNullStore(t *testing.T) {
	var s Store = NewNullStore()
	require.NoError(t, s.Append(context.Background(), NewRecord(KindBurn)))
	got, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewMongoStore_RequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), "", "")
	assert.Error(t, err)
}
