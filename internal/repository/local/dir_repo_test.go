package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirRepo_Upload(t *testing.T) {
	root := t.TempDir()
	repo := NewDirRepo(root)

	require.NoError(t, repo.Upload(context.Background(), "synthetic_data/part-0000.csv", []byte("a,b\n"), "text/csv"))

	data, err := os.ReadFile(filepath.Join(root, "synthetic_data", "part-0000.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestDirRepo_RejectsEscapingKeys(t *testing.T) {
	repo := NewDirRepo(t.TempDir())
	for _, key := range []string{"../x.csv", "a/../../x.csv", "/etc/x.csv"} {
		assert.Error(t, repo.Upload(context.Background(), key, nil, ""), key)
	}
}

func TestDirRepo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewDirRepo(t.TempDir()).Upload(ctx, "a.csv", nil, ""), context.Canceled)
}
