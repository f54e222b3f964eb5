package filecheckpointer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "sequenceNumber.txt"))

	seq, ok, err := c.Load(context.Background())
	assert.Nil(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", seq)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sequenceNumber.txt")
	c := New(path)

	require.Nil(t, c.Save(ctx, "1000"))
	require.Nil(t, c.Save(ctx, "1001"))

	seq, ok, err := New(path).Load(ctx)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1001", seq)

	b, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "1001", string(b))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "sequenceNumber.txt"))

	for _, seq := range []string{"1", "2", "3"} {
		require.Nil(t, c.Save(context.Background(), seq))
	}

	entries, err := os.ReadDir(dir)
	require.Nil(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadWhitespaceOnlyIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sequenceNumber.txt")
	require.Nil(t, os.WriteFile(path, []byte("\n"), 0o600))

	_, ok, err := New(path).Load(context.Background())
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestLoadTrimsTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sequenceNumber.txt")
	require.Nil(t, os.WriteFile(path, []byte("1234\n"), 0o600))

	seq, ok, err := New(path).Load(context.Background())
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1234", seq)
}

func TestSaveIntoMissingDirectoryFails(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing", "sequenceNumber.txt"))

	assert.Error(t, c.Save(context.Background(), "1"))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := New(filepath.Join(t.TempDir(), "sequenceNumber.txt"))

	assert.Nil(t, c.Clear(ctx))
	require.Nil(t, c.Save(ctx, "7"))
	assert.Nil(t, c.Clear(ctx))

	_, ok, err := c.Load(ctx)
	assert.Nil(t, err)
	assert.False(t, ok)
}
