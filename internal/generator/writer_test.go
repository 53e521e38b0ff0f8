package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

func TestWriteDocument(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content", "blog")

	fullPath, existed, err := WriteDocument(contentDir, "postotak", []byte("content"), false)
	require.NoError(t, err)
	require.False(t, existed)
	require.Equal(t, filepath.Join(contentDir, "postotak.md"), fullPath)

	// #nosec G304 -- fullPath is controlled by test.
	data, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	require.Equal(t, "content", string(data))
}

func TestWriteDocument_Existing(t *testing.T) {
	contentDir := t.TempDir()
	_, _, err := WriteDocument(contentDir, "postotak", []byte("first"), false)
	require.NoError(t, err)

	_, _, err = WriteDocument(contentDir, "postotak", []byte("second"), false)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))
	// #nosec G304 -- path is controlled by test.
	kept, err := os.ReadFile(filepath.Join(contentDir, "postotak.md"))
	require.NoError(t, err)
	require.Equal(t, "first", string(kept))

	path, existed, err := WriteDocument(contentDir, "postotak", []byte("third"), true)
	require.NoError(t, err)
	require.True(t, existed)
	// #nosec G304 -- path is controlled by test.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "third", string(data))
}

func TestWriteDocument_PathTraversal(t *testing.T) {
	_, _, err := WriteDocument(t.TempDir(), "../outside", []byte("content"), true)
	require.Error(t, err)
}

func TestWriteDocument_FailedReplaceLeavesNoTempFiles(t *testing.T) {
	contentDir := t.TempDir()
	// A directory in place of the post makes the final rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "postotak.md", "x"), 0o750))

	_, _, err := WriteDocument(contentDir, "postotak", []byte("content"), true)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	entries, err := os.ReadDir(contentDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "postotak.md", entries[0].Name())
}

func TestWriteDocument_NoTempFilesAfterSuccess(t *testing.T) {
	contentDir := t.TempDir()
	_, _, err := WriteDocument(contentDir, "postotak", []byte("first"), false)
	require.NoError(t, err)
	_, _, err = WriteDocument(contentDir, "postotak", []byte("second"), true)
	require.NoError(t, err)

	entries, err := os.ReadDir(contentDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	info, err := entries[0].Info()
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
