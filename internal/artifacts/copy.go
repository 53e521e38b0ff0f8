package artifacts

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/logfields"
)

// CopyResult counts what CopyCorpus did.
type CopyResult struct {
	Copied    int
	Unchanged int
}

// CopyCorpus copies every *.md file in srcDir verbatim into dstDir. Files whose
// destination already holds identical bytes are left alone. A missing
// srcDir copies nothing.
func CopyCorpus(ctx context.Context, srcDir, dstDir string, logger *slog.Logger) (CopyResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res CopyResult

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, nil
		}
		return res, ferrors.FileSystemError("read content directory").WithCause(err).WithContext("path", srcDir).Build()
	}
	if err := os.MkdirAll(dstDir, 0o750); err != nil {
		return res, ferrors.FileSystemError("create public directory").WithCause(err).WithContext("path", dstDir).Build()
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())

		// #nosec G304 -- src is an entry of the configured content directory.
		data, err := os.ReadFile(src)
		if err != nil {
			return res, ferrors.FileSystemError("read post").WithCause(err).WithContext("path", src).Build()
		}
		if sameContent(dst, data) {
			res.Unchanged++
			continue
		}
		if err := writeFileAtomic(dst, data); err != nil {
			return res, ferrors.FileSystemError("copy post").WithCause(err).WithContext("path", dst).Build()
		}
		res.Copied++
		logger.Debug("Copied post", logfields.File(entry.Name()))
	}
	return res, nil
}

func sameContent(dst string, data []byte) bool {
	// #nosec G304 -- dst is derived from a content directory entry.
	existing, err := os.ReadFile(dst)
	if err != nil {
		return false
	}
	return bytes.Equal(existing, data)
}
