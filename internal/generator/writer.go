package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

// WriteDocument writes content to {contentDir}/{slug}.md, creating contentDir if needed.
//
// When overwrite is false an existing file is left untouched and a CategoryAlreadyExists
// error is returned. existed reports whether a previous file was replaced.
func WriteDocument(contentDir, slug string, content []byte, overwrite bool) (path string, existed bool, err error) {
	if contentDir == "" {
		return "", false, ferrors.ConfigError("content directory is required").Build()
	}
	if slug == "" {
		return "", false, ferrors.ValidationError("slug is required").Build()
	}

	fullPath := filepath.Join(contentDir, slug+".md")
	rel, relErr := filepath.Rel(contentDir, fullPath)
	if relErr != nil || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return "", false, ferrors.ValidationError("slug escapes content directory").WithContext("slug", slug).Build()
	}

	if err = os.MkdirAll(contentDir, 0o750); err != nil {
		return "", false, ferrors.FileSystemError("create content directory").
			WithCause(err).
			WithContext("path", contentDir).
			Build()
	}

	if overwrite {
		if _, statErr := os.Stat(fullPath); statErr == nil {
			existed = true
		}
	}

	// #nosec G304 -- the temp file is created inside contentDir.
	tmp, err := os.CreateTemp(contentDir, "."+slug+".md.*.tmp")
	if err != nil {
		return "", false, ferrors.FileSystemError("create temp post file").WithCause(err).WithContext("path", contentDir).Build()
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return "", false, ferrors.FileSystemError("write post file").WithCause(err).WithContext("path", fullPath).Build()
	}
	if err := tmp.Close(); err != nil {
		return "", false, ferrors.FileSystemError("write post file").WithCause(err).WithContext("path", fullPath).Build()
	}
	// #nosec G302 -- posts are public content.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", false, ferrors.FileSystemError("chmod post file").WithCause(err).WithContext("path", tmpPath).Build()
	}

	if overwrite {
		if err := os.Rename(tmpPath, fullPath); err != nil {
			return "", false, ferrors.FileSystemError("replace post file").WithCause(err).WithContext("path", fullPath).Build()
		}
		return fullPath, existed, nil
	}

	// A hard link creates the name only if it is free, like O_EXCL.
	if err := os.Link(tmpPath, fullPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", true, ferrors.NewError(ferrors.CategoryAlreadyExists, "post already exists").
				Fatal().
				WithContext("path", fullPath).
				Build()
		}
		return "", false, ferrors.FileSystemError("create post file").WithCause(err).WithContext("path", fullPath).Build()
	}
	return fullPath, false, nil
}
