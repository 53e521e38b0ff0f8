// Package corpus loads the markdown content corpus into posts.
//
// Loading is sequential and tolerant: a document that cannot be read or is missing
// required front matter is logged and skipped, never failing the batch.
package corpus

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/frontmatter"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/metrics"
	"github.com/kalkulator/blogbuilder/internal/post"
)

// DefaultCategory labels posts whose front matter has no category.
const DefaultCategory = "Općenito"

// Config controls how the corpus is read.
type Config struct {
	Dir     string
	SiteURL string

	// Production drops drafts at load time.
	Production bool

	ExcerptLength   int
	DefaultCategory string
}

// Loader reads posts from a content directory.
type Loader struct {
	cfg      Config
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewLoader returns a Loader for cfg. Zero-valued limits fall back to package defaults.
func NewLoader(cfg Config, logger *slog.Logger) *Loader {
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = DefaultExcerptLength
	}
	if strings.TrimSpace(cfg.DefaultCategory) == "" {
		cfg.DefaultCategory = DefaultCategory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, logger: logger, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (l *Loader) WithRecorder(r metrics.Recorder) *Loader {
	if r != nil {
		l.recorder = r
	}
	return l
}

// Load parses every *.md file in the content directory, in filename order, and returns
// the accepted posts newest first. A missing directory yields an empty corpus.
func (l *Loader) Load(ctx context.Context) ([]post.Post, error) {
	entries, err := os.ReadDir(l.cfg.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("Content directory not found; corpus is empty", logfields.Path(l.cfg.Dir))
			return []post.Post{}, nil
		}
		return nil, ferrors.FileSystemError("read content directory").
			WithCause(err).
			WithContext("path", l.cfg.Dir).
			Build()
	}

	posts := make([]post.Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(l.cfg.Dir, entry.Name())
		p, err := l.LoadFile(path)
		if err != nil {
			l.recorder.IncPostResult(metrics.PostSkipped)
			l.logger.Warn("Skipping post", logfields.File(entry.Name()), logfields.Error(err))
			continue
		}
		if l.cfg.Production && !p.IsPublished() {
			l.recorder.IncPostResult(metrics.PostDraft)
			l.logger.Debug("Dropping draft in production mode", logfields.Slug(p.Slug))
			continue
		}
		l.recorder.IncPostResult(metrics.PostAccepted)
		posts = append(posts, p)
	}

	SortNewestFirst(posts)
	l.logger.Info("Loaded corpus", logfields.Path(l.cfg.Dir), logfields.Count(len(posts)))
	return posts, nil
}

// LoadFile reads and parses one document. The slug is the filename without extension.
func (l *Loader) LoadFile(path string) (post.Post, error) {
	// #nosec G304 -- path is an entry of the configured content directory.
	content, err := os.ReadFile(path)
	if err != nil {
		return post.Post{}, ferrors.ContentError("read post").WithCause(err).WithContext("path", path).Build()
	}
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return l.Parse(slug, content)
}

// Parse decodes a document and derives excerpt, read time and fingerprint.
func (l *Loader) Parse(slug string, content []byte) (post.Post, error) {
	var fm post.FrontMatter
	body, err := frontmatter.Decode(content, &fm)
	if err != nil {
		return post.Post{}, ferrors.ContentError("parse front matter").WithCause(err).WithContext("slug", slug).Build()
	}
	if missing := fm.MissingRequired(); len(missing) > 0 {
		return post.Post{}, ferrors.ContentError("missing required front matter").
			WithContext("slug", slug).
			WithContext("fields", strings.Join(missing, ",")).
			Build()
	}
	status, err := post.ParseStatus(string(fm.Status))
	if err != nil {
		return post.Post{}, ferrors.ContentError("unknown status").
			WithCause(err).
			WithContext("slug", slug).
			WithContext("status", string(fm.Status)).
			WithContext("valid", strings.Join(post.ValidStatuses(), ",")).
			Build()
	}

	published, err := post.ParseDate(fm.Date)
	if err != nil {
		return post.Post{}, ferrors.ContentError("invalid date").WithCause(err).WithContext("slug", slug).Build()
	}
	var modified time.Time
	if fm.UpdatedAt != "" {
		if modified, err = post.ParseDate(fm.UpdatedAt); err != nil {
			return post.Post{}, ferrors.ContentError("invalid updatedAt").WithCause(err).WithContext("slug", slug).Build()
		}
	}

	category := strings.TrimSpace(fm.Category)
	if category == "" {
		category = l.cfg.DefaultCategory
	}
	canonical := strings.TrimSpace(fm.Canonical)
	if canonical == "" {
		canonical = post.CanonicalURL(l.cfg.SiteURL, slug)
	}
	text := string(bytes.TrimLeft(body, "\r\n"))

	return post.Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		UpdatedAt:   fm.UpdatedAt,
		Status:      status,
		Tags:        fm.Tags,
		Category:    category,
		HeroImage:   fm.HeroImage,
		Canonical:   canonical,
		FAQ:         fm.FAQ,
		Body:        text,
		PublishedAt: published,
		ModifiedAt:  modified,
		Excerpt:     Excerpt(fm.Description, text, l.cfg.ExcerptLength),
		ReadTime:    ReadTime(text),
		Fingerprint: frontmatter.Fingerprint(content),
	}, nil
}

// SortNewestFirst orders posts by publication date, newest first. Equal dates keep
// their relative order.
func SortNewestFirst(posts []post.Post) {
	slices.SortStableFunc(posts, func(a, b post.Post) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}
