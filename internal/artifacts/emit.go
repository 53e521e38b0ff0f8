// Package artifacts renders the derived build outputs (blog index, search index, RSS
// feed and sitemap) and copies the corpus into the public directory.
//
// Every artifact is a pure render over an immutable post slice followed by its own
// atomic file write, so one failing emitter never touches another's output.
package artifacts

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/metrics"
	"github.com/kalkulator/blogbuilder/internal/post"
)

// Artifact file names inside the output directory.
const (
	IndexFile   = "blog-index.json"
	SearchFile  = "search-index.json"
	RSSFile     = "rss.xml"
	SitemapFile = "sitemap.xml"
)

// Options configures an Emitter.
type Options struct {
	Site      Site
	OutputDir string

	RSSLimit        int
	SearchBodyLimit int

	// BuildTime stamps the feed's lastBuildDate. Zero means time.Now.
	BuildTime time.Time
}

// Emitter writes all artifacts for one build.
type Emitter struct {
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewEmitter returns an Emitter writing into opts.OutputDir.
func NewEmitter(opts Options, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{opts: opts, logger: logger, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (e *Emitter) WithRecorder(r metrics.Recorder) *Emitter {
	if r != nil {
		e.recorder = r
	}
	return e
}

type emitJob struct {
	name string
	run  func() error
}

// EmitAll writes the four artifacts concurrently and joins their errors.
func (e *Emitter) EmitAll(ctx context.Context, posts []post.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buildTime := e.opts.BuildTime
	if buildTime.IsZero() {
		buildTime = time.Now()
	}
	out := e.opts.OutputDir

	jobs := []emitJob{
		{IndexFile, func() error { return WriteIndex(filepath.Join(out, IndexFile), posts) }},
		{SearchFile, func() error {
			return WriteSearchIndex(filepath.Join(out, SearchFile), posts, e.opts.SearchBodyLimit)
		}},
		{RSSFile, func() error {
			return WriteRSS(filepath.Join(out, RSSFile), e.opts.Site, posts, e.opts.RSSLimit, buildTime)
		}},
		{SitemapFile, func() error { return WriteSitemap(filepath.Join(out, SitemapFile), e.opts.Site.URL, posts) }},
	}

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job emitJob) {
			defer wg.Done()
			start := time.Now()
			err := job.run()
			e.recorder.IncArtifactResult(job.name, err == nil)
			if err != nil {
				errs[i] = ferrors.FileSystemError("write artifact").
					WithCause(err).
					WithContext("artifact", job.name).
					Build()
				return
			}
			e.logger.Debug("Wrote artifact",
				logfields.Artifact(job.name),
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}(i, job)
	}
	wg.Wait()

	return errors.Join(errs...)
}
