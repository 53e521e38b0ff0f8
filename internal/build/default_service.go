package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalkulator/blogbuilder/internal/artifacts"
	"github.com/kalkulator/blogbuilder/internal/corpus"
	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/metrics"
	"github.com/kalkulator/blogbuilder/internal/post"
)

// Stage names used in logs and metrics.
const (
	StageLoad = "load"
	StageEmit = "emit"
	StageCopy = "copy"
)

// PublicBlogDir is the subdirectory of the public directory that receives the corpus copy.
const PublicBlogDir = "blog"

// DefaultService is the standard Service implementation.
type DefaultService struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// NewService returns a DefaultService logging to logger.
func NewService(logger *slog.Logger) *DefaultService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultService{logger: logger, recorder: metrics.NoopRecorder{}, now: time.Now}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Run loads the corpus, then writes artifacts and copies the corpus concurrently.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	start := s.now()
	result := &Result{StartTime: start, BuildID: uuid.NewString()}
	logger := s.logger.With(logfields.BuildID(result.BuildID))

	if req.Config == nil {
		return s.finish(result, ferrors.ConfigError("config required").Build())
	}
	cfg := req.Config

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	logger.Info("Starting build",
		logfields.Path(cfg.ContentDir),
		slog.Bool("production", cfg.Production))

	stageStart := time.Now()
	loader := corpus.NewLoader(corpus.Config{
		Dir:             cfg.ContentDir,
		SiteURL:         cfg.SiteURL,
		Production:      cfg.Production,
		ExcerptLength:   cfg.ExcerptLength,
		DefaultCategory: cfg.DefaultCategory,
	}, logger).WithRecorder(s.recorder)
	posts, err := loader.Load(ctx)
	s.observeStage(logger, StageLoad, stageStart, err)
	if err != nil {
		return s.finish(result, err)
	}
	result.Loaded = len(posts)
	result.Published = len(post.Published(posts))
	s.recorder.SetPublishedPosts(result.Published)

	emitter := artifacts.NewEmitter(artifacts.Options{
		Site: artifacts.Site{
			URL:         cfg.SiteURL,
			Title:       cfg.SiteTitle,
			Description: cfg.SiteDescription,
			Language:    cfg.Language,
		},
		OutputDir:       cfg.OutputDir,
		RSSLimit:        cfg.RSSLimit,
		SearchBodyLimit: cfg.SearchBodyLimit,
		BuildTime:       start,
	}, logger).WithRecorder(s.recorder)

	var (
		wg      sync.WaitGroup
		emitErr error
		copyErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		t := time.Now()
		emitErr = emitter.EmitAll(ctx, posts)
		s.observeStage(logger, StageEmit, t, emitErr)
	}()
	go func() {
		defer wg.Done()
		t := time.Now()
		result.Copy, copyErr = artifacts.CopyCorpus(ctx, cfg.ContentDir, filepath.Join(cfg.PublicDir, PublicBlogDir), logger)
		s.observeStage(logger, StageCopy, t, copyErr)
	}()
	wg.Wait()

	if err := errors.Join(emitErr, copyErr); err != nil {
		return s.finish(result, err)
	}

	res, err := s.finish(result, nil)
	logger.Info("Build complete",
		logfields.Count(res.Published),
		slog.Int("copied", res.Copy.Copied),
		slog.Int("unchanged", res.Copy.Unchanged),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, err
}

func (s *DefaultService) observeStage(logger *slog.Logger, stage string, start time.Time, err error) {
	elapsed := time.Since(start)
	s.recorder.ObserveStageDuration(stage, elapsed)
	logger.Debug("Stage finished",
		logfields.Stage(stage),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000),
		logfields.Error(err))
	switch {
	case err == nil:
		s.recorder.IncStageResult(stage, metrics.ResultSuccess)
	case isCancellation(err):
		s.recorder.IncStageResult(stage, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(stage, metrics.ResultFatal)
	}
}

func (s *DefaultService) finish(result *Result, err error) (*Result, error) {
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.ObserveBuildDuration(result.Duration)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	case isCancellation(err):
		result.Status = StatusCancelled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		err = ferrors.BuildError("build cancelled").
			WithCause(err).
			WithContext("build_id", result.BuildID).
			Build()
	default:
		result.Status = StatusFailed
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	}
	return result, err
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
