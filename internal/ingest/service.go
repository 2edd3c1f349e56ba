package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"travel-news/internal/article"
	"travel-news/internal/sink"
)

// Notifier is told about every article that was stored for the first time.
type Notifier interface {
	PublishArticleCreated(ctx context.Context, a *article.Article) error
}

type SourceReport struct {
	Source     article.Source
	Fetched    int
	Rejected   int
	Inserted   int
	Duplicates int
	Err        error // non-nil when the source contributed nothing this run
}

type Report struct {
	RunID   string
	Sources []SourceReport
	Stored  int
	Top     []article.Article
	SinkErr error
}

type Service struct {
	repo     article.Repository
	sources  []Source
	sinks    sink.Set
	notifier Notifier
	topN     int
	logger   *log.Logger
	now      func() time.Time
}

func NewService(repo article.Repository, sources []Source, sinks sink.Set, notifier Notifier, topN int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		repo:     repo,
		sources:  sources,
		sinks:    sinks,
		notifier: notifier,
		topN:     topN,
		logger:   logger,
		now:      time.Now,
	}
}

// RunOnce fetches every source concurrently, stores what is new, ranks the
// whole store and hands the result to the sinks. Only a storage failure makes
// it return an error; failed sources and sinks are recorded in the Report.
func (s *Service) RunOnce(ctx context.Context) (Report, error) {
	report := Report{
		RunID:   uuid.NewString(),
		Sources: make([]SourceReport, len(s.sources)),
	}
	s.logger.Printf("run %s: starting news pipeline (%d sources)", report.RunID, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			rep, err := s.ingestSource(gctx, src)
			report.Sources[i] = rep
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	all, err := s.repo.QueryAll(ctx)
	if err != nil {
		return report, err
	}
	report.Stored = len(all)
	report.Top = article.SelectTopN(all, s.topN)

	report.SinkErr = errors.Join(
		s.export(ctx, s.sinks.Archive, all),
		s.export(ctx, s.sinks.Top, report.Top),
	)

	s.logger.Printf("run %s: done, %d articles stored, top %d selected", report.RunID, report.Stored, len(report.Top))
	return report, nil
}

func (s *Service) ingestSource(ctx context.Context, src Source) (SourceReport, error) {
	rep := SourceReport{Source: src.Name()}

	raws, err := src.FetchListing(ctx)
	if err != nil {
		s.logger.Printf("failed to scrape %s: %v", src.Name(), err)
		rep.Err = err
		return rep, nil
	}
	rep.Fetched = len(raws)
	s.logger.Printf("fetched %d articles from %s", rep.Fetched, src.Name())

	now := s.now()
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		a, err := Normalize(raw, src, now)
		if err != nil {
			rep.Rejected++
			s.logger.Printf("dropping %s candidate %d: %v", src.Name(), i+1, err)
			continue
		}
		if _, ok := seen[a.URL]; ok {
			rep.Duplicates++
			continue
		}
		seen[a.URL] = struct{}{}

		res, err := s.repo.InsertIfNew(ctx, &a)
		if err != nil {
			return rep, fmt.Errorf("store %s articles: %w", src.Name(), err)
		}

		switch res {
		case article.Inserted:
			rep.Inserted++
			s.notify(ctx, &a)
		case article.AlreadyPresent:
			rep.Duplicates++
		}
	}

	s.logger.Printf("%s: fetched=%d inserted=%d duplicates=%d rejected=%d",
		src.Name(), rep.Fetched, rep.Inserted, rep.Duplicates, rep.Rejected)
	return rep, nil
}

func (s *Service) notify(ctx context.Context, a *article.Article) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishArticleCreated(ctx, a); err != nil {
		s.logger.Printf("failed publishing article %s: %v", a.URL, err)
	}
}

func (s *Service) export(ctx context.Context, sinks []sink.Sink, articles []article.Article) error {
	var errs []error
	for _, sk := range sinks {
		if err := sk.Write(ctx, articles); err != nil {
			s.logger.Printf("sink %s failed: %v", sk.Name(), err)
			errs = append(errs, fmt.Errorf("sink %s: %w", sk.Name(), err))
			continue
		}
		s.logger.Printf("wrote %d articles to %s", len(articles), sk.Name())
	}
	return errors.Join(errs...)
}
