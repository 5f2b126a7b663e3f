package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/state"
)

// RefreshFeedsTask is one reconciliation cycle over every subscribed URL.
//
// By default the fetches are joined: if any feed fails, nothing from this cycle
// is merged. With isolate set, successful feeds are merged and failures are
// reported together.
type RefreshFeedsTask struct {
	Task
	store   *state.Store
	fetcher Fetcher
	parser  *feed.Parser
	isolate bool
}

func NewRefreshFeedsTask(store *state.Store, fetcher Fetcher, parser *feed.Parser, isolate bool) *RefreshFeedsTask {
	return &RefreshFeedsTask{
		Task:    NewTask(TaskTypeRefreshFeeds, ""),
		store:   store,
		fetcher: fetcher,
		parser:  parser,
		isolate: isolate,
	}
}

func (t *RefreshFeedsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	urls := t.store.FeedURLs()
	if len(urls) == 0 {
		slog.Debug("No subscriptions to refresh")
		return nil
	}

	var (
		results [][]feed.Item
		err     error
	)
	if t.isolate {
		results, err = t.fetchIsolated(ctx, urls)
	} else {
		results, err = t.fetchJoined(ctx, urls)
		if err != nil {
			return err
		}
	}

	newCount := 0
	for _, items := range results {
		newCount += t.store.MergeItems(items)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feeds", len(urls),
		"duration", t.GetDuration(),
		"new", newCount)

	return err
}

// fetchJoined waits for all feeds or the first failure
func (t *RefreshFeedsTask) fetchJoined(ctx context.Context, urls []string) ([][]feed.Item, error) {
	results := make([][]feed.Item, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			_, items, err := loadFeed(gctx, t.fetcher, t.parser, url)
			if err != nil {
				return fmt.Errorf("refresh of %s failed: %w", url, err)
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchIsolated returns the items of every successful feed and the joined failures
func (t *RefreshFeedsTask) fetchIsolated(ctx context.Context, urls []string) ([][]feed.Item, error) {
	results := make([][]feed.Item, len(urls))
	errs := make([]error, len(urls))

	var g errgroup.Group
	for i, url := range urls {
		g.Go(func() error {
			_, items, err := loadFeed(ctx, t.fetcher, t.parser, url)
			if err != nil {
				slog.Warn("Feed refresh failed", "feed", url, "error", err)
				errs[i] = fmt.Errorf("refresh of %s failed: %w", url, err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	// failures are collected in errs, the group itself never fails
	_ = g.Wait()

	return results, errors.Join(errs...)
}
