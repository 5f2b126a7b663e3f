package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/state"
)

// SubscribeFeedTask ingests a validated submission
type SubscribeFeedTask struct {
	Task
	store   *state.Store
	fetcher Fetcher
	parser  *feed.Parser
}

func NewSubscribeFeedTask(feedURL string, store *state.Store, fetcher Fetcher, parser *feed.Parser) *SubscribeFeedTask {
	return &SubscribeFeedTask{
		Task:    NewTask(TaskTypeSubscribeFeed, feedURL),
		store:   store,
		fetcher: fetcher,
		parser:  parser,
	}
}

func (t *SubscribeFeedTask) Execute(ctx context.Context) error {
	source, items, err := loadFeed(ctx, t.fetcher, t.parser, t.FeedURL)
	if err != nil {
		t.store.SetInputMessage(messageFor(err))
		t.store.SetUploadState(state.UploadFailed)
		return err
	}

	newCount := t.store.MergeItems(items)
	if t.store.RegisterFeed(source) {
		slog.Debug("Feed registered", "feed", t.FeedURL, "id", source.ID, "title", source.Title)
	}
	t.store.AddURL(t.FeedURL)

	t.store.SetUploadState(state.UploadFinished)
	t.store.SetInputMessage(i18n.MsgSuccess)

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.FeedURL,
		"duration", t.GetDuration(),
		"total", len(items),
		"new", newCount)

	return nil
}
