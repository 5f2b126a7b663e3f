package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/relay"
)

// loadFeed runs fetch, parse and normalize for one URL
func loadFeed(ctx context.Context, fetcher Fetcher, parser *feed.Parser, feedURL string) (feed.Feed, []feed.Item, error) {
	data, err := fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return feed.Feed{}, nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	metadata, items, err := parser.Run(data)
	if err != nil {
		return feed.Feed{}, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	normalized, keyed := feed.Normalize(metadata, items)
	return normalized, keyed, nil
}

// messageFor maps a submission error to the message id shown to the user
func messageFor(err error) string {
	var statusErr *relay.StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, relay.ErrNetwork):
		return i18n.MsgNetworkError
	case errors.Is(err, relay.ErrNoData), errors.Is(err, feed.ErrNotRSS):
		return i18n.MsgNoData
	default:
		return err.Error()
	}
}
