package tasks

import (
	"context"
)

// TaskSchedulerInterface defines the scheduling operations used by the main
// application and the API.
// Example usage:
//
//	scheduler := NewScheduler(store, relayClient, parser, validator, Options{Interval: 5 * time.Second, WorkerCount: 2})
//	scheduler.Start()
//	defer scheduler.Stop()
//	task, err := scheduler.SubmitFeed("https://example.com/rss")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	SubmitFeed(feedURL string) (TaskInterface, error)
}

// Fetcher returns the raw feed document for a URL
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}
