package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/lysyi3m/rss-reader/app/validation"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrQueueFull = errors.New("task queue is full")

const taskTimeout = 5 * time.Minute

type Options struct {
	// Interval is the delay between the end of one refresh cycle and the start of the next
	Interval          time.Duration
	WorkerCount       int
	QueueSize         int
	IsolateFeedErrors bool
}

type Scheduler struct {
	store     *state.Store
	fetcher   Fetcher
	parser    *feed.Parser
	validator *validation.Validator
	interval  time.Duration
	workers   int
	isolate   bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(store *state.Store, fetcher Fetcher, parser *feed.Parser,
	validator *validation.Validator, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.WorkerCount < 1 {
		opts.WorkerCount = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 100
	}

	return &Scheduler{
		store:     store,
		fetcher:   fetcher,
		parser:    parser,
		validator: validator,
		interval:  opts.Interval,
		workers:   opts.WorkerCount,
		isolate:   opts.IsolateFeedErrors,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, opts.QueueSize),
	}
}

// Start launches the workers and the refresh loop. The first cycle runs
// immediately; each following cycle starts one interval after the previous
// one completed, whatever its outcome.
func (s *Scheduler) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-timer.C:
				task := NewRefreshFeedsTask(s.store, s.fetcher, s.parser, s.isolate)
				s.executeTask(-1, task)
				timer.Reset(s.interval)
			}
		}
	}()
}

// Stop cancels in-flight work and waits for every goroutine to exit.
// Pending queued tasks are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return ErrQueueFull
	}
}

// SubmitFeed validates feedURL against the current subscriptions and queues
// its ingestion. Validation failures are recorded in the store and returned as
// *validation.Error.
func (s *Scheduler) SubmitFeed(feedURL string) (TaskInterface, error) {
	if err := s.validator.ValidateSubmission(feedURL, s.store.FeedURLs()); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			s.store.SetInputMessage(vErr.MessageID)
		} else {
			s.store.SetInputMessage(err.Error())
		}
		s.store.SetUploadState(state.UploadFailed)
		slog.Debug("Feed submission rejected", "feed", feedURL, "error", err)
		return nil, err
	}

	s.store.SetUploadState(state.UploadSending)

	task := NewSubscribeFeedTask(feedURL, s.store, s.fetcher, s.parser)
	if err := s.EnqueueTask(task); err != nil {
		s.store.SetInputMessage(err.Error())
		s.store.SetUploadState(state.UploadFailed)
		return nil, fmt.Errorf("failed to enqueue subscription: %w", err)
	}

	slog.Debug("Feed submission queued", "feed", feedURL, "id", task.GetID())
	return task, nil
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
			slog.Debug("Task interrupted by shutdown", "type", string(task.GetType()), "id", task.GetID())
			return
		}
		slog.Error("Task execution failed",
			"worker_id", workerID,
			"type", string(task.GetType()),
			"id", task.GetID(),
			"feed", task.GetFeedURL(),
			"duration", task.GetDuration(),
			"error", err)
	}
}
