package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type fetchCall struct {
	url   string
	start time.Time
	end   time.Time
}

// fakeFetcher serves canned documents keyed by feed URL
type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[string][]byte
	errs  map[string]error
	delay time.Duration
	calls []fetchCall
	// failFirst makes the first n calls return failErr
	failFirst int
	failErr   error
	// failures makes the next n calls for a URL return failErr
	failures map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		docs:     make(map[string][]byte),
		errs:     make(map[string]error),
		failures: make(map[string]int),
	}
}

func (f *fakeFetcher) set(url string, doc []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[url] = doc
	delete(f.errs, url)
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fetchCall{url: url, start: start, end: time.Now()})

	if f.failFirst > 0 {
		f.failFirst--
		return nil, f.failErr
	}
	if f.failures[url] > 0 {
		f.failures[url]--
		return nil, f.failErr
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	doc, ok := f.docs[url]
	if !ok {
		return nil, fmt.Errorf("no document for %s", url)
	}
	return doc, nil
}

func (f *fakeFetcher) countCalls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.calls {
		if call.url == url {
			n++
		}
	}
	return n
}

func (f *fakeFetcher) getCalls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

// rssDoc builds an RSS 2.0 document whose items are named by title
func rssDoc(channel string, titles ...string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0"><channel>`)
	fmt.Fprintf(&b, "<title>%s</title><link>https://%s.example.com</link><description>About %s</description>",
		channel, channel, channel)
	for _, title := range titles {
		fmt.Fprintf(&b, "<item><title>%s</title><link>https://%s.example.com/%s</link><description>%s from %s</description></item>",
			title, channel, strings.ReplaceAll(title, " ", "-"), title, channel)
	}
	b.WriteString(`</channel></rss>`)
	return []byte(b.String())
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
