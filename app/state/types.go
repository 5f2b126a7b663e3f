package state

import (
	"github.com/lysyi3m/rss-reader/app/feed"
)

type UploadState string

const (
	UploadNone     UploadState = "none"
	UploadFilling  UploadState = "filling"
	UploadSending  UploadState = "sending"
	UploadFinished UploadState = "finished"
	UploadFailed   UploadState = "failed"
)

// Field names the part of the state replaced by a mutation
type Field string

const (
	FieldFeedURLs     Field = "feedsUrls"
	FieldFeedSources  Field = "feedSources"
	FieldFeedItems    Field = "feedItems"
	FieldLang         Field = "lang"
	FieldUploadState  Field = "feedUrlUploadState"
	FieldInputMessage Field = "inputMessage"
	FieldVisitedPosts Field = "visitedPosts"
	FieldModalData    Field = "modalData"
)

type ModalData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Snapshot is an immutable copy of the application state
type Snapshot struct {
	FeedURLs     []string
	Feeds        []feed.Feed // registration order
	Items        []feed.Item // insertion order, keyed by title
	Lang         string
	UploadState  UploadState
	InputMessage string
	VisitedPosts []string // most recent first
	Modal        ModalData
}

// Item looks up an item by key
func (s Snapshot) Item(key string) (feed.Item, bool) {
	for _, item := range s.Items {
		if item.Key() == key {
			return item, true
		}
	}
	return feed.Item{}, false
}

// Subscriber is notified after every field replacement, in mutation order.
// It must not mutate the store it is subscribed to.
type Subscriber func(field Field, snap Snapshot)
