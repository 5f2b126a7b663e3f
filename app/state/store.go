// Package state holds the observed application state.
//
// Every mutation replaces whole fields and is followed by a notification to all
// subscribers. Notifications are delivered in mutation order and never overlap.
package state

import (
	"slices"
	"sync"

	"github.com/lysyi3m/rss-reader/app/feed"
)

type subscription struct {
	id int
	fn Subscriber
}

type Store struct {
	mu         sync.Mutex
	dispatchMu sync.Mutex

	feedURLs []string
	feeds    []feed.Feed
	items    map[string]feed.Item
	order    []string
	lang     string
	upload   UploadState
	message  string
	visited  []string
	modal    ModalData

	subscribers []subscription
	nextID      int
}

func New(lang string) *Store {
	return &Store{
		items:  make(map[string]feed.Item),
		lang:   lang,
		upload: UploadNone,
	}
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers = append(slices.Clone(s.subscribers), subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = slices.DeleteFunc(slices.Clone(s.subscribers), func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) HasURL(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.feedURLs, url)
}

func (s *Store) FeedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.feedURLs)
}

func (s *Store) Lang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// AddURL appends url unless it is already subscribed
func (s *Store) AddURL(url string) bool {
	added := false
	s.update(func() []Field {
		if slices.Contains(s.feedURLs, url) {
			return nil
		}
		s.feedURLs = append(slices.Clone(s.feedURLs), url)
		added = true
		return []Field{FieldFeedURLs}
	})
	return added
}

// RegisterFeed stores f unless a feed with the same ID is already known
func (s *Store) RegisterFeed(f feed.Feed) bool {
	added := false
	s.update(func() []Field {
		for _, existing := range s.feeds {
			if existing.ID == f.ID {
				return nil
			}
		}
		s.feeds = append(slices.Clone(s.feeds), f)
		added = true
		return []Field{FieldFeedSources}
	})
	return added
}

// MergeItems adds the items whose title is not yet present. Known items,
// including their read flag, are left untouched. It returns the number added.
func (s *Store) MergeItems(items []feed.Item) int {
	added := 0
	s.update(func() []Field {
		var fresh []feed.Item
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			key := item.Key()
			if _, ok := s.items[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			fresh = append(fresh, item)
		}
		if len(fresh) == 0 {
			return nil
		}

		next := make(map[string]feed.Item, len(s.items)+len(fresh))
		for key, item := range s.items {
			next[key] = item
		}
		order := slices.Clone(s.order)
		for _, item := range fresh {
			next[item.Key()] = item
			order = append(order, item.Key())
		}

		s.items = next
		s.order = order
		added = len(fresh)
		return []Field{FieldFeedItems}
	})
	return added
}

// OpenItem marks the item read and shows it in the modal panel
func (s *Store) OpenItem(key string) (feed.Item, bool) {
	var opened feed.Item
	found := false
	s.update(func() []Field {
		item, ok := s.items[key]
		if !ok {
			return nil
		}
		found = true

		fields := []Field{}
		if !item.IsRead {
			item.IsRead = true
			next := make(map[string]feed.Item, len(s.items))
			for k, v := range s.items {
				next[k] = v
			}
			next[key] = item
			s.items = next
			fields = append(fields, FieldFeedItems)
		}

		s.modal = ModalData{Title: item.Title, Description: item.Description, Link: item.Link}
		opened = item
		return append(fields, FieldModalData)
	})
	return opened, found
}

// Visit prepends id to the visited list. Repeated visits are recorded again.
func (s *Store) Visit(id string) {
	s.update(func() []Field {
		visited := make([]string, 0, len(s.visited)+1)
		visited = append(visited, id)
		s.visited = append(visited, s.visited...)
		return []Field{FieldVisitedPosts}
	})
}

func (s *Store) SetUploadState(upload UploadState) {
	s.update(func() []Field {
		s.upload = upload
		return []Field{FieldUploadState}
	})
}

func (s *Store) SetInputMessage(message string) {
	s.update(func() []Field {
		s.message = message
		return []Field{FieldInputMessage}
	})
}

func (s *Store) SetLang(lang string) {
	s.update(func() []Field {
		if s.lang == lang {
			return nil
		}
		s.lang = lang
		return []Field{FieldLang}
	})
}

// update runs mutate under the state lock and notifies subscribers of the
// returned fields. The dispatch lock is taken before the state lock is released
// so notifications keep mutation order.
func (s *Store) update(mutate func() []Field) {
	s.mu.Lock()
	fields := mutate()
	if len(fields) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	subscribers := s.subscribers

	s.dispatchMu.Lock()
	s.mu.Unlock()
	defer s.dispatchMu.Unlock()

	for _, field := range fields {
		for _, sub := range subscribers {
			sub.fn(field, snap)
		}
	}
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]feed.Item, 0, len(s.order))
	for _, key := range s.order {
		items = append(items, s.items[key])
	}

	return Snapshot{
		FeedURLs:     slices.Clone(s.feedURLs),
		Feeds:        slices.Clone(s.feeds),
		Items:        items,
		Lang:         s.lang,
		UploadState:  s.upload,
		InputMessage: s.message,
		VisitedPosts: slices.Clone(s.visited),
		Modal:        s.modal,
	}
}
