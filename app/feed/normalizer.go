package feed

import (
	"github.com/google/uuid"
)

// Normalize shapes a parsed document into application records.
//
// Items are keyed by title. When a document repeats a title, the returned slice
// keeps the position of the first occurrence and the content of the last one.
func Normalize(metadata *Metadata, items []Item) (Feed, []Item) {
	feed := Feed{
		ID:          DeriveFeedID(metadata),
		Title:       metadata.Title,
		Description: metadata.Description,
		Link:        metadata.Link,
	}

	positions := make(map[string]int, len(items))
	normalized := make([]Item, 0, len(items))
	for _, item := range items {
		item.IsRead = false

		if pos, ok := positions[item.Key()]; ok {
			normalized[pos] = item
			continue
		}
		positions[item.Key()] = len(normalized)
		normalized = append(normalized, item)
	}

	return feed, normalized
}

// DeriveFeedID returns a stable name-based UUID for the channel. Two channels
// with the same title and link collide by construction.
func DeriveFeedID(metadata *Metadata) string {
	name := metadata.Link + "\n" + metadata.Title
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
