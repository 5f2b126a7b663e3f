package feed

// Channel-level data as found in the RSS document

type Metadata struct {
	Title       string
	Link        string
	Description string
}

// Application records

type Feed struct {
	ID          string `json:"id"` // derived from channel title and link
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Item struct {
	Title       string `json:"title"` // unique key within the item collection
	Description string `json:"description"`
	Link        string `json:"link"`
	IsRead      bool   `json:"isRead"`
}

// Key returns the identifier used for the item collection, visited list and API lookups
func (i Item) Key() string {
	return i.Title
}
