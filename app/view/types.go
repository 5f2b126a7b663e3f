package view

// Region is a part of the page re-rendered as a whole
type Region string

const (
	RegionLabels Region = "labels"
	RegionForm   Region = "form"
	RegionFeeds  Region = "feeds"
	RegionPosts  Region = "posts"
	RegionModal  Region = "modal"
)

const ExampleURL = "https://ru.hexlet.io/lessons.rss"

type Labels struct {
	InputLabel string `json:"inputLabel"`
	Submit     string `json:"submit"`
	Example    string `json:"example"`
	Feeds      string `json:"feeds"`
	Posts      string `json:"posts"`
	Close      string `json:"close"`
	View       string `json:"view"`
	ReadMore   string `json:"readMore"`
}

type Form struct {
	State         string `json:"state"`
	MessageID     string `json:"messageId,omitempty"`
	Message       string `json:"message,omitempty"`
	Status        string `json:"status,omitempty"` // "success" or "danger"
	Disabled      bool   `json:"disabled"`
	Subscriptions int    `json:"subscriptions"`
}

type FeedView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type PostView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	IsRead  bool   `json:"isRead"`
	Visited bool   `json:"visited"`
}

type Modal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ReadMore    string `json:"readMore"`
	Close       string `json:"close"`
}

// Page is the whole rendered interface
type Page struct {
	Lang   string     `json:"lang"`
	Labels Labels     `json:"labels"`
	Form   Form       `json:"form"`
	Feeds  []FeedView `json:"feeds"`
	Posts  []PostView `json:"posts"`
	Modal  Modal      `json:"modal"`
}

// Update is one region re-render triggered by a state field replacement
type Update struct {
	Region Region `json:"region"`
	Field  string `json:"field"`
	Data   any    `json:"data"`
}
