package api

import (
	"time"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/lysyi3m/rss-reader/app/tasks"
	"github.com/lysyi3m/rss-reader/app/view"
)

type GeneratorInterface interface {
	Run(feeds []feed.Feed, items []feed.Item) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	store      *state.Store
	scheduler  tasks.TaskSchedulerInterface
	translator *i18n.Translator
	renderer   *view.Renderer
	generator  GeneratorInterface
	hub        *Hub
	startedAt  time.Time
}

type submitFeedRequest struct {
	URL string `json:"url"`
}

type itemRequest struct {
	ID string `json:"id" binding:"required"`
}

type langRequest struct {
	Lang string `json:"lang" binding:"required"`
}
