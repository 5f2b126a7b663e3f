// Package view turns state snapshots into localized page regions.
package view

import (
	"slices"

	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/state"
)

var regions = map[state.Field]Region{
	state.FieldFeedURLs:     RegionForm,
	state.FieldUploadState:  RegionForm,
	state.FieldInputMessage: RegionForm,
	state.FieldFeedSources:  RegionFeeds,
	state.FieldFeedItems:    RegionPosts,
	state.FieldVisitedPosts: RegionPosts,
	state.FieldModalData:    RegionModal,
	state.FieldLang:         RegionLabels,
}

// RegionFor returns the region that depends on field
func RegionFor(field state.Field) (Region, bool) {
	region, ok := regions[field]
	return region, ok
}

type Renderer struct {
	translator *i18n.Translator
}

func NewRenderer(translator *i18n.Translator) *Renderer {
	return &Renderer{translator: translator}
}

// Page renders every region. An empty or unsupported lang falls back to the
// snapshot language.
func (r *Renderer) Page(snap state.Snapshot, lang string) Page {
	lang = r.resolve(snap, lang)
	return Page{
		Lang:   lang,
		Labels: r.labels(lang),
		Form:   r.form(snap, lang),
		Feeds:  r.feeds(snap),
		Posts:  r.posts(snap),
		Modal:  r.modal(snap, lang),
	}
}

// Update renders the region affected by a change of field
func (r *Renderer) Update(field state.Field, snap state.Snapshot, lang string) (Update, bool) {
	region, ok := RegionFor(field)
	if !ok {
		return Update{}, false
	}
	lang = r.resolve(snap, lang)

	var data any
	switch region {
	case RegionLabels:
		data = r.labels(lang)
	case RegionForm:
		data = r.form(snap, lang)
	case RegionFeeds:
		data = r.feeds(snap)
	case RegionPosts:
		data = r.posts(snap)
	case RegionModal:
		data = r.modal(snap, lang)
	}

	return Update{Region: region, Field: string(field), Data: data}, true
}

func (r *Renderer) Posts(snap state.Snapshot) []PostView {
	return r.posts(snap)
}

func (r *Renderer) Feeds(snap state.Snapshot) []FeedView {
	return r.feeds(snap)
}

func (r *Renderer) Form(snap state.Snapshot, lang string) Form {
	return r.form(snap, r.resolve(snap, lang))
}

func (r *Renderer) Modal(snap state.Snapshot, lang string) Modal {
	return r.modal(snap, r.resolve(snap, lang))
}

func (r *Renderer) Labels(snap state.Snapshot, lang string) Labels {
	return r.labels(r.resolve(snap, lang))
}

func (r *Renderer) resolve(snap state.Snapshot, lang string) string {
	return r.translator.Match(lang, snap.Lang)
}

func (r *Renderer) labels(lang string) Labels {
	t := func(key string) string { return r.translator.T(lang, key) }
	return Labels{
		InputLabel: t("INPUT_LABEL"),
		Submit:     t("SUBMIT"),
		Example:    t("EXAMPLE") + ExampleURL,
		Feeds:      t("FEEDS"),
		Posts:      t("POSTS"),
		Close:      t("CLOSE"),
		View:       t("VIEW"),
		ReadMore:   t("READ_MORE"),
	}
}

func (r *Renderer) form(snap state.Snapshot, lang string) Form {
	form := Form{
		State:         string(snap.UploadState),
		MessageID:     snap.InputMessage,
		Disabled:      snap.UploadState == state.UploadSending,
		Subscriptions: len(snap.FeedURLs),
	}
	if snap.InputMessage != "" {
		form.Message = r.translator.T(lang, snap.InputMessage)
	}

	switch snap.UploadState {
	case state.UploadFinished:
		form.Status = "success"
	case state.UploadFailed:
		form.Status = "danger"
	}
	return form
}

func (r *Renderer) feeds(snap state.Snapshot) []FeedView {
	feeds := make([]FeedView, 0, len(snap.Feeds))
	// newest first
	for _, f := range slices.Backward(snap.Feeds) {
		feeds = append(feeds, FeedView{ID: f.ID, Title: f.Title, Description: f.Description, Link: f.Link})
	}
	return feeds
}

func (r *Renderer) posts(snap state.Snapshot) []PostView {
	visited := make(map[string]struct{}, len(snap.VisitedPosts))
	for _, id := range snap.VisitedPosts {
		visited[id] = struct{}{}
	}

	posts := make([]PostView, 0, len(snap.Items))
	for _, item := range snap.Items {
		_, seen := visited[item.Key()]
		posts = append(posts, PostView{
			ID:      item.Key(),
			Title:   item.Title,
			Link:    item.Link,
			IsRead:  item.IsRead,
			Visited: seen,
		})
	}
	return posts
}

func (r *Renderer) modal(snap state.Snapshot, lang string) Modal {
	return Modal{
		Title:       snap.Modal.Title,
		Description: snap.Modal.Description,
		Link:        snap.Modal.Link,
		ReadMore:    r.translator.T(lang, "READ_MORE"),
		Close:       r.translator.T(lang, "CLOSE"),
	}
}
