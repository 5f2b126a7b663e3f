package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-reader/app/cfg"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/lysyi3m/rss-reader/app/tasks"
	"github.com/lysyi3m/rss-reader/app/validation"
	"github.com/lysyi3m/rss-reader/app/view"
)

func NewHandler(store *state.Store, scheduler tasks.TaskSchedulerInterface,
	translator *i18n.Translator, hub *Hub) *Handler {
	return &Handler{
		store:      store,
		scheduler:  scheduler,
		translator: translator,
		renderer:   view.NewRenderer(translator),
		generator:  feed.NewGenerator(),
		hub:        hub,
		startedAt:  time.Now(),
	}
}

// requestLang resolves the display language: ?lang, then Accept-Language, then the state language
func (h *Handler) requestLang(c *gin.Context) string {
	return h.translator.Match(c.Query("lang"), c.GetHeader("Accept-Language"), h.store.Lang())
}

func (h *Handler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "RSS Reader",
		"version":     cfg.Get().Version,
		"description": "RSS aggregator with periodic polling and a merged reading list",
		"endpoints": map[string]string{
			"health": "/health",
			"state":  "/api/state",
			"feeds":  "/api/feeds",
			"items":  "/api/items",
			"open":   "/api/items/open (POST)",
			"visit":  "/api/items/visit (POST)",
			"lang":   "/api/lang (PUT)",
			"events": "/api/events",
			"rss":    "/feed.xml",
		},
		"languages": h.translator.Languages(),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	snap := h.store.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"timestamp":     time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":        time.Since(h.startedAt).Round(time.Second).String(),
		"subscriptions": len(snap.FeedURLs),
		"feeds":         len(snap.Feeds),
		"items":         len(snap.Items),
		"streams":       h.hub.Clients(),
	})
}

func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.renderer.Page(h.store.Snapshot(), h.requestLang(c)))
}

func (h *Handler) ListFeeds(c *gin.Context) {
	snap := h.store.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"urls":  snap.FeedURLs,
		"feeds": h.renderer.Feeds(snap),
		"total": len(snap.Feeds),
	})
}

func (h *Handler) SubmitFeed(c *gin.Context) {
	// an empty body is a submission of an empty URL
	var req submitFeedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	lang := h.requestLang(c)

	task, err := h.scheduler.SubmitFeed(req.URL)
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   vErr.MessageID,
				"message": h.translator.T(lang, vErr.MessageID),
				"form":    h.renderer.Form(h.store.Snapshot(), lang),
			})
			return
		}

		slog.Error("Error enqueueing subscription", "feed", req.URL, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue subscription",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task": gin.H{
			"id":   task.GetID(),
			"type": task.GetType(),
			"url":  task.GetFeedURL(),
		},
		"form": h.renderer.Form(h.store.Snapshot(), lang),
	})
}

func (h *Handler) ListItems(c *gin.Context) {
	posts := h.renderer.Posts(h.store.Snapshot())

	c.JSON(http.StatusOK, gin.H{
		"items": posts,
		"total": len(posts),
	})
}

func (h *Handler) OpenItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing item id"})
		return
	}

	item, ok := h.store.OpenItem(req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":  item,
		"modal": h.renderer.Modal(h.store.Snapshot(), h.requestLang(c)),
	})
}

func (h *Handler) VisitItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing item id"})
		return
	}

	if _, ok := h.store.Snapshot().Item(req.ID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	h.store.Visit(req.ID)

	c.JSON(http.StatusOK, gin.H{"visited": h.store.Snapshot().VisitedPosts})
}

func (h *Handler) SetLang(c *gin.Context) {
	var req langRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing lang"})
		return
	}

	if !h.translator.Supports(req.Lang) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Unsupported language",
			"languages": h.translator.Languages(),
		})
		return
	}

	h.store.SetLang(req.Lang)

	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"lang":   snap.Lang,
		"labels": h.renderer.Labels(snap, snap.Lang),
	})
}

// StreamEvents sends the full page once, then one event per region re-render
func (h *Handler) StreamEvents(c *gin.Context) {
	ch, ok := h.hub.Join()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server is shutting down"})
		return
	}
	defer h.hub.Leave(ch)

	lang := h.requestLang(c)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("page", h.renderer.Page(h.store.Snapshot(), lang))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			update, ok := h.renderer.Update(n.field, n.snap, lang)
			if ok {
				c.SSEvent(string(update.Region), update)
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) GetFeedXML(c *gin.Context) {
	snap := h.store.Snapshot()

	rss, err := h.generator.Run(snap.Feeds, snap.Items)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(snap.Items)))
	c.Header("X-Feed-Sources", strconv.Itoa(len(snap.Feeds)))

	c.String(http.StatusOK, rss)
}
