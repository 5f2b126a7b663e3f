package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/rss-reader/app/cfg"
)

// Generator renders the reading list as an RSS 2.0 document
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Run(feeds []Feed, items []Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	baseURL := g.baseURL()

	g.writeElement(&buf, "title", "RSS Reader", 4)
	g.writeElement(&buf, "link", baseURL, 4)
	g.writeElement(&buf, "description", g.describe(feeds), 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(baseURL+"/feed.xml")))

	g.writeElement(&buf, "lastBuildDate", g.now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("RSS-Reader/%s", cfg.Get().Version), 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) baseURL() string {
	if cfg.Get().BaseUrl != "" {
		return strings.TrimSuffix(cfg.Get().BaseUrl, "/")
	}
	return fmt.Sprintf("http://localhost:%s", cfg.Get().Port)
}

func (g *Generator) describe(feeds []Feed) string {
	if len(feeds) == 0 {
		return "No subscriptions yet"
	}

	titles := make([]string, 0, len(feeds))
	for _, f := range feeds {
		titles = append(titles, cmp.Or(f.Title, f.Link))
	}
	return "Aggregated from " + strings.Join(titles, ", ")
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	guid := cmp.Or(item.Link, item.Title)
	if guid != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(guid)))
		xml.EscapeText(buf, []byte(guid))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)
	g.writeElement(buf, "description", cmp.Or(item.Description, "No description available"), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
