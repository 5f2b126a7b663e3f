package feed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// ErrNotRSS is returned for content that is not an RSS document
var ErrNotRSS = errors.New("content is not a valid RSS feed")

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw RSS XML. Atom and JSON feeds are rejected with ErrNotRSS.
func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("%w: empty document", ErrNotRSS)
	}

	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotRSS, err)
	}

	if parsed.FeedType != "rss" {
		return nil, nil, fmt.Errorf("%w: unsupported feed type %q", ErrNotRSS, parsed.FeedType)
	}

	metadata := &Metadata{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		items = append(items, Item{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
		})
	}

	return metadata, items, nil
}
