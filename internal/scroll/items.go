// ABOUTME: Flattened view over the scroll cache for renderers.
// ABOUTME: Evicted pages are represented by sized placeholders.
package scroll

import "github.com/harperreed/fitlog/internal/models"

// Placeholder stands in for an evicted older page.
type Placeholder struct {
	Page   int     `json:"page"`
	Size   int     `json:"size"`
	Height float64 `json:"height"`
}

// Item is one row of the rendered list: a record or a placeholder.
type Item struct {
	Record      *models.Record `json:"record,omitempty"`
	Placeholder *Placeholder   `json:"placeholder,omitempty"`
	// Page is -1 for the recent window.
	Page int `json:"page"`
}

// Items returns recent records followed by each older page in order.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]Item, 0, len(e.recent)+len(e.pages))
	for _, r := range e.recent {
		items = append(items, Item{Record: r, Page: -1})
	}
	for i, page := range e.pages {
		if page == nil {
			if e.pageSizes[i] == 0 {
				continue
			}
			h, ok := e.pageHeights[i]
			if !ok {
				h = EstimatePageHeight(e.pageSizes[i])
			}
			items = append(items, Item{
				Placeholder: &Placeholder{Page: i, Size: e.pageSizes[i], Height: h},
				Page:        i,
			})
			continue
		}
		for _, r := range page {
			items = append(items, Item{Record: r, Page: i})
		}
	}
	return items
}

// PageOf returns the index of the older page caching id, or -1.
func (e *Engine) PageOf(id int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, page := range e.pages {
		if indexOf(page, id) >= 0 {
			return i
		}
	}
	return -1
}
