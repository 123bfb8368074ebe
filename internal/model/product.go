package model

import "strings"

// Product represents a catalog product as served by the remote catalog.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	Thumbnail          string   `json:"thumbnail"`
	Category           string   `json:"category"`
	AvailabilityStatus string   `json:"availabilityStatus"`
	Images             []string `json:"images"`
}

// Normalize fills in fields the upstream may omit.
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Price < 0 {
		p.Price = 0
	}
}

// Page is one window of the catalog together with the full catalog size.
type Page struct {
	Items []Product `json:"products"`
	Total int       `json:"total"`
}

// EmptyPage returns the page used when a list fetch fails.
func EmptyPage() Page {
	return Page{Items: []Product{}, Total: 0}
}

// Normalize enforces 0 <= len(Items) <= limit and Total >= len(Items).
func (p *Page) Normalize(limit int) {
	if p.Items == nil {
		p.Items = []Product{}
	}
	if limit > 0 && len(p.Items) > limit {
		p.Items = p.Items[:limit]
	}
	for i := range p.Items {
		p.Items[i].Normalize()
	}
	if p.Total < len(p.Items) {
		p.Total = len(p.Items)
	}
}

// SortOrder is the price ordering applied to a list.
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder maps a query value to a SortOrder. Unknown values are unset.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAscending:
		return SortAscending
	case SortDescending:
		return SortDescending
	default:
		return SortNone
	}
}

// Badge is the presentation style of an availability label.
type Badge string

const (
	BadgePositive Badge = "positive"
	BadgeWarning  Badge = "warning"
	BadgeNegative Badge = "negative"
	BadgeNeutral  Badge = "neutral"
)

var availabilityBadges = map[string]Badge{
	"in stock":     BadgePositive,
	"low stock":    BadgeWarning,
	"out of stock": BadgeNegative,
}

// AvailabilityBadge maps an availability label to its badge, ignoring case.
func AvailabilityBadge(status string) Badge {
	if b, ok := availabilityBadges[strings.ToLower(strings.TrimSpace(status))]; ok {
		return b
	}
	return BadgeNeutral
}

// RenderMode selects how the list page gets its data.
type RenderMode string

const (
	// RenderServer renders the list with data fetched on the server.
	RenderServer RenderMode = "server"
	// RenderClient renders a shell and lets the browser fetch /api/products.
	RenderClient RenderMode = "client"
)
