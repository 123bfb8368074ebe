// Package render turns view-model snapshots into HTML pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// ImageURLs maps a remote image URL to the URL the page should load it from.
// An empty result means the image must not be rendered.
type ImageURLs interface {
	ProxyURL(rawURL string) string
}

// Card is a product as shown in the list grid and the list API.
type Card struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	PriceText          string  `json:"priceText"`
	Image              string  `json:"image,omitempty"`
	AvailabilityStatus string  `json:"availabilityStatus"`
}

// ListView is the data of the list page.
type ListView struct {
	service.ListState
	Cards []Card
}

// ErrorView is the data of the error page.
type ErrorView struct {
	Status        int
	Title         string
	Message       string
	CorrelationID string
}

// Renderer executes the page templates.
type Renderer struct {
	pages  map[string]*template.Template
	images ImageURLs
}

// New parses the embedded templates.
func New(images ImageURLs) (*Renderer, error) {
	funcs := template.FuncMap{
		"image":   images.ProxyURL,
		"pageURL": pageURL,
		"sortURL": sortURL,
		"apiURL":  apiURL,
	}

	r := &Renderer{
		pages:  make(map[string]*template.Template),
		images: images,
	}

	for _, page := range []string{"list", "detail", "error"} {
		t, err := template.New("layout.html").
			Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

// Cards converts products into grid cards.
func (r *Renderer) Cards(items []model.Product) []Card {
	cards := make([]Card, 0, len(items))
	for _, p := range items {
		cards = append(cards, Card{
			ID:                 p.ID,
			Title:              p.Title,
			Description:        p.Description,
			Category:           p.Category,
			Price:              p.Price,
			PriceText:          service.FormatPrice(p.Price),
			Image:              r.images.ProxyURL(p.Thumbnail),
			AvailabilityStatus: p.AvailabilityStatus,
		})
	}
	return cards
}

// List writes the product list page.
func (r *Renderer) List(w http.ResponseWriter, status int, state service.ListState) error {
	return r.execute(w, "list", status, ListView{ListState: state, Cards: r.Cards(state.Items)})
}

// Detail writes the product detail page.
func (r *Renderer) Detail(w http.ResponseWriter, status int, detail *service.ProductDetail) error {
	return r.execute(w, "detail", status, detail)
}

// Error writes the error page with view.Status.
func (r *Renderer) Error(w http.ResponseWriter, view ErrorView) error {
	return r.execute(w, "error", view.Status, view)
}

// execute renders into a buffer first so a template failure never leaves a
// half-written page behind.
func (r *Renderer) execute(w http.ResponseWriter, page string, status int, data interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s page: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// pageURL links to another page of the list. Filters are not carried over.
func pageURL(page int) string {
	return "/products?page=" + strconv.Itoa(page)
}

// sortURL links to the current page and filter with the given sort order.
func sortURL(state service.ListState, order string) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(state.Page))
	if state.CategoryFilter != "" {
		values.Set("category", state.CategoryFilter)
	}
	values.Set("sort", order)
	return "/products?" + values.Encode()
}

// apiURL is the JSON endpoint the client-rendered page loads its data from.
func apiURL(state service.ListState) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(state.Page))
	if state.CategoryFilter != "" {
		values.Set("category", state.CategoryFilter)
	}
	if state.SortOrder != model.SortNone {
		values.Set("sort", string(state.SortOrder))
	}
	return "/api/products?" + values.Encode()
}
