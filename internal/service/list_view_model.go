package service

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// DefaultPageSize is the list page size used when none is configured.
const DefaultPageSize = 10

// ListOptions configures a ListViewModel.
type ListOptions struct {
	PageSize int
	Mode     model.RenderMode
}

// CategoryOption is one entry of the category filter.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ListState is an immutable snapshot of a ListViewModel handed to the
// rendering layer.
type ListState struct {
	Mode           model.RenderMode `json:"mode"`
	Page           int              `json:"page"`
	PageSize       int              `json:"pageSize"`
	Total          int              `json:"total"`
	TotalPages     int              `json:"totalPages"`
	Items          []model.Product  `json:"products"`
	Categories     []CategoryOption `json:"categories"`
	CategoryFilter string           `json:"category,omitempty"`
	SortOrder      model.SortOrder  `json:"sort,omitempty"`
	HasPrevious    bool             `json:"hasPrevious"`
	HasNext        bool             `json:"hasNext"`
	PreviousPage   int              `json:"previousPage,omitempty"`
	NextPage       int              `json:"nextPage,omitempty"`
}

// ListViewModel holds one loaded catalog page and the filter and sort state
// applied to it. Categories are derived from the loaded page only.
//
// It is safe for concurrent use. When several Loads overlap, the result of
// the most recently issued one wins and older results are dropped.
type ListViewModel struct {
	catalog  PageFetcher
	pageSize int
	mode     model.RenderMode
	logger   zerolog.Logger

	mu             sync.Mutex
	seq            uint64
	currentPage    int
	loaded         []model.Product
	total          int
	categories     []string
	categoryFilter string
	sortOrder      model.SortOrder
}

// NewListViewModel creates an empty view-model on page 1.
func NewListViewModel(catalog PageFetcher, opts ListOptions, logger zerolog.Logger) *ListViewModel {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Mode == "" {
		opts.Mode = model.RenderServer
	}
	return &ListViewModel{
		catalog:     catalog,
		pageSize:    opts.PageSize,
		mode:        opts.Mode,
		logger:      logger.With().Str("component", "list-view-model").Logger(),
		currentPage: 1,
		loaded:      []model.Product{},
		categories:  []string{},
	}
}

// Load fetches page and replaces the loaded items. It reports whether the
// result was applied; a result is discarded if another Load was issued
// while it was in flight.
func (vm *ListViewModel) Load(ctx context.Context, page int) bool {
	if page < 1 {
		page = 1
	}

	vm.mu.Lock()
	vm.seq++
	seq := vm.seq
	vm.mu.Unlock()

	result := vm.catalog.FetchPage(ctx, page, vm.pageSize)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if seq != vm.seq {
		vm.logger.Debug().
			Int("page", page).
			Uint64("seq", seq).
			Uint64("latest_seq", vm.seq).
			Msg("discarding stale page load")
		return false
	}

	items := result.Items
	if items == nil {
		items = []model.Product{}
	}

	vm.currentPage = page
	vm.loaded = items
	vm.total = result.Total
	vm.categories = distinctCategories(items)

	vm.logger.Debug().
		Int("page", page).
		Int("count", len(items)).
		Int("total", result.Total).
		Int("categories", len(vm.categories)).
		Msg("page loaded")

	return true
}

// SetCategoryFilter restricts visible items to an exact category. An empty
// category clears the filter.
func (vm *ListViewModel) SetCategoryFilter(category string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.categoryFilter = category
}

// SetSortOrder sets the price ordering of visible items.
func (vm *ListViewModel) SetSortOrder(order model.SortOrder) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.sortOrder = order
}

// ResetFilters clears the category filter and the sort order.
func (vm *ListViewModel) ResetFilters() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.categoryFilter = ""
	vm.sortOrder = model.SortNone
}

// VisibleItems returns the loaded items after filtering and sorting.
func (vm *ListViewModel) VisibleItems() []model.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.visibleLocked()
}

func (vm *ListViewModel) visibleLocked() []model.Product {
	out := make([]model.Product, 0, len(vm.loaded))
	for _, p := range vm.loaded {
		if vm.categoryFilter == "" || p.Category == vm.categoryFilter {
			out = append(out, p)
		}
	}

	switch vm.sortOrder {
	case model.SortAscending:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case model.SortDescending:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	}

	return out
}

// LoadedItems returns the items of the loaded page in catalog order.
func (vm *ListViewModel) LoadedItems() []model.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return slices.Clone(vm.loaded)
}

// Categories returns the distinct categories of the loaded page.
func (vm *ListViewModel) Categories() []string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return slices.Clone(vm.categories)
}

// CurrentPage returns the page of the last applied Load.
func (vm *ListViewModel) CurrentPage() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.currentPage
}

// Total returns the catalog size reported with the loaded page.
func (vm *ListViewModel) Total() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.total
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func (vm *ListViewModel) TotalPages() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.totalPagesLocked()
}

func (vm *ListViewModel) totalPagesLocked() int {
	pages := (vm.total + vm.pageSize - 1) / vm.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// HasPrevious reports whether a previous page exists.
func (vm *ListViewModel) HasPrevious() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.currentPage > 1
}

// HasNext reports whether a next page exists.
func (vm *ListViewModel) HasNext() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.currentPage < vm.totalPagesLocked()
}

// Mode returns the configured rendering mode.
func (vm *ListViewModel) Mode() model.RenderMode {
	return vm.mode
}

// Snapshot captures the current state for rendering.
func (vm *ListViewModel) Snapshot() ListState {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	options := make([]CategoryOption, 0, len(vm.categories))
	for _, c := range vm.categories {
		options = append(options, CategoryOption{Value: c, Label: CategoryLabel(c)})
	}

	totalPages := vm.totalPagesLocked()
	state := ListState{
		Mode:           vm.mode,
		Page:           vm.currentPage,
		PageSize:       vm.pageSize,
		Total:          vm.total,
		TotalPages:     totalPages,
		Items:          vm.visibleLocked(),
		Categories:     options,
		CategoryFilter: vm.categoryFilter,
		SortOrder:      vm.sortOrder,
		HasPrevious:    vm.currentPage > 1,
		HasNext:        vm.currentPage < totalPages,
	}
	if state.HasPrevious {
		state.PreviousPage = vm.currentPage - 1
	}
	if state.HasNext {
		state.NextPage = vm.currentPage + 1
	}

	return state
}

// distinctCategories returns the non-empty categories of items in
// first-seen order.
func distinctCategories(items []model.Product) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, p := range items {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
