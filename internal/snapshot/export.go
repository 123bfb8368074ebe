package snapshot

import (
	"context"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/model"
)

// ExportBatchSize is the page size used when walking a source.
const ExportBatchSize = 100

// Export reads every product from src, batch products at a time, until the
// reported total is reached or a page comes back empty.
func Export(ctx context.Context, src catalog.Source, batch int) (*model.Page, error) {
	if batch < 1 {
		batch = ExportBatchSize
	}

	out := &model.Page{Items: []model.Product{}}
	for {
		page, err := src.FetchPage(ctx, batch, len(out.Items))
		if err != nil {
			return nil, fmt.Errorf("failed to export catalog at skip=%d: %w", len(out.Items), err)
		}
		if page == nil || len(page.Items) == 0 {
			break
		}

		out.Items = append(out.Items, page.Items...)
		out.Total = page.Total

		if len(out.Items) >= page.Total {
			break
		}
	}

	out.Normalize(0)
	return out, nil
}
