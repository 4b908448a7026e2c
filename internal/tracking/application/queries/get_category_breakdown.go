package queries

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/application/services"
)

// GetCategoryBreakdownQuery requests per-category point totals for one day.
type GetCategoryBreakdownQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// GetCategoryBreakdownHandler handles the GetCategoryBreakdownQuery.
type GetCategoryBreakdownHandler struct {
	stats *services.StatsCalculator
}

// NewGetCategoryBreakdownHandler creates a new GetCategoryBreakdownHandler.
func NewGetCategoryBreakdownHandler(stats *services.StatsCalculator) *GetCategoryBreakdownHandler {
	return &GetCategoryBreakdownHandler{stats: stats}
}

// Handle executes the GetCategoryBreakdownQuery. Results are sorted by
// points descending, ties broken by category name; a display choice, not
// a contract the aggregation itself guarantees.
func (h *GetCategoryBreakdownHandler) Handle(ctx context.Context, query GetCategoryBreakdownQuery) ([]services.CategoryPoints, error) {
	breakdown, err := h.stats.CategoryBreakdown(ctx, query.UserID, query.Date)
	if err != nil {
		return nil, err
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Points != breakdown[j].Points {
			return breakdown[i].Points > breakdown[j].Points
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return breakdown, nil
}
