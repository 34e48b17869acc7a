package ranking

import (
	"context"

	"recipe-finder/internal/pkg/common"
)

// Ranker 依使用者食材為食譜評分，回傳分數由高到低、最多 limit 筆
type Ranker interface {
	Rank(ctx context.Context, ingredients []common.Ingredient, limit int) ([]common.RankedRecipe, error)
}
