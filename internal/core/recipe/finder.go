package recipe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/ranking"
	"recipe-finder/internal/pkg/common"
)

// DefaultLimit 每次最多推薦的食譜數
const DefaultLimit = 5

// Result 一筆排名後的推薦結果
type Result struct {
	Rank    int
	Score   float64
	Recipe  common.Recipe
	Have    []string
	Missing []string
}

// Finder 將會話中的食材交給排名服務，並拆分每道食譜的已有/缺少食材
type Finder struct {
	catalog catalog.Gateway
	ranker  ranking.Ranker
	limit   int
}

// NewFinder 創建食譜查詢服務
func NewFinder(gateway catalog.Gateway, ranker ranking.Ranker, limit int) *Finder {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Finder{
		catalog: gateway,
		ranker:  ranker,
		limit:   limit,
	}
}

// Find 解析食材、呼叫排名並計算已有/缺少
func (f *Finder) Find(ctx context.Context, ingredientNames []string) ([]Result, error) {
	start := time.Now()

	// 目錄中已不存在的名稱直接略過
	resolved, err := f.catalog.FindIngredients(ctx, ingredientNames)
	if err != nil {
		return nil, common.EnsureCode(common.ErrCatalogUnavailable, fmt.Errorf("failed to resolve ingredients: %w", err))
	}

	ranked, err := f.ranker.Rank(ctx, resolved, f.limit)
	if err != nil {
		return nil, common.EnsureCode(common.ErrRankingUnavailable, fmt.Errorf("failed to rank recipes: %w", err))
	}

	owned := common.IngredientNames(resolved)
	results := make([]Result, 0, len(ranked))
	for i, r := range ranked {
		have, missing := Partition(r.Recipe.RequiredIngredients, owned)
		results = append(results, Result{
			Rank:    i + 1,
			Score:   r.Score,
			Recipe:  r.Recipe,
			Have:    have,
			Missing: missing,
		})
	}

	common.LogInfo("食譜排名完成",
		zap.Int("requested", len(ingredientNames)),
		zap.Int("resolved", len(resolved)),
		zap.Int("results", len(results)),
		zap.Duration("耗時", time.Since(start)),
	)
	return results, nil
}

// Done 查詢並輸出單一則格式化訊息
func (f *Finder) Done(ctx context.Context, ingredientNames []string) (string, error) {
	results, err := f.Find(ctx, ingredientNames)
	if err != nil {
		return "", err
	}
	return Render(results), nil
}

// Partition 將必要食材拆成已有與缺少兩組
//
// 名稱先經 common.CapitalizeSentence 正規化並去重，保留食譜原本的順序；
// 兩組互斥且聯集等於必要食材。
func Partition(required, owned []string) (have, missing []string) {
	ownedSet := make(map[string]bool, len(owned))
	for _, name := range owned {
		ownedSet[common.CapitalizeSentence(name)] = true
	}

	have = []string{}
	missing = []string{}
	seen := make(map[string]bool, len(required))
	for _, name := range required {
		display := common.CapitalizeSentence(name)
		if display == "" || seen[display] {
			continue
		}
		seen[display] = true
		if ownedSet[display] {
			have = append(have, display)
		} else {
			missing = append(missing, display)
		}
	}
	return have, missing
}
