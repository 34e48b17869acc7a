package ranking

import (
	"context"
	"sort"

	"recipe-finder/internal/pkg/common"
)

// OverlapRanker 本地排名：分數為使用者擁有的必要食材比例
//
// 沒有任何重疊的食譜不列入結果，因此空食材集合回傳空結果。
type OverlapRanker struct {
	recipes []common.Recipe
}

// NewOverlapRanker 創建本地排名器
func NewOverlapRanker(recipes []common.Recipe) *OverlapRanker {
	return &OverlapRanker{recipes: recipes}
}

// Rank 依重疊比例排名，同分以名稱排序
func (r *OverlapRanker) Rank(ctx context.Context, ingredients []common.Ingredient, limit int) ([]common.RankedRecipe, error) {
	have := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		have[common.CapitalizeSentence(ing.Name)] = true
	}

	ranked := make([]common.RankedRecipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		required := distinct(recipe.RequiredIngredients)
		if len(required) == 0 {
			continue
		}
		matched := 0
		for _, name := range required {
			if have[name] {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		ranked = append(ranked, common.RankedRecipe{
			Score:  float64(matched) / float64(len(required)),
			Recipe: recipe,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Recipe.Name < ranked[j].Recipe.Name
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		display := common.CapitalizeSentence(name)
		if display == "" || seen[display] {
			continue
		}
		seen[display] = true
		out = append(out, display)
	}
	return out
}
