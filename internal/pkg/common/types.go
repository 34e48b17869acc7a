package common

// Ingredient 食材
type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

// Recipe 食譜（由排名服務產生，本服務只讀取）
type Recipe struct {
	Name                string   `json:"name" yaml:"name"`
	RequiredIngredients []string `json:"required_ingredients" yaml:"ingredients"`
	Link                string   `json:"link" yaml:"link"`
}

// RankedRecipe 排名結果，Score 介於 0 到 1
type RankedRecipe struct {
	Score  float64 `json:"score"`
	Recipe Recipe  `json:"recipe"`
}

// IngredientNames 取出食材名稱
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	return names
}
