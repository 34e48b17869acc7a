package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"recipe-finder/internal/pkg/common"
)

// Gateway 食材目錄的唯讀介面
//
// 所有名稱皆為顯示名稱（common.CapitalizeSentence 後的結果），
// 比對一律為完全相符。實作不得快取，每次呼叫都要讀取最新資料。
type Gateway interface {
	// ListCategories 依序列出分類顯示名稱
	ListCategories(ctx context.Context) ([]string, error)

	// ListIngredients 列出指定分類下的食材顯示名稱，分類不存在時回傳空切片
	ListIngredients(ctx context.Context, category string) ([]string, error)

	// FindIngredients 以顯示名稱找回食材記錄，找不到的名稱直接略過
	FindIngredients(ctx context.Context, names []string) ([]common.Ingredient, error)
}

// Data 目錄種子資料
type Data struct {
	Categories []CategoryData  `yaml:"categories"`
	Recipes    []common.Recipe `yaml:"recipes"`
}

// CategoryData 分類與其食材
type CategoryData struct {
	Name        string   `yaml:"name"`
	Ingredients []string `yaml:"ingredients"`
}

// LoadFile 讀取 YAML 種子檔
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse 解析 YAML 種子資料
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, c := range data.Categories {
		if c.Name == "" {
			return nil, common.NewValidationError(fmt.Sprintf("category #%d has no name", i+1))
		}
	}
	for i, r := range data.Recipes {
		if r.Name == "" {
			return nil, common.NewValidationError(fmt.Sprintf("recipe #%d has no name", i+1))
		}
	}
	return &data, nil
}

// findIngredients 依請求順序解析食材，未知名稱略過，重複記錄只保留一次
func findIngredients(categories []CategoryData, names []string) []common.Ingredient {
	type key struct{ name, category string }

	byName := make(map[string][]common.Ingredient)
	for _, c := range categories {
		category := common.CapitalizeSentence(c.Name)
		for _, ing := range c.Ingredients {
			display := common.CapitalizeSentence(ing)
			byName[display] = append(byName[display], common.Ingredient{Name: display, Category: category})
		}
	}

	seen := make(map[key]bool)
	result := make([]common.Ingredient, 0, len(names))
	for _, name := range names {
		for _, ing := range byName[name] {
			k := key{ing.Name, ing.Category}
			if seen[k] {
				continue
			}
			seen[k] = true
			result = append(result, ing)
		}
	}
	return result
}
