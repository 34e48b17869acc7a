package catalog

import (
	"context"
	"sync"

	"recipe-finder/internal/pkg/common"
)

// MemoryStore 以記憶體保存的目錄，可於執行期間以 Replace 整批替換
type MemoryStore struct {
	mu         sync.RWMutex
	categories []CategoryData
}

// NewMemoryStore 創建記憶體目錄
func NewMemoryStore(data *Data) *MemoryStore {
	s := &MemoryStore{}
	if data != nil {
		s.Replace(data.Categories)
	}
	return s
}

// Replace 替換全部分類
func (s *MemoryStore) Replace(categories []CategoryData) {
	copied := make([]CategoryData, len(categories))
	for i, c := range categories {
		copied[i] = CategoryData{Name: c.Name, Ingredients: append([]string(nil), c.Ingredients...)}
	}

	s.mu.Lock()
	s.categories = copied
	s.mu.Unlock()
}

// ListCategories 列出分類
func (s *MemoryStore) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.categories))
	for _, c := range s.categories {
		names = append(names, common.CapitalizeSentence(c.Name))
	}
	return names, nil
}

// ListIngredients 列出分類下的食材
func (s *MemoryStore) ListIngredients(ctx context.Context, category string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := []string{}
	for _, c := range s.categories {
		if common.CapitalizeSentence(c.Name) != category {
			continue
		}
		names = append(names, common.CapitalizeAll(c.Ingredients)...)
	}
	return names, nil
}

// FindIngredients 以顯示名稱解析食材
func (s *MemoryStore) FindIngredients(ctx context.Context, names []string) ([]common.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findIngredients(s.categories, names), nil
}
