package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

// RedisStore 以 Redis list 保存的目錄
//
//	<prefix>:categories                 分類原始名稱
//	<prefix>:ingredients:<category>     該分類下的食材原始名稱
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 創建 Redis 目錄並測試連接
func NewRedisStore(cfg *config.CatalogConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	// 測試連接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 目錄已連接",
		zap.String("addr", cfg.RedisAddr),
		zap.String("prefix", cfg.KeyPrefix),
	)

	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient 以既有的連線創建目錄
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "catalog"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) categoriesKey() string {
	return s.prefix + ":categories"
}

func (s *RedisStore) ingredientsKey(category string) string {
	return fmt.Sprintf("%s:ingredients:%s", s.prefix, category)
}

// ListCategories 列出分類
func (s *RedisStore) ListCategories(ctx context.Context) ([]string, error) {
	raw, err := s.rawCategories(ctx)
	if err != nil {
		return nil, err
	}
	return common.CapitalizeAll(raw), nil
}

// ListIngredients 列出分類下的食材
func (s *RedisStore) ListIngredients(ctx context.Context, category string) ([]string, error) {
	raw, err := s.rawCategories(ctx)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, c := range raw {
		if common.CapitalizeSentence(c) != category {
			continue
		}
		items, err := s.client.LRange(ctx, s.ingredientsKey(c), 0, -1).Result()
		if err != nil {
			return nil, common.ErrCatalogUnavailable.Wrap(fmt.Errorf("failed to list ingredients: %w", err))
		}
		names = append(names, common.CapitalizeAll(items)...)
	}
	return names, nil
}

// FindIngredients 以顯示名稱解析食材
func (s *RedisStore) FindIngredients(ctx context.Context, names []string) ([]common.Ingredient, error) {
	if len(names) == 0 {
		return []common.Ingredient{}, nil
	}

	categories, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return findIngredients(categories, names), nil
}

// Seed 以種子資料覆寫目錄
func (s *RedisStore) Seed(ctx context.Context, data *Data) error {
	old, err := s.rawCategories(ctx)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, c := range old {
			pipe.Del(ctx, s.ingredientsKey(c))
		}
		pipe.Del(ctx, s.categoriesKey())
		for _, c := range data.Categories {
			pipe.RPush(ctx, s.categoriesKey(), c.Name)
			if len(c.Ingredients) == 0 {
				continue
			}
			items := make([]interface{}, len(c.Ingredients))
			for i, ing := range c.Ingredients {
				items[i] = ing
			}
			pipe.RPush(ctx, s.ingredientsKey(c.Name), items...)
		}
		return nil
	})
	if err != nil {
		return common.ErrCatalogUnavailable.Wrap(fmt.Errorf("failed to seed catalog: %w", err))
	}

	common.LogInfo("目錄已寫入 Redis", zap.Int("categories", len(data.Categories)))
	return nil
}

// Close 關閉連接
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) rawCategories(ctx context.Context) ([]string, error) {
	raw, err := s.client.LRange(ctx, s.categoriesKey(), 0, -1).Result()
	if err != nil {
		return nil, common.ErrCatalogUnavailable.Wrap(fmt.Errorf("failed to list categories: %w", err))
	}
	return raw, nil
}

func (s *RedisStore) snapshot(ctx context.Context) ([]CategoryData, error) {
	raw, err := s.rawCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]CategoryData, 0, len(raw))
	for _, c := range raw {
		items, err := s.client.LRange(ctx, s.ingredientsKey(c), 0, -1).Result()
		if err != nil {
			return nil, common.ErrCatalogUnavailable.Wrap(fmt.Errorf("failed to list ingredients: %w", err))
		}
		categories = append(categories, CategoryData{Name: c, Ingredients: items})
	}
	return categories, nil
}
