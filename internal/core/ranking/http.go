package ranking

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

// HTTPRanker 呼叫外部排名服務
type HTTPRanker struct {
	client *resty.Client
}

type rankRequest struct {
	Ingredients []common.Ingredient `json:"ingredients"`
	Limit       int                 `json:"limit"`
}

type rankResponse struct {
	Results []common.RankedRecipe `json:"results"`
}

// NewHTTPRanker 創建排名服務客戶端
func NewHTTPRanker(cfg *config.RankingConfig) *HTTPRanker {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "recipe-finder")

	return &HTTPRanker{client: client}
}

// Rank 取得排名結果
func (r *HTTPRanker) Rank(ctx context.Context, ingredients []common.Ingredient, limit int) ([]common.RankedRecipe, error) {
	if ingredients == nil {
		ingredients = []common.Ingredient{}
	}

	common.LogDebug("Sending request to ranking service",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("limit", limit),
	)

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(rankRequest{Ingredients: ingredients, Limit: limit}).
		Post("/rank")
	if err != nil {
		return nil, common.ErrRankingUnavailable.Wrap(fmt.Errorf("failed to send request to ranking service: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("Ranking service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("response", resp.String()),
		)
		return nil, common.ErrRankingUnavailable.Wrap(fmt.Errorf("ranking service returned status %d", resp.StatusCode()))
	}

	var result rankResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.ErrRankingUnavailable.Wrap(fmt.Errorf("failed to parse ranking response: %w", err))
	}

	if len(result.Results) > limit {
		result.Results = result.Results[:limit]
	}
	return result.Results, nil
}
