package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

var testRecipes = []common.Recipe{
	{Name: "pancakes", RequiredIngredients: []string{"egg", "flour", "milk"}, Link: "https://example.com/pancakes"},
	{Name: "omelette", RequiredIngredients: []string{"egg", "butter"}, Link: "https://example.com/omelette"},
	{Name: "toast", RequiredIngredients: []string{"bread", "butter"}, Link: "https://example.com/toast"},
	{Name: "custard", RequiredIngredients: []string{"egg", "milk", "sugar"}, Link: "https://example.com/custard"},
}

func ingredients(names ...string) []common.Ingredient {
	out := make([]common.Ingredient, 0, len(names))
	for _, n := range names {
		out = append(out, common.Ingredient{Name: n})
	}
	return out
}

func TestOverlapRanker_ScoresAndOrder(t *testing.T) {
	ranker := NewOverlapRanker(testRecipes)

	ranked, err := ranker.Rank(context.Background(), ingredients("Egg", "Milk"), 5)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "custard", ranked[0].Recipe.Name)
	assert.InDelta(t, 2.0/3.0, ranked[0].Score, 1e-9)
	assert.Equal(t, "pancakes", ranked[1].Recipe.Name)
	assert.InDelta(t, 2.0/3.0, ranked[1].Score, 1e-9)
	assert.Equal(t, "omelette", ranked[2].Recipe.Name)
	assert.InDelta(t, 0.5, ranked[2].Score, 1e-9)
}

func TestOverlapRanker_Limit(t *testing.T) {
	ranker := NewOverlapRanker(testRecipes)

	ranked, err := ranker.Rank(context.Background(), ingredients("Egg", "Butter"), 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "omelette", ranked[0].Recipe.Name)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
}

func TestOverlapRanker_EmptyIngredients(t *testing.T) {
	ranker := NewOverlapRanker(testRecipes)

	ranked, err := ranker.Rank(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestHTTPRanker_Rank(t *testing.T) {
	var got rankRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rank", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"score":0.9,"recipe":{"name":"pancakes","required_ingredients":["egg","flour","milk"],"link":"https://example.com/p"}},
			{"score":0.4,"recipe":{"name":"toast","required_ingredients":["bread"],"link":"https://example.com/t"}}
		]}`))
	}))
	defer srv.Close()

	ranker := NewHTTPRanker(&config.RankingConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	ranked, err := ranker.Rank(context.Background(), []common.Ingredient{{Name: "Milk", Category: "Dairy"}}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Limit)
	assert.Equal(t, []common.Ingredient{{Name: "Milk", Category: "Dairy"}}, got.Ingredients)

	require.Len(t, ranked, 1)
	assert.Equal(t, "pancakes", ranked[0].Recipe.Name)
	assert.InDelta(t, 0.9, ranked[0].Score, 1e-9)
	assert.Equal(t, []string{"egg", "flour", "milk"}, ranked[0].Recipe.RequiredIngredients)
}

func TestHTTPRanker_SendsEmptyListForNoIngredients(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	ranker := NewHTTPRanker(&config.RankingConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	ranked, err := ranker.Rank(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
	assert.Equal(t, []interface{}{}, raw["ingredients"])
}

func TestHTTPRanker_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ranker := NewHTTPRanker(&config.RankingConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := ranker.Rank(context.Background(), ingredients("Egg"), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRankingUnavailable))
}

func TestHTTPRanker_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":`))
	}))
	defer srv.Close()

	ranker := NewHTTPRanker(&config.RankingConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := ranker.Rank(context.Background(), ingredients("Egg"), 5)
	assert.True(t, errors.Is(err, common.ErrRankingUnavailable))
}
