package analysis

import (
	"math"
	"sort"

	"github.com/google/uuid"
	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
)

const (
	topCount    = 3
	latestCount = 5
)

type RankedRecipe struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	NikoRating   float64   `json:"nikoRating"`
	AlbertRating float64   `json:"albertRating"`
	Score        float64   `json:"score"`
}

type Summary struct {
	TotalRecipes    int            `json:"totalRecipes"`
	TopRatedOverall []RankedRecipe `json:"topRatedOverall"`
	TopNiko         []RankedRecipe `json:"topNiko"`
	TopAlbert       []RankedRecipe `json:"topAlbert"`
	MostDisagreed   []RankedRecipe `json:"mostDisagreed"`
	Latest          []RankedRecipe `json:"latest"`
}

// Summarize ranks the recipes by their ratings. A rating of 0 means the
// person has not rated the recipe yet. Ties keep the input order.
func Summarize(recipeList []recipes.Recipe) Summary {
	return Summary{
		TotalRecipes: len(recipeList),
		TopRatedOverall: rank(recipeList, topCount,
			func(r recipes.Recipe) bool { return r.NikoRating > 0 || r.AlbertRating > 0 },
			func(r recipes.Recipe) float64 { return (r.NikoRating + r.AlbertRating) / 2 }),
		TopNiko: rank(recipeList, topCount,
			func(r recipes.Recipe) bool { return r.NikoRating > 0 },
			func(r recipes.Recipe) float64 { return r.NikoRating }),
		TopAlbert: rank(recipeList, topCount,
			func(r recipes.Recipe) bool { return r.AlbertRating > 0 },
			func(r recipes.Recipe) float64 { return r.AlbertRating }),
		MostDisagreed: rank(recipeList, topCount,
			func(r recipes.Recipe) bool { return r.NikoRating > 0 && r.AlbertRating > 0 },
			func(r recipes.Recipe) float64 { return math.Abs(r.NikoRating - r.AlbertRating) }),
		Latest: latest(recipeList, latestCount),
	}
}

func rank(recipeList []recipes.Recipe, limit int, keep func(recipes.Recipe) bool, score func(recipes.Recipe) float64) []RankedRecipe {
	ranked := []RankedRecipe{}
	for _, recipe := range recipeList {
		if keep(recipe) {
			ranked = append(ranked, toRanked(recipe, score(recipe)))
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func latest(recipeList []recipes.Recipe, limit int) []RankedRecipe {
	sorted := append([]recipes.Recipe{}, recipeList...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	ranked := []RankedRecipe{}
	for _, recipe := range sorted {
		if len(ranked) == limit {
			break
		}
		ranked = append(ranked, toRanked(recipe, 0))
	}
	return ranked
}

func toRanked(recipe recipes.Recipe, score float64) RankedRecipe {
	return RankedRecipe{
		ID:           recipe.ID,
		Title:        recipe.Title,
		NikoRating:   recipe.NikoRating,
		AlbertRating: recipe.AlbertRating,
		Score:        score,
	}
}
