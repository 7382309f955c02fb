package shopping

import (
	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
)

type Entry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type entryKey struct {
	name string
	unit string
}

// Aggregate merges the ingredient lines of the given recipes into one
// entry per exact (name, unit) pair, summing amounts. Entries keep the
// order in which their pair was first seen. Names and units are compared
// as stored, so "Flour" and "flour" or "g" and "kg" stay separate.
func Aggregate(recipeList []recipes.Recipe) []Entry {
	entries := []Entry{}
	positions := map[entryKey]int{}

	for _, recipe := range recipeList {
		for _, line := range recipe.Ingredients {
			key := entryKey{name: line.Name, unit: line.Unit}
			if i, ok := positions[key]; ok {
				entries[i].Amount += line.Amount
				continue
			}
			positions[key] = len(entries)
			entries = append(entries, Entry{Name: line.Name, Amount: line.Amount, Unit: line.Unit})
		}
	}
	return entries
}
