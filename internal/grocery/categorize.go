package grocery

import (
	"strings"

	"github.com/dukerupert/platewise/internal/model"
)

// rules are checked in order and the first keyword found anywhere in the
// lower-cased name wins. "ice cream" therefore lands in dairy via "cream".
var rules = []struct {
	category model.Category
	keywords []string
}{
	{model.CategoryDairy, []string{"milk", "cheese", "yogurt", "cream", "butter"}},
	{model.CategoryProduce, []string{"apple", "banana", "lettuce", "carrot", "onion", "potato", "tomato", "pepper"}},
	{model.CategoryMeat, []string{"chicken", "beef", "pork", "fish", "turkey", "lamb"}},
	{model.CategoryFrozen, []string{"frozen", "ice cream", "pizza"}},
}

// Categorize returns the shopping category for an ingredient name using
// case-insensitive substring matching. Names matching no rule are pantry.
func Categorize(name string) model.Category {
	name = strings.ToLower(name)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryPantry
}
