package grocery

import (
	"strings"

	"github.com/dukerupert/platewise/internal/model"
)

// AmountSeparator joins the amounts of ingredients that share a name.
const AmountSeparator = " + "

// Aggregate folds the ingredients of recipes into shopping items, in the order
// the names are first seen. Names are compared case-insensitively and the
// first spelling is kept. Amounts of repeated names are joined as text with
// AmountSeparator rather than added up, since they are free-form strings
// ("2", "a pinch", "1/2"). The unit of the first occurrence is kept.
func Aggregate(recipes []model.Recipe) []model.ShoppingItem {
	items := []model.ShoppingItem{}
	index := make(map[string]int)

	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			key := strings.ToLower(ing.Name)
			if i, ok := index[key]; ok {
				items[i].Amount = items[i].Amount + AmountSeparator + ing.Amount
				continue
			}
			index[key] = len(items)
			items = append(items, model.ShoppingItem{
				Name:      ing.Name,
				Amount:    ing.Amount,
				Unit:      ing.Unit,
				IsChecked: false,
				Category:  Categorize(ing.Name),
			})
		}
	}
	return items
}
