package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

// StaticSource serves the built-in menu.
type StaticSource struct{}

func item(id, name, desc, price string, c model.Category) model.CatalogItem {
	return model.CatalogItem{ID: id, Name: name, Description: desc, Price: decimal.RequireFromString(price), Category: c}
}

var staticMenu = []model.CatalogItem{
	item("1", "Margherita", "Classic tomato sauce, fresh mozzarella, basil, and extra virgin olive oil", "12.99", model.CategoryClassic),
	item("2", "Pepperoni", "Tomato sauce, mozzarella, and spicy pepperoni", "14.99", model.CategoryClassic),
	item("3", "Vegetarian", "Tomato sauce, mozzarella, bell peppers, mushrooms, onions, and olives", "13.99", model.CategoryVegetarian),
	item("4", "BBQ Chicken", "BBQ sauce, mozzarella, grilled chicken, red onions, and cilantro", "15.99", model.CategorySpecialty),
	item("5", "Supreme", "Tomato sauce, mozzarella, pepperoni, sausage, bell peppers, onions, and mushrooms", "16.99", model.CategorySpecialty),
	item("6", "Mushroom Truffle", "Creamy garlic sauce, mozzarella, wild mushrooms, and truffle oil", "17.99", model.CategoryVegetarian),
	item("7", "Hawaiian", "Tomato sauce, mozzarella, ham, and pineapple", "15.99", model.CategoryClassic),
	item("8", "Buffalo Chicken", "Spicy buffalo sauce, mozzarella, grilled chicken, and blue cheese dressing", "16.99", model.CategorySpecialty),
	item("9", "Pesto Veggie", "Pesto sauce, mozzarella, sun-dried tomatoes, artichokes, and olives", "14.99", model.CategoryVegetarian),
}

func (StaticSource) ListCatalogItems(context.Context) ([]model.CatalogItem, error) {
	return append([]model.CatalogItem(nil), staticMenu...), nil
}
