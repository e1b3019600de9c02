package diet

// foodCatalog is the built-in food library, macros per one serving.
// Read only; user specific foods live in the per-user state.
var foodCatalog = []Food{
	{
		ID: "chicken-breast", Name: "Chicken Breast", Category: "protein",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	},
	{
		ID: "ground-beef-10", Name: "Ground Beef (10% fat)", Category: "protein",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 176, Protein: 20, Carbs: 0, Fat: 10},
	},
	{
		ID: "salmon", Name: "Salmon Fillet", Category: "protein",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 208, Protein: 20, Carbs: 0, Fat: 13},
	},
	{
		ID: "egg", Name: "Whole Egg", Category: "protein",
		ServingSize: 1, ServingUnit: "piece",
		Macros: Macros{Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8},
	},
	{
		ID: "egg-white", Name: "Egg White", Category: "protein",
		ServingSize: 1, ServingUnit: "piece",
		Macros: Macros{Calories: 17, Protein: 3.6, Carbs: 0.2, Fat: 0.1},
	},
	{
		ID: "greek-yogurt", Name: "Greek Yogurt (0%)", Category: "dairy",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 59, Protein: 10, Carbs: 3.6, Fat: 0.4},
	},
	{
		ID: "skyr", Name: "Skyr", Category: "dairy",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 63, Protein: 11, Carbs: 4, Fat: 0.2},
	},
	{
		ID: "cottage-cheese", Name: "Cottage Cheese", Category: "dairy",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 98, Protein: 11, Carbs: 3.4, Fat: 4.3},
	},
	{
		ID: "whey-protein", Name: "Whey Protein Powder", Category: "supplement",
		ServingSize: 30, ServingUnit: "g",
		Macros: Macros{Calories: 113, Protein: 24, Carbs: 1.5, Fat: 1},
	},
	{
		ID: "milk", Name: "Milk (3.5%)", Category: "dairy",
		ServingSize: 250, ServingUnit: "ml",
		Macros: Macros{Calories: 160, Protein: 8.5, Carbs: 12, Fat: 9},
	},
	{
		ID: "white-rice", Name: "White Rice (cooked)", Category: "carbs",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
	},
	{
		ID: "oats", Name: "Rolled Oats (dry)", Category: "carbs",
		ServingSize: 50, ServingUnit: "g",
		Macros: Macros{Calories: 190, Protein: 6.5, Carbs: 33, Fat: 3.5},
	},
	{
		ID: "pasta", Name: "Pasta (cooked)", Category: "carbs",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 157, Protein: 5.8, Carbs: 31, Fat: 0.9},
	},
	{
		ID: "potato", Name: "Potato (boiled)", Category: "carbs",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 87, Protein: 1.9, Carbs: 20, Fat: 0.1},
	},
	{
		ID: "bread-whole-grain", Name: "Whole Grain Bread", Category: "carbs",
		ServingSize: 1, ServingUnit: "slice",
		Macros: Macros{Calories: 81, Protein: 4, Carbs: 14, Fat: 1.1},
	},
	{
		ID: "banana", Name: "Banana", Category: "fruit",
		ServingSize: 1, ServingUnit: "piece",
		Macros: Macros{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4},
	},
	{
		ID: "apple", Name: "Apple", Category: "fruit",
		ServingSize: 1, ServingUnit: "piece",
		Macros: Macros{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3},
	},
	{
		ID: "blueberries", Name: "Blueberries", Category: "fruit",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 57, Protein: 0.7, Carbs: 14.5, Fat: 0.3},
	},
	{
		ID: "broccoli", Name: "Broccoli", Category: "vegetable",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 34, Protein: 2.8, Carbs: 7, Fat: 0.4},
	},
	{
		ID: "spinach", Name: "Spinach", Category: "vegetable",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 23, Protein: 2.9, Carbs: 3.6, Fat: 0.4},
	},
	{
		ID: "olive-oil", Name: "Olive Oil", Category: "fat",
		ServingSize: 15, ServingUnit: "ml",
		Macros: Macros{Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5},
	},
	{
		ID: "peanut-butter", Name: "Peanut Butter", Category: "fat",
		ServingSize: 30, ServingUnit: "g",
		Macros: Macros{Calories: 188, Protein: 8, Carbs: 6, Fat: 16},
	},
	{
		ID: "almonds", Name: "Almonds", Category: "fat",
		ServingSize: 30, ServingUnit: "g",
		Macros: Macros{Calories: 174, Protein: 6.4, Carbs: 6.5, Fat: 15},
	},
	{
		ID: "avocado", Name: "Avocado", Category: "fat",
		ServingSize: 100, ServingUnit: "g",
		Macros: Macros{Calories: 160, Protein: 2, Carbs: 8.5, Fat: 14.7},
	},
	{
		ID: "dark-chocolate", Name: "Dark Chocolate (85%)", Category: "snack",
		ServingSize: 25, ServingUnit: "g",
		Macros: Macros{Calories: 149, Protein: 2.5, Carbs: 7.5, Fat: 12},
	},
}

var foodsByID = func() map[string]Food {
	m := make(map[string]Food, len(foodCatalog))
	for _, f := range foodCatalog {
		m[f.ID] = f
	}
	return m
}()

// CatalogFoods returns the whole built-in food catalog.
func CatalogFoods() []Food {
	return foodCatalog
}

// CatalogFoodByID looks up a built-in food.
func CatalogFoodByID(id string) (Food, bool) {
	f, ok := foodsByID[id]
	return f, ok
}
