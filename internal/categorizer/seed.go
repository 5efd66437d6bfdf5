package categorizer

import "jweber/bonscan/internal/models"

// DefaultMappings returns the seed keyword table installed on first run.
// Keywords are German product-name fragments as they appear on receipts from
// the supported store chains. Order matters for substring tie-breaks, so the
// seed is a slice, not a map.
func DefaultMappings() []models.CategoryMapping {
	seed := []struct {
		keyword  string
		category models.Category
	}{
		// Fruits
		{"apfel", models.CategoryFruits},
		{"banane", models.CategoryFruits},
		{"birne", models.CategoryFruits},
		{"erdbeere", models.CategoryFruits},
		{"traube", models.CategoryFruits},
		{"zitrone", models.CategoryFruits},
		{"orange", models.CategoryFruits},
		{"mandarine", models.CategoryFruits},
		{"kiwi", models.CategoryFruits},
		{"pfirsich", models.CategoryFruits},
		{"heidelbeere", models.CategoryFruits},
		{"himbeere", models.CategoryFruits},

		// Vegetables
		{"tomate", models.CategoryVegetables},
		{"gurke", models.CategoryVegetables},
		{"paprika", models.CategoryVegetables},
		{"zwiebel", models.CategoryVegetables},
		{"kartoffel", models.CategoryVegetables},
		{"karotte", models.CategoryVegetables},
		{"moehre", models.CategoryVegetables},
		{"salat", models.CategoryVegetables},
		{"brokkoli", models.CategoryVegetables},
		{"zucchini", models.CategoryVegetables},
		{"spinat", models.CategoryVegetables},
		{"champignon", models.CategoryVegetables},

		// Dairy
		{"milch", models.CategoryDairy},
		{"joghurt", models.CategoryDairy},
		{"jogurt", models.CategoryDairy},
		{"quark", models.CategoryDairy},
		{"butter", models.CategoryDairy},
		{"sahne", models.CategoryDairy},
		{"kaese", models.CategoryDairy},
		{"käse", models.CategoryDairy},
		{"gouda", models.CategoryDairy},
		{"mozzarella", models.CategoryDairy},
		{"skyr", models.CategoryDairy},

		// Meat
		{"haehnchen", models.CategoryMeat},
		{"hähnchen", models.CategoryMeat},
		{"schinken", models.CategoryMeat},
		{"salami", models.CategoryMeat},
		{"wurst", models.CategoryMeat},
		{"hackfleisch", models.CategoryMeat},
		{"rind", models.CategoryMeat},
		{"schwein", models.CategoryMeat},
		{"pute", models.CategoryMeat},
		{"lachs", models.CategoryMeat},

		// Bakery
		{"brot", models.CategoryBakery},
		{"broetchen", models.CategoryBakery},
		{"brötchen", models.CategoryBakery},
		{"toast", models.CategoryBakery},
		{"croissant", models.CategoryBakery},
		{"brezel", models.CategoryBakery},
		{"baguette", models.CategoryBakery},

		// Beverages
		{"wasser", models.CategoryBeverages},
		{"saft", models.CategoryBeverages},
		{"apfelsaft", models.CategoryBeverages},
		{"cola", models.CategoryBeverages},
		{"limonade", models.CategoryBeverages},
		{"bier", models.CategoryBeverages},
		{"wein", models.CategoryBeverages},
		{"kaffee", models.CategoryBeverages},
		{"tee", models.CategoryBeverages},

		// Snacks
		{"chips", models.CategorySnacks},
		{"cracker", models.CategorySnacks},
		{"erdnuss", models.CategorySnacks},
		{"nuss", models.CategorySnacks},
		{"salzstangen", models.CategorySnacks},

		// Cereals
		{"muesli", models.CategoryCereals},
		{"müsli", models.CategoryCereals},
		{"haferflocken", models.CategoryCereals},
		{"cornflakes", models.CategoryCereals},
		{"reis", models.CategoryCereals},
		{"nudeln", models.CategoryCereals},
		{"spaghetti", models.CategoryCereals},
		{"mehl", models.CategoryCereals},

		// Sweets
		{"schokolade", models.CategorySweets},
		{"schoko", models.CategorySweets},
		{"gummibaer", models.CategorySweets},
		{"bonbon", models.CategorySweets},
		{"keks", models.CategorySweets},
		{"kuchen", models.CategorySweets},
		{"eis", models.CategorySweets},
		{"marmelade", models.CategorySweets},
		{"honig", models.CategorySweets},

		// Oils
		{"olivenoel", models.CategoryOils},
		{"olivenöl", models.CategoryOils},
		{"sonnenblumenoel", models.CategoryOils},
		{"rapsoel", models.CategoryOils},
		{"oel", models.CategoryOils},
		{"öl", models.CategoryOils},
		{"margarine", models.CategoryOils},
	}

	mappings := make([]models.CategoryMapping, 0, len(seed))
	for _, s := range seed {
		mappings = append(mappings, models.NewCategoryMapping(s.keyword, s.category))
	}
	return mappings
}
