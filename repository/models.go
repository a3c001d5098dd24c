package repository

// User is a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// Cuisine is a user's named recipe group. RecipesCount is derived on read.
type Cuisine struct {
	ID           int64
	Name         string
	UserID       int64
	RecipesCount int64
}

// Recipe belongs to one cuisine and, redundantly, to that cuisine's owner.
type Recipe struct {
	ID           int64
	Name         string
	Ingredients  *string
	Instructions *string
	CuisineID    int64
	UserID       int64
}

// RecipeFields are the user-editable columns of a recipe.
// A nil optional field is stored as NULL.
type RecipeFields struct {
	Name         string
	Ingredients  *string
	Instructions *string
}
