package repository

// rowScanner is implemented by pgx.Row and pgx.CollectableRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// Column order: id, username, password_hash.
func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash)
	return u, err
}

// Column order: id, name, user_id, recipes_count.
func scanCuisine(row rowScanner) (Cuisine, error) {
	var c Cuisine
	err := row.Scan(&c.ID, &c.Name, &c.UserID, &c.RecipesCount)
	return c, err
}

// Column order: id, name, ingredients, instructions, cuisine_id, user_id.
func scanRecipe(row rowScanner) (Recipe, error) {
	var r Recipe
	err := row.Scan(&r.ID, &r.Name, &r.Ingredients, &r.Instructions, &r.CuisineID, &r.UserID)
	return r, err
}
