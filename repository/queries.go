package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/cookbook/pkg/db"
	"github.com/dmitrymomot/cookbook/pkg/password"
)

const findUserByUsername = `
SELECT id, username, password_hash
FROM users
WHERE lower(username) = lower($1)`

// FindUserByUsername looks a user up by name, ignoring case.
func (q *Queries) FindUserByUsername(ctx context.Context, username string) (User, error) {
	u, err := scanUser(q.db.QueryRow(ctx, findUserByUsername, username))
	return u, wrap("find user by username", err)
}

const createUser = `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
RETURNING id, username, password_hash`

// CreateUser stores a new user with a bcrypt hash of plain.
// Returns ErrConflict if the name is taken, ignoring case.
func (q *Queries) CreateUser(ctx context.Context, username, plain string) (User, error) {
	hash, err := password.Hash(plain)
	if err != nil {
		return User{}, wrap("hash password", err)
	}
	u, err := scanUser(q.db.QueryRow(ctx, createUser, username, hash))
	return u, wrap("create user", err)
}

const listCuisines = `
SELECT c.id, c.name, c.user_id, count(r.id) AS recipes_count
FROM cuisines c
LEFT JOIN recipes r ON r.cuisine_id = c.id AND r.user_id = c.user_id
WHERE c.user_id = $1
GROUP BY c.id
ORDER BY lower(c.name), c.id`

// ListCuisines returns the user's cuisines with live recipe counts, ordered
// by name ignoring case.
func (q *Queries) ListCuisines(ctx context.Context, userID int64) ([]Cuisine, error) {
	rows, err := q.db.Query(ctx, listCuisines, userID)
	if err != nil {
		return nil, wrap("list cuisines", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Cuisine, error) {
		return scanCuisine(row)
	})
	return items, wrap("list cuisines", err)
}

const findCuisineByName = `
SELECT c.id, c.name, c.user_id,
       (SELECT count(*) FROM recipes r WHERE r.cuisine_id = c.id AND r.user_id = c.user_id)
FROM cuisines c
WHERE lower(c.name) = lower($1) AND c.user_id = $2`

// FindCuisineByName looks up one of the user's cuisines by name, ignoring case.
func (q *Queries) FindCuisineByName(ctx context.Context, name string, userID int64) (Cuisine, error) {
	c, err := scanCuisine(q.db.QueryRow(ctx, findCuisineByName, name, userID))
	return c, wrap("find cuisine by name", err)
}

const findCuisineByID = `
SELECT c.id, c.name, c.user_id,
       (SELECT count(*) FROM recipes r WHERE r.cuisine_id = c.id AND r.user_id = c.user_id)
FROM cuisines c
WHERE c.id = $1 AND c.user_id = $2`

// FindCuisineByID returns the cuisine if it belongs to the user.
func (q *Queries) FindCuisineByID(ctx context.Context, id, userID int64) (Cuisine, error) {
	c, err := scanCuisine(q.db.QueryRow(ctx, findCuisineByID, id, userID))
	return c, wrap("find cuisine by id", err)
}

const createCuisine = `
INSERT INTO cuisines (name, user_id)
VALUES ($1, $2)
RETURNING id, name, user_id, 0::bigint`

// CreateCuisine adds a cuisine for the user.
func (q *Queries) CreateCuisine(ctx context.Context, name string, userID int64) (Cuisine, error) {
	c, err := scanCuisine(q.db.QueryRow(ctx, createCuisine, name, userID))
	return c, wrap("create cuisine", err)
}

const updateCuisine = `
UPDATE cuisines
SET name = $1
WHERE id = $2 AND user_id = $3`

// UpdateCuisine renames one of the user's cuisines.
func (q *Queries) UpdateCuisine(ctx context.Context, name string, id, userID int64) error {
	tag, err := q.db.Exec(ctx, updateCuisine, name, id, userID)
	return affected("update cuisine", tag.RowsAffected(), err)
}

const deleteCuisine = `
DELETE FROM cuisines
WHERE id = $1 AND user_id = $2`

// DeleteCuisine removes one of the user's cuisines. Its recipes go with it
// through the foreign key cascade.
func (q *Queries) DeleteCuisine(ctx context.Context, id, userID int64) error {
	tag, err := q.db.Exec(ctx, deleteCuisine, id, userID)
	return affected("delete cuisine", tag.RowsAffected(), err)
}

const listRecipes = `
SELECT id, name, ingredients, instructions, cuisine_id, user_id
FROM recipes
WHERE cuisine_id = $1 AND user_id = $2
ORDER BY lower(name), id`

// ListRecipes returns the recipes of one of the user's cuisines, ordered by
// name ignoring case.
func (q *Queries) ListRecipes(ctx context.Context, cuisineID, userID int64) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipes, cuisineID, userID)
	if err != nil {
		return nil, wrap("list recipes", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Recipe, error) {
		return scanRecipe(row)
	})
	return items, wrap("list recipes", err)
}

// Scoped to the user only: with two same-named recipes in different
// cuisines the newest one wins.
const findRecipeIDByName = `
SELECT id
FROM recipes
WHERE lower(name) = lower($1) AND user_id = $2
ORDER BY id DESC
LIMIT 1`

// FindRecipeIDByName resolves the id of one of the user's recipes by name,
// ignoring case.
func (q *Queries) FindRecipeIDByName(ctx context.Context, name string, userID int64) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, findRecipeIDByName, name, userID).Scan(&id)
	return id, wrap("find recipe id by name", err)
}

const findRecipeByID = `
SELECT id, name, ingredients, instructions, cuisine_id, user_id
FROM recipes
WHERE id = $1 AND cuisine_id = $2 AND user_id = $3`

// FindRecipeByID returns the recipe only if it belongs to both the cuisine
// and the user.
func (q *Queries) FindRecipeByID(ctx context.Context, id, cuisineID, userID int64) (Recipe, error) {
	r, err := scanRecipe(q.db.QueryRow(ctx, findRecipeByID, id, cuisineID, userID))
	return r, wrap("find recipe by id", err)
}

// The SELECT yields no row unless the cuisine belongs to the user.
const createRecipe = `
INSERT INTO recipes (name, ingredients, instructions, cuisine_id, user_id)
SELECT $1, $2, $3, c.id, c.user_id
FROM cuisines c
WHERE c.id = $4 AND c.user_id = $5`

// CreateRecipe adds a recipe to one of the user's cuisines.
// Returns ErrNotFound if the cuisine is not the user's.
func (q *Queries) CreateRecipe(ctx context.Context, f RecipeFields, cuisineID, userID int64) error {
	tag, err := q.db.Exec(ctx, createRecipe, f.Name, f.Ingredients, f.Instructions, cuisineID, userID)
	return affected("create recipe", tag.RowsAffected(), err)
}

const updateRecipe = `
UPDATE recipes
SET name = $1, ingredients = $2, instructions = $3
WHERE id = $4 AND cuisine_id = $5 AND user_id = $6`

// UpdateRecipe overwrites the editable fields of a recipe.
func (q *Queries) UpdateRecipe(ctx context.Context, f RecipeFields, id, cuisineID, userID int64) error {
	tag, err := q.db.Exec(ctx, updateRecipe, f.Name, f.Ingredients, f.Instructions, id, cuisineID, userID)
	return affected("update recipe", tag.RowsAffected(), err)
}

const deleteRecipe = `
DELETE FROM recipes
WHERE id = $1 AND cuisine_id = $2 AND user_id = $3`

// DeleteRecipe removes a recipe.
func (q *Queries) DeleteRecipe(ctx context.Context, id, cuisineID, userID int64) error {
	tag, err := q.db.Exec(ctx, deleteRecipe, id, cuisineID, userID)
	return affected("delete recipe", tag.RowsAffected(), err)
}

// WipeAll deletes every recipe, cuisine and user, children first, in one
// transaction. Used by the reset command and tests.
func (q *Queries) WipeAll(ctx context.Context) error {
	wipe := func(tx DBTX) error {
		for _, stmt := range []string{"DELETE FROM recipes", "DELETE FROM cuisines", "DELETE FROM users"} {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return wrap("wipe all", err)
			}
		}
		return nil
	}

	// Already inside a transaction: run in it.
	if _, ok := q.db.(pgx.Tx); ok {
		return wipe(q.db)
	}
	if b, ok := q.db.(db.TxBeginner); ok {
		return db.WithTx(ctx, b, func(tx pgx.Tx) error { return wipe(tx) })
	}
	return wipe(q.db)
}

// affected turns a zero-row write into ErrNotFound.
func affected(op string, rows int64, err error) error {
	if err != nil {
		return wrap(op, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
