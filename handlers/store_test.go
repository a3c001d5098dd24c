package handlers_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/cookbook/handlers"
	"github.com/dmitrymomot/cookbook/pkg/password"
	"github.com/dmitrymomot/cookbook/repository"
)

// memStore is an in-memory handlers.Store with the repository's scoping and
// error semantics. Setting fail makes every call return it.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    []repository.User
	cuisines map[int64]repository.Cuisine
	recipes  map[int64]repository.Recipe
	fail     error
}

var _ handlers.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		cuisines: map[int64]repository.Cuisine{},
		recipes:  map[int64]repository.Recipe{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) FindUserByUsername(_ context.Context, username string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return repository.User{}, s.fail
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (s *memStore) CreateUser(_ context.Context, username, plain string) (repository.User, error) {
	hash, err := password.Hash(plain)
	if err != nil {
		return repository.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return repository.User{}, s.fail
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return repository.User{}, repository.ErrConflict
		}
	}
	u := repository.User{ID: s.id(), Username: username, PasswordHash: hash}
	s.users = append(s.users, u)
	return u, nil
}

func (s *memStore) ListCuisines(_ context.Context, userID int64) ([]repository.Cuisine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	var out []repository.Cuisine
	for _, c := range s.cuisines {
		if c.UserID != userID {
			continue
		}
		c.RecipesCount = 0
		for _, r := range s.recipes {
			if r.CuisineID == c.ID {
				c.RecipesCount++
			}
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b repository.Cuisine) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *memStore) FindCuisineByName(_ context.Context, name string, userID int64) (repository.Cuisine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return repository.Cuisine{}, s.fail
	}
	for _, c := range s.cuisines {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return repository.Cuisine{}, repository.ErrNotFound
}

func (s *memStore) FindCuisineByID(_ context.Context, id, userID int64) (repository.Cuisine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return repository.Cuisine{}, s.fail
	}
	c, ok := s.cuisines[id]
	if !ok || c.UserID != userID {
		return repository.Cuisine{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *memStore) CreateCuisine(_ context.Context, name string, userID int64) (repository.Cuisine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return repository.Cuisine{}, s.fail
	}
	for _, c := range s.cuisines {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return repository.Cuisine{}, repository.ErrConflict
		}
	}
	c := repository.Cuisine{ID: s.id(), Name: name, UserID: userID}
	s.cuisines[c.ID] = c
	return c, nil
}

func (s *memStore) UpdateCuisine(_ context.Context, name string, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	c, ok := s.cuisines[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	c.Name = name
	s.cuisines[id] = c
	return nil
}

func (s *memStore) DeleteCuisine(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	c, ok := s.cuisines[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.cuisines, id)
	for rid, r := range s.recipes {
		if r.CuisineID == id {
			delete(s.recipes, rid)
		}
	}
	return nil
}

func (s *memStore) ListRecipes(_ context.Context, cuisineID, userID int64) ([]repository.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	var out []repository.Recipe
	for _, r := range s.recipes {
		if r.CuisineID == cuisineID && r.UserID == userID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b repository.Recipe) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *memStore) FindRecipeIDByName(_ context.Context, name string, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, s.fail
	}
	var id int64
	for _, r := range s.recipes {
		if r.UserID == userID && strings.EqualFold(r.Name, name) && r.ID > id {
			id = r.ID
		}
	}
	if id == 0 {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (s *memStore) FindRecipeByID(_ context.Context, id, cuisineID, userID int64) (repository.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return repository.Recipe{}, s.fail
	}
	r, ok := s.recipes[id]
	if !ok || r.CuisineID != cuisineID || r.UserID != userID {
		return repository.Recipe{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *memStore) CreateRecipe(_ context.Context, f repository.RecipeFields, cuisineID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if c, ok := s.cuisines[cuisineID]; !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	r := repository.Recipe{
		ID:           s.id(),
		Name:         f.Name,
		Ingredients:  f.Ingredients,
		Instructions: f.Instructions,
		CuisineID:    cuisineID,
		UserID:       userID,
	}
	s.recipes[r.ID] = r
	return nil
}

func (s *memStore) UpdateRecipe(_ context.Context, f repository.RecipeFields, id, cuisineID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	r, ok := s.recipes[id]
	if !ok || r.CuisineID != cuisineID || r.UserID != userID {
		return repository.ErrNotFound
	}
	r.Name, r.Ingredients, r.Instructions = f.Name, f.Ingredients, f.Instructions
	s.recipes[id] = r
	return nil
}

func (s *memStore) DeleteRecipe(_ context.Context, id, cuisineID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	r, ok := s.recipes[id]
	if !ok || r.CuisineID != cuisineID || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.recipes, id)
	return nil
}

func (s *memStore) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}
