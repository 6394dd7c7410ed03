package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
)

func TestFavoriteAddRemoveCycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Borscht")

	got, err := svc.Add(ctx, user.ID, recipe.ID, models.RelationFavorite)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)

	// Second add of the same membership is a conflict, and exactly one
	// row remains stored.
	_, err = svc.Add(ctx, user.ID, recipe.ID, models.RelationFavorite)
	assert.ErrorIs(t, err, ErrAlreadyInSet)

	var count int64
	require.NoError(t, db.Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", user.ID, recipe.ID, models.RelationFavorite).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.Remove(ctx, user.ID, recipe.ID, models.RelationFavorite))
	err = svc.Remove(ctx, user.ID, recipe.ID, models.RelationFavorite)
	assert.ErrorIs(t, err, ErrNotInSet)
}

func TestRelationKindsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Pancakes")

	_, err := svc.Add(ctx, user.ID, recipe.ID, models.RelationFavorite)
	require.NoError(t, err)

	// The same pair in another kind is not a duplicate.
	_, err = svc.Add(ctx, user.ID, recipe.ID, models.RelationShoppingCart)
	require.NoError(t, err)

	favorites, err := svc.RecipeIDs(ctx, user.ID, models.RelationFavorite)
	require.NoError(t, err)
	cart, err := svc.RecipeIDs(ctx, user.ID, models.RelationShoppingCart)
	require.NoError(t, err)
	assert.True(t, favorites[recipe.ID])
	assert.True(t, cart[recipe.ID])

	require.NoError(t, svc.Remove(ctx, user.ID, recipe.ID, models.RelationFavorite))
	cart, err = svc.RecipeIDs(ctx, user.ID, models.RelationShoppingCart)
	require.NoError(t, err)
	assert.True(t, cart[recipe.ID], "removing a favorite must not touch the cart")
}

func TestRelationMissingRecipe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRelationService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	_, err := svc.Add(ctx, user.ID, uuid.New(), models.RelationFavorite)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	err = svc.Remove(ctx, user.ID, uuid.New(), models.RelationShoppingCart)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
