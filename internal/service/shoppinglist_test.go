package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
)

func TestAggregateSumsAcrossCart(t *testing.T) {
	db := setupTestDB(t)
	relations := NewRelationService(db)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "shopper")
	author := createTestUser(t, db, "chef")

	flour := createTestIngredient(t, db, "flour", "g")
	egg := createTestIngredient(t, db, "egg", "pcs")

	dough := createTestRecipe(t, db, author.ID, "Dough")
	addAmount(t, db, dough.ID, flour.ID, 200)

	pancakes := createTestRecipe(t, db, author.ID, "Pancakes")
	addAmount(t, db, pancakes.ID, flour.ID, 100)
	addAmount(t, db, pancakes.ID, egg.ID, 2)

	_, err := relations.Add(ctx, user.ID, dough.ID, models.RelationShoppingCart)
	require.NoError(t, err)
	_, err = relations.Add(ctx, user.ID, pancakes.ID, models.RelationShoppingCart)
	require.NoError(t, err)

	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)

	// Shared ingredients collapse into one summed row, ordered by name.
	require.Len(t, items, 2)
	assert.Equal(t, ShoppingListItem{Name: "egg", MeasurementUnit: "pcs", Amount: 2}, items[0])
	assert.Equal(t, ShoppingListItem{Name: "flour", MeasurementUnit: "g", Amount: 300}, items[1])
}

func TestAggregateSeparatesUnits(t *testing.T) {
	db := setupTestDB(t)
	relations := NewRelationService(db)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "shopper")
	author := createTestUser(t, db, "chef")

	milkMl := createTestIngredient(t, db, "milk", "ml")
	milkTbsp := createTestIngredient(t, db, "milk", "tbsp")

	recipe := createTestRecipe(t, db, author.ID, "Sauce")
	addAmount(t, db, recipe.ID, milkMl.ID, 500)
	addAmount(t, db, recipe.ID, milkTbsp.ID, 3)

	_, err := relations.Add(ctx, user.ID, recipe.ID, models.RelationShoppingCart)
	require.NoError(t, err)

	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)

	// Same name in different units stays on separate rows.
	require.Len(t, items, 2)
	assert.Equal(t, "ml", items[0].MeasurementUnit)
	assert.Equal(t, "tbsp", items[1].MeasurementUnit)
}

func TestAggregateIgnoresOtherUsersAndFavorites(t *testing.T) {
	db := setupTestDB(t)
	relations := NewRelationService(db)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "shopper")
	other := createTestUser(t, db, "bystander")
	author := createTestUser(t, db, "chef")

	sugar := createTestIngredient(t, db, "sugar", "g")
	recipe := createTestRecipe(t, db, author.ID, "Jam")
	addAmount(t, db, recipe.ID, sugar.ID, 50)

	// In someone else's cart and merely favorited by the user.
	_, err := relations.Add(ctx, other.ID, recipe.ID, models.RelationShoppingCart)
	require.NoError(t, err)
	_, err = relations.Add(ctx, user.ID, recipe.ID, models.RelationFavorite)
	require.NoError(t, err)

	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
