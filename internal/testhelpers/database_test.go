package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbook/backend/internal/models"
)

func TestDatabaseSetup(t *testing.T) {
	db := SetupTestDatabase(t)
	require.NotNil(t, db)

	for _, table := range []string{"meals", "ingredients", "meal_ingredients"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	meal := &models.MealRecord{Mealname: "Soup", Stars: 4}
	require.NoError(t, db.Create(meal).Error)
	assert.NotZero(t, meal.ID)

	ingredient := &models.Ingredient{Ingredient: "Salt"}
	require.NoError(t, db.Create(ingredient).Error)

	usage := &models.MealIngredient{MealID: meal.ID, IngredientID: ingredient.ID, Amount: 1, Unit: "tsp"}
	require.NoError(t, db.Create(usage).Error)
}

func TestDatabasesAreIsolated(t *testing.T) {
	first := SetupTestDatabase(t)
	second := SetupTestDatabase(t)

	require.NoError(t, first.Create(&models.MealRecord{Mealname: "Only here", Stars: 1}).Error)

	var count int64
	require.NoError(t, second.Model(&models.MealRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}
