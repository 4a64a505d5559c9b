package service

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/mealbook/backend/internal/database"
	"github.com/mealbook/backend/internal/models"
	"github.com/mealbook/backend/internal/types"
)

const postgresListQuery = `
	SELECT m.id, m.mealname, m.note, m.stars,
	STRING_AGG(i.ingredient || ' (' || mi.amount || ' ' || mi.unit || ')', ', ') AS ingredients
	FROM meals m
	LEFT JOIN meal_ingredients mi ON m.id = mi.meal_id
	LEFT JOIN ingredients i ON mi.ingredient_id = i.id
	GROUP BY m.id, m.mealname, m.note, m.stars
	ORDER BY m.id`

// REAL columns print as "1.0" in SQLite; whole amounts are rendered without
// the fraction to match PostgreSQL NUMERIC output.
const sqliteListQuery = `
	SELECT m.id, m.mealname, m.note, m.stars,
	GROUP_CONCAT(i.ingredient || ' (' || CASE
		WHEN mi.amount = CAST(mi.amount AS INTEGER) THEN CAST(CAST(mi.amount AS INTEGER) AS TEXT)
		ELSE CAST(mi.amount AS TEXT)
	END || ' ' || mi.unit || ')', ', ') AS ingredients
	FROM meals m
	LEFT JOIN meal_ingredients mi ON m.id = mi.meal_id
	LEFT JOIN ingredients i ON mi.ingredient_id = i.id
	GROUP BY m.id, m.mealname, m.note, m.stars
	ORDER BY m.id`

// MealService handles meal operations
type MealService struct {
	db *gorm.DB
}

// NewMealService creates a new MealService instance
func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

// ListAllMeals returns every meal ordered by id, each with its ingredients
// flattened into one summary string by the database
func (s *MealService) ListAllMeals(ctx context.Context) ([]*models.Meal, error) {
	query := postgresListQuery
	if s.db.Dialector.Name() == "sqlite" {
		query = sqliteListQuery
	}

	var rows []models.AggregatedRow
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, storageError("list meals", err)
	}

	meals := make([]*models.Meal, 0, len(rows))
	for _, row := range rows {
		meals = append(meals, models.MealFromAggregatedRow(row))
	}
	return meals, nil
}

// GetMealByID returns one meal with its structured ingredient list. Both
// queries run on the same connection, each on a fresh statement.
func (s *MealService) GetMealByID(ctx context.Context, id int64) (*models.Meal, error) {
	var meal *models.Meal

	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var record models.MealRecord
		result := conn.Session(&gorm.Session{NewDB: true}).
			Select("id", "mealname", "note", "stars").Where("id = ?", id).Limit(1).Find(&record)
		if result.Error != nil {
			return storageError("get meal", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMealNotFound
		}

		var usages []models.IngredientUsage
		err := conn.Session(&gorm.Session{NewDB: true}).
			Table("meal_ingredients AS mi").
			Select("i.ingredient, mi.amount, mi.unit").
			Joins("JOIN ingredients i ON mi.ingredient_id = i.id").
			Where("mi.meal_id = ?", id).
			Scan(&usages).Error
		if err != nil {
			return storageError("get meal ingredients", err)
		}

		meal = models.NewMeal(record.ID, record.Mealname, record.Note, record.Stars, usages)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return meal, nil
}

// AddMeal stores a meal and its ingredient usages in one transaction and
// returns the new meal id. Unknown ingredient names are created on the way.
func (s *MealService) AddMeal(ctx context.Context, req *types.AddMealRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, &ValidationError{Err: err}
	}

	var mealID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meal := models.MealRecord{
			Mealname: req.Mealname,
			Note:     req.Note,
			Stars:    *req.Stars,
		}
		if err := tx.Create(&meal).Error; err != nil {
			return storageError("insert meal", err)
		}

		for _, usage := range req.Usages() {
			ingredientID, err := findOrCreateIngredient(tx, usage.Ingredient)
			if err != nil {
				return err
			}

			link := models.MealIngredient{
				MealID:       meal.ID,
				IngredientID: ingredientID,
				Amount:       usage.Amount,
				Unit:         usage.Unit,
			}
			if err := tx.Create(&link).Error; err != nil {
				return storageError("insert meal ingredient", err)
			}
		}

		mealID = meal.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("Added meal %d (%s) with %d ingredients", mealID, req.Mealname, len(req.Ingredients))
	return mealID, nil
}

// findOrCreateIngredient returns the id of the ingredient with exactly this
// name, inserting it when missing. The insert runs in a savepoint so that a
// row created concurrently by another request can be read back instead of
// aborting the surrounding transaction.
func findOrCreateIngredient(tx *gorm.DB, name string) (int64, error) {
	var ingredient models.Ingredient
	result := tx.Where("ingredient = ?", name).Limit(1).Find(&ingredient)
	if result.Error != nil {
		return 0, storageError("find ingredient", result.Error)
	}
	if result.RowsAffected > 0 {
		return ingredient.ID, nil
	}

	ingredient = models.Ingredient{Ingredient: name}
	err := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&ingredient).Error
	})
	if err == nil {
		return ingredient.ID, nil
	}
	if !database.IsUniqueViolation(err) {
		return 0, storageError("insert ingredient", err)
	}

	ingredient = models.Ingredient{}
	result = tx.Where("ingredient = ?", name).Limit(1).Find(&ingredient)
	if result.Error != nil {
		return 0, storageError("find ingredient", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, storageError("insert ingredient", err)
	}
	return ingredient.ID, nil
}
