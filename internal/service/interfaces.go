package service

import (
	"context"

	"github.com/mealbook/backend/internal/models"
	"github.com/mealbook/backend/internal/types"
)

// IMealService defines the interface for meal operations
type IMealService interface {
	ListAllMeals(ctx context.Context) ([]*models.Meal, error)
	GetMealByID(ctx context.Context, id int64) (*models.Meal, error)
	AddMeal(ctx context.Context, req *types.AddMealRequest) (int64, error)
}

var _ IMealService = (*MealService)(nil)
