package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mealbook/backend/internal/models"
	"github.com/mealbook/backend/internal/types"
)

// MockMealService is a mock implementation of the meal service
type MockMealService struct {
	mock.Mock
}

// ListAllMeals mocks the ListAllMeals method
func (m *MockMealService) ListAllMeals(ctx context.Context) ([]*models.Meal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meal), args.Error(1)
}

// GetMealByID mocks the GetMealByID method
func (m *MockMealService) GetMealByID(ctx context.Context, id int64) (*models.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

// AddMeal mocks the AddMeal method
func (m *MockMealService) AddMeal(ctx context.Context, req *types.AddMealRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}
