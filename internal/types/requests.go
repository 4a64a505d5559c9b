package types

import (
	"errors"
	"fmt"

	"github.com/mealbook/backend/internal/models"
)

// AddMealRequest represents the request body for creating a meal.
// Only presence of the fields is checked.
type AddMealRequest struct {
	Mealname    string              `json:"mealname" yaml:"mealname" binding:"required"`
	Note        *string             `json:"note" yaml:"note"`
	Stars       *float64            `json:"stars" yaml:"stars" binding:"required"`
	Ingredients []IngredientRequest `json:"ingredients" yaml:"ingredients" binding:"required,dive"`
}

// IngredientRequest is one ingredient entry of an AddMealRequest
type IngredientRequest struct {
	Ingredient string   `json:"ingredient" yaml:"ingredient" binding:"required"`
	Amount     *float64 `json:"amount" yaml:"amount" binding:"required"`
	Unit       *string  `json:"unit" yaml:"unit" binding:"required"`
}

// Validate checks that every required field is present
func (r *AddMealRequest) Validate() error {
	var errs []error
	if r.Mealname == "" {
		errs = append(errs, errors.New("mealname is required"))
	}
	if r.Stars == nil {
		errs = append(errs, errors.New("stars is required"))
	}
	if r.Ingredients == nil {
		errs = append(errs, errors.New("ingredients is required"))
	}
	for i, ing := range r.Ingredients {
		if ing.Ingredient == "" {
			errs = append(errs, fmt.Errorf("ingredients[%d].ingredient is required", i))
		}
		if ing.Amount == nil {
			errs = append(errs, fmt.Errorf("ingredients[%d].amount is required", i))
		}
		if ing.Unit == nil {
			errs = append(errs, fmt.Errorf("ingredients[%d].unit is required", i))
		}
	}
	return errors.Join(errs...)
}

// Usages converts the ingredient entries in input order
func (r *AddMealRequest) Usages() []models.IngredientUsage {
	usages := make([]models.IngredientUsage, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		usage := models.IngredientUsage{Ingredient: ing.Ingredient}
		if ing.Amount != nil {
			usage.Amount = *ing.Amount
		}
		if ing.Unit != nil {
			usage.Unit = *ing.Unit
		}
		usages = append(usages, usage)
	}
	return usages
}

// MessageResponse is returned after a successful write
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
