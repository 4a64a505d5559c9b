package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mealbook/backend/internal/models"
	"github.com/mealbook/backend/internal/service"
	"github.com/mealbook/backend/internal/types"
)

const (
	msgMealNotFound = "Gericht nicht gefunden"
	msgMealAdded    = "Mahlzeit erfolgreich hinzugefügt!"
	msgStorageError = "Datenbankfehler: "
	msgInvalidInput = "Ungültige Eingabe: "
)

// MealHandler serves the meal endpoints
type MealHandler struct {
	mealService service.IMealService
}

// NewMealHandler creates a new MealHandler instance
func NewMealHandler(mealService service.IMealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// RegisterRoutes registers the meal routes. Extra handlers run in front of
// POST /add_meal only.
func (h *MealHandler) RegisterRoutes(router gin.IRoutes, addMealMiddleware ...gin.HandlerFunc) {
	router.GET("/all_meals", h.ListAllMeals)
	router.GET("/meal/:id", h.GetMeal)

	addMeal := append(append([]gin.HandlerFunc{}, addMealMiddleware...), h.AddMeal)
	router.POST("/add_meal", addMeal...)
}

// ListAllMeals returns every meal with its ingredients as one summary string
func (h *MealHandler) ListAllMeals(c *gin.Context) {
	meals, err := h.mealService.ListAllMeals(c.Request.Context())
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	views := make([]models.MealView, 0, len(meals))
	for _, meal := range meals {
		views = append(views, meal.ToSerializable())
	}
	c.JSON(http.StatusOK, views)
}

// GetMeal returns one meal with its structured ingredient list
func (h *MealHandler) GetMeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: msgMealNotFound})
		return
	}

	meal, err := h.mealService.GetMealByID(c.Request.Context(), id)
	if errors.Is(err, service.ErrMealNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: msgMealNotFound})
		return
	}
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, meal.ToSerializable())
}

// AddMeal creates a meal together with its ingredient usages
func (h *MealHandler) AddMeal(c *gin.Context) {
	var req types.AddMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msgInvalidInput + err.Error()})
		return
	}

	id, err := h.mealService.AddMeal(c.Request.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msgInvalidInput + verr.Error()})
			return
		}
		h.storageFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.MessageResponse{Message: msgMealAdded, ID: id})
}

func (h *MealHandler) storageFailure(c *gin.Context, err error) {
	log.Printf("Database error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: msgStorageError + err.Error()})
}
