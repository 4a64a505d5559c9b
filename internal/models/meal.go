package models

// MealRecord is a row of the meals table
type MealRecord struct {
	ID          int64            `gorm:"primaryKey" json:"id"`
	Mealname    string           `gorm:"size:255;not null" json:"mealname"`
	Note        *string          `gorm:"type:text" json:"note"`
	Stars       float64          `gorm:"not null" json:"stars"`
	Ingredients []MealIngredient `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName sets the table name for this struct type
func (MealRecord) TableName() string {
	return "meals"
}

// Ingredient is a named substance, unique by name
type Ingredient struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Ingredient string `gorm:"size:255;not null;uniqueIndex" json:"ingredient"`
}

// TableName sets the table name for this struct type
func (Ingredient) TableName() string {
	return "ingredients"
}

// MealIngredient links a meal to an ingredient with an amount and unit
type MealIngredient struct {
	MealID       int64       `gorm:"not null;index" json:"meal_id"`
	IngredientID int64       `gorm:"not null;index" json:"ingredient_id"`
	Amount       float64     `gorm:"not null" json:"amount"`
	Unit         string      `gorm:"size:50;not null" json:"unit"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

// TableName sets the table name for this struct type
func (MealIngredient) TableName() string {
	return "meal_ingredients"
}

// IngredientUsage is the amount and unit of one ingredient within a meal
type IngredientUsage struct {
	Ingredient string  `json:"ingredient"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
}

// AggregatedRow is a meal whose ingredient usages were flattened into one
// string by the listing query. Ingredients is nil when the meal has none.
type AggregatedRow struct {
	ID          int64
	Mealname    string
	Note        *string
	Stars       float64
	Ingredients *string
}
