package models

// Meal is a meal together with its ingredients. Meals read through the
// listing query carry their ingredients as a preformatted summary string;
// meals read one at a time carry a structured list.
type Meal struct {
	ID          int64
	Mealname    string
	Note        *string
	Stars       float64
	Ingredients []IngredientUsage

	summary *string
}

// MealView is the JSON shape of a meal. Ingredients holds either a summary
// string or a list of IngredientUsage.
type MealView struct {
	ID          int64       `json:"id"`
	Mealname    string      `json:"mealname"`
	Note        *string     `json:"note"`
	Stars       float64     `json:"stars"`
	Ingredients interface{} `json:"ingredients"`
}

// NewMeal builds a meal; a nil ingredient list becomes empty.
func NewMeal(id int64, mealname string, note *string, stars float64, ingredients []IngredientUsage) *Meal {
	if ingredients == nil {
		ingredients = []IngredientUsage{}
	}
	return &Meal{
		ID:          id,
		Mealname:    mealname,
		Note:        note,
		Stars:       stars,
		Ingredients: ingredients,
	}
}

// MealFromAggregatedRow builds a meal from a listing row. The summary is kept
// verbatim, it is not parsed back into usages.
func MealFromAggregatedRow(row AggregatedRow) *Meal {
	meal := NewMeal(row.ID, row.Mealname, row.Note, row.Stars, nil)
	if row.Ingredients != nil && *row.Ingredients != "" {
		summary := *row.Ingredients
		meal.summary = &summary
	}
	return meal
}

// Summary returns the aggregated ingredient string, if the meal has one
func (m *Meal) Summary() (string, bool) {
	if m.summary == nil {
		return "", false
	}
	return *m.summary, true
}

// ToSerializable returns the JSON representation of the meal
func (m *Meal) ToSerializable() MealView {
	view := MealView{
		ID:          m.ID,
		Mealname:    m.Mealname,
		Note:        m.Note,
		Stars:       m.Stars,
		Ingredients: m.Ingredients,
	}
	if m.summary != nil {
		view.Ingredients = *m.summary
	} else if m.Ingredients == nil {
		view.Ingredients = []IngredientUsage{}
	}
	return view
}
