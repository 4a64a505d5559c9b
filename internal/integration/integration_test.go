package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbook/backend/config"
	"github.com/mealbook/backend/internal/middleware"
	"github.com/mealbook/backend/internal/models"
	"github.com/mealbook/backend/internal/server"
	"github.com/mealbook/backend/internal/testhelpers"
	"github.com/mealbook/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) *httptest.Server {
	db := testhelpers.SetupTestDatabase(t)
	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: "0"}
	limiter := middleware.NewLocalLimiter(middleware.RateLimitConfig{Window: time.Minute, Limit: 600, Burst: 100})

	ts := httptest.NewServer(server.New(cfg, db, limiter).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postMeal(t *testing.T, baseURL string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/add_meal", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestMealLifecycle(t *testing.T) {
	ts := setupServer(t)

	resp, body := postMeal(t, ts.URL, map[string]interface{}{
		"mealname": "Soup",
		"note":     "",
		"stars":    4,
		"ingredients": []map[string]interface{}{
			{"ingredient": "Salt", "amount": 1, "unit": "tsp"},
			{"ingredient": "Water", "amount": 0.5, "unit": "l"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created types.MessageResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Mahlzeit erfolgreich hinzugefügt!", created.Message)

	var meal struct {
		ID          int64                    `json:"id"`
		Mealname    string                   `json:"mealname"`
		Note        *string                  `json:"note"`
		Stars       float64                  `json:"stars"`
		Ingredients []models.IngredientUsage `json:"ingredients"`
	}
	status := getJSON(t, fmt.Sprintf("%s/meal/%d", ts.URL, created.ID), &meal)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, meal.ID)
	assert.Equal(t, "Soup", meal.Mealname)
	assert.ElementsMatch(t, []models.IngredientUsage{
		{Ingredient: "Salt", Amount: 1, Unit: "tsp"},
		{Ingredient: "Water", Amount: 0.5, Unit: "l"},
	}, meal.Ingredients)

	var missing types.ErrorResponse
	status = getJSON(t, ts.URL+"/meal/999", &missing)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Gericht nicht gefunden", missing.Error)
}

func TestListIsOrderedByID(t *testing.T) {
	ts := setupServer(t)

	for _, name := range []string{"C", "A", "B"} {
		resp, _ := postMeal(t, ts.URL, map[string]interface{}{
			"mealname":    name,
			"stars":       1,
			"ingredients": []interface{}{},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var meals []map[string]interface{}
	status := getJSON(t, ts.URL+"/all_meals", &meals)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, meals, 3)

	var names []string
	for i, m := range meals {
		names = append(names, m["mealname"].(string))
		assert.Equal(t, []interface{}{}, m["ingredients"])
		if i > 0 {
			assert.Less(t, meals[i-1]["id"].(float64), m["id"].(float64))
		}
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestSharedIngredientIsStoredOnce(t *testing.T) {
	ts := setupServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]interface{}{
				"mealname": fmt.Sprintf("Bread %d", i),
				"stars":    3,
				"ingredients": []map[string]interface{}{
					{"ingredient": "Yeast", "amount": 7, "unit": "g"},
				},
			})
			resp, err := http.Post(ts.URL+"/add_meal", "application/json", bytes.NewReader(body))
			if assert.NoError(t, err) {
				resp.Body.Close()
				assert.Equal(t, http.StatusCreated, resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()

	var meals []map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/all_meals", &meals))
	require.Len(t, meals, 5)
	for _, m := range meals {
		assert.Equal(t, "Yeast (7 g)", m["ingredients"])
	}
}

func TestMalformedPayloadDoesNotStopServer(t *testing.T) {
	ts := setupServer(t)

	resp, body := postMeal(t, ts.URL, map[string]interface{}{"mealname": "Soup", "stars": 2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Ungültige Eingabe")

	var meals []map[string]interface{}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/all_meals", &meals))
	assert.Empty(t, meals)
}
