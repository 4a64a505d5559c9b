package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbook/backend/internal/service"
	"github.com/mealbook/backend/internal/testhelpers"
	"github.com/mealbook/backend/internal/types"
)

func TestMealEndpointsAgainstSQLite(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	router := setupMealRouter(service.NewMealService(db))

	w := doRequest(router, http.MethodGet, "/all_meals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/add_meal", []byte(`{"mealname":"Soup","note":"","stars":4,
		"ingredients":[{"ingredient":"Salt","amount":1,"unit":"tsp"}]}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(router, http.MethodPost, "/add_meal", []byte(`{"mealname":"Toast","note":null,"stars":2.5,
		"ingredients":[]}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/meal/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"mealname":"Soup","note":"","stars":4,
		"ingredients":[{"ingredient":"Salt","amount":1,"unit":"tsp"}]}`, created.ID), w.Body.String())

	w = doRequest(router, http.MethodGet, "/all_meals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var meals []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meals))
	require.Len(t, meals, 2)
	assert.Equal(t, "Soup", meals[0]["mealname"])
	assert.Equal(t, "Salt (1 tsp)", meals[0]["ingredients"])
	assert.Equal(t, "Toast", meals[1]["mealname"])
	assert.Nil(t, meals[1]["note"])
	assert.Equal(t, []interface{}{}, meals[1]["ingredients"])

	w = doRequest(router, http.MethodGet, "/meal/4242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Gericht nicht gefunden"}`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/add_meal", []byte(`{"mealname":"Broken","stars":1}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the server keeps answering after a rejected payload
	w = doRequest(router, http.MethodGet, "/all_meals", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
