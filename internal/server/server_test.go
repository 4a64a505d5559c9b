package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbook/backend/config"
	"github.com/mealbook/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cfg := &config.Config{
		ServerHost: "localhost",
		ServerPort: "8080",
	}

	server := New(cfg, db, nil)
	assert.NotNil(t, server)
	assert.Equal(t, "localhost:8080", server.http.Addr)

	// Test health check endpoint
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestStartAndShutdown(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	port := freePort(t)
	cfg := &config.Config{
		ServerHost: "127.0.0.1",
		ServerPort: strconv.Itoa(port),
	}
	server := New(cfg, db, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/all_meals"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, server.Shutdown(context.Background()))
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
