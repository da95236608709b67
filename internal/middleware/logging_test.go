package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/product-inventory/internal/config"
	"github.com/javajoker/product-inventory/internal/database"
	"github.com/javajoker/product-inventory/internal/models"
)

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caller-id", w.Header().Get(RequestIDHeader))
}

func TestAuditLogRecordsMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.Initialize(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { database.Close(db) })

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", uint(3)); c.Next() })
	r.Use(AuditLogMiddleware(db))
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PATCH("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/products/12", nil))

	req := httptest.NewRequest("PATCH", "/products/12", strings.NewReader(`{"name":"New","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var logs []models.AuditLog
	require.Eventually(t, func() bool {
		logs = nil
		return db.Find(&logs).Error == nil && len(logs) == 1
	}, 2*time.Second, 20*time.Millisecond)

	entry := logs[0]
	assert.Equal(t, "PATCH /products/12", entry.Action)
	assert.Equal(t, "products", entry.ResourceType)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, uint(12), *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, uint(3), *entry.UserID)
	assert.Equal(t, http.StatusOK, entry.StatusCode)
	assert.Equal(t, "New", entry.NewValues["name"])
	assert.Equal(t, redacted, entry.NewValues["password"])
}

func TestExtractResource(t *testing.T) {
	assert.Equal(t, "products", extractResourceType("/products/sku/ABC"))
	assert.Equal(t, "auth", extractResourceType("/auth/login"))
	assert.Nil(t, extractResourceID("/products/sku/ABC"))
	assert.Equal(t, uint(7), *extractResourceID("/products/7"))
}
