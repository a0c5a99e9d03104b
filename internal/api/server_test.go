package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/config"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/db"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/domain"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/repository/dao"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			Port:               "8080",
			BaseURL:            "localhost:8080",
			LogLevel:           "info",
			AllowedCORSDomains: []string{"*"},
		},
		Gin: &config.GinConfig{Mode: "test"},
		Database: &config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			DSN:          filepath.Join(t.TempDir(), "items.db"),
			AutoMigrate:  true,
			MaxIdleConns: 1,
		},
	}

	gormDB, err := db.Open(conf.Database)
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gormDB))

	s := NewServer(conf, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Feed.Run(ctx)

	t.Cleanup(func() {
		cancel()
		_ = db.Close(gormDB)
	})

	return s, gormDB
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func countRows(t *testing.T, gormDB *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gormDB.Model(&dao.Item{}).Count(&n).Error)
	return n
}

func TestServer_ItemLifecycle(t *testing.T) {
	s, gormDB := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/items/", "application/json",
		`{"name":"Widget","description":"A widget","price":10,"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created response.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, response.StatusSuccess, created.Status)
	assert.GreaterOrEqual(t, created.Item.ID, uint(1))
	assert.Equal(t, domain.Item{ID: created.Item.ID, Name: "Widget", Description: "A widget", Price: 10, Quantity: 5}, created.Item)

	rec = do(t, s, http.MethodGet, "/items/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched response.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.Item, fetched.Item)

	rec = do(t, s, http.MethodPut, "/items/1", "application/x-www-form-urlencoded",
		"name=Widget&description=Restocked&price=12&quantity=50")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated response.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.Item{ID: 1, Name: "Widget", Description: "Restocked", Price: 12, Quantity: 50}, updated.Item)

	rec = do(t, s, http.MethodDelete, "/items/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Item 1 deleted successfully"}`, rec.Body.String())

	rec = do(t, s, http.MethodDelete, "/items/1", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Item with id 1 not found"}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/items/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, countRows(t, gormDB))
}

func TestServer_RejectsNegativeValues(t *testing.T) {
	s, gormDB := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/items/", "application/json",
		`{"name":"Bad","description":"x","price":-1,"quantity":5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Price cannot be negative"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/items/", "application/x-www-form-urlencoded",
		"name=Bad&description=x&price=1&quantity=-5")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Quantity cannot be negative"}`, rec.Body.String())

	assert.Zero(t, countRows(t, gormDB))
}

func TestServer_UpdateMissingItem(t *testing.T) {
	s, gormDB := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/items/", "application/json",
		`{"name":"Widget","description":"A widget","price":10,"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPut, "/items/999", "application/json",
		`{"name":"Ghost","description":"x","price":1,"quantity":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Item with id 999 not found"}`, rec.Body.String())

	var items []dao.Item
	require.NoError(t, gormDB.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
}

func TestServer_InvalidPayload(t *testing.T) {
	s, gormDB := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/items/", "application/json", `{"name":"Widget"`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body response.Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid JSON data format", body.Detail)

	rec = do(t, s, http.MethodPost, "/items/", "application/x-www-form-urlencoded", "name=Widget")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.Detail, "Invalid form data"), body.Detail)

	rec = do(t, s, http.MethodPost, "/items/", "application/x-www-form-urlencoded",
		"name=W&description=d&price=&quantity=5")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid form data: price: is required.", body.Detail)

	rec = do(t, s, http.MethodPost, "/items/", "application/x-www-form-urlencoded",
		"name=W&description=&price=1&quantity=5")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Zero(t, countRows(t, gormDB))
}

func TestServer_PagesAndProbes(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/items/", "application/json",
		`{"name":"Widget","description":"A widget","price":10,"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>Widget</td>")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, s, http.MethodGet, "/items/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list response.ItemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)

	rec = do(t, s, http.MethodGet, "/static/js/items.js", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/items/{itemID}"`)
}

func TestServer_StoreUnavailable(t *testing.T) {
	s, gormDB := newTestServer(t)
	require.NoError(t, db.Close(gormDB))

	rec := do(t, s, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Database service unavailable"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/items/", "application/json",
		`{"name":"Widget","description":"A widget","price":10,"quantity":5}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"error","detail":"Database error occurred"}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
