package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"restaurant_site/internal/auth"
	"restaurant_site/internal/config"
	"restaurant_site/internal/handlers"
	"restaurant_site/internal/models"
	"restaurant_site/internal/money"
	"restaurant_site/internal/redis"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/services"
	"restaurant_site/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	repos  *repository.Repositories
	users  services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.New(testutil.NewDB(t))
	settings := config.RestaurantSettings{
		Name:          "Gourmet Delight",
		Phone:         "+1 (555) 123-4567",
		Email:         "info@restaurant.com",
		HoursWeekdays: "Mon - Fri: 11:00 AM - 9:00 PM",
	}
	issuer := auth.NewIssuer("test-secret", time.Hour)

	site := services.NewSiteService(repos, settings, nil, 0)
	menu := services.NewMenuService(repos, redis.NoopCache{}, nil, 0)
	orders := services.NewOrderService(repos)
	users := services.NewUserService(repos)
	feedback := services.NewFeedbackService(repos.Feedback)
	contacts := services.NewContactService(repos.Contacts)

	engine, err := Setup(Handlers{
		Pages: handlers.NewPageHandler(site, menu, feedback, contacts, settings),
		API:   handlers.NewAPIHandler(menu, users, orders, issuer),
		Admin: handlers.NewAdminHandler(site, menu, orders, feedback, contacts, users, issuer),
	}, Options{Issuer: issuer, MediaURL: "/media/"})
	require.NoError(t, err)

	return &testServer{engine: engine, repos: repos, users: users}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) menuItem(t *testing.T, name string, price int64, category string, veg bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{Name: name, Price: money.Cents(price), Category: category, IsVegetarian: veg, IsAvailable: true}
	require.NoError(t, s.repos.MenuItems.Create(context.Background(), item))
	return item
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	_, err := s.users.EnsureAdmin(context.Background(), "admin", "admin@restaurant.com", "admin123")
	require.NoError(t, err)
	w := s.do(t, http.MethodPost, "/admin/login", "", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPublicPages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tasty Bites")
	assert.Contains(t, w.Body.String(), fmt.Sprint(time.Now().Year()))

	for _, path := range []string{"/about", "/menu", "/reservations", "/feedback", "/contact"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w = s.do(t, http.MethodGet, "/search?q=pizza", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No results found.")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/no-such-page", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = s.do(t, http.MethodGet, "/api/no-such-endpoint", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", decode(t, w)["error"])
}

func TestFeedbackForm(t *testing.T) {
	s := newTestServer(t)

	w := s.postForm(t, "/feedback", url.Values{"name": {"Ada"}, "rating": {"4"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "field-error")

	w = s.postForm(t, "/feedback", url.Values{"name": {"Ada"}, "rating": {"4"}, "comments": {"Lovely evening"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/feedback?submitted=1", w.Header().Get("Location"))

	_, total, err := s.repos.Feedback.List(context.Background(), repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestContactForm(t *testing.T) {
	s := newTestServer(t)

	w := s.postForm(t, "/contact", url.Values{"name": {"Ada"}, "email": {"not-an-email"}, "message": {"Hi"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.postForm(t, "/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Do you cater?"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/contact?submitted=1", w.Header().Get("Location"))
}

func TestMenuAPI(t *testing.T) {
	s := newTestServer(t)
	s.menuItem(t, "Salad", 1299, "appetizer", true)
	s.menuItem(t, "Steak", 2500, "main", false)

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 2},
		{query: "?vegetarian=YES", want: 1},
		{query: "?vegetarian=1", want: 1},
		{query: "?vegetarian=maybe", want: 2},
		{query: "?category=main", want: 1},
		{query: "?category=dessert", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/menu"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var items []map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
			assert.Len(t, items, tt.want)
		})
	}

	w := s.do(t, http.MethodGet, "/api/menu?vegetarian=true", "", nil)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "12.99", items[0]["price"])
}

func TestAccountsAndOrders(t *testing.T) {
	s := newTestServer(t)
	burger := s.menuItem(t, "Burger", 1000, "main", false)
	soup := s.menuItem(t, "Soup", 550, "appetizer", true)

	w := s.do(t, http.MethodPost, "/api/accounts/register", "", gin.H{
		"username": "diner", "email": "diner@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)

	w = s.do(t, http.MethodGet, "/api/accounts/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodGet, "/api/accounts/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode(t, w)["profile"])

	w = s.do(t, http.MethodPut, "/api/accounts/profile", token, gin.H{"date_of_birth": "17/05/1990"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/accounts/login", "", gin.H{"username": "diner", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	items := []gin.H{
		{"menu_item_id": burger.ID, "quantity": 2},
		{"menu_item_id": soup.ID, "quantity": 1},
	}
	w = s.do(t, http.MethodPost, "/api/orders", token, gin.H{"items": items})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode(t, w)
	assert.Equal(t, "25.50", order["total_amount"])
	assert.Equal(t, "pending", order["status"])

	w = s.do(t, http.MethodGet, "/api/orders/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/orders/%v/cancel", order["id"]), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decode(t, w)["status"])

	// guests must leave contact details
	w = s.do(t, http.MethodPost, "/api/orders", "", gin.H{"items": items})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/orders", "", gin.H{"guest_name": "Ada", "guest_email": "ada@example.com", "items": items})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAdminRequiresAdminRole(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/accounts/register", "", gin.H{
		"username": "diner", "email": "diner@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	customer := decode(t, w)["token"].(string)

	w = s.do(t, http.MethodGet, "/admin/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPost, "/admin/login", "", gin.H{"username": "diner", "password": "correct-horse"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminSingletons(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodGet, "/admin/configuration", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/admin/configuration", token, gin.H{"name": "First"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/admin/configuration", token, gin.H{"name": "Second"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/admin/configuration", token, gin.H{"name": "Latest", "tagline": "Fresh daily"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Latest", decode(t, w)["name"])

	w = s.do(t, http.MethodGet, "/admin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resources := decode(t, w)["resources"].([]interface{})
	for _, r := range resources {
		res := r.(map[string]interface{})
		switch res["name"] {
		case "configuration":
			assert.Equal(t, false, res["can_add"])
		case "location":
			assert.Equal(t, true, res["can_add"])
		}
	}

	// the configured name now heads every page
	w = s.do(t, http.MethodGet, "/reservations", "", nil)
	assert.Contains(t, w.Body.String(), "Latest")
	assert.Contains(t, w.Body.String(), "Fresh daily")
}

func TestAdminMenuAndOrders(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/admin/menu-items", token, gin.H{"name": "Burger", "price": "10.00", "category": "main"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	burgerID := decode(t, w)["id"]

	w = s.do(t, http.MethodPost, "/admin/menu-items", token, gin.H{"name": "Tea", "price": "3.00", "category": "beverage", "is_available": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	teaID := decode(t, w)["id"]

	w = s.do(t, http.MethodGet, "/admin/menu-items?is_available=false", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = s.do(t, http.MethodPost, "/admin/menu-items/toggle-availability", token, gin.H{"ids": []interface{}{burgerID, teaID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["updated"])

	w = s.do(t, http.MethodPost, "/admin/orders", token, gin.H{
		"guest_name": "Ada", "guest_phone": "+12025550123",
		"items": []gin.H{{"menu_item_id": burgerID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "recomputed", created["total_status"])
	order := created["order"].(map[string]interface{})
	assert.Equal(t, "20.00", order["total_amount"])
	orderPath := fmt.Sprintf("/admin/orders/%v", order["id"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/menu-items/%v", burgerID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, orderPath+"/status", token, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, decode(t, w)["valid_next"])

	w = s.do(t, http.MethodPut, orderPath+"/status", token, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/admin/orders/mark-completed", token, gin.H{"ids": []interface{}{order["id"]}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["updated"])

	w = s.do(t, http.MethodGet, orderPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)
	assert.Equal(t, true, detail["is_terminal"])

	w = s.do(t, http.MethodGet, "/admin/orders?search=ada&status=completed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = s.do(t, http.MethodGet, "/admin/orders?page=zero", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOrderUpdateKeepsTotalWhenOmitted(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/admin/orders", token, gin.H{
		"guest_name": "Ada", "guest_email": "ada@example.com", "total_amount": "12.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "kept", created["total_status"])
	order := created["order"].(map[string]interface{})
	assert.Equal(t, "12.00", order["total_amount"])
	orderPath := fmt.Sprintf("/admin/orders/%v", order["id"])

	w = s.do(t, http.MethodPut, orderPath, token, gin.H{
		"guest_name": "Ada Lovelace", "guest_email": "ada@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["order"].(map[string]interface{})
	assert.Equal(t, "Ada Lovelace", updated["guest_name"])
	assert.Equal(t, "12.00", updated["total_amount"])

	w = s.do(t, http.MethodPut, orderPath, token, gin.H{
		"guest_name": "Ada Lovelace", "guest_email": "ada@example.com", "total_amount": "15.50",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "15.50", decode(t, w)["order"].(map[string]interface{})["total_amount"])
}
