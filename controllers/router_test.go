package controllers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/slicelab/pizzeria-api/controllers"
	"github.com/slicelab/pizzeria-api/initializers"
	"github.com/slicelab/pizzeria-api/models"
	"github.com/slicelab/pizzeria-api/routes"
	"github.com/slicelab/pizzeria-api/services"
	"github.com/slicelab/pizzeria-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testGatewaySecret = "test-key-secret"

type fakeMailer struct {
	mu    sync.Mutex
	sends []string
}

func (m *fakeMailer) Send(to, subject string, data utils.EmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, subject)
	return nil
}

func signPayment(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CatalogItem{}, &models.Order{}, &models.OrderItem{}))
	initializers.DB = db

	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_test_" + body.Receipt,
			"amount":   body.Amount,
			"currency": body.Currency,
		})
	}))
	t.Cleanup(gatewayServer.Close)

	mail := services.NewNotifierWithMailer(&fakeMailer{})
	gateway := services.NewPaymentGatewayWithConfig(gatewayServer.URL, "test-key-id", testGatewaySecret)
	inventory := services.NewInventoryService(db, mail)
	orders := services.NewOrderService(db, inventory, gateway, mail)
	controllers.Init(orders, inventory, mail)

	router := gin.New()
	routes.DefaultRoutes(router)
	routes.AuthRoutes(router)
	routes.PizzaRoutes(router)
	routes.OrderRoutes(router)
	routes.InventoryRoutes(router)
	return router, db
}

func createUser(t *testing.T, db *gorm.DB, email, role string, verified bool) (models.User, string) {
	t.Helper()
	hash, err := controllers.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{
		Name:       "Test User",
		Email:      email,
		Password:   hash,
		Role:       role,
		IsVerified: verified,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := controllers.GenerateJWT(user)
	require.NoError(t, err)
	return user, token
}

func seedCatalog(t *testing.T, db *gorm.DB) (base, sauce, cheese, topping models.CatalogItem) {
	t.Helper()
	items := []models.CatalogItem{
		{Category: models.CategoryBase, Name: "Thin Crust", Price: 100, Quantity: 5, Threshold: 1, Available: true},
		{Category: models.CategorySauce, Name: "Marinara", Price: 20, Quantity: 5, Threshold: 1, Available: true},
		{Category: models.CategoryCheese, Name: "Mozzarella", Price: 30, Quantity: 5, Threshold: 1, Available: true},
		{Category: models.CategoryTopping, Name: "Olives", Price: 15, Quantity: 5, Threshold: 1, Available: true},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return items[0], items[1], items[2], items[3]
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGetHome(t *testing.T) {
	router, _ := setupRouter(t)
	resp := doJSON(router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSignupVerifyLoginFlow(t *testing.T) {
	router, db := setupRouter(t)

	resp := doJSON(router, http.MethodPost, "/auth/signup", "", gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.False(t, user.IsVerified)
	assert.Equal(t, "customer", user.Role)
	require.NotEmpty(t, user.VerificationToken)

	// Login before verification is rejected.
	resp = doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(router, http.MethodPost, "/auth/verify-email/"+user.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var loginBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginBody))
	assert.NotEmpty(t, loginBody.Token)
}

func TestListBasesShowsOnlyAvailable(t *testing.T) {
	router, db := setupRouter(t)
	seedCatalog(t, db)
	hidden := models.CatalogItem{Category: models.CategoryBase, Name: "Stale Crust", Price: 50, Available: false}
	require.NoError(t, db.Create(&hidden).Error)

	resp := doJSON(router, http.MethodGet, "/pizza/bases", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Items []models.CatalogItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Thin Crust", body.Items[0].Name)
}

func TestOrderRequiresAuth(t *testing.T) {
	router, _ := setupRouter(t)
	resp := doJSON(router, http.MethodPost, "/pizza/order", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUnverifiedTokenRejected(t *testing.T) {
	router, db := setupRouter(t)
	_, token := createUser(t, db, "pending@example.com", "customer", false)

	resp := doJSON(router, http.MethodGet, "/pizza/orders", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestOrderAndPaymentFlow(t *testing.T) {
	router, db := setupRouter(t)
	base, sauce, cheese, topping := seedCatalog(t, db)
	_, token := createUser(t, db, "buyer@example.com", "customer", true)

	resp := doJSON(router, http.MethodPost, "/pizza/order", token, gin.H{
		"base":        base.ID,
		"sauce":       sauce.ID,
		"cheese":      cheese.ID,
		"toppings":    []uint{topping.ID},
		"totalAmount": 165,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		OrderID        uint   `json:"orderId"`
		GatewayOrderID string `json:"gatewayOrderId"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, int64(16500), created.Amount)
	assert.Equal(t, "INR", created.Currency)

	// A tampered signature is rejected and nothing is confirmed.
	resp = doJSON(router, http.MethodPost, "/pizza/verify-payment", token, gin.H{
		"gatewayOrderId": created.GatewayOrderID,
		"paymentId":      "pay_1",
		"signature":      "deadbeef",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(router, http.MethodPost, "/pizza/verify-payment", token, gin.H{
		"gatewayOrderId": created.GatewayOrderID,
		"paymentId":      "pay_1",
		"signature":      signPayment(created.GatewayOrderID, "pay_1"),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order, created.OrderID).Error)
	assert.Equal(t, models.OrderConfirmed, order.Status)

	var item models.CatalogItem
	require.NoError(t, db.First(&item, base.ID).Error)
	assert.Equal(t, 4, item.Quantity)
}

func TestInventoryRequiresAdmin(t *testing.T) {
	router, db := setupRouter(t)
	_, customerToken := createUser(t, db, "customer@example.com", "customer", true)

	resp := doJSON(router, http.MethodGet, "/inventory", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(router, http.MethodGet, "/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestInventoryAdminCRUD(t *testing.T) {
	router, db := setupRouter(t)
	seedCatalog(t, db)
	_, adminToken := createUser(t, db, "admin@example.com", "admin", true)

	resp := doJSON(router, http.MethodPost, "/inventory/topping", adminToken, gin.H{
		"name":      "Jalapeño",
		"price":     18,
		"quantity":  12,
		"threshold": 3,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created models.CatalogItem
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.True(t, created.Available)

	resp = doJSON(router, http.MethodPut, "/inventory/topping/"+itoa(created.ID), adminToken, gin.H{
		"quantity":  2,
		"threshold": 3,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(router, http.MethodGet, "/inventory", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(router, http.MethodDelete, "/inventory/topping/"+itoa(created.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(router, http.MethodDelete, "/inventory/topping/"+itoa(created.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(router, http.MethodPost, "/inventory/crust", adminToken, gin.H{
		"name": "Nope", "price": 1, "quantity": 1, "threshold": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminOrderEndpoints(t *testing.T) {
	router, db := setupRouter(t)
	base, sauce, cheese, topping := seedCatalog(t, db)
	_, customerToken := createUser(t, db, "buyer@example.com", "customer", true)
	_, adminToken := createUser(t, db, "admin@example.com", "admin", true)

	resp := doJSON(router, http.MethodPost, "/pizza/order", customerToken, gin.H{
		"base":     base.ID,
		"sauce":    sauce.ID,
		"cheese":   cheese.ID,
		"toppings": []uint{topping.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		OrderID        uint   `json:"orderId"`
		GatewayOrderID string `json:"gatewayOrderId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = doJSON(router, http.MethodPost, "/pizza/verify-payment", customerToken, gin.H{
		"gatewayOrderId": created.GatewayOrderID,
		"paymentId":      "pay_1",
		"signature":      signPayment(created.GatewayOrderID, "pay_1"),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Customers cannot reach the admin surface.
	resp = doJSON(router, http.MethodGet, "/orders/admin", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(router, http.MethodGet, "/orders/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(router, http.MethodPut, "/orders/"+itoa(created.OrderID)+"/status", adminToken, gin.H{"status": "preparing"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Skipping a fulfilment step is a conflict.
	resp = doJSON(router, http.MethodPut, "/orders/"+itoa(created.OrderID)+"/status", adminToken, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(router, http.MethodPut, "/orders/"+itoa(created.OrderID)+"/status", adminToken, gin.H{"status": "in_kitchen"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(router, http.MethodPut, "/orders/"+itoa(created.OrderID)+"/cancel", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var item models.CatalogItem
	require.NoError(t, db.First(&item, base.ID).Error)
	assert.Equal(t, 5, item.Quantity)

	resp = doJSON(router, http.MethodGet, "/orders/admin/statistics", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var stats struct {
		TotalOrders  int64   `json:"totalOrders"`
		TotalRevenue float64 `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, 0.0, stats.TotalRevenue)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestStatusEndpointRejectsConfirmed(t *testing.T) {
	router, db := setupRouter(t)
	base, sauce, cheese, topping := seedCatalog(t, db)
	_, customerToken := createUser(t, db, "buyer@example.com", "customer", true)
	_, adminToken := createUser(t, db, "admin@example.com", "admin", true)

	resp := doJSON(router, http.MethodPost, "/pizza/order", customerToken, gin.H{
		"base":     base.ID,
		"sauce":    sauce.ID,
		"cheese":   cheese.ID,
		"toppings": []uint{topping.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		OrderID uint `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	// Only the payment callback may confirm; it is also what takes stock.
	resp = doJSON(router, http.MethodPut, "/orders/"+itoa(created.OrderID)+"/status", adminToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var order models.Order
	require.NoError(t, db.First(&order, created.OrderID).Error)
	assert.Equal(t, models.OrderPending, order.Status)

	var item models.CatalogItem
	require.NoError(t, db.First(&item, base.ID).Error)
	assert.Equal(t, 5, item.Quantity)
}

func TestAdminOrdersByDateRange(t *testing.T) {
	router, db := setupRouter(t)
	base, sauce, cheese, topping := seedCatalog(t, db)
	_, customerToken := createUser(t, db, "buyer@example.com", "customer", true)
	_, adminToken := createUser(t, db, "admin@example.com", "admin", true)

	resp := doJSON(router, http.MethodPost, "/pizza/order", customerToken, gin.H{
		"base":     base.ID,
		"sauce":    sauce.ID,
		"cheese":   cheese.ID,
		"toppings": []uint{topping.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listOrders := func(start, end string) (int, int) {
		query := "/orders/admin/date-range?startDate=" + url.QueryEscape(start) + "&endDate=" + url.QueryEscape(end)
		resp := doJSON(router, http.MethodGet, query, adminToken, nil)
		var body struct {
			Orders []models.Order `json:"orders"`
		}
		if resp.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		}
		return resp.Code, len(body.Orders)
	}

	now := time.Now().UTC()

	// RFC 3339 timestamps.
	code, count := listOrders(now.Add(-time.Hour).Format(time.RFC3339), now.Add(time.Hour).Format(time.RFC3339))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, count)

	code, count = listOrders(now.Add(-3*time.Hour).Format(time.RFC3339), now.Add(-2*time.Hour).Format(time.RFC3339))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, count)

	// Date-only parameters.
	code, count = listOrders(now.AddDate(0, 0, -1).Format("2006-01-02"), now.AddDate(0, 0, 1).Format("2006-01-02"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, count)

	code, _ = listOrders("yesterday", now.Format("2006-01-02"))
	assert.Equal(t, http.StatusBadRequest, code)
}
