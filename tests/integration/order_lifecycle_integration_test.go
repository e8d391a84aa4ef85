package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/controllers"
	"github.com/marwah-tailors/marwah-tailors-api/middleware"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/services"
	"github.com/marwah-tailors/marwah-tailors-api/tests/testutil"
	"github.com/marwah-tailors/marwah-tailors-api/utils"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OrderLifecycleIntegrationTestSuite exercises the full HTTP stack: real JWT
// middleware, real role checks, real lifecycle service, in-memory database.
type OrderLifecycleIntegrationTestSuite struct {
	suite.Suite
	router   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	admin    models.User
	customer models.User
	tailor   models.User
}

// SetupSuite runs once before all tests
func (suite *OrderLifecycleIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")

	suite.cfg = testutil.TestJWTConfig()
	config.SetConfig(suite.cfg)
}

// SetupTest runs before each test
func (suite *OrderLifecycleIntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Measurement{},
		&models.Fabric{},
		&models.Ticket{},
		&models.Lead{},
	)
	suite.NoError(err)

	config.SetDB(db)
	services.SetMailService(&services.NoopMailService{})

	suite.admin = suite.createUser("Admin", "admin@test.com", models.RoleAdmin)
	suite.customer = suite.createUser("Customer", "customer@test.com", models.RoleCustomer)
	suite.tailor = suite.createUser("Tailor", "tailor@test.com", models.RoleTailor)

	// The same route tree main() builds, minus the parts under test elsewhere
	authRequired := middleware.EnsureValidToken(suite.cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleTailor)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.GET("/track/:orderId", controllers.TrackOrder)
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		auth := v1.Group("", authRequired)
		{
			auth.GET("/orders", controllers.ListOrders)
			auth.GET("/orders/:orderId", controllers.GetOrder)
			auth.PUT("/orders/:orderId/status", staffOnly, controllers.UpdateOrderStatus)

			admin := auth.Group("", adminOnly)
			{
				admin.POST("/orders", controllers.CreateOrder)
				admin.PUT("/orders/:orderId/assign-tailor", controllers.AssignTailor)
			}
		}
	}
}

// TearDownTest runs after each test
func (suite *OrderLifecycleIntegrationTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (suite *OrderLifecycleIntegrationTestSuite) createUser(name, email, role string) models.User {
	hash, err := utils.HashPassword("password123")
	suite.NoError(err)

	user := models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	suite.NoError(suite.db.Create(&user).Error)
	return user
}

// request performs an HTTP request against the suite router, optionally signed
// as the given user.
func (suite *OrderLifecycleIntegrationTestSuite) request(method, path string, body interface{}, as *models.User) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		testutil.AuthorizedRequest(suite.T(), suite.cfg, req, as)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *OrderLifecycleIntegrationTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// TestFullOrderLifecycle walks an order from creation to delivery through the
// HTTP API, switching actors along the way.
func (suite *OrderLifecycleIntegrationTestSuite) TestFullOrderLifecycle() {
	// Admin opens the order
	w := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id":  suite.customer.ID,
		"style":        "Blazer",
		"fabric_name":  "Wool",
		"fabric_color": "Navy",
		"price":        5000,
	}, &suite.admin)
	suite.Equal(http.StatusCreated, w.Code)

	data := suite.decode(w)["data"].(map[string]interface{})
	token := data["order_id"].(string)
	suite.Equal("pending", data["status"])

	// Admin assigns the tailor
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/assign-tailor", token),
		map[string]interface{}{"tailor_id": suite.tailor.ID}, &suite.admin)
	suite.Equal(http.StatusOK, w.Code)

	// The customer sees their order with the audit trail so far
	w = suite.request(http.MethodGet, "/api/v1/orders/"+token, nil, &suite.customer)
	suite.Equal(http.StatusOK, w.Code)
	orderView := suite.decode(w)["data"].(map[string]interface{})
	suite.Len(orderView["timeline"].([]interface{}), 2)

	// The tailor starts stitching
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", token),
		map[string]interface{}{"status": "stitching", "notes": "Fabric cut, stitching started"}, &suite.tailor)
	suite.Equal(http.StatusOK, w.Code)

	// But cannot jump straight to delivered
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", token),
		map[string]interface{}{"status": "delivered"}, &suite.tailor)
	suite.Equal(http.StatusConflict, w.Code)

	// Tailor finishes the production stages
	for _, status := range []string{"finishing", "quality_check", "ready"} {
		w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", token),
			map[string]interface{}{"status": status}, &suite.tailor)
		suite.Equal(http.StatusOK, w.Code, "transition to %s", status)
	}

	// Admin handles dispatch and delivery
	for _, status := range []string{"shipped", "delivered"} {
		w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", token),
			map[string]interface{}{"status": status}, &suite.admin)
		suite.Equal(http.StatusOK, w.Code, "transition to %s", status)
	}

	// Delivered is terminal, even for admins
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", token),
		map[string]interface{}{"status": "pending"}, &suite.admin)
	suite.Equal(http.StatusConflict, w.Code)

	// Anyone with the token can follow progress publicly
	w = suite.request(http.MethodGet, "/api/v1/track/"+token, nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	tracking := suite.decode(w)["data"].(map[string]interface{})
	suite.Equal("delivered", tracking["status"])
	suite.Len(tracking["timeline"].([]interface{}), 8)
	suite.NotContains(tracking, "price")
}

// TestAuthFlow registers, logs in, and uses the issued token against a
// protected endpoint.
func (suite *OrderLifecycleIntegrationTestSuite) TestAuthFlow() {
	w := suite.request(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "New Customer",
		"email":    "new@test.com",
		"password": "strongpassword",
	}, nil)
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "new@test.com",
		"password": "strongpassword",
	}, nil)
	suite.Equal(http.StatusOK, w.Code)

	token := suite.decode(w)["data"].(map[string]interface{})["token"].(string)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Len(suite.decode(rec)["data"].([]interface{}), 0)

	// Without a token the same endpoint rejects the request
	w = suite.request(http.MethodGet, "/api/v1/orders", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// TestRoleEnforcement verifies route-level role checks on top of the service
// policy.
func (suite *OrderLifecycleIntegrationTestSuite) TestRoleEnforcement() {
	// Customers cannot create orders
	w := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id": suite.customer.ID,
		"style":       "Blazer",
		"price":       5000,
	}, &suite.customer)
	suite.Equal(http.StatusForbidden, w.Code)

	// Tailors cannot create orders either
	w = suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id": suite.customer.ID,
		"style":       "Blazer",
		"price":       5000,
	}, &suite.tailor)
	suite.Equal(http.StatusForbidden, w.Code)

	// Customers are blocked from the status endpoint before the service runs
	order := suite.createOrderAsAdmin()
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", order),
		map[string]interface{}{"status": "confirmed"}, &suite.customer)
	suite.Equal(http.StatusForbidden, w.Code)

	// Customers cannot assign tailors
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/assign-tailor", order),
		map[string]interface{}{"tailor_id": suite.tailor.ID}, &suite.customer)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *OrderLifecycleIntegrationTestSuite) createOrderAsAdmin() string {
	w := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id": suite.customer.ID,
		"style":       "Blazer",
		"price":       5000,
	}, &suite.admin)
	suite.Equal(http.StatusCreated, w.Code)
	return suite.decode(w)["data"].(map[string]interface{})["order_id"].(string)
}

// TestOrderListScoping checks that the same endpoint shows each role a
// different slice of the data.
func (suite *OrderLifecycleIntegrationTestSuite) TestOrderListScoping() {
	token := suite.createOrderAsAdmin()
	suite.createOrderAsAdmin()

	w := suite.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/assign-tailor", token),
		map[string]interface{}{"tailor_id": suite.tailor.ID}, &suite.admin)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/orders", nil, &suite.customer)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["data"].([]interface{}), 2)

	w = suite.request(http.MethodGet, "/api/v1/orders", nil, &suite.tailor)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["data"].([]interface{}), 1)

	w = suite.request(http.MethodGet, "/api/v1/orders", nil, &suite.admin)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["data"].([]interface{}), 2)
}

// TestOrderLifecycleIntegrationTestSuite runs the integration test suite
func TestOrderLifecycleIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleIntegrationTestSuite))
}
