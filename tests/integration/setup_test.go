package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dashfinance/internal/config"
	"dashfinance/internal/handlers"
	"dashfinance/internal/logger"
	"dashfinance/internal/mailer"
	"dashfinance/internal/middleware"
	"dashfinance/internal/models"
	"dashfinance/internal/services"
	"dashfinance/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Sender *captureSender
}

// captureSender records issued login codes instead of sending mail.
type captureSender struct {
	LastTo   string
	LastCode string
}

func (s *captureSender) SendLoginCode(to, code string, _ time.Duration) mailer.Result {
	s.LastTo = to
	s.LastCode = code
	return mailer.Result{Delivered: true}
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: time.Hour,
		LoginTokenTTL:    10 * time.Minute,
		LoginTokenLength: 6,
	}
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.LoginToken{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	cfg := testConfig()
	sender := &captureSender{}

	tokenIssuer := middleware.NewTokenIssuer(cfg)
	userService := services.NewUserService(db)
	loginTokenService := services.NewLoginTokenService(db, sender, cfg.LoginTokenLength, cfg.LoginTokenTTL)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	dashboardService := services.NewDashboardService(db)

	authHandler := handlers.NewAuthHandler(userService, loginTokenService, tokenIssuer, cfg)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/login-token/request", authHandler.RequestLoginToken)
	auth.POST("/login-token/verify", authHandler.VerifyLoginToken)

	authProtected := auth.Group("")
	authProtected.Use(tokenIssuer.Middleware())
	authProtected.GET("/me", authHandler.Me)
	authProtected.PATCH("/profile", authHandler.UpdateProfile)
	authProtected.PATCH("/password", authHandler.UpdatePassword)

	categories := router.Group("/categories")
	categories.Use(tokenIssuer.Middleware())
	categories.GET("", categoryHandler.GetUserCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := router.Group("/transactions")
	transactions.Use(tokenIssuer.Middleware())
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	dashboard := router.Group("/dashboard")
	dashboard.Use(tokenIssuer.Middleware())
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	return &testApp{DB: db, Router: router, Sender: sender}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the session token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the session token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/categories", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}

// createTransaction creates a transaction and returns its ID.
func (app *testApp) createTransaction(t *testing.T, token, title string, amount float64, txType, date, categoryID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"amount":%v,"type":%q,"date":%q,"categoryId":%q}`,
		title, amount, txType, date, categoryID)
	rec := app.request("POST", "/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}

// systemCategoryID finds the user's system category via the list endpoint.
func (app *testApp) systemCategoryID(t *testing.T, token string) string {
	t.Helper()
	rec := app.request("GET", "/categories", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories failed: %d %s", rec.Code, rec.Body.String())
	}
	var categories []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("failed to parse categories: %v", err)
	}
	for _, c := range categories {
		if c["is_system"] == true {
			return c["id"].(string)
		}
	}
	t.Fatal("no system category found")
	return ""
}
