package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/kendall-kelly/restaurant-assistant-api/metrics"
	"github.com/kendall-kelly/restaurant-assistant-api/middleware"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/services"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/kendall-kelly/restaurant-assistant-api/tests/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

// RouterTestSuite exercises the assembled router end to end against in-memory SQLite
type RouterTestSuite struct {
	suite.Suite
	cfg     *config.Config
	store   *store.Store
	sms     *services.MockSMSService
	storage *services.MockS3Service
	router  *gin.Engine
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *RouterTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		DatabaseURL:        ":memory:",
		DBDriver:           config.DriverSQLite,
		GoEnv:              "test",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	suite.store = store.New(testutil.OpenTestDB(suite.T()))
	suite.sms = services.NewMockSMSService()
	suite.storage = services.NewMockS3Service()
	suite.router = suite.buildRouter(testutil.MockAuthMiddleware("auth0|staff", middleware.ScopeManageRestaurant))
}

func (suite *RouterTestSuite) buildRouter(auth ...gin.HandlerFunc) *gin.Engine {
	reg := prometheus.NewRegistry()
	deps := Deps{
		Config:   suite.cfg,
		Log:      testutil.NewTestLogger(),
		Store:    suite.store,
		SMS:      suite.sms,
		Storage:  suite.storage,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	}
	if len(auth) > 0 {
		deps.AdminAuth = append(auth, middleware.RequireScope(middleware.ScopeManageRestaurant))
	}

	router, err := SetupRouter(deps)
	suite.Require().NoError(err)
	return router
}

func (suite *RouterTestSuite) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) receive(form url.Values) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/messages/receive", form.Encode(), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
}

func (suite *RouterTestSuite) TestRootAndHealth() {
	w := suite.do(http.MethodGet, "/", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message":"Restaurant Assistant API","status":"running"}`, w.Body.String())
	suite.NotEmpty(w.Header().Get(middleware.RequestIDHeader))

	w = suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"healthy"}`, w.Body.String())
}

func (suite *RouterTestSuite) TestInboundMessageFlow() {
	bob := testutil.CreateCustomer(suite.T(), suite.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	reservation := testutil.CreateReservation(suite.T(), suite.store.DB(), bob.ID, time.Now().Add(2*time.Hour), models.StatusPending)

	w := suite.receive(url.Values{
		"to_number":   {"+15550000000"},
		"from_number": {"+15550000001"},
		"body":        {"No allergies here!"},
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message":"Message received"}`, w.Body.String())
	suite.Equal(int64(1), testutil.CountRows(suite.T(), suite.store.DB(), &models.Message{}))

	w = suite.do(http.MethodGet, "/reservations", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	var reservations []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &reservations))
	suite.Require().Len(reservations, 1)
	suite.Equal(float64(reservation.ID), reservations[0]["id"])
	suite.Equal("needs_review", reservations[0]["status"])

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/reservations/%d/messages", reservation.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "No allergies here!")
}

func (suite *RouterTestSuite) TestInboundMessageRejections() {
	carol := testutil.CreateCustomer(suite.T(), suite.store.DB(), "Carol", "carol@example.com", "+15550000002", nil)
	testutil.CreateReservation(suite.T(), suite.store.DB(), carol.ID, time.Now(), models.StatusCancelled)

	w := suite.receive(url.Values{"to_number": {"+15550000000"}, "from_number": {"+19999999999"}, "body": {"Hello"}})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"detail":"Customer not found"}`, w.Body.String())

	w = suite.receive(url.Values{"to_number": {"+15550000000"}, "from_number": {"+15550000002"}, "body": {"Hello"}})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"detail":"No active reservation found for customer"}`, w.Body.String())

	suite.Equal(int64(0), testutil.CountRows(suite.T(), suite.store.DB(), &models.Message{}))
}

func (suite *RouterTestSuite) TestAdminWorkflow() {
	w := suite.do(http.MethodPost, "/api/v1/dietary-restrictions", `{"name":"Nut-free"}`, map[string]string{"Content-Type": "application/json"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/customers",
		`{"name":"Bob","email":"bob@example.com","phone_number":"+15550000001","notes":"peanut allergy","dietary_restriction_ids":[1]}`,
		map[string]string{"Content-Type": "application/json"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/reservations",
		`{"customer_id":1,"reservation_datetime":"2026-07-04T19:00:00Z","party_size":3}`,
		map[string]string{"Content-Type": "application/json"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), `"customer_allergy_notes":"peanut allergy"`)

	w = suite.do(http.MethodPost, "/api/v1/reservations/1/messages", `{"body":"See you on the 4th"}`, map[string]string{"Content-Type": "application/json"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Len(suite.sms.Sent(), 1)

	w = suite.do(http.MethodPost, "/api/v1/reservations/1/transcript", "", nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Len(suite.storage.Keys(), 1)

	w = suite.do(http.MethodPatch, "/api/v1/reservations/1/status", `{"status":"confirmed"}`, map[string]string{"Content-Type": "application/json"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/customers/1/reservations", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"confirmed"`)

	w = suite.do(http.MethodGet, "/api/v1/database/status", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestAdminRequiresScope() {
	suite.router = suite.buildRouter(testutil.MockAuthMiddleware("auth0|guest", "read:menu"))

	w := suite.do(http.MethodGet, "/api/v1/dietary-restrictions", "", nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Contains(w.Body.String(), "INSUFFICIENT_SCOPE")

	// public routes stay open
	w = suite.do(http.MethodGet, "/customers", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *RouterTestSuite) TestAdminRejectsMissingToken() {
	suite.cfg.Auth0Domain = "test.auth0.com"
	suite.cfg.Auth0Audience = "https://api.test.com"
	suite.router = suite.buildRouter()

	w := suite.do(http.MethodGet, "/api/v1/dietary-restrictions", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "INVALID_TOKEN")
}

func (suite *RouterTestSuite) TestProductionRequiresAuth() {
	suite.cfg.GoEnv = "production"

	_, err := SetupRouter(Deps{
		Config: suite.cfg,
		Log:    testutil.NewTestLogger(),
		Store:  suite.store,
	})
	suite.Error(err)
}

func (suite *RouterTestSuite) TestWebhookSignatureEnforced() {
	suite.cfg.TwilioValidateSignature = true
	suite.cfg.TwilioAuthToken = "secret"
	suite.cfg.TwilioWebhookURL = "https://assistant.example.com/messages/receive"
	suite.router = suite.buildRouter(testutil.MockAuthMiddleware("auth0|staff", middleware.ScopeManageRestaurant))

	w := suite.receive(url.Values{"From": {"+15550000001"}, "Body": {"Hi"}})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RouterTestSuite) TestCORSPreflight() {
	w := suite.do(http.MethodOptions, "/customers", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "GET",
	})
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	suite.Equal("true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = suite.do(http.MethodOptions, "/customers", "", map[string]string{
		"Origin":                        "https://evil.example.com",
		"Access-Control-Request-Method": "GET",
	})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Empty(w.Header().Get("Access-Control-Allow-Origin"))
}

func (suite *RouterTestSuite) TestMetricsEndpoint() {
	suite.do(http.MethodGet, "/health", "", nil)

	w := suite.do(http.MethodGet, "/metrics", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `restaurant_assistant_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
