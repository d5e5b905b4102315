package main

import (
	"encoding/json"
	"fbs/src/db"
	"fbs/src/types"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	inner, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	// postgres.Open + ConnPool would dial a live server; Conn pins every
	// query to the sqlmock connection.
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: inner}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

// testAuthMiddleware stands in for the JWT middleware so handler tests
// can exercise role checks without minting tokens.
func testAuthMiddleware(role string, agentId uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("id", uint(1))
		ctx.Set("email", "someone@example.com")
		ctx.Set("role", role)
		if agentId > 0 {
			ctx.Set("agent", agentId)
		}
	}
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("traveldate", travelDateValidatorFunc)
	}
	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthValidation() {
	router := setupRouter()
	guestAuthRoutes(router)

	s.Run("Register rejects short password", func() {
		w := httptest.NewRecorder()
		body := types.RegisterUserRequestBody{
			Name:     "Test User",
			Email:    "someone@example.com",
			Password: "short",
		}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Login rejects missing password", func() {
		w := httptest.NewRecorder()
		body := map[string]any{"email": "someone@example.com"}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestTripQueryValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("customer", 0))
	tripHandlers(apiv1)

	s.Run("Trip search requires route and date", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/trips", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Trip search rejects malformed date", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/trips?route=1&date=tomorrow", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})
}

func (s *TestSuite) TestRoutesList() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("customer", 0))
	routeHandlers(apiv1)

	s.Mock.ExpectQuery(`SELECT (.+) FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "origin", "destination", "base_fare", "active"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/routes", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	count := gjson.Get(string(rbytes), "count").Int()
	assert.Equal(s.T(), int64(0), count)
}

func (s *TestSuite) TestBookingValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("customer", 0))
	bookingHandlers(apiv1)

	s.Run("Booking requires payment method", func() {
		w := httptest.NewRecorder()
		body := map[string]any{
			"trip_type": "one_way",
			"departure": map[string]any{
				"trip":       1,
				"seats":      []string{"A1"},
				"passengers": []map[string]any{{"seat": "A1", "full_name": "Test Passenger"}},
			},
			"contact_email": "someone@example.com",
		}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Booking rejects unknown payment method", func() {
		w := httptest.NewRecorder()
		body := map[string]any{
			"trip_type": "one_way",
			"departure": map[string]any{
				"trip":       1,
				"seats":      []string{"A1"},
				"passengers": []map[string]any{{"seat": "A1", "full_name": "Test Passenger"}},
			},
			"payment_method": "cash",
			"contact_email":  "someone@example.com",
		}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Modification requires agent role", func() {
		w := httptest.NewRecorder()
		body := types.ModifyBookingRequestBody{Reason: "date change"}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/bookings/1/modify", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 403, w.Code)
	})
}

func (s *TestSuite) TestModifyValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("agent", 7))
	bookingHandlers(apiv1)

	s.Run("Modification requires a reason", func() {
		w := httptest.NewRecorder()
		body := map[string]any{"new_trip": 2}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/bookings/1/modify", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes2, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes2), "error").String()
		assert.Contains(s.T(), errMsg, "Reason")
	})
}

func (s *TestSuite) TestSeatHoldValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("customer", 0))
	seatHandlers(apiv1)

	w := httptest.NewRecorder()
	body := map[string]any{"trip": 1}
	rbytes, _ := json.Marshal(&body)
	req, _ := http.NewRequest("POST", "/api/v1/seats/hold", strings.NewReader(string(rbytes)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestCampaignValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("staff", 0))
	campaignHandlers(apiv1)

	s.Run("Route subscribers audience needs a route", func() {
		w := httptest.NewRecorder()
		body := types.CreateCampaignRequestBody{
			Subject:  "Schedule change",
			Body:     "The afternoon crossing moves to 15:30.",
			Audience: "route_subscribers",
		}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/campaigns", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Unknown audience is rejected", func() {
		w := httptest.NewRecorder()
		body := types.CreateCampaignRequestBody{
			Subject:  "Schedule change",
			Body:     "The afternoon crossing moves to 15:30.",
			Audience: "everyone",
		}
		rbytes, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/campaigns", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestCampaignForbiddenForCustomers() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("customer", 0))
	campaignHandlers(apiv1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/campaigns", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Greaterf(s.T(), len(rbytes), 0, "Empty response")
}

func (s *TestSuite) TestCheckInValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware("staff", 0))
	boardingHandlers(apiv1)

	w := httptest.NewRecorder()
	body := map[string]any{}
	rbytes, _ := json.Marshal(&body)
	req, _ := http.NewRequest("POST", "/api/v1/checkin", strings.NewReader(string(rbytes)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
	res, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	errMsg := gjson.Get(string(res), "error").String()
	assert.Contains(s.T(), errMsg, "Code")
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
