package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"tutorhub/src/middlewares"
	"tutorhub/src/types"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TestSuite struct {
	suite.Suite
}

func (s *TestSuite) SetupSuite() {
	registerValidators()
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "DENY", w.Header().Get("X-Frame-Options"))
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

func (s *TestSuite) TestMaintenanceModeOff() {
	os.Setenv("MAINTENANCE_MODE", "not-a-bool")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestBookingsRequireAuth() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	bookingHandlers(apiv1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestAuthRejectsBareBearerHeader() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	bookingHandlers(apiv1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestClockValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(s.T(), ok)

	body := types.CreateSlotRequestBody{
		Date:      "2026-03-10",
		StartTime: "14:00",
		EndTime:   "16:00",
		Price:     100,
	}
	assert.Nil(s.T(), v.Struct(&body))

	body.EndTime = "13:00"
	assert.NotNil(s.T(), v.Struct(&body), "end before start must fail")

	body.EndTime = "25:61"
	assert.NotNil(s.T(), v.Struct(&body), "invalid clock must fail")
}

func (s *TestSuite) TestStatusForError() {
	cases := []struct {
		err    error
		status int
	}{
		{types.ErrSlotUnavailable, 409},
		{types.ErrSelfBooking, 400},
		{types.ErrBookingNotFound, 404},
		{types.ErrRefundIneligible, 422},
		{types.ErrInvalidTransition, 409},
		{types.ErrGatewayUnavailable, 502},
		{errors.New("anything else"), 422},
	}
	for _, c := range cases {
		status, _ := statusForError(c.err)
		assert.Equal(s.T(), c.status, status, c.err.Error())
	}

	status, msg := statusForError(&types.GatewayDeclineError{
		Code:        "800.100.151",
		Description: "transaction declined (invalid card)",
	})
	assert.Equal(s.T(), 402, status)
	assert.Equal(s.T(), "transaction declined (invalid card)", msg)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
