package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/lock"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

type apiFixture struct {
	router   *gin.Engine
	db       *gorm.DB
	hotel    model.Hotel
	roomType model.RoomType
}

func setupAPI(t *testing.T, opts ...booking.Option) *apiFixture {
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open("file:apitest_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	hotel := model.Hotel{ID: uuid.NewString(), Name: "Harbor View", City: "Qingdao"}
	require.NoError(t, gormDB.Create(&hotel).Error)

	rt := model.RoomType{
		ID:                uuid.NewString(),
		HotelID:           hotel.ID,
		Name:              "Deluxe King",
		TotalUnits:        2,
		BasePricePerNight: decimal.RequireFromString("100.00"),
		MaxOccupancy:      2,
		ExtraGuestFee:     decimal.RequireFromString("25.00"),
	}
	require.NoError(t, gormDB.Create(&rt).Error)

	st := store.NewGormStore(gormDB)
	svc := booking.NewService(st, lock.NewKeyed(), opts...)
	router := NewRouter(st, svc, config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}, nil)

	return &apiFixture{router: router, db: gormDB, hotel: hotel, roomType: rt}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) createBooking(t *testing.T, body string) string {
	w := f.do(t, "POST", "/api/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		Success   bool   `json:"success"`
		BookingID string `json:"booking_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	return result.BookingID
}

func (f *apiFixture) bookingBody(units int) string {
	return `{
		"hotel_id": "` + f.hotel.ID + `",
		"room_type_id": "` + f.roomType.ID + `",
		"check_in": "2026-10-01",
		"check_out": "2026-10-04",
		"units": ` + strconv.Itoa(units) + `,
		"guest_name": "Alice Zhang",
		"guest_email": "alice@example.com"
	}`
}

func TestCreateBookingEndpoint(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "POST", "/api/bookings", f.bookingBody(1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		Success    bool   `json:"success"`
		BookingID  string `json:"booking_id"`
		Nights     int    `json:"nights"`
		TotalPrice string `json:"total_price"`
		Message    string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.BookingID)
	assert.Equal(t, 3, result.Nights)
	assert.Equal(t, "booking confirmed", result.Message)
}

func TestCreateBookingEndpointErrors(t *testing.T) {
	f := setupAPI(t)

	t.Run("missing required fields", func(t *testing.T) {
		w := f.do(t, "POST", "/api/bookings", `{"hotel_id": "x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		body := strings.Replace(f.bookingBody(1), "2026-10-01", "01/10/2026", 1)
		w := f.do(t, "POST", "/api/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "check_in")
	})

	t.Run("validation error from the core", func(t *testing.T) {
		body := strings.Replace(f.bookingBody(1), "alice@example.com", "not-an-email", 1)
		w := f.do(t, "POST", "/api/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "guest_email")
	})

	t.Run("unknown room type", func(t *testing.T) {
		body := strings.Replace(f.bookingBody(1), f.roomType.ID, uuid.NewString(), 1)
		w := f.do(t, "POST", "/api/bookings", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("sold out answers conflict", func(t *testing.T) {
		f.createBooking(t, f.bookingBody(2))
		w := f.do(t, "POST", "/api/bookings", f.bookingBody(1))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})
}

func TestBookingLifecycleEndpoints(t *testing.T) {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	f := setupAPI(t, booking.WithClock(func() time.Time { return checkIn }))

	id := f.createBooking(t, f.bookingBody(1))

	w := f.do(t, "GET", "/api/bookings/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hotel_name":"Harbor View"`)
	assert.Contains(t, w.Body.String(), `"room_type_name":"Deluxe King"`)

	w = f.do(t, "POST", "/api/bookings/"+id+"/check-in", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"checked_in"`)

	w = f.do(t, "POST", "/api/bookings/"+id+"/check-out", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"checked_out"`)

	// A completed stay cannot be cancelled.
	w = f.do(t, "POST", "/api/bookings/"+id+"/cancel", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	f := setupAPI(t)

	id := f.createBooking(t, f.bookingBody(1))

	w := f.do(t, "POST", "/api/bookings/"+id+"/cancel", `{"reason": "change of plans"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"cancel_reason":"change of plans"`)

	w = f.do(t, "POST", "/api/bookings/"+id+"/cancel", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, "POST", "/api/bookings/"+uuid.NewString()+"/cancel", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookingEndpointNotFound(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "GET", "/api/bookings/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookingsByEmailEndpoint(t *testing.T) {
	f := setupAPI(t)

	f.createBooking(t, f.bookingBody(1))

	w := f.do(t, "GET", "/api/bookings?email=alice@example.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bookings []model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	assert.Len(t, bookings, 1)

	w = f.do(t, "GET", "/api/bookings?email=nobody@example.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = f.do(t, "GET", "/api/bookings", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	f := setupAPI(t)

	probe := "/api/availability?room_type_id=" + f.roomType.ID +
		"&check_in=2026-10-01&check_out=2026-10-04"

	w := f.do(t, "GET", probe, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":true`)

	f.createBooking(t, f.bookingBody(2))

	w = f.do(t, "GET", probe, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":false`)

	// Malformed probes degrade instead of erroring.
	w = f.do(t, "GET", "/api/availability?room_type_id="+f.roomType.ID+"&check_in=bad&check_out=2026-10-04", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available": false}`, w.Body.String())
}

func TestHotelEndpoints(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "GET", "/api/hotels", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Harbor View")

	w = f.do(t, "GET", "/api/hotels/"+f.hotel.ID+"/room-types", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deluxe King")

	f.createBooking(t, f.bookingBody(1))

	w = f.do(t, "GET", "/api/hotels/"+f.hotel.ID+"/bookings?status=confirmed", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []store.BookingRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Harbor View", rows[0].HotelName)

	w = f.do(t, "GET", "/api/hotels/"+f.hotel.ID+"/bookings?from=not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "GET", "/api/hotels/"+f.hotel.ID+"/bookings?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "GET", "/api/hotels/"+f.hotel.ID+"/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_bookings":1`)
}
