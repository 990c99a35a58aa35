package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/app"
	availabilityHttp "github.com/nekogravitycat/studio-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/notify"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/storage"
	reservationHttp "github.com/nekogravitycat/studio-booking-backend/internal/reservation/http"
	resourceHttp "github.com/nekogravitycat/studio-booking-backend/internal/resource/http"
	scheduleHttp "github.com/nekogravitycat/studio-booking-backend/internal/schedule/http"
	staffHttp "github.com/nekogravitycat/studio-booking-backend/internal/staff/http"
)

const (
	adminEmail    = "admin@studio.test"
	adminPassword = "correct-horse"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
	container  *app.Container
)

// TestMain runs the HTTP suite against a real database. It is skipped when TEST_DB_DSN is unset.
func TestMain(m *testing.M) {
	// Attempt to load .env from the repository root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		log.Println("TEST_DB_DSN is not set, skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	if err := db.Migrate(ctx, testPool); err != nil {
		log.Fatalf("Unable to migrate database: %v\n", err)
	}

	storageDir, err := os.MkdirTemp("", "studio-photos-")
	if err != nil {
		log.Fatalf("Unable to create storage dir: %v\n", err)
	}
	store, err := storage.NewLocalStorage(storageDir)
	if err != nil {
		log.Fatalf("Unable to init storage: %v\n", err)
	}

	gin.SetMode(gin.TestMode)
	container = app.NewContainer(app.Config{
		DBPool:          testPool,
		JWTSecret:       "integration-secret",
		JWTTTL:          30 * time.Minute,
		BcryptCost:      4, // Lower cost for testing purposes
		Location:        time.UTC,
		CodeLength:      4,
		CodeMaxAttempts: 50,
		MaxRangeDays:    31,
		PublicBaseURL:   "http://localhost:8080",
		Notifier:        notify.LogNotifier{},
		Storage:         store,
		PhotoMaxBytes:   1 << 20,
	})
	testRouter = container.Router

	exitCode := m.Run()

	testPool.Close()
	os.RemoveAll(storageDir)
	os.Exit(exitCode)
}

func clearTables(t *testing.T) {
	t.Helper()
	queries := []string{
		"TRUNCATE TABLE public.bookings CASCADE",
		"TRUNCATE TABLE public.reservations CASCADE",
		"TRUNCATE TABLE public.addon_services CASCADE",
		"TRUNCATE TABLE public.resources CASCADE",
		"TRUNCATE TABLE public.staff CASCADE",
	}
	for _, q := range queries {
		_, err := testPool.Exec(context.Background(), q)
		require.NoError(t, err, "Failed to clean table")
	}
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func login(t *testing.T) string {
	t.Helper()
	require.NoError(t, container.StaffService.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	w := executeRequest("POST", "/v1/auth/login", staffHttp.LoginRequest{Email: adminEmail, Password: adminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[staffHttp.LoginResponse](t, w).AccessToken
}

// nextMonday returns a Monday at least a week ahead, so reservations are never in the past.
func nextMonday() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestReservationLifecycle(t *testing.T) {
	clearTables(t)
	token := login(t)
	date := nextMonday().Format("2006-01-02")

	var resourceID string
	t.Run("Setup resource and schedule", func(t *testing.T) {
		w := executeRequest("POST", "/v1/resources", resourceHttp.CreateRequest{Name: "Studio A"}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resourceID = decode[resourceHttp.ResourceResponse](t, w).ID

		monday := 0
		w = executeRequest("POST", "/v1/resources/"+resourceID+"/schedule", scheduleHttp.CreateWindowRequest{
			Weekday:     &monday,
			Kind:        "discrete",
			StartTime:   "09:00",
			EndTime:     "12:00",
			SlotMinutes: 60,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	newRequest := func(name string) reservationHttp.CreateReservationRequest {
		return reservationHttp.CreateReservationRequest{
			ResourceID:  resourceID,
			Date:        date,
			StartTime:   "10:00",
			EndTime:     "11:00",
			ClientName:  name,
			ClientEmail: "client@example.com",
		}
	}

	var first, second string
	t.Run("Two clients request the same slot", func(t *testing.T) {
		w := executeRequest("POST", "/v1/reservations", newRequest("Ana"), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		res := decode[reservationHttp.PublicReservationResponse](t, w)
		assert.Equal(t, "pending", res.Status)
		assert.Len(t, res.Code, 4)
		first = res.Code

		w = executeRequest("POST", "/v1/reservations", newRequest("Bruno"), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		second = decode[reservationHttp.PublicReservationResponse](t, w).Code
	})

	t.Run("Public lookup", func(t *testing.T) {
		w := executeRequest("GET", "/v1/reservations/lookup/"+first, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10:00", decode[reservationHttp.PublicReservationResponse](t, w).StartTime)
	})

	t.Run("Staff routes require a token", func(t *testing.T) {
		w := executeRequest("POST", "/v1/reservations/"+first+"/confirm", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Confirming the first blocks the second", func(t *testing.T) {
		w := executeRequest("POST", "/v1/reservations/"+first+"/confirm", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		res := decode[reservationHttp.ReservationResponse](t, w)
		assert.Equal(t, "confirmed", res.Status)
		assert.NotNil(t, res.ConfirmedAt)

		w = executeRequest("POST", "/v1/reservations/"+second+"/confirm", nil, token)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "schedule_conflict", decode[response.ErrorResponse](t, w).Kind)
	})

	t.Run("Availability reflects the booking", func(t *testing.T) {
		w := executeRequest("GET", "/v1/resources/"+resourceID+"/availability?date="+date, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		day := decode[availabilityHttp.DayResponse](t, w)
		require.True(t, day.HasSchedule)
		require.Len(t, day.Discrete, 3)
		assert.True(t, day.Discrete[0].Available)
		assert.False(t, day.Discrete[1].Available)
		assert.True(t, day.Discrete[2].Available)
	})

	t.Run("Undo frees the slot", func(t *testing.T) {
		w := executeRequest("POST", "/v1/reservations/"+first+"/undo", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "pending", decode[reservationHttp.ReservationResponse](t, w).Status)

		w = executeRequest("POST", "/v1/reservations/"+second+"/confirm", nil, token)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Invalid transition", func(t *testing.T) {
		w := executeRequest("POST", "/v1/reservations/"+first+"/reactivate", nil, token)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "state_transition", decode[response.ErrorResponse](t, w).Kind)
	})
}
