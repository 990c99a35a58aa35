package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/studio-booking-backend/internal/auth"
	"github.com/nekogravitycat/studio-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/studio-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/studio-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	catalogHttp "github.com/nekogravitycat/studio-booking-backend/internal/catalog/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/gallery"
	galleryHttp "github.com/nekogravitycat/studio-booking-backend/internal/gallery/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
	reservationHttp "github.com/nekogravitycat/studio-booking-backend/internal/reservation/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	resourceHttp "github.com/nekogravitycat/studio-booking-backend/internal/resource/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
	scheduleHttp "github.com/nekogravitycat/studio-booking-backend/internal/schedule/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
	staffHttp "github.com/nekogravitycat/studio-booking-backend/internal/staff/http"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Location     *time.Location

	StaffService       staff.Service
	ResourceService    resource.Service
	ScheduleService    schedule.Service
	Resolver           availability.Resolver
	CatalogService     catalog.Service
	BookingService     booking.Service
	ReservationService reservation.Service
	ReservationMachine *reservation.Machine
	GalleryService     gallery.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks that the staff account is an active admin.
	adminMiddleware := RequireAdmin(cfg.StaffService)

	staffHandler := staffHttp.NewHandler(cfg.StaffService, cfg.JWTManager)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.Resolver, cfg.Location)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.ReservationMachine, cfg.Location)
	galleryHandler := galleryHttp.NewHandler(cfg.GalleryService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		staffHttp.RegisterRoutes(v1, staffHandler, authMiddleware, adminMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware)
		galleryHttp.RegisterRoutes(v1, galleryHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{
			"http://localhost:3000", // Frontend
			"http://localhost:8081", // Swagger
		}
	}
	var origins []string
	for _, o := range strings.Split(cfg.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
