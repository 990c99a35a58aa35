package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/studio-booking-backend/internal/api"
	"github.com/nekogravitycat/studio-booking-backend/internal/auth"
	"github.com/nekogravitycat/studio-booking-backend/internal/availability"
	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/gallery"
	"github.com/nekogravitycat/studio-booking-backend/internal/notify"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Location     *time.Location

	RequireEmailVerification bool
	CodeLength               int
	CodeMaxAttempts          int
	MaxRangeDays             int
	PublicBaseURL            string

	Notifier      notify.Notifier
	Storage       storage.Storage
	PhotoMaxBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router       *gin.Engine
	JWTManager   *auth.JWTManager
	StaffService staff.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	txRunner := db.NewTxRunner(cfg.DBPool)

	// Staff Module
	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo, passwordHasher)

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	// Schedule Module
	schedRepo := schedule.NewPgxRepository(cfg.DBPool)
	schedService := schedule.NewService(schedRepo, resService)

	// Catalog Module
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	catalogService := catalog.NewService(catalogRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, txRunner, resService, schedService, cfg.Location)

	// Availability
	resolver := availability.NewResolver(resService, schedService, bookingRepo, cfg.Location, cfg.MaxRangeDays)

	// Reservation Module
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	machine := reservation.NewMachine(reservation.Config{
		RequireEmailVerification: cfg.RequireEmailVerification,
	})
	reservationService := reservation.NewService(reservation.Deps{
		Repo:            reservationRepo,
		BookingRepo:     bookingRepo,
		Tx:              txRunner,
		ResourceService: resService,
		ScheduleService: schedService,
		CatalogService:  catalogService,
		Codes:           reservation.NewCodeGenerator(reservationRepo, cfg.CodeLength, cfg.CodeMaxAttempts),
		Machine:         machine,
		Notifier:        cfg.Notifier,
		Location:        cfg.Location,
		PublicBaseURL:   cfg.PublicBaseURL,
	})

	// Gallery Module
	galleryRepo := gallery.NewPgxRepository(cfg.DBPool)
	galleryService := gallery.NewService(galleryRepo, cfg.Storage, resService, cfg.PhotoMaxBytes)

	// API Router Config
	routerParams := api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Location:           cfg.Location,
		StaffService:       staffService,
		ResourceService:    resService,
		ScheduleService:    schedService,
		Resolver:           resolver,
		CatalogService:     catalogService,
		BookingService:     bookingService,
		ReservationService: reservationService,
		ReservationMachine: machine,
		GalleryService:     galleryService,
		JWTManager:         jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:       router,
		JWTManager:   jwtManager,
		StaffService: staffService,
	}
}
