package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // loads .env files into the process environment
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/config"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/database"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/handler"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/libraryapi"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/middleware"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/points"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/queue"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the API itself keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	ratings := repository.NewRatingRepo(db)
	admin := repository.NewAdminRepo(db)
	ledger := points.NewLedger(db)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users),
		Browse:  handler.NewBrowseHandler(rooms, seats),
		Booking: handler.NewBookingHandler(bookings, seats, ledger, true),
		Rating:  handler.NewRatingHandler(ratings, bookings, ledger),
		Points:  handler.NewPointsHandler(users, ledger),
		Admin:   handler.NewAdminHandler(admin),
	}
	if libraryapi.Enabled() {
		h.Library = handler.NewLibraryHandler(libraryapi.NewFromEnv())
		log.Println("library api integration enabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.Register(e, cfg, h)

	// The consumer tails booking.confirmed and writes logs/booking.log.
	// It reconnects forever on its own; a dead broker never stops the API.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
