package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-calendar/config"
	"hotel-calendar/controllers"
	"hotel-calendar/routes"
	"hotel-calendar/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	// Connect database (fixture source)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established, fixtures seeded")

	// Initialize services
	store := services.NewReservationStore(services.RealClock{})
	fixtures := services.NewFixtureService(db)
	refresher := services.NewRefresher(services.NewChartClientFromEnv(), store, services.RealClock{})

	// Boot with the seeded fixtures; a remote refresh replaces them.
	data, err := fixtures.Load()
	if err != nil {
		log.Printf("warning: couldn't load fixtures, starting empty: %v", err)
	} else {
		store.ApplyNormalized(data)
		log.Printf("Loaded %d rooms and %d reservations from fixtures", len(data.Rooms), len(data.Reservations))
	}

	// Initialize controllers
	calendarController := controllers.NewCalendarController(store, refresher)
	reservationController := controllers.NewReservationController(store)

	// Build router
	router := routes.SetupRouter(calendarController, reservationController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
