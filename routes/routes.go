package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-calendar/controllers"
	"hotel-calendar/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	cc *controllers.CalendarController,
	rc *controllers.ReservationController,
) *gin.Engine {
	// gin.New, not gin.Default: the latency middleware is the one request
	// logger, gin's own would double every line.
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/calendar", cc.GetCalendar)
		api.GET("/statuses", cc.GetStatuses)
		api.POST("/refresh", cc.Refresh)

		modal := api.Group("/modal")
		{
			modal.POST("/create", rc.OpenCreate)
			modal.POST("/edit", rc.OpenEdit)
			modal.POST("/view", rc.OpenView)
			modal.PATCH("/field", rc.UpdateField)
			modal.POST("/save", rc.Save)
			modal.POST("/close", rc.CloseModal)
		}

		reservations := api.Group("/reservations")
		{
			reservations.POST("/select", rc.Select)
			reservations.PATCH("/:id/move", rc.Move)
			reservations.PATCH("/:id/resize", rc.Resize)
		}
	}

	return r
}
