package controllers

import (
	"net/http"
	"time"

	"hotel-calendar/services"
	"hotel-calendar/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type RefreshPayload struct {
	Date string `json:"date" binding:"required"` // yyyy-MM-dd
	View string `json:"view"`
}

// ---------------------------
// Controller
// ---------------------------

type CalendarController struct {
	Store     *services.ReservationStore
	Refresher *services.Refresher
}

func NewCalendarController(store *services.ReservationStore, refresher *services.Refresher) *CalendarController {
	return &CalendarController{Store: store, Refresher: refresher}
}

func parseAnchor(value string) (time.Time, bool) {
	if value == "" {
		return time.Now(), true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GetCalendar returns the scheduler widget configuration for the requested
// view and anchor date, projected from the current collections.
func (ctl *CalendarController) GetCalendar(c *gin.Context) {
	view := c.DefaultQuery("view", services.ViewMonth)
	anchor, ok := parseAnchor(c.Query("date"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
		return
	}

	cfg := services.BuildSchedulerConfig(view, anchor, ctl.Store.Rooms(), ctl.Store.Reservations(), ctl.Store.Statuses())

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"config":  cfg,
		"loading": ctl.Refresher.IsLoading(),
	})
}

// GetStatuses returns the status legend.
func (ctl *CalendarController) GetStatuses(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, ctl.Store.Statuses())
}

// Refresh re-fetches the remote chart for the anchor's month (or the whole
// year in Year view) and replaces the collections. A failed fetch degrades
// to an empty grid and still answers 200: the client renders what the
// store now holds, it never gets a transport error to display.
func (ctl *CalendarController) Refresh(c *gin.Context) {
	var payload RefreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	anchor, ok := parseAnchor(payload.Date)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
		return
	}

	view := payload.View
	if view == "" {
		view = services.ViewMonth
	}

	// Errors are logged by the refresher; the store is already cleared.
	_ = ctl.Refresher.Refresh(c.Request.Context(), view, anchor)

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"rooms":        len(ctl.Store.Rooms()),
		"reservations": len(ctl.Store.Reservations()),
	})
}
