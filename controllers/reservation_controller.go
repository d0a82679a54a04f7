package controllers

import (
	"errors"
	"net/http"
	"time"

	"hotel-calendar/services"
	"hotel-calendar/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type ReservationRefPayload struct {
	ID string `json:"id" binding:"required"`
}

type FieldPayload struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type MovePayload struct {
	Start    string `json:"start" binding:"required"`
	End      string `json:"end" binding:"required"`
	Resource string `json:"resource" binding:"required"`
}

type ResizePayload struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type ReservationController struct {
	Store *services.ReservationStore
}

func NewReservationController(store *services.ReservationStore) *ReservationController {
	return &ReservationController{Store: store}
}

// respondStoreError maps store sentinels onto the error envelope.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReservationNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "error.reservationNotFound", "reserva no encontrada")
	case errors.Is(err, services.ErrModalOpen):
		utils.JSONErrorCode(c, http.StatusConflict, "error.modalOpen", "el modal ya está abierto")
	case errors.Is(err, services.ErrModalClosed):
		utils.JSONErrorCode(c, http.StatusConflict, "error.modalClosed", "el modal no está abierto")
	case errors.Is(err, services.ErrReadOnlyModal):
		utils.JSONErrorCode(c, http.StatusConflict, "error.readOnlyModal", "una reserva en modo vista no se puede guardar")
	default:
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	}
}

func parseEventTime(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date-time value")
}

// ---------------------------
// Modal lifecycle
// ---------------------------

func (ctl *ReservationController) OpenCreate(c *gin.Context) {
	form, err := ctl.Store.OpenCreate()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"mode": services.ModalNew, "form": form})
}

func (ctl *ReservationController) OpenEdit(c *gin.Context) {
	ctl.open(c, services.ModalEdit)
}

func (ctl *ReservationController) OpenView(c *gin.Context) {
	ctl.open(c, services.ModalView)
}

func (ctl *ReservationController) open(c *gin.Context, mode string) {
	var payload ReservationRefPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		form interface{}
		err  error
	)
	if mode == services.ModalEdit {
		form, err = ctl.Store.OpenEdit(payload.ID)
	} else {
		form, err = ctl.Store.OpenView(payload.ID)
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"mode": mode, "form": form})
}

func (ctl *ReservationController) UpdateField(c *gin.Context) {
	var payload FieldPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	form, err := ctl.Store.UpdateField(payload.Field, payload.Value)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"form": form})
}

func (ctl *ReservationController) Save(c *gin.Context) {
	saved, err := ctl.Store.Save()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, saved)
}

func (ctl *ReservationController) CloseModal(c *gin.Context) {
	ctl.Store.CloseModal()
	utils.JSONSuccess(c, http.StatusOK, gin.H{"mode": services.ModalClosed})
}

// ---------------------------
// Grid interactions
// ---------------------------

// Select marks a reservation after an event click. An unknown id is not an
// error, the selection just stays empty.
func (ctl *ReservationController) Select(c *gin.Context) {
	var payload ReservationRefPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	selected, found := ctl.Store.SelectFromClick(payload.ID)
	if !found {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"found": false})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"found": true, "selected": selected})
}

// Move patches start, end and resource after a drag on the grid.
func (ctl *ReservationController) Move(c *gin.Context) {
	var payload MovePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseEventTime(payload.Start)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start: "+err.Error())
		return
	}
	end, err := parseEventTime(payload.End)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end: "+err.Error())
		return
	}

	updated := ctl.Store.ApplyMove(c.Param("id"), start, end, payload.Resource)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": updated})
}

// Resize patches start and end after a resize on the grid.
func (ctl *ReservationController) Resize(c *gin.Context) {
	var payload ResizePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseEventTime(payload.Start)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start: "+err.Error())
		return
	}
	end, err := parseEventTime(payload.End)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end: "+err.Error())
		return
	}

	updated := ctl.Store.ApplyResize(c.Param("id"), start, end)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": updated})
}
