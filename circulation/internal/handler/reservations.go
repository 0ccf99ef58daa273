package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// Reserve godoc
// @Summary  reserve a copy
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    request body model.ReserveRequest true "reservation"
// @Success  201 {object} model.Reservation
// @Router   /reservations [post]
func (h *Handler) Reserve(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req model.ReserveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.circulationSvc.Reserve(c.Request().Context(), actor, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateReservation(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.circulationSvc.UpdateReservation(c.Request().Context(), actor, id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteReservation(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.circulationSvc.DeleteReservation(c.Request().Context(), actor, id); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "reservation deleted"})
}

func (h *Handler) GetReservation(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	res, err := h.circulationSvc.GetReservation(c.Request().Context(), actor, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListReservations(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var f model.ReservationFilter
	if f.Page, f.Size, err = paging(c); err != nil {
		return err
	}
	if f.ReaderID, err = queryInt64(c, "readerId"); err != nil {
		return err
	}
	if f.CopyID, err = queryInt64(c, "copyId"); err != nil {
		return err
	}
	f.Status = model.ReservationStatus(c.QueryParam("status"))
	list, err := h.circulationSvc.ListReservations(c.Request().Context(), actor, f)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}
