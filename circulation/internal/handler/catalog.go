package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

func (h *Handler) CreateWork(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req model.CreateWorkRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	w, err := h.circulationSvc.CreateWork(c.Request().Context(), actor, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWork(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	w, err := h.circulationSvc.GetWork(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, w)
}

// ManageCopies godoc
// @Summary  add or remove copies of a work
// @Tags     copies
// @Accept   json
// @Produce  json
// @Param    id      path int                       true "work id"
// @Param    request body model.ManageCopiesRequest true "action and count"
// @Success  200 {object} model.MessageResponse
// @Failure  400 {object} echo.HTTPError
// @Router   /works/{id}/copies [post]
func (h *Handler) ManageCopies(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.ManageCopiesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.circulationSvc.ManageCopies(c.Request().Context(), actor, id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetCopy(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cp, err := h.circulationSvc.GetCopy(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) MarkCopy(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.MarkCopyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cp, err := h.circulationSvc.MarkCopy(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, cp)
}
