package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// Borrow godoc
// @Summary  lend a copy to a reader
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    request body model.BorrowRequest true "copyId or workId"
// @Success  201 {object} model.Loan
// @Failure  409 {object} echo.HTTPError
// @Router   /loans [post]
func (h *Handler) Borrow(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req model.BorrowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loan, err := h.circulationSvc.Borrow(c.Request().Context(), actor, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

// UpdateLoan godoc
// @Summary  return or renew a loan
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    id      path int                     true "loan id"
// @Param    request body model.UpdateLoanRequest true "status Returned or a new dueDate"
// @Success  200 {object} model.Loan
// @Router   /loans/{id} [patch]
func (h *Handler) UpdateLoan(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateLoanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loan, err := h.circulationSvc.UpdateLoan(c.Request().Context(), actor, id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.circulationSvc.DeleteLoan(c.Request().Context(), actor, id); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "loan deleted"})
}

func (h *Handler) GetLoan(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	loan, err := h.circulationSvc.GetLoan(c.Request().Context(), actor, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var f model.LoanFilter
	if f.Page, f.Size, err = paging(c); err != nil {
		return err
	}
	if f.ReaderID, err = queryInt64(c, "readerId"); err != nil {
		return err
	}
	if f.CopyID, err = queryInt64(c, "copyId"); err != nil {
		return err
	}
	f.Status = model.LoanStatus(c.QueryParam("status"))
	if activeParam := c.QueryParam("active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active is invalid")
		}
		f.Active = &active
	}
	loans, err := h.circulationSvc.ListLoans(c.Request().Context(), actor, f)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}
