package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/worksy/marketplace/internal/api/metrics"
	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

// ApplicationHandler handles HTTP requests for offer applications.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// applyRequest carries only the offer. The applicant is the caller.
type applyRequest struct {
	OfferID string `json:"offerId" validate:"required"`
}

// Apply handles POST /api/applications.
//
// @Summary      Apply to an offer
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      applyRequest  true  "Offer to apply to"
// @Success      201   {object}  domain.Application
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), caller, req.OfferID)
	if err != nil {
		return err
	}

	metrics.ApplicationsTotal.Inc()
	return c.JSON(http.StatusCreated, app)
}

// Mine handles GET /api/applications/mine.
//
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Application
// @Failure      401  {object}  errorResponse
// @Router       /api/applications/mine [get]
func (h *ApplicationHandler) Mine(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilApps(apps))
}

// ForOffer handles GET /api/offers/:id/applications.
//
// @Summary      List applications to an offer
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Offer id"
// @Success      200  {array}   domain.Application
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/offers/{id}/applications [get]
func (h *ApplicationHandler) ForOffer(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListForOffer(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilApps(apps))
}

func nonNilApps(apps []*domain.Application) []*domain.Application {
	if apps == nil {
		return []*domain.Application{}
	}
	return apps
}
