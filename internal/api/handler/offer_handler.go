package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/worksy/marketplace/internal/api/metrics"
	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

// OfferHandler handles HTTP requests for job offers.
type OfferHandler struct {
	service ports.OfferService
}

func NewOfferHandler(service ports.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

type createOfferRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Type         string   `json:"type" validate:"required,oneof=stage freelance emploi"`
	Location     string   `json:"location"`
	Requirements []string `json:"requirements"`
}

// List handles GET /api/offers.
//
// @Summary      List offers
// @Tags         offers
// @Produce      json
// @Param        type  query     string  false  "Filter by type (stage, freelance, emploi)"
// @Success      200   {array}   domain.Offer
// @Failure      400   {object}  errorResponse
// @Router       /api/offers [get]
func (h *OfferHandler) List(c echo.Context) error {
	offers, err := h.service.List(c.Request().Context(), domain.OfferType(c.QueryParam("type")))
	if err != nil {
		return err
	}
	if offers == nil {
		offers = []*domain.Offer{}
	}
	return c.JSON(http.StatusOK, offers)
}

// Get handles GET /api/offers/:id.
//
// @Summary      Get an offer
// @Tags         offers
// @Produce      json
// @Param        id   path      string  true  "Offer id"
// @Success      200  {object}  domain.Offer
// @Failure      404  {object}  errorResponse
// @Router       /api/offers/{id} [get]
func (h *OfferHandler) Get(c echo.Context) error {
	offer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// Create handles POST /api/offers.
//
// @Summary      Publish an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfferRequest  true  "Offer details"
// @Success      201   {object}  domain.Offer
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/offers [post]
func (h *OfferHandler) Create(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	offer, err := h.service.Create(c.Request().Context(), caller, ports.CreateOfferInput{
		Title:        req.Title,
		Description:  req.Description,
		Type:         domain.OfferType(req.Type),
		Location:     req.Location,
		Requirements: req.Requirements,
	})
	if err != nil {
		return err
	}

	metrics.OffersCreatedTotal.WithLabelValues(string(offer.Type)).Inc()
	return c.JSON(http.StatusCreated, offer)
}
