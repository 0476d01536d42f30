package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
)

// RatingHandler endpoints of /ratings.
type RatingHandler struct {
	ratings *usecase.RatingUseCase
	metrics *metrics.Metrics
}

// NewRatingHandler builds the handler.
func NewRatingHandler(ratings *usecase.RatingUseCase, m *metrics.Metrics) *RatingHandler {
	return &RatingHandler{ratings: ratings, metrics: m}
}

// Submit godoc
// @Summary      Rate a store
// @Tags         ratings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitRatingRequest  true  "rating (1-5), storeId"
// @Success      201   {object}  dto.APIResponse{data=dto.RatingResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/ratings/submit [post]
func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRatingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.ratings.Submit(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	h.metrics.RatingSubmitted(out.Rating)
	return created(c, out, "Rating submitted successfully")
}

// Update godoc
// @Summary      Change one of your ratings
// @Tags         ratings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        ratingId  path      string                   true  "Rating ID"
// @Param        body      body      dto.UpdateRatingRequest  true  "rating (1-5)"
// @Success      200       {object}  dto.APIResponse{data=dto.RatingResponse}
// @Failure      403       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /v1/api/ratings/{ratingId} [put]
func (h *RatingHandler) Update(c *fiber.Ctx) error {
	ratingID, err := idParam(c, "ratingId", domain.ErrRatingNotFound)
	if err != nil {
		return err
	}
	var in dto.UpdateRatingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.ratings.Update(c.UserContext(), GetUserID(c), ratingID, in)
	if err != nil {
		return err
	}
	h.metrics.RatingUpdated()
	return ok(c, out, "Rating updated successfully")
}

// MyRatings godoc
// @Summary      Ratings submitted by the current user
// @Tags         ratings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=[]dto.RatingResponse}
// @Router       /v1/api/ratings/my-ratings [get]
func (h *RatingHandler) MyRatings(c *fiber.Ctx) error {
	out, err := h.ratings.MyRatings(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, out, "User ratings retrieved successfully")
}

// MyStoreRatings godoc
// @Summary      Ratings of the owner's store
// @Tags         ratings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.StoreRatingsResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/api/ratings/my-store [get]
func (h *RatingHandler) MyStoreRatings(c *fiber.Ctx) error {
	out, err := h.ratings.StoreRatings(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, out, "Store ratings retrieved successfully")
}

// MyRatingForStore godoc
// @Summary      The current user's rating of one store
// @Description  data is null when the user has not rated the store.
// @Tags         ratings
// @Security     Bearer
// @Produce      json
// @Param        storeId  path      string  true  "Store ID"
// @Success      200      {object}  dto.APIResponse{data=dto.RatingResponse}
// @Router       /v1/api/ratings/store/{storeId}/my-rating [get]
func (h *RatingHandler) MyRatingForStore(c *fiber.Ctx) error {
	storeID, err := idParam(c, "storeId", domain.ErrStoreNotFound)
	if err != nil {
		return err
	}
	out, err := h.ratings.MyRatingForStore(c.UserContext(), GetUserID(c), storeID)
	if err != nil {
		return err
	}
	return ok(c, out, "User store rating retrieved successfully")
}
