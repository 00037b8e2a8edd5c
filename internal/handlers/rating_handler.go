package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

type RatingHandler struct {
	ratings store.Ratings
	users   store.Users
}

func NewRatingHandler(ratings store.Ratings, users store.Users) *RatingHandler {
	return &RatingHandler{ratings: ratings, users: users}
}

type rateRequest struct {
	RatedBy string `json:"ratedBy"`
	Stars   *int   `json:"stars"`
}

// Rate stores an app rating and flags the user as having rated.
func (h *RatingHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.RatedBy, "Make sure you are logged in").
		Check(req.Stars != nil, "Number of stars is required").
		Check(req.Stars == nil || (*req.Stars >= 1 && *req.Stars <= 5), "Stars must be between 1 and 5").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	userID, err := parseID(req.RatedBy, "Make sure you are logged in")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := middleware.RequireSelf(c, userID.Hex()); err != nil {
		apperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	rated := true
	if _, err := h.users.Update(ctx, userID, models.UserPatch{Rated: &rated}); err != nil {
		apperr.Respond(c, notFoundAs(err, "User doesn't exist"))
		return
	}
	r := &models.StarRating{RatedBy: userID, Stars: *req.Stars, RatedAt: time.Now().UTC()}
	if err := h.ratings.Create(ctx, r); err != nil {
		apperr.Respond(c, err)
		return
	}
	apperr.OK(c, "Thank you for rating our app")
}

// MarkRated sets the rated flag for a user that already has a rating.
func (h *RatingHandler) MarkRated(c *gin.Context) {
	userID, err := parseID(c.Param("id"), "Make sure you are logged in, we couldn't find you")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := middleware.RequireSelf(c, userID.Hex()); err != nil {
		apperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.FindByID(ctx, userID); err != nil {
		apperr.Respond(c, notFoundAs(err, "Provided user doesn't exist"))
		return
	}
	exists, err := h.ratings.ExistsFor(ctx, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if !exists {
		apperr.Respond(c, apperr.Validation("You still didn't rate application"))
		return
	}

	rated := true
	if _, err := h.users.Update(ctx, userID, models.UserPatch{Rated: &rated}); err != nil {
		apperr.Respond(c, notFoundAs(err, "Provided user doesn't exist"))
		return
	}
	apperr.OK(c, "You already rated our application, thank you")
}

// List returns every rating with the rater resolved.
func (h *RatingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	ratings, err := h.ratings.List(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	ids := make([]primitive.ObjectID, len(ratings))
	for i, r := range ratings {
		ids[i] = r.RatedBy
	}
	raters, err := usersByID(ctx, h.users, ids...)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	out := make([]models.RatingView, len(ratings))
	for i, r := range ratings {
		out[i] = models.RatingView{StarRating: r, RatedBy: userRef(raters, r.RatedBy)}
	}
	c.JSON(http.StatusOK, out)
}
