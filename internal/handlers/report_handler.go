package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

type ReportHandler struct {
	reports  store.Reports
	users    store.Users
	products store.Products
}

func NewReportHandler(reports store.Reports, users store.Users, products store.Products) *ReportHandler {
	return &ReportHandler{reports: reports, users: users, products: products}
}

type reportRequest struct {
	ReportedBy        string `json:"reportedBy"`
	ReportedUser      string `json:"reportedUser"`
	ReportedArticle   string `json:"reportedArticle"`
	Reason            string `json:"reason"`
	AdditionalMessage string `json:"additionalMessage"`
}

func additionalMessage(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.DefaultAdditionalMessage
	}
	return s
}

// reporter validates the reportedBy field against the caller and checks the
// user exists.
func (h *ReportHandler) reporter(c *gin.Context, raw string) (primitive.ObjectID, error) {
	id, err := parseID(raw, "Make sure you are logged in and try again later")
	if err != nil {
		return primitive.NilObjectID, err
	}
	if err := middleware.RequireSelf(c, id.Hex()); err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := h.users.FindByID(c.Request.Context(), id); err != nil {
		return primitive.NilObjectID, notFoundAs(err, "Couldn't find you, make sure you are logged in")
	}
	return id, nil
}

func (h *ReportHandler) ReportUser(c *gin.Context) {
	var req reportRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.ReportedBy, "Make sure you are logged in and try again later").
		Required(req.ReportedUser, "You didn't provide which user you are reporting").
		Required(req.Reason, "Reason is required").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	by, err := h.reporter(c, req.ReportedBy)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	target, err := parseID(req.ReportedUser, "You didn't provide which user you are reporting")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.users.FindByID(ctx, target); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't find the user you are trying to report"))
		return
	}

	r := &models.ReportedUser{
		ReportedBy:        by,
		ReportedUser:      target,
		Reason:            req.Reason,
		AdditionalMessage: additionalMessage(req.AdditionalMessage),
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.reports.CreateUserReport(ctx, r); err != nil {
		apperr.Respond(c, err)
		return
	}
	apperr.OK(c, "User reported successfully")
}

func (h *ReportHandler) ReportArticle(c *gin.Context) {
	var req reportRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.ReportedBy, "Make sure you are logged in and try again later").
		Required(req.ReportedArticle, "You didn't provide which article you are reporting").
		Required(req.Reason, "Reason is required").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	by, err := h.reporter(c, req.ReportedBy)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	target, err := parseID(req.ReportedArticle, "You didn't provide which article you are reporting")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.products.FindByID(ctx, target); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't find the article you are trying to report"))
		return
	}

	r := &models.ReportedArticle{
		ReportedBy:        by,
		ReportedArticle:   target,
		Reason:            req.Reason,
		AdditionalMessage: additionalMessage(req.AdditionalMessage),
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.reports.CreateArticleReport(ctx, r); err != nil {
		apperr.Respond(c, err)
		return
	}
	apperr.OK(c, "Article reported successfully")
}

func (h *ReportHandler) userReportViews(c *gin.Context, reps []models.ReportedUser) ([]models.ReportedUserView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(reps))
	for _, r := range reps {
		ids = append(ids, r.ReportedBy, r.ReportedUser)
	}
	found, err := usersByID(c.Request.Context(), h.users, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]models.ReportedUserView, len(reps))
	for i, r := range reps {
		out[i] = models.ReportedUserView{
			ID:                r.ID,
			ReportedBy:        userRef(found, r.ReportedBy),
			ReportedUser:      userRef(found, r.ReportedUser),
			Reason:            r.Reason,
			AdditionalMessage: r.AdditionalMessage,
			CreatedAt:         r.CreatedAt,
		}
	}
	return out, nil
}

func (h *ReportHandler) articleReportViews(c *gin.Context, reps []models.ReportedArticle) ([]models.ReportedArticleView, error) {
	ctx := c.Request.Context()
	userIDs := make([]primitive.ObjectID, len(reps))
	productIDs := make([]primitive.ObjectID, len(reps))
	for i, r := range reps {
		userIDs[i] = r.ReportedBy
		productIDs[i] = r.ReportedArticle
	}
	users, err := usersByID(ctx, h.users, userIDs...)
	if err != nil {
		return nil, err
	}
	products, err := h.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.ReportedArticleView, len(reps))
	for i, r := range reps {
		v := models.ReportedArticleView{
			ID:                r.ID,
			ReportedBy:        userRef(users, r.ReportedBy),
			Reason:            r.Reason,
			AdditionalMessage: r.AdditionalMessage,
			CreatedAt:         r.CreatedAt,
		}
		if p, ok := products[r.ReportedArticle]; ok {
			v.ReportedArticle = &p
		}
		out[i] = v
	}
	return out, nil
}

func (h *ReportHandler) ListUserReports(c *gin.Context) {
	reps, err := h.reports.ListUserReports(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	out, err := h.userReportViews(c, reps)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) ListArticleReports(c *gin.Context) {
	reps, err := h.reports.ListArticleReports(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	out, err := h.articleReportViews(c, reps)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

const missingReportMsg = "You didn't specify what report you are trying to fetch"

func (h *ReportHandler) GetUserReport(c *gin.Context) {
	id, err := parseID(c.Param("id"), missingReportMsg)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	r, err := h.reports.FindUserReport(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified report doesn't exist"))
		return
	}
	out, err := h.userReportViews(c, []models.ReportedUser{*r})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *ReportHandler) GetArticleReport(c *gin.Context) {
	id, err := parseID(c.Param("id"), missingReportMsg)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	r, err := h.reports.FindArticleReport(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified report doesn't exist"))
		return
	}
	out, err := h.articleReportViews(c, []models.ReportedArticle{*r})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

const missingDeleteReportMsg = "You didn't provide which report you are trying to delete"

func (h *ReportHandler) DeleteUserReport(c *gin.Context) {
	id, err := parseID(c.Param("id"), missingDeleteReportMsg)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.reports.DeleteUserReport(c.Request.Context(), id); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't find and delete specified report"))
		return
	}
	apperr.OK(c, "Report deleted successfully")
}

func (h *ReportHandler) DeleteArticleReport(c *gin.Context) {
	id, err := parseID(c.Param("id"), missingDeleteReportMsg)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.reports.DeleteArticleReport(c.Request.Context(), id); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't find and delete specified report"))
		return
	}
	apperr.OK(c, "Report deleted successfully")
}
