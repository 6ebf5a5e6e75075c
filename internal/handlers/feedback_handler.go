// Package handlers wires the HTML pages and the /v1 JSON API to the
// feedback storage layer.
package handlers

import (
	"net/http"
	"strconv"

	"feedbackapp/internal/config"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/serviceinterfaces"
	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// FeedbackHandler serves the feedback CRUD pages and JSON endpoints.
type FeedbackHandler struct {
	feedbackService serviceinterfaces.FeedbackServiceInterface
	cfg             *config.Config
	logger          *observability.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler instance.
func NewFeedbackHandler(feedbackService serviceinterfaces.FeedbackServiceInterface, cfg *config.Config, logger *observability.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		cfg:             cfg,
		logger:          logger,
	}
}

// Home redirects the root path to the read view.
func (h *FeedbackHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/read_feedback")
}

// CreateFeedbackPage renders the empty create form.
func (h *FeedbackHandler) CreateFeedbackPage(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}

// CreateFeedback validates the submitted form and stores a new entry.
// Validation failures and storage failures both re-render the form with a
// flash; only success leaves the page.
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "create_feedback")
	defer span.End()

	user := contextutils.Sanitize(c.PostForm("user"))
	comment := contextutils.Sanitize(c.PostForm("comment"))

	if valid, _ := contextutils.ValidateFeedback(user, comment); !valid {
		addFlash(c, config.FlashCategoryError, config.MsgFieldsRequired)
		c.HTML(http.StatusOK, "create.html", gin.H{
			"Flashes": takeFlashes(c),
		})
		return
	}

	if !h.feedbackService.Create(ctx, user, comment) {
		h.logger.Warn(ctx, "Feedback create failed", map[string]interface{}{"user": user})
		addFlash(c, config.FlashCategoryError, config.MsgCreateError)
		c.HTML(http.StatusOK, "create.html", gin.H{
			"Flashes": takeFlashes(c),
		})
		return
	}

	addFlash(c, config.FlashCategorySuccess, config.MsgFeedbackCreated)
	c.Redirect(http.StatusFound, "/read_feedback")
}

// ReadFeedback renders every entry, newest first.
func (h *FeedbackHandler) ReadFeedback(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "read_feedback")
	defer span.End()

	c.HTML(http.StatusOK, "read.html", gin.H{
		"Flashes":      takeFlashes(c),
		"FeedbackList": h.feedbackService.ReadAll(ctx),
	})
}

// UpdateFeedbackPage renders the update form prefilled with the current
// values, or bounces back to the read view when the entry is gone.
func (h *FeedbackHandler) UpdateFeedbackPage(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "update_feedback_page")
	defer span.End()

	fb := h.feedbackService.GetByID(ctx, h.feedbackID(c))
	if fb == nil {
		addFlash(c, config.FlashCategoryError, config.MsgFeedbackNotFound)
		c.Redirect(http.StatusFound, "/read_feedback")
		return
	}

	c.HTML(http.StatusOK, "update.html", gin.H{
		"Flashes":  takeFlashes(c),
		"Feedback": fb,
	})
}

// UpdateFeedback validates the submitted form and rewrites the entry.
// A validation failure redirects back to the form so the flash renders
// there; a storage failure re-renders the form with the current values.
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "update_feedback")
	defer span.End()

	id := h.feedbackID(c)
	user := contextutils.Sanitize(c.PostForm("user"))
	comment := contextutils.Sanitize(c.PostForm("comment"))

	if valid, _ := contextutils.ValidateFeedback(user, comment); !valid {
		addFlash(c, config.FlashCategoryError, config.MsgFieldsRequired)
		c.Redirect(http.StatusFound, "/update_feedback/"+c.Param("id"))
		return
	}

	if h.feedbackService.Update(ctx, id, user, comment) {
		addFlash(c, config.FlashCategorySuccess, config.MsgFeedbackUpdated)
		c.Redirect(http.StatusFound, "/read_feedback")
		return
	}

	h.logger.Warn(ctx, "Feedback update failed", map[string]interface{}{"id": id})
	addFlash(c, config.FlashCategoryError, config.MsgUpdateError)

	fb := h.feedbackService.GetByID(ctx, id)
	if fb == nil {
		addFlash(c, config.FlashCategoryError, config.MsgFeedbackNotFound)
		c.Redirect(http.StatusFound, "/read_feedback")
		return
	}
	c.HTML(http.StatusOK, "update.html", gin.H{
		"Flashes":  takeFlashes(c),
		"Feedback": fb,
	})
}

// DeleteFeedback removes the entry and bounces back to the read view
// either way. A missing id is an ordinary failure.
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "delete_feedback")
	defer span.End()

	if h.feedbackService.Delete(ctx, h.feedbackID(c)) {
		addFlash(c, config.FlashCategorySuccess, config.MsgFeedbackDeleted)
	} else {
		addFlash(c, config.FlashCategoryError, config.MsgDeleteError)
	}
	c.Redirect(http.StatusFound, "/read_feedback")
}

// ListFeedback returns every entry as JSON, newest first.
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "list_feedback_json")
	defer span.End()

	c.JSON(http.StatusOK, h.feedbackService.ReadAll(ctx))
}

// GetFeedback returns a single entry as JSON, or a structured 404.
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id := h.feedbackID(c)
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_feedback_json",
		attribute.Int("feedback.id", id))
	defer span.End()

	fb := h.feedbackService.GetByID(ctx, id)
	if fb == nil {
		HandleAppError(c, contextutils.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, fb)
}

// feedbackID parses the :id route parameter. Zero is never a valid row id,
// so malformed values behave like an absent entry.
func (h *FeedbackHandler) feedbackID(c *gin.Context) int {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0
	}
	return id
}
