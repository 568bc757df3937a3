package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/pagination"
	"savertounsi/internal/services"
)

// FeedbackHandler handles user feedback submissions
type FeedbackHandler struct {
	feedbackService services.FeedbackServicer
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedbackService services.FeedbackServicer) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// CreateFeedbackRequest represents the request payload for submitting feedback
type CreateFeedbackRequest struct {
	Subject string `json:"subject" binding:"max=150"`
	Message string `json:"message" binding:"required,max=4000"`
}

// CreateFeedback handles submitting feedback
// @Summary     Submit feedback
// @Tags        feedback
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFeedbackRequest true "Feedback details"
// @Success     201 {object} map[string]interface{} "Feedback submitted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /feedback [post]
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(userID, req.Subject, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// GetUserFeedback handles listing the caller's feedback
// @Summary     List submitted feedback
// @Tags        feedback
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated feedback"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /feedback [get]
func (h *FeedbackHandler) GetUserFeedback(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.feedbackService.GetUserFeedback(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": result})
}
