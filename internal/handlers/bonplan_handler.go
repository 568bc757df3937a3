package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/pagination"
	"savertounsi/internal/services"
)

// BonPlanHandler handles local deals and their reviews
type BonPlanHandler struct {
	bonPlanService services.BonPlanServicer
	auditService   services.AuditServicer
}

// NewBonPlanHandler creates a new BonPlanHandler
func NewBonPlanHandler(bonPlanService services.BonPlanServicer, auditService services.AuditServicer) *BonPlanHandler {
	return &BonPlanHandler{bonPlanService: bonPlanService, auditService: auditService}
}

// CreateBonPlanRequest represents the request payload for posting a deal
type CreateBonPlanRequest struct {
	Title       string `json:"title" binding:"required,max=150"`
	Description string `json:"description" binding:"max=2000"`
	Location    string `json:"location" binding:"max=150"`
	Category    string `json:"category" binding:"max=100"`
	ExpiresAt   string `json:"expires_at" binding:"omitempty"`
}

// AddReviewRequest represents the request payload for reviewing a deal
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// CreateBonPlan handles posting a new deal
// @Summary     Post a deal
// @Description Share a money-saving deal with the community
// @Tags        bon-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBonPlanRequest true "Deal details"
// @Success     201 {object} map[string]interface{} "Deal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /bon-plans [post]
func (h *BonPlanHandler) CreateBonPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := parseFlexibleTime(req.ExpiresAt)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		expiresAt = &t
	}

	bonPlan, err := h.bonPlanService.CreateBonPlan(userID, req.Title, req.Description, req.Location, req.Category, expiresAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BON_PLAN", "bon_plan", bonPlan.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title})

	c.JSON(http.StatusCreated, gin.H{"bon_plan": bonPlan})
}

// GetBonPlans handles listing deals
// @Summary     List deals
// @Description List shared deals, newest first
// @Tags        bon-plans
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated deals"
// @Router      /bon-plans [get]
func (h *BonPlanHandler) GetBonPlans(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.bonPlanService.GetBonPlans(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bon_plans": result})
}

// GetBonPlanByID handles the retrieval of a single deal
// @Summary     Get deal by ID
// @Tags        bon-plans
// @Produce     json
// @Param       id path int true "Deal ID"
// @Success     200 {object} map[string]interface{} "Deal with reviews"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Router      /bon-plans/{id} [get]
func (h *BonPlanHandler) GetBonPlanByID(c *gin.Context) {
	bonPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bonPlan, err := h.bonPlanService.GetBonPlanByID(bonPlanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bon_plan": bonPlan})
}

// DeleteBonPlan handles deleting one of the caller's deals
// @Summary     Delete deal
// @Tags        bon-plans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Success     200 {object} MessageResponse "Deal deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Router      /bon-plans/{id} [delete]
func (h *BonPlanHandler) DeleteBonPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bonPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bonPlanService.DeleteBonPlan(userID, bonPlanID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BON_PLAN", "bon_plan", bonPlanID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Bon plan deleted successfully"})
}

// AddReview handles reviewing a deal
// @Summary     Review a deal
// @Description Rate a deal from 1 to 5 with an optional comment. One review per user per deal.
// @Tags        bon-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Param       request body AddReviewRequest true "Review details"
// @Success     201 {object} map[string]interface{} "Review created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     409 {object} ErrorResponse "Already reviewed"
// @Router      /bon-plans/{id}/reviews [post]
func (h *BonPlanHandler) AddReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bonPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	review, err := h.bonPlanService.AddReview(userID, bonPlanID, req.Rating, req.Comment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_REVIEW", "review", review.ID, c.ClientIP(),
		map[string]interface{}{"bon_plan_id": bonPlanID, "rating": req.Rating})

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetReviews handles listing the reviews of a deal
// @Summary     List deal reviews
// @Tags        bon-plans
// @Produce     json
// @Param       id path int true "Deal ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated reviews"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Router      /bon-plans/{id}/reviews [get]
func (h *BonPlanHandler) GetReviews(c *gin.Context) {
	bonPlanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.bonPlanService.GetReviews(bonPlanID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": result})
}
