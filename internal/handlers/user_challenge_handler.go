package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/pagination"
	"savertounsi/internal/services"
)

// UserChallengeHandler handles challenge enrollment and progress tracking
type UserChallengeHandler struct {
	enrollmentService services.EnrollmentServicer
	auditService      services.AuditServicer
}

// NewUserChallengeHandler creates a new UserChallengeHandler
func NewUserChallengeHandler(enrollmentService services.EnrollmentServicer, auditService services.AuditServicer) *UserChallengeHandler {
	return &UserChallengeHandler{enrollmentService: enrollmentService, auditService: auditService}
}

// JoinChallengeRequest represents the request payload for joining a challenge
type JoinChallengeRequest struct {
	ChallengeID uint `json:"challenge_id" binding:"required"`
}

// RecordProgressRequest represents the request payload for logging progress
type RecordProgressRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date" binding:"omitempty"`
}

// JoinChallenge enrolls the caller in a challenge
// @Summary     Join a challenge
// @Description Enroll in a challenge. A tracking category named after the challenge is created under the system "Challenges" group, with the challenge goal as its budget.
// @Tags        user-challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinChallengeRequest true "Challenge to join"
// @Success     201 {object} map[string]interface{} "Enrollment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Challenge not found"
// @Failure     409 {object} ErrorResponse "Already joined this challenge"
// @Router      /user-challenges [post]
func (h *UserChallengeHandler) JoinChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userChallenge, err := h.enrollmentService.JoinChallenge(userID, req.ChallengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "JOIN_CHALLENGE", "user_challenge", userChallenge.ID, c.ClientIP(),
		map[string]interface{}{"challenge_id": req.ChallengeID})

	c.JSON(http.StatusCreated, gin.H{"user_challenge": userChallenge})
}

// GetUserChallenges lists the caller's enrollments
// @Summary     List joined challenges
// @Tags        user-challenges
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated enrollments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /user-challenges [get]
func (h *UserChallengeHandler) GetUserChallenges(c *gin.Context) {
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

	result, err := h.enrollmentService.GetUserChallenges(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_challenges": result})
}

// GetUserChallengeByID returns a single enrollment
// @Summary     Get joined challenge
// @Tags        user-challenges
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User challenge ID"
// @Success     200 {object} map[string]interface{} "Enrollment details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Enrollment not found"
// @Router      /user-challenges/{id} [get]
func (h *UserChallengeHandler) GetUserChallengeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userChallengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	userChallenge, err := h.enrollmentService.GetUserChallengeByID(userID, userChallengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_challenge": userChallenge})
}

// RecomputeProgress re-derives an enrollment's progress from its log
// @Summary     Recompute challenge progress
// @Description Re-derive cumulative progress and completion from the progress log
// @Tags        user-challenges
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User challenge ID"
// @Success     200 {object} map[string]interface{} "Updated enrollment"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Enrollment not found"
// @Router      /user-challenges/{id} [patch]
func (h *UserChallengeHandler) RecomputeProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userChallengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	userChallenge, err := h.enrollmentService.RecomputeProgress(userID, userChallengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_challenge": userChallenge})
}

// RecordProgress appends a progress entry to an enrollment
// @Summary     Record challenge progress
// @Description Log a positive saved amount against a joined challenge. Completion is derived from cumulative progress against the goal.
// @Tags        user-challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User challenge ID"
// @Param       request body RecordProgressRequest true "Progress amount"
// @Success     201 {object} map[string]interface{} "Progress entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Enrollment not found"
// @Failure     409 {object} ErrorResponse "Challenge already completed"
// @Router      /user-challenges/{id}/progress [post]
func (h *UserChallengeHandler) RecordProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userChallengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	entry, err := h.enrollmentService.RecordProgress(userID, userChallengeID, req.Amount, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_PROGRESS", "user_challenge", userChallengeID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"progress": entry})
}

// GetProgressLog lists the progress entries for an enrollment
// @Summary     Get progress log
// @Tags        user-challenges
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User challenge ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated progress entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Enrollment not found"
// @Router      /user-challenges/{id}/progress [get]
func (h *UserChallengeHandler) GetProgressLog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userChallengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.enrollmentService.GetProgressLog(userID, userChallengeID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": result})
}
