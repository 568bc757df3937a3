package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/pagination"
	"savertounsi/internal/services"
)

// ChallengeHandler handles the public challenge catalog
type ChallengeHandler struct {
	challengeService services.ChallengeServicer
}

// NewChallengeHandler creates a new ChallengeHandler
func NewChallengeHandler(challengeService services.ChallengeServicer) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// GetChallenges handles listing the challenge catalog
// @Summary     List challenges
// @Description List all available savings challenges
// @Tags        challenges
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated challenges"
// @Router      /challenges [get]
func (h *ChallengeHandler) GetChallenges(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.challengeService.GetChallenges(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": result})
}

// GetChallengeByID handles the retrieval of a single challenge
// @Summary     Get challenge by ID
// @Tags        challenges
// @Produce     json
// @Param       id path int true "Challenge ID"
// @Success     200 {object} map[string]interface{} "Challenge details"
// @Failure     404 {object} ErrorResponse "Challenge not found"
// @Router      /challenges/{id} [get]
func (h *ChallengeHandler) GetChallengeByID(c *gin.Context) {
	challengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenge, err := h.challengeService.GetChallengeByID(challengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}
