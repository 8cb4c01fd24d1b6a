package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/middleware"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service"
)

// VoteHandler обрабатывает запросы голосования
type VoteHandler struct {
	voteService *service.VoteService
}

// NewVoteHandler создает новый обработчик голосования
func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// SetVoteRequest представляет запрос на выставление веса голоса.
// Вес 0 снимает голос, поэтому указатель: отличаем "не передан" от нуля.
type SetVoteRequest struct {
	EntryID uint `json:"entry_id" binding:"required"`
	Weight  *int `json:"weight" binding:"required"`
}

// SetVote выставляет вес голоса за заявку в рамках бюджета участника
func (h *VoteHandler) SetVote(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req SetVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.voteService.SetVote(challengeID, req.EntryID, userID, *req.Weight, time.Now())
	if err != nil {
		h.handleVoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry_id":    req.EntryID,
		"weight":      result.Weight,
		"voter_total": result.VoterTotal,
		"budget":      entity.VoteBudget,
	})
}

// GetMyVotes возвращает распределение голосов пользователя в челлендже
func (h *VoteHandler) GetMyVotes(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)

	votes, err := h.voteService.VoterVotes(challengeID, userID)
	if err != nil {
		h.handleVoteError(c, err)
		return
	}

	total := 0
	items := make([]gin.H, 0, len(votes))
	for _, v := range votes {
		total += v.Weight
		items = append(items, gin.H{"entry_id": v.EntryID, "weight": v.Weight})
	}

	c.JSON(http.StatusOK, gin.H{
		"votes":       items,
		"voter_total": total,
		"budget":      entity.VoteBudget,
	})
}

// GetTotalVotes возвращает живой счетчик голосов челленджа
func (h *VoteHandler) GetTotalVotes(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)

	total, err := h.voteService.TotalVotes(challengeID)
	if err != nil {
		h.handleVoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_votes": total})
}

// handleVoteError обрабатывает ошибки голосования.
// Закрытое окно и исчерпанный бюджет — разные ошибки для клиента:
// первое лечится ожиданием следующей недели, второе — перераспределением весов.
func (h *VoteHandler) handleVoteError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrVotingClosed) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "voting_closed"})
	} else if errors.Is(err, apperrors.ErrBudgetExceeded) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"error_type": "budget_exceeded",
			"budget":     entity.VoteBudget,
		})
	} else if errors.Is(err, service.ErrEntryNotInChallenge) || errors.Is(err, service.ErrEntryNotPublished) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in VoteHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
