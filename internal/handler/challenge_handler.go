package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/handler/dto"
	"github.com/yourusername/challenge-api/internal/middleware"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service"
	"github.com/yourusername/challenge-api/internal/service/weekly"
)

// ChallengeHandler обрабатывает читающие запросы о челленджах
type ChallengeHandler struct {
	challengeService *service.ChallengeService
	voteService      *service.VoteService
}

// NewChallengeHandler создает новый обработчик челленджей
func NewChallengeHandler(
	challengeService *service.ChallengeService,
	voteService *service.VoteService,
) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		voteService:      voteService,
	}
}

// GetCurrent возвращает челлендж текущей недели со всеми видимыми заявками
func (h *ChallengeHandler) GetCurrent(c *gin.Context) {
	now := time.Now()
	challenge, err := h.challengeService.GetCurrent(now)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}
	h.respondWithChallenge(c, challenge, now)
}

// GetByWeekKey возвращает челлендж указанной недели (например "2026-W08")
func (h *ChallengeHandler) GetByWeekKey(c *gin.Context) {
	weekKey := c.Param("weekKey")
	if _, _, err := weekly.ParseWeekKey(weekKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week key, expected YYYY-Www"})
		return
	}

	challenge, err := h.challengeService.GetByWeekKey(weekKey)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}
	h.respondWithChallenge(c, challenge, time.Now())
}

// ListChallenges возвращает список прошлых и текущих челленджей
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	challenges, err := h.challengeService.List(perPage, (page-1)*perPage)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": dto.NewChallengeListResponse(challenges),
		"page":       page,
		"per_page":   perPage,
	})
}

// respondWithChallenge собирает полный ответ: заявки, счетчик, голоса смотрящего,
// после reveal — счет по заявкам и снимок итогов
func (h *ChallengeHandler) respondWithChallenge(c *gin.Context, challenge *entity.Challenge, now time.Time) {
	viewerID := c.GetString(middleware.ContextUserID)

	entries, err := h.challengeService.PublishedEntries(challenge.ID)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	// Голоса смотрящего для отрисовки его текущего распределения
	myWeights := map[uint]int{}
	if viewerID != "" {
		votes, err := h.voteService.VoterVotes(challenge.ID, viewerID)
		if err != nil {
			log.Printf("[ChallengeHandler] Не удалось загрузить голоса пользователя: %v", err)
		} else {
			for _, v := range votes {
				myWeights[v.EntryID] = v.Weight
			}
		}
	}

	// Счет по заявкам скрыт до объявления итогов
	var scores map[uint]int
	var winner *dto.WinnerResponse
	if challenge.AtOrPast(entity.ChallengeStatusRevealed) {
		if scores, err = h.voteService.EntryScores(challenge.ID); err != nil {
			log.Printf("[ChallengeHandler] Не удалось загрузить счет заявок: %v", err)
		}
		w, err := h.challengeService.Winner(challenge.ID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ChallengeHandler] Не удалось загрузить итоги challenge #%d: %v", challenge.ID, err)
		}
		winner = dto.NewWinnerResponse(w)
	}

	entryDTOs := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		var score *int
		if scores != nil {
			s := scores[e.ID]
			score = &s
		}
		entryDTOs = append(entryDTOs, dto.NewEntryResponse(e, viewerID, myWeights[e.ID], score))
	}

	total, err := h.voteService.TotalVotes(challenge.ID)
	if err != nil {
		log.Printf("[ChallengeHandler] Не удалось получить счетчик голосов: %v", err)
	}

	c.JSON(http.StatusOK, dto.NewChallengeResponse(challenge, now, entryDTOs, total, winner))
}

// handleChallengeError обрабатывает ошибки, связанные с челленджами
func (h *ChallengeHandler) handleChallengeError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ChallengeHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
