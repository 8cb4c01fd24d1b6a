package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/challenge-api/internal/service"
)

// CronHandler обрабатывает фазовые переходы недельного цикла.
// Вызывается внешним планировщиком; все endpoints идемпотентны —
// повторный вызов фазы на той же неделе безопасен и возвращает ok.
type CronHandler struct {
	lifecycleService *service.LifecycleService
}

// NewCronHandler создает новый обработчик фазовых переходов
func NewCronHandler(lifecycleService *service.LifecycleService) *CronHandler {
	return &CronHandler{lifecycleService: lifecycleService}
}

// StartWeek начинает челлендж текущей недели
func (h *CronHandler) StartWeek(c *gin.Context) {
	result, err := h.lifecycleService.StartWeek(time.Now())
	if err != nil {
		h.handleCronError(c, "start-week", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"week_key":       result.WeekKey,
		"challenge_id":   result.ChallengeID,
		"seed_count":     result.SeedCount,
		"already_exists": result.AlreadyExists,
	})
}

// FreezeWeek закрывает голосование текущей недели
func (h *CronHandler) FreezeWeek(c *gin.Context) {
	result, err := h.lifecycleService.FreezeWeek(time.Now())
	if err != nil {
		h.handleCronError(c, "freeze-week", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"week_key": result.WeekKey,
		"frozen":   result.Frozen,
		"message":  result.Message,
	})
}

// RevealWeek подводит итоги текущей недели
func (h *CronHandler) RevealWeek(c *gin.Context) {
	result, err := h.lifecycleService.RevealWeek(time.Now())
	if err != nil {
		h.handleCronError(c, "reveal-week", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"week_key":     result.WeekKey,
		"challenge_id": result.ChallengeID,
		"place1":       result.Place1,
		"place2":       result.Place2,
		"place3":       result.Place3,
		"total_votes":  result.TotalVotes,
		"no_op":        result.NoOp,
		"message":      result.Message,
	})
}

// ArchiveWeek архивирует прошлую неделю (вызывается в начале новой)
func (h *CronHandler) ArchiveWeek(c *gin.Context) {
	result, err := h.lifecycleService.ArchiveWeek(time.Now())
	if err != nil {
		h.handleCronError(c, "archive-week", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"week_key":      result.WeekKey,
		"archived":      result.Archived,
		"rows_inserted": result.RowsInserted,
		"rows_failed":   result.RowsFailed,
		"message":       result.Message,
	})
}

// handleCronError обрабатывает ошибки фазовых переходов.
// Планировщик ретраит по не-2xx, поэтому любая ошибка — 500 с контекстом фазы.
func (h *CronHandler) handleCronError(c *gin.Context, phase string, err error) {
	log.Printf("ERROR: [CronHandler] Фаза %s завершилась ошибкой: %v", phase, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "phase": phase})
}
