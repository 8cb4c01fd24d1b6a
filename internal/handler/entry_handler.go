package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	"github.com/yourusername/challenge-api/internal/handler/dto"
	"github.com/yourusername/challenge-api/internal/middleware"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service"
)

// EntryHandler обрабатывает запросы, связанные с заявками участников
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler создает новый обработчик заявок
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// DraftRequest представляет запрос на создание/обновление черновика
type DraftRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// WinnerNotesRequest представляет запрос на комментарий победителя
type WinnerNotesRequest struct {
	Notes string `json:"notes" binding:"required,min=1,max=500"`
}

// CreateDraft создает черновик заявки в челлендже
func (h *EntryHandler) CreateDraft(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)
	initials := c.GetString(middleware.ContextInitials)

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entryService.CreateDraft(challengeID, userID, initials, req.Text, time.Now())
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewEntryResponse(entry, userID, 0, nil))
}

// UpdateDraft обновляет черновик собственной заявки
func (h *EntryHandler) UpdateDraft(c *gin.Context) {
	entryID := c.MustGet("entryID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.entryService.UpdateDraft(entryID, userID, req.Text, time.Now()); err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Publish публикует заявку (односторонний переход)
func (h *EntryHandler) Publish(c *gin.Context) {
	entryID := c.MustGet("entryID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)

	entry, err := h.entryService.Publish(entryID, userID, time.Now())
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewEntryResponse(entry, userID, 0, nil))
}

// SetWinnerNotes записывает комментарий автора призовой заявки
func (h *EntryHandler) SetWinnerNotes(c *gin.Context) {
	entryID := c.MustGet("entryID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req WinnerNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.entryService.SetWinnerNotes(entryID, userID, req.Notes, time.Now()); err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetMyEntry возвращает заявку пользователя в челлендже (включая черновик)
func (h *EntryHandler) GetMyEntry(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)
	userID := c.MustGet(middleware.ContextUserID).(string)

	entry, err := h.entryService.MyEntry(challengeID, userID)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewEntryResponse(entry, userID, 0, nil))
}

// handleEntryError обрабатывает ошибки, связанные с заявками
func (h *EntryHandler) handleEntryError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, repository.ErrAlreadyPublished) ||
		errors.Is(err, repository.ErrEmptyDraft) ||
		errors.Is(err, service.ErrNotAWinner) ||
		errors.Is(err, service.ErrNotesWindowClosed) ||
		errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in EntryHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
