package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	"github.com/yourusername/challenge-api/internal/handler/dto"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service"
	"github.com/yourusername/challenge-api/internal/service/weekly"
)

// ArchiveHandler обрабатывает запросы к историческому архиву "лучшее за неделю"
type ArchiveHandler struct {
	archiveService *service.ArchiveService
}

// NewArchiveHandler создает новый обработчик архива
func NewArchiveHandler(archiveService *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: archiveService}
}

// ListArchive возвращает пагинированный архив с фильтрами по категории и неделе
func (h *ArchiveHandler) ListArchive(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "30"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 30
	}

	filters := repository.BestOfFilters{
		Category: c.Query("category"),
		WeekKey:  c.Query("week_key"),
	}
	if filters.WeekKey != "" {
		if _, _, err := weekly.ParseWeekKey(filters.WeekKey); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week_key, expected YYYY-Www"})
			return
		}
	}

	entries, total, err := h.archiveService.List(filters, perPage, (page-1)*perPage)
	if err != nil {
		h.handleArchiveError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedBestOfResponse(entries, total, page, perPage))
}

// ExportArchive экспортирует весь архив в CSV или XLSX (?format=csv|xlsx)
func (h *ArchiveHandler) ExportArchive(c *gin.Context) {
	entries, err := h.archiveService.All()
	if err != nil {
		h.handleArchiveError(c, err)
		return
	}

	filename := "best-of-archive"
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		h.exportXLSX(c, entries, filename)
	case "csv":
		h.exportCSV(c, entries, filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, expected csv or xlsx"})
	}
}

// ResetWeekRequest представляет запрос на сброс тестовых данных недели
type ResetWeekRequest struct {
	WeekKey string `json:"week_key" binding:"required"`
}

// ResetWeek удаляет челлендж и архив недели. Только для тестовых данных,
// защищен админским токеном.
func (h *ArchiveHandler) ResetWeek(c *gin.Context) {
	var req ResetWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, _, err := weekly.ParseWeekKey(req.WeekKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week_key, expected YYYY-Www"})
		return
	}

	result, err := h.archiveService.ResetWeek(req.WeekKey)
	if err != nil {
		h.handleArchiveError(c, err)
		return
	}

	log.Printf("[ArchiveHandler] Сброс недели %s: challenge_deleted=%v archive_deleted=%d",
		result.WeekKey, result.ChallengeDeleted, result.ArchiveDeleted)

	c.JSON(http.StatusOK, gin.H{
		"ok":                true,
		"week_key":          result.WeekKey,
		"challenge_deleted": result.ChallengeDeleted,
		"archive_deleted":   result.ArchiveDeleted,
	})
}

// exportCSV экспортирует архив в CSV с правильным экранированием спецсимволов
func (h *ArchiveHandler) exportCSV(c *gin.Context, entries []entity.BestOfEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Неделя", "Место", "Категория", "Текст", "Оригинал", "Автор", "Источник", "Голоса", "Комментарий"})

	// Данные
	for i := range entries {
		e := &entries[i]
		writer.Write(archiveRowStrings(e))
	}
}

// exportXLSX экспортирует архив в Excel с использованием StreamWriter
func (h *ArchiveHandler) exportXLSX(c *gin.Context, entries []entity.BestOfEntry, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Архив"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ArchiveHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Неделя", "Место", "Категория", "Текст", "Оригинал", "Автор", "Источник", "Голоса", "Комментарий"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ArchiveHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i := range entries {
		e := &entries[i]
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		strs := archiveRowStrings(e)
		row := make([]interface{}, len(strs))
		for j, s := range strs {
			row[j] = s
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ArchiveHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ArchiveHandler] Ошибка при Flush: %v", err)
	}

	// Записываем в response
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ArchiveHandler] Ошибка записи Excel в response: %v", err)
	}
}

// archiveRowStrings собирает строку экспорта для одной архивной записи
func archiveRowStrings(e *entity.BestOfEntry) []string {
	author := ""
	if e.AuthorInitials != nil {
		author = *e.AuthorInitials
	}
	notes := ""
	if e.WinnerNotes != nil {
		notes = *e.WinnerNotes
	}
	return []string{
		e.WeekKey,
		strconv.Itoa(e.Place),
		e.Category,
		sanitizeForExport(e.EntryText),
		sanitizeForExport(e.OriginalText),
		sanitizeForExport(author),
		e.Source,
		strconv.Itoa(e.Votes),
		sanitizeForExport(notes),
	}
}

// sanitizeForExport экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExport(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleArchiveError обрабатывает ошибки архива
func (h *ArchiveHandler) handleArchiveError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ArchiveHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
