package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sawaal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authService   *services.AuthService
	quizService   *services.QuizService
	resultService *services.ResultService
}

func NewAdminHandler(authService *services.AuthService, quizService *services.QuizService, resultService *services.ResultService) *AdminHandler {
	return &AdminHandler{
		authService:   authService,
		quizService:   quizService,
		resultService: resultService,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(&req)
	switch {
	case errors.Is(err, services.ErrAdminDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access disabled"})
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ListResults(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	results, err := h.resultService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *AdminHandler) FlushCategory(c *gin.Context) {
	deleted, err := h.quizService.FlushCategory(c.Request.Context(), c.Param("name"))
	switch {
	case errors.Is(err, services.ErrCategoryNotFound), errors.Is(err, services.ErrCategoryNameRequired):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category cache flushed", "deleted": deleted})
}
