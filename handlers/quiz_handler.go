package handlers

import (
	"errors"
	"net/http"
	"strings"

	"sawaal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	categoryService *services.CategoryService
	quizService     *services.QuizService
	resultService   *services.ResultService
}

func NewQuizHandler(categoryService *services.CategoryService, quizService *services.QuizService, resultService *services.ResultService) *QuizHandler {
	return &QuizHandler{
		categoryService: categoryService,
		quizService:     quizService,
		resultService:   resultService,
	}
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

func (h *QuizHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(categories) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No categories found"})
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, CategoryResponse{ID: cat.ID, Name: cat.Name})
	}

	c.JSON(http.StatusOK, gin.H{"categories": resp})
}

// GetQuiz returns the question set with each correct answer included, as
// the public quiz contract has always exposed it.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	categoryName := c.Query("category")
	if strings.TrimSpace(categoryName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}

	questions, err := h.quizService.GenerateQuestions(c.Request.Context(), categoryName)
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	case errors.Is(err, services.ErrCategoryNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(questions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No questions found for this category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answers are required"})
		return
	}

	result, err := h.resultService.Grade(c.Request.Context(), req.Answers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

