package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the browser pages. All quiz logic lives in the JSON API.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"title": "Sawaal"})
}

func (h *PageHandler) Categories(c *gin.Context) {
	c.HTML(http.StatusOK, "categories.html", gin.H{"title": "Categories"})
}

func (h *PageHandler) Quiz(c *gin.Context) {
	c.HTML(http.StatusOK, "quiz.html", gin.H{"title": "Quiz", "category": c.Param("category")})
}

func (h *PageHandler) Result(c *gin.Context) {
	c.HTML(http.StatusOK, "result.html", gin.H{"title": "Result"})
}

func (h *PageHandler) ReplayOrQuit(c *gin.Context) {
	c.HTML(http.StatusOK, "rq.html", gin.H{"title": "Play again?"})
}
