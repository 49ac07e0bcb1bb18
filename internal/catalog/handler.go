package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mangarec/internal/notify"
)

type Handler struct {
	Repo *Repo
	Hub  *notify.Hub
}

func NewHandler(repo *Repo, hub *notify.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

// RegisterRoutes mounts the read side; the feedback write goes on the
// protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /manga
	rg.GET("/:id", h.getByID) // GET /manga/:id
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.PUT("/:id/feedback", h.updateFeedback) // PUT /manga/:id/feedback
}

func (h *Handler) list(c *gin.Context) {
	q := Query{
		Type:   c.Query("type"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	// genres=Action,Drama OR genres=Action&genres=Drama
	include := c.QueryArray("genres")
	if len(include) == 0 {
		if s := c.Query("genres"); s != "" {
			include = strings.Split(s, ",")
		}
	}
	q.GenresAny = include

	if s := c.Query("rated"); s != "" {
		rated := s == "true" || s == "1"
		q.Rated = &rated
	}
	if s := c.Query("opted_out"); s != "" {
		optedOut := s == "true" || s == "1"
		q.OptedOut = &optedOut
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	item, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

type feedbackRequest struct {
	UserScore     *int `json:"user_score"`
	Read          *int `json:"read"`
	Dropped       *int `json:"dropped"`
	NotInterested bool `json:"not_interested"`
}

func (h *Handler) updateFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.UserScore != nil && (*req.UserScore < 1 || *req.UserScore > 10) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_score must be 1..10"})
		return
	}
	if req.Dropped != nil && (*req.Dropped < 0 || *req.Dropped > 2) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dropped must be 0..2"})
		return
	}

	found, err := h.Repo.UpdateFeedback(c.Request.Context(), id,
		req.UserScore, req.Read, req.Dropped, req.NotInterested)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(notify.FeedbackUpdated(id))
	}
	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
