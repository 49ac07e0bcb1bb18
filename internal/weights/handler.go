package weights

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mangarec/internal/notify"
)

type Handler struct {
	Store *Store
	Hub   *notify.Hub
}

func NewHandler(store *Store, hub *notify.Hub) *Handler {
	return &Handler{Store: store, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.get) // GET /weights
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.PUT("", h.put) // PUT /weights
}

func (h *Handler) get(c *gin.Context) {
	v, err := h.Store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) put(c *gin.Context) {
	var v Vector
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	defaults := Defaults()
	for criterion, m := range v {
		if _, known := defaults[criterion]; !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown criterion: " + criterion})
			return
		}
		if m < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multiplier must be non-negative"})
			return
		}
	}

	if err := h.Store.Save(c.Request.Context(), v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(notify.WeightsChanged())
	}

	saved, err := h.Store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, saved)
}
