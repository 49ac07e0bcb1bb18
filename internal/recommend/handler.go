package recommend

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mangarec/internal/catalog"
	"mangarec/internal/labeling"
	"mangarec/internal/model"
	"mangarec/internal/notify"
	"mangarec/internal/weights"
	"mangarec/pkg/utils"
)

// Handler exposes both ranking paths plus retraining. The supervised ranker
// is swapped atomically on retrain; requests in flight keep the ranker they
// started with.
type Handler struct {
	Catalog   *catalog.Repo
	Weights   *weights.Store
	Heuristic *HeuristicRanker
	Trainer   *Trainer
	Hub       *notify.Hub
	Cfg       utils.RecommenderConfig
	Log       zerolog.Logger

	mu     sync.RWMutex
	ranker *Ranker
}

func NewHandler(repo *catalog.Repo, store *weights.Store, heuristic *HeuristicRanker,
	trainer *Trainer, hub *notify.Hub, cfg utils.RecommenderConfig, log zerolog.Logger) *Handler {
	return &Handler{
		Catalog:   repo,
		Weights:   store,
		Heuristic: heuristic,
		Trainer:   trainer,
		Hub:       hub,
		Cfg:       cfg,
		Log:       log,
	}
}

// SetRanker installs (or replaces) the supervised ranker.
func (h *Handler) SetRanker(r *Ranker) {
	h.mu.Lock()
	h.ranker = r
	h.mu.Unlock()
}

func (h *Handler) currentRanker() *Ranker {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ranker
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/heuristic", h.heuristic) // GET /recommendations/heuristic
	rg.GET("/model", h.model)         // GET /recommendations/model
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/train", h.train) // POST /recommendations/train
}

func (h *Handler) heuristic(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.Weights.Load(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load weights failed"})
		return
	}
	// per-request overrides tweak the session vector without persisting it
	for criterion := range weights.Defaults() {
		if s := c.Query(criterion); s != "" {
			if m, err := strconv.ParseFloat(s, 64); err == nil && m >= 0 {
				w[criterion] = m
			}
		}
	}

	items, err := h.Catalog.List(ctx, catalog.Query{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog scan failed"})
		return
	}

	ranked := h.Heuristic.Rank(items, w)
	c.JSON(http.StatusOK, gin.H{
		"weights": w,
		"count":   len(ranked),
		"items":   ranked,
	})
}

func (h *Handler) model(c *gin.Context) {
	ranker := h.currentRanker()
	if ranker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no trained model loaded"})
		return
	}

	q := catalog.Query{Type: c.Query("type")}
	if c.Query("include_rated") != "1" {
		rated := false
		q.Rated = &rated
	}
	if c.Query("include_not_interested") != "1" {
		optedOut := false
		q.OptedOut = &optedOut
	}

	items, err := h.Catalog.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog scan failed"})
		return
	}

	// titles carrying a blacklisted genre never surface in a ranking
	kept := items[:0]
	for _, it := range items {
		if !h.Heuristic.Blacklist.Matches(it.Genres) {
			kept = append(kept, it)
		}
	}

	ranked, err := ranker.RankItems(kept)
	if err != nil {
		var scoringErr *ScoringError
		if errors.As(err, &scoringErr) {
			h.Log.Error().Err(err).Int("batch", scoringErr.Batch).Msg("ranking aborted")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scoring failed"})
		return
	}

	page := parsePage(c.Query("page"))
	size := h.Cfg.PageSize
	if s := c.Query("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			size = n
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"page_size": size,
		"total":     len(ranked),
		"items":     Page(ranked, page, size),
	})
}

func (h *Handler) train(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.Catalog.List(ctx, catalog.Query{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog scan failed"})
		return
	}

	examples := labeling.Examples(items, h.Heuristic.Blacklist)
	nb, err := h.Trainer.Train(examples)
	if err != nil {
		if errors.Is(err, ErrInsufficientClasses) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    "need both positive and negative feedback to train",
				"examples": len(examples),
			})
			return
		}
		h.Log.Error().Err(err).Msg("training failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "training failed"})
		return
	}

	if err := model.Save(h.Cfg.ModelPath, nb); err != nil {
		h.Log.Error().Err(err).Msg("model save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "model save failed"})
		return
	}

	h.SetRanker(NewRanker(nb, h.Cfg.PredictBatchSize, h.Heuristic.Blacklist, h.Log))
	if h.Hub != nil {
		h.Hub.Broadcast(notify.ModelTrained())
	}

	c.JSON(http.StatusOK, gin.H{
		"trained":  true,
		"examples": len(examples),
		"version":  nb.Version(),
	})
}

func parsePage(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
