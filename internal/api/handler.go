package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qmt-data/internal/model"
	"qmt-data/internal/store"
)

// BarReader is the read side of the bar store.
type BarReader interface {
	Bars(ctx context.Context, q store.Query) ([]model.Bar, error)
	Latest(ctx context.Context, code, kind string) (model.Bar, error)
}

type BarsParams struct {
	Code  string `form:"code" binding:"required"`
	Kind  string `form:"kind" binding:"omitempty,oneof=daily intraday"`
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50000"`
}

type BarJSON struct {
	Code      string   `json:"code"`
	Kind      string   `json:"kind"`
	Timestamp string   `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     float64  `json:"close"`
	Volume    int64    `json:"volume"`
	Amount    float64  `json:"amount"`
	PctChange *float64 `json:"pct_change"`
}

func toJSON(b model.Bar) BarJSON {
	return BarJSON{
		Code:      b.Code,
		Kind:      b.Kind.String(),
		Timestamp: b.Timestamp,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
		Amount:    b.Amount,
		PctChange: b.PctChange,
	}
}

type Handler struct {
	reader BarReader
}

func NewHandler(r BarReader) *Handler {
	return &Handler{reader: r}
}

func (h *Handler) GetBars(c *gin.Context) {
	var params BarsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bars, err := h.reader.Bars(c.Request.Context(), store.Query{
		Code:  params.Code,
		Kind:  params.Kind,
		From:  params.From,
		To:    params.To,
		Limit: params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]BarJSON, len(bars))
	for i, b := range bars {
		out[i] = toJSON(b)
	}
	c.JSON(http.StatusOK, gin.H{"code": params.Code, "count": len(out), "bars": out})
}

func (h *Handler) GetLatest(c *gin.Context) {
	kind := c.Query("kind")
	if kind != "" && kind != "daily" && kind != "intraday" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be daily or intraday"})
		return
	}

	bar, err := h.reader.Latest(c.Request.Context(), c.Param("code"), kind)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no bars for code"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toJSON(bar))
}

// SetupRoutes builds the HTTP API. metrics may be nil.
func SetupRoutes(reader BarReader, metrics http.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(reader)
	r.GET("/api/bars", h.GetBars)
	r.GET("/api/bars/:code/latest", h.GetLatest)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	return r
}
