package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/strategy"
)

// fallbackNotice prefixes replies made without a trained model.
const fallbackNotice = "Live market data is currently unavailable, so this advice uses a neutral default estimate. "

const livePriceTimeout = 3 * time.Second

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	Capital int64  `json:"capital"`
	Risk    string `json:"risk"`
	Asset   string `json:"asset"`
}

type chatHandler struct {
	predictor      Predictor
	prices         PriceSource
	metrics        *metrics.Metrics
	currency       string
	defaultCapital int64
}

func (h *chatHandler) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Capital <= 0 {
		req.Capital = h.defaultCapital
	}

	pred := h.predictor.Predict()
	var livePrice *float64
	if h.prices != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), livePriceTimeout)
		livePrice = h.prices.LivePrice(ctx)
		cancel()
	}

	var opts []strategy.Option
	if h.currency != "" {
		opts = append(opts, strategy.WithFormatter(strategy.TextFormatter{Currency: h.currency}))
	}
	policy := strategy.NewPolicy(req.Capital, req.Risk, req.Asset, opts...)
	decision := policy.Decide(pred.Probability, livePrice)
	if pred.Fallback {
		decision.Reply = fallbackNotice + decision.Reply
	}

	h.metrics.ObserveDecision(string(decision.Action), string(policy.Risk()), pred.Fallback)
	log.Info().
		Str("risk", string(policy.Risk())).
		Str("asset", string(policy.Asset())).
		Int64("capital", req.Capital).
		Float64("probability", pred.Probability).
		Bool("fallback", pred.Fallback).
		Str("action", string(decision.Action)).
		Int64("invest_amount", decision.InvestAmount).
		Msg("chat decision")

	c.JSON(http.StatusOK, decision)
}
