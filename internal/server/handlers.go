package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gurram46/Artha-Agent-sub004/internal/agents"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
)

// errorResponse 统一错误响应 {error, message}
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON 写 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // 响应已提交，编码错误只能忽略
}

// writeError 写错误响应
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// chatRequest 聊天类请求体
type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// symbolRequest 分析类请求体
type symbolRequest struct {
	Symbol string `json:"symbol"`
}

// handleHealth GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"market":    s.market.MarketStatus(),
		"timestamp": time.Now().Unix(),
	})
}

// handleChat POST /api/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	reply, err := s.chat.SendMessage(r.Context(), req.UserID, req.Message)
	if err != nil {
		log.Error("chat error: %v", err)
		writeError(w, http.StatusInternalServerError, "chat_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// handleAgentDiscussion POST /api/agent-discussion
func (s *Server) handleAgentDiscussion(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	messages, err := s.chat.Discussion(r.Context(), req.UserID, req.Message)
	if err != nil {
		log.Error("discussion error: %v", err)
		writeError(w, http.StatusInternalServerError, "discussion_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   req.UserID,
		"messages": messages,
	})
}

// handleChatHistory GET /api/chat/history/{user_id}
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	session, err := s.chat.History(r.Context(), userID)
	if err != nil {
		log.Error("history error: %v", err)
		writeError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleClearChatHistory DELETE /api/chat/history/{user_id}
func (s *Server) handleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if err := s.chat.ClearHistory(r.Context(), userID); err != nil {
		log.Error("clear history error: %v", err)
		writeError(w, http.StatusInternalServerError, "clear_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "cleared",
		"userId": userID,
	})
}

// handleFinancialData GET /api/financial-data/{user_id}
func (s *Server) handleFinancialData(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	writeJSON(w, http.StatusOK, s.portfolio.GetFinancialData(userID))
}

// handleMarketData GET /api/market-data
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	snapshot := s.market.GetSnapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    s.market.MarketStatus(),
		"indices":   snapshot.Indices,
		"updatedAt": snapshot.UpdatedAt,
		"fallback":  snapshot.Fallback,
	})
}

// handleNews GET /api/news
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.news.GetTelegraphList()
	if err != nil {
		log.Warn("news error: %v", err)
		writeError(w, http.StatusBadGateway, "news_unavailable", "Could not fetch market news.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleStockQuote GET /api/stocks/quote?symbol=
func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing_symbol", "Query parameter 'symbol' is required.")
		return
	}
	writeJSON(w, http.StatusOK, s.market.GetQuote(r.Context(), symbol))
}

// handleStockChart GET /api/stocks/chart?symbol=&range=&interval=
func (s *Server) handleStockChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing_symbol", "Query parameter 'symbol' is required.")
		return
	}

	chartRange := r.URL.Query().Get("range")
	if chartRange == "" {
		chartRange = "1d"
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		if chartRange == "1d" {
			interval = "5m"
		} else {
			interval = "1d"
		}
	}

	result := s.market.GetChart(r.Context(), symbol, chartRange, interval)
	writeJSON(w, http.StatusOK, models.NewChartEnvelope(result))
}

// handleAgentsStatus GET /api/agents/status
func (s *Server) handleAgentsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.analysts.Status()})
}

// handleResearch POST /api/stock/research
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	symbol, ok := decodeSymbolRequest(w, r)
	if !ok {
		return
	}

	result, err := s.analysts.Research(r.Context(), symbol)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRecommend POST /api/stock/recommend
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	symbol, ok := decodeSymbolRequest(w, r)
	if !ok {
		return
	}

	rec, err := s.analysts.Recommend(r.Context(), symbol)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleFullAnalysis POST /api/stock/full-analysis
func (s *Server) handleFullAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := decodeSymbolRequest(w, r)
	if !ok {
		return
	}

	result, err := s.analysts.FullAnalysis(r.Context(), symbol)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeChatRequest 解析并校验聊天请求体
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON with user_id and message.")
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "missing_message", "Field 'message' is required.")
		return req, false
	}
	if req.UserID == "" {
		req.UserID = "demo"
	}
	return req, true
}

// decodeSymbolRequest 解析并校验分析请求体
func decodeSymbolRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON with symbol.")
		return "", false
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing_symbol", "Field 'symbol' is required.")
		return "", false
	}
	return symbol, true
}

// writeAnalysisError 分析类错误映射为 HTTP 状态
func writeAnalysisError(w http.ResponseWriter, err error) {
	log.Error("analysis error: %v", err)
	if errors.Is(err, agents.ErrNoAIConfig) {
		writeError(w, http.StatusServiceUnavailable, "ai_unavailable", "AI service is not configured, set GEMINI_API_KEY.")
		return
	}
	writeError(w, http.StatusBadGateway, "analysis_failed", err.Error())
}
