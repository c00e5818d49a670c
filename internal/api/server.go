package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basepulse/pulse-agent/internal/repo"
	"github.com/basepulse/pulse-agent/internal/treasury"
	"github.com/basepulse/pulse-agent/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Config 只读API配置
type Config struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Server 面向看板的只读HTTP API
type Server struct {
	cfg Config
	srv *http.Server

	tokenRepo    repo.TokenRepo
	trendRepo    repo.TrendRepo
	treasuryRepo repo.TreasuryRepo
	socialRepo   repo.SocialRepo
	metricRepo   repo.MetricRepo
	treasury     *treasury.Treasury
}

func NewServer(
	cfg Config,
	tokenRepo repo.TokenRepo,
	trendRepo repo.TrendRepo,
	treasuryRepo repo.TreasuryRepo,
	socialRepo repo.SocialRepo,
	metricRepo repo.MetricRepo,
	t *treasury.Treasury,
) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		cfg:          cfg,
		tokenRepo:    tokenRepo,
		trendRepo:    trendRepo,
		treasuryRepo: treasuryRepo,
		socialRepo:   socialRepo,
		metricRepo:   metricRepo,
		treasury:     t,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tokens", s.handleTokens)
	mux.HandleFunc("GET /api/trends", s.handleTrends)
	mux.HandleFunc("GET /api/treasury/balance", s.handleTreasuryBalance)
	mux.HandleFunc("GET /api/treasury/transactions", s.handleTreasuryTransactions)
	mux.HandleFunc("GET /api/social", s.handleSocial)
	mux.HandleFunc("GET /api/agent/metrics", s.handleAgentMetrics)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start 启动HTTP服务, 监听失败时记日志退出goroutine
func (s *Server) Start() {
	go func() {
		logger.Info("🌐 API服务启动", logger.String("addr", s.cfg.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API服务异常退出", logger.FieldErr(err))
		}
	}()
}

// Stop 优雅关闭HTTP服务
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.tokenRepo.ListRecent(parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, tokens)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.trendRepo.ListRecent(parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, trends)
}

func (s *Server) handleTreasuryBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.treasury.Balance()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"balance": balance.String(),
	})
}

func (s *Server) handleTreasuryTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.treasuryRepo.ListRecent(parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, txs)
}

func (s *Server) handleSocial(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.socialRepo.ListRecent(parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, interactions)
}

func (s *Server) handleAgentMetrics(w http.ResponseWriter, r *http.Request) {
	metricType := r.URL.Query().Get("type")
	if metricType == "" {
		metricType = "loop_iteration"
	}
	metrics, err := s.metricRepo.ListRecentByType(metricType, parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, metrics)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// parseLimit 解析limit查询参数, 越界时回退默认值
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"data": data,
	}); err != nil {
		logger.Warn("写入API响应失败", logger.FieldErr(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	logger.Error("API请求处理失败", logger.FieldErr(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}
