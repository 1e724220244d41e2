// Package api exposes the gateway's HTTP surface: fee and settlement
// quoting, address derivation, cached account reads and managed chain
// subscriptions.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/internal/config"
	"github.com/soulboard-labs/soulboard-go/internal/db"
	"github.com/soulboard-labs/soulboard-go/internal/middleware"
	"github.com/soulboard-labs/soulboard-go/internal/observability"
	"github.com/soulboard-labs/soulboard-go/rpc"
	"github.com/soulboard-labs/soulboard-go/subscription"
	"github.com/soulboard-labs/soulboard-go/types"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger    *zap.Logger
	RPC       rpc.Client
	ProgramID types.PublicKey
	Store     *db.RedisStore
	Subs      *subscription.Manager
	Metrics   observability.MetricsRegistry
	Config    config.Config

	subMu   sync.Mutex
	gateway map[string]*subscription.Subscription
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, rpcClient rpc.Client, programID types.PublicKey, store *db.RedisStore, subs *subscription.Manager, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:    logger,
		RPC:       rpcClient,
		ProgramID: programID,
		Store:     store,
		Subs:      subs,
		Metrics:   metrics,
		Config:    cfg,
		gateway:   make(map[string]*subscription.Subscription),
	}
}

// Routes wires every gateway endpoint onto a router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.WithRequestContext(s.Logger))

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/quote", s.QuoteHandler).Methods("POST")
	v1.HandleFunc("/fees", s.FeesHandler).Methods("POST")
	v1.HandleFunc("/address/{entity}", s.AddressHandler).Methods("GET")
	v1.HandleFunc("/accounts/{address}", s.AccountHandler).Methods("GET")
	v1.HandleFunc("/subscriptions", s.CreateSubscriptionHandler).Methods("POST")
	v1.HandleFunc("/subscriptions/{id}", s.DeleteSubscriptionHandler).Methods("DELETE")

	r.HandleFunc("/healthz", s.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// writeJSON serializes v with the right content type. Encoding failures are
// logged; headers are already gone by then.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps an SDK error onto an HTTP status and JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) int {
	status := http.StatusInternalServerError
	kind := ""
	switch {
	case errdefs.IsInvalidArgument(err):
		status, kind = http.StatusBadRequest, "invalid_argument"
	case errdefs.IsAccountNotFound(err):
		status, kind = http.StatusNotFound, "account_not_found"
	case errdefs.IsMissingWallet(err):
		status, kind = http.StatusBadRequest, "missing_wallet"
	case errdefs.IsTransactionFailed(err):
		status, kind = http.StatusBadGateway, "transaction_failed"
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFromRequest(r, s.Logger).Error("request failed", zap.Error(err))
	} else {
		middleware.LoggerFromRequest(r, s.Logger).Warn("request rejected", zap.Error(err))
	}
	s.writeJSON(w, r, status, errorResponse{Error: err.Error(), Kind: kind})
	return status
}
