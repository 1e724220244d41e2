package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/subscription"
	"github.com/soulboard-labs/soulboard-go/types"
)

type createSubscriptionRequest struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	Program string `json:"program,omitempty"`
}

type subscriptionResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// accountUpdateMessage is the fan-out payload published for each observed
// account change.
type accountUpdateMessage struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	Data     []byte `json:"data"`
}

// logsUpdateMessage is the fan-out payload published for each observed batch
// of program logs.
type logsUpdateMessage struct {
	Program   string   `json:"program"`
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
}

// CreateSubscriptionHandler handles POST /v1/subscriptions: open a chain
// subscription whose updates are fanned out over Redis pub/sub. The
// subscription outlives the request; it ends on DELETE or gateway shutdown.
func (s *Server) CreateSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "subscriptions"
	const method = "POST"

	status := http.StatusCreated
	defer func() {
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}()

	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = s.writeError(w, r, errdefs.NewInvalidArgument("body", "invalid JSON: %v", err))
		return
	}

	var (
		sub *subscription.Subscription
		err error
	)
	switch req.Type {
	case "account":
		var address types.PublicKey
		address, err = types.PublicKeyFromBase58(req.Address)
		if err != nil {
			status = s.writeError(w, r, errdefs.NewInvalidArgument("address", "%v", err))
			return
		}
		sub, err = s.Subs.SubscribeAccount(context.Background(), address, s.fanOutAccount)
	case "logs":
		programID := s.ProgramID
		if req.Program != "" {
			programID, err = types.PublicKeyFromBase58(req.Program)
			if err != nil {
				status = s.writeError(w, r, errdefs.NewInvalidArgument("program", "%v", err))
				return
			}
		}
		sub, err = s.Subs.SubscribeProgramLogs(context.Background(), programID, s.fanOutLogs)
	default:
		status = s.writeError(w, r, errdefs.NewInvalidArgument("type", "must be %q or %q", "account", "logs"))
		return
	}
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	s.subMu.Lock()
	s.gateway[id] = sub
	s.subMu.Unlock()
	s.Metrics.SetActiveSubscriptions(s.Subs.Active())

	s.writeJSON(w, r, http.StatusCreated, subscriptionResponse{ID: id, Type: req.Type, Key: sub.Key()})
}

// DeleteSubscriptionHandler handles DELETE /v1/subscriptions/{id}.
func (s *Server) DeleteSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "subscriptions"
	const method = "DELETE"

	status := http.StatusNoContent
	defer func() {
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}()

	id := mux.Vars(r)["id"]
	s.subMu.Lock()
	sub, ok := s.gateway[id]
	if ok {
		delete(s.gateway, id)
	}
	s.subMu.Unlock()
	if !ok {
		status = http.StatusNotFound
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "subscription not found", Kind: "not_found"})
		return
	}

	if err := sub.Unsubscribe(); err != nil {
		status = s.writeError(w, r, err)
		return
	}
	s.Metrics.SetActiveSubscriptions(s.Subs.Active())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fanOutAccount(u subscription.AccountUpdate) {
	address := u.Address.String()
	if err := s.Store.InvalidateAccount(address); err != nil {
		s.Logger.Warn("invalidate cached account", zap.String("address", address), zap.Error(err))
	}
	payload, err := json.Marshal(accountUpdateMessage{
		Address:  address,
		Lamports: u.Lamports,
		Data:     u.Data,
	})
	if err != nil {
		s.Logger.Error("marshal account update", zap.Error(err))
		return
	}
	if err := s.Store.PublishAccountUpdate(address, payload); err != nil {
		s.Logger.Error("publish account update", zap.String("address", address), zap.Error(err))
	}
}

func (s *Server) fanOutLogs(u subscription.LogsUpdate) {
	program := u.ProgramID.String()
	payload, err := json.Marshal(logsUpdateMessage{
		Program:   program,
		Signature: u.Signature,
		Logs:      u.Logs,
	})
	if err != nil {
		s.Logger.Error("marshal logs update", zap.Error(err))
		return
	}
	if err := s.Store.PublishAccountUpdate(program, payload); err != nil {
		s.Logger.Error("publish logs update", zap.String("program", program), zap.Error(err))
	}
}

// CloseSubscriptions releases every gateway-held subscription handle. Called
// on shutdown after the HTTP server drains.
func (s *Server) CloseSubscriptions() {
	s.subMu.Lock()
	s.gateway = make(map[string]*subscription.Subscription)
	s.subMu.Unlock()
	if err := s.Subs.CloseAll(); err != nil {
		s.Logger.Warn("close subscriptions", zap.Error(err))
	}
	s.Metrics.SetActiveSubscriptions(0)
}
