package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/internal/middleware"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

type accountResponse struct {
	Address  types.PublicKey `json:"address"`
	Owner    types.PublicKey `json:"owner"`
	Lamports uint64          `json:"lamports"`
	Type     string          `json:"type,omitempty"`
	Account  any             `json:"account,omitempty"`
	Raw      string          `json:"raw"`
}

// AccountHandler handles GET /v1/accounts/{address}: fetch an account,
// decode it when its discriminator matches a known program account, and
// serve repeat reads from the Redis cache.
func (s *Server) AccountHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "accounts"
	const method = "GET"

	status := http.StatusOK
	defer func() {
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	address, err := types.PublicKeyFromBase58(mux.Vars(r)["address"])
	if err != nil {
		status = s.writeError(w, r, errdefs.NewInvalidArgument("address", "%v", err))
		return
	}

	if s.Store != nil {
		cached, hit, err := s.Store.GetCachedAccount(address.String())
		if err != nil {
			logger.Warn("account cache read", zap.Error(err))
		} else if hit {
			s.Metrics.IncrementAccountCache("hit")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		s.Metrics.IncrementAccountCache("miss")
	}

	info, err := s.RPC.GetAccountInfo(r.Context(), address)
	if err != nil {
		status = s.writeError(w, r, errdefs.MapFetchError("getAccount", address, err))
		return
	}

	resp := accountResponse{
		Address:  address,
		Owner:    info.Owner,
		Lamports: info.Lamports,
		Raw:      base64.StdEncoding.EncodeToString(info.Data),
	}
	if name, decoded, err := decodeKnownAccount(info.Data); err == nil {
		resp.Type = name
		resp.Account = decoded
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}
	if s.Store != nil {
		if err := s.Store.CacheAccount(address.String(), payload, s.Config.AccountCacheTTL); err != nil {
			logger.Warn("account cache write", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// decodeKnownAccount matches the account discriminator against every program
// account type and decodes the first match.
func decodeKnownAccount(data []byte) (string, any, error) {
	if len(data) < 8 {
		return "", nil, errdefs.NewInvalidArgument("account", "data too short for discriminator")
	}
	type decoder struct {
		name   string
		decode func([]byte) (any, error)
	}
	decoders := []decoder{
		{program.AccountAdvertiser, func(b []byte) (any, error) { return program.DecodeAdvertiser(b) }},
		{program.AccountCampaign, func(b []byte) (any, error) { return program.DecodeCampaign(b) }},
		{program.AccountProvider, func(b []byte) (any, error) { return program.DecodeProvider(b) }},
		{program.AccountLocation, func(b []byte) (any, error) { return program.DecodeLocation(b) }},
		{program.AccountLocationSchedule, func(b []byte) (any, error) { return program.DecodeLocationSchedule(b) }},
		{program.AccountCampaignLocation, func(b []byte) (any, error) { return program.DecodeCampaignLocation(b) }},
		{program.AccountCampaignBooking, func(b []byte) (any, error) { return program.DecodeCampaignBooking(b) }},
		{program.AccountConfig, func(b []byte) (any, error) { return program.DecodeConfig(b) }},
	}
	for _, d := range decoders {
		disc := program.Discriminator("account", d.name)
		if bytes.Equal(data[:8], disc[:]) {
			decoded, err := d.decode(data)
			if err != nil {
				return "", nil, err
			}
			return d.name, decoded, nil
		}
	}
	return "", nil, errdefs.NewInvalidArgument("account", "unknown discriminator")
}
