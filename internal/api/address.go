package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/types"
)

type addressResponse struct {
	Address types.PublicKey `json:"address"`
	Bump    uint8           `json:"bump"`
}

// queryPubkey parses a required base58 public key query parameter.
func queryPubkey(q url.Values, name string) (types.PublicKey, error) {
	v := q.Get(name)
	if v == "" {
		return types.PublicKey{}, errdefs.NewInvalidArgument(name, "required")
	}
	pk, err := types.PublicKeyFromBase58(v)
	if err != nil {
		return types.PublicKey{}, errdefs.NewInvalidArgument(name, "%v", err)
	}
	return pk, nil
}

// AddressHandler handles GET /v1/address/{entity}: derive the program
// address of an entity from its seed parameters. Derivation is pure, so the
// handler never touches the chain.
func (s *Server) AddressHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "address"
	const method = "GET"

	status := http.StatusOK
	defer func() {
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}()

	entity := mux.Vars(r)["entity"]
	q := r.URL.Query()

	programID := s.ProgramID
	if v := q.Get("program"); v != "" {
		pk, err := types.PublicKeyFromBase58(v)
		if err != nil {
			status = s.writeError(w, r, errdefs.NewInvalidArgument("program", "%v", err))
			return
		}
		programID = pk
	}

	address, bump, err := s.deriveEntity(programID, entity, q)
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}

	s.Metrics.IncrementDerivations(entity)
	s.writeJSON(w, r, http.StatusOK, addressResponse{Address: address, Bump: bump})
}

func (s *Server) deriveEntity(programID types.PublicKey, entity string, q url.Values) (types.PublicKey, uint8, error) {
	switch entity {
	case "advertiser":
		authority, err := queryPubkey(q, "authority")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		return pda.Advertiser(programID, authority)
	case "campaign":
		authority, err := queryPubkey(q, "authority")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		idx := q.Get("campaign_idx")
		if idx == "" {
			return types.PublicKey{}, 0, errdefs.NewInvalidArgument("campaign_idx", "required")
		}
		return pda.Campaign(programID, authority, idx)
	case "provider":
		authority, err := queryPubkey(q, "authority")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		return pda.Provider(programID, authority)
	case "location":
		authority, err := queryPubkey(q, "authority")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		idx := q.Get("location_idx")
		if idx == "" {
			return types.PublicKey{}, 0, errdefs.NewInvalidArgument("location_idx", "required")
		}
		return pda.Location(programID, authority, idx)
	case "campaign_location":
		campaign, err := queryPubkey(q, "campaign")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		location, err := queryPubkey(q, "location")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		return pda.CampaignLocation(programID, campaign, location)
	case "location_schedule":
		location, err := queryPubkey(q, "location")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		return pda.LocationSchedule(programID, location)
	case "campaign_booking":
		campaign, err := queryPubkey(q, "campaign")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		location, err := queryPubkey(q, "location")
		if err != nil {
			return types.PublicKey{}, 0, err
		}
		startTs := q.Get("range_start_ts")
		endTs := q.Get("range_end_ts")
		if startTs == "" || endTs == "" {
			return types.PublicKey{}, 0, errdefs.NewInvalidArgument("range", "range_start_ts and range_end_ts required")
		}
		return pda.CampaignBooking(programID, campaign, location, startTs, endTs)
	case "config":
		return pda.Config(programID)
	default:
		return types.PublicKey{}, 0, errdefs.NewInvalidArgument("entity", "unknown entity %q", entity)
	}
}
