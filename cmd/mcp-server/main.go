package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/fees"
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/rpc"
	"github.com/soulboard-labs/soulboard-go/types"
)

// DeriveAddressInput selects an entity and carries its seed parameters.
type DeriveAddressInput struct {
	Entity       string `json:"entity"`
	Authority    string `json:"authority,omitempty"`
	CampaignIdx  uint64 `json:"campaign_idx,omitempty"`
	LocationIdx  uint64 `json:"location_idx,omitempty"`
	Campaign     string `json:"campaign,omitempty"`
	Location     string `json:"location,omitempty"`
	RangeStartTs int64  `json:"range_start_ts,omitempty"`
	RangeEndTs   int64  `json:"range_end_ts,omitempty"`
}

type DeriveAddressOutput struct {
	Address string `json:"address"`
	Bump    uint8  `json:"bump"`
}

type FeeBreakdownInput struct {
	Gross      uint64  `json:"gross"`
	FeeBps     uint32  `json:"fee_bps"`
	FlatAmount uint64  `json:"flat_amount,omitempty"`
	MinFee     *uint64 `json:"min_fee,omitempty"`
	MaxFee     *uint64 `json:"max_fee,omitempty"`
	Rounding   string  `json:"rounding,omitempty"`
}

type FeeBreakdownOutput struct {
	Gross uint64 `json:"gross"`
	Fee   uint64 `json:"fee"`
	Net   uint64 `json:"net"`
}

type SettlementQuoteInput struct {
	PricingType  string  `json:"pricing_type"`
	Amount       uint64  `json:"amount,omitempty"`
	Price        uint64  `json:"price,omitempty"`
	Views        *uint64 `json:"views,omitempty"`
	Impressions  *uint64 `json:"impressions,omitempty"`
	CapAmount    *uint64 `json:"cap_amount,omitempty"`
	FeeBps       uint32  `json:"fee_bps"`
	Rounding     string  `json:"rounding,omitempty"`
}

type SettlementQuoteOutput struct {
	Gross  uint64 `json:"gross"`
	Fee    uint64 `json:"fee"`
	Net    uint64 `json:"net"`
	Capped bool   `json:"capped"`
}

type FetchAccountInput struct {
	Address string `json:"address"`
}

type FetchAccountOutput struct {
	Address  string `json:"address"`
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	Data     string `json:"data"`
}

// SoulboardServer holds our dependencies
type SoulboardServer struct {
	rpc       rpc.Client
	programID types.PublicKey
	logger    *zap.Logger
}

// DeriveAddress implements the derive_address tool.
func (s *SoulboardServer) DeriveAddress(ctx context.Context, req *mcp.CallToolRequest, input DeriveAddressInput) (*mcp.CallToolResult, DeriveAddressOutput, error) {
	parse := func(field, v string) (types.PublicKey, error) {
		if v == "" {
			return types.PublicKey{}, fmt.Errorf("%s is required for entity %q", field, input.Entity)
		}
		return types.PublicKeyFromBase58(v)
	}

	var (
		address types.PublicKey
		bump    uint8
		err     error
	)
	switch input.Entity {
	case "advertiser":
		var authority types.PublicKey
		if authority, err = parse("authority", input.Authority); err == nil {
			address, bump, err = pda.Advertiser(s.programID, authority)
		}
	case "campaign":
		var authority types.PublicKey
		if authority, err = parse("authority", input.Authority); err == nil {
			address, bump, err = pda.Campaign(s.programID, authority, input.CampaignIdx)
		}
	case "provider":
		var authority types.PublicKey
		if authority, err = parse("authority", input.Authority); err == nil {
			address, bump, err = pda.Provider(s.programID, authority)
		}
	case "location":
		var authority types.PublicKey
		if authority, err = parse("authority", input.Authority); err == nil {
			address, bump, err = pda.Location(s.programID, authority, input.LocationIdx)
		}
	case "campaign_location":
		var campaign, location types.PublicKey
		if campaign, err = parse("campaign", input.Campaign); err == nil {
			if location, err = parse("location", input.Location); err == nil {
				address, bump, err = pda.CampaignLocation(s.programID, campaign, location)
			}
		}
	case "location_schedule":
		var location types.PublicKey
		if location, err = parse("location", input.Location); err == nil {
			address, bump, err = pda.LocationSchedule(s.programID, location)
		}
	case "campaign_booking":
		var campaign, location types.PublicKey
		if campaign, err = parse("campaign", input.Campaign); err == nil {
			if location, err = parse("location", input.Location); err == nil {
				address, bump, err = pda.CampaignBooking(s.programID, campaign, location, input.RangeStartTs, input.RangeEndTs)
			}
		}
	case "config":
		address, bump, err = pda.Config(s.programID)
	default:
		err = fmt.Errorf("unknown entity %q", input.Entity)
	}
	if err != nil {
		return nil, DeriveAddressOutput{}, err
	}

	s.logger.Info("Derived address",
		zap.String("entity", input.Entity),
		zap.Stringer("address", address))
	return nil, DeriveAddressOutput{Address: address.String(), Bump: bump}, nil
}

// FeeBreakdown implements the fee_breakdown tool.
func (s *SoulboardServer) FeeBreakdown(ctx context.Context, req *mcp.CallToolRequest, input FeeBreakdownInput) (*mcp.CallToolResult, FeeBreakdownOutput, error) {
	rounding, err := numeric.ParseRounding(input.Rounding)
	if err != nil {
		return nil, FeeBreakdownOutput{}, err
	}
	breakdown, err := fees.CalculateBreakdown(input.Gross, fees.Config{
		FeeBps:     input.FeeBps,
		FlatAmount: input.FlatAmount,
		MinFee:     input.MinFee,
		MaxFee:     input.MaxFee,
		Rounding:   rounding,
	})
	if err != nil {
		return nil, FeeBreakdownOutput{}, err
	}
	return nil, FeeBreakdownOutput{Gross: breakdown.Gross, Fee: breakdown.Fee, Net: breakdown.Net}, nil
}

// SettlementQuote implements the settlement_quote tool.
func (s *SoulboardServer) SettlementQuote(ctx context.Context, req *mcp.CallToolRequest, input SettlementQuoteInput) (*mcp.CallToolResult, SettlementQuoteOutput, error) {
	var model types.PricingModel
	switch input.PricingType {
	case types.PricingKindFlat:
		model = types.FlatPricing{Amount: input.Amount}
	case types.PricingKindPerView:
		model = types.PerViewPricing{Price: input.Price}
	case types.PricingKindPerImpression:
		model = types.PerImpressionPricing{Price: input.Price}
	case types.PricingKindCPM:
		model = types.CPMPricing{Price: input.Price}
	default:
		return nil, SettlementQuoteOutput{}, fmt.Errorf("unknown pricing type %q", input.PricingType)
	}
	rounding, err := numeric.ParseRounding(input.Rounding)
	if err != nil {
		return nil, SettlementQuoteOutput{}, err
	}

	quote, err := fees.SettlementQuote(model, types.Metrics{Views: input.Views, Impressions: input.Impressions}, fees.QuoteOptions{
		CapAmount:       input.CapAmount,
		PricingRounding: rounding,
		Fee:             fees.Config{FeeBps: input.FeeBps, Rounding: rounding},
	})
	if err != nil {
		return nil, SettlementQuoteOutput{}, err
	}
	return nil, SettlementQuoteOutput{Gross: quote.Gross, Fee: quote.Fee, Net: quote.Net, Capped: quote.Capped}, nil
}

// FetchAccount implements the fetch_account tool.
func (s *SoulboardServer) FetchAccount(ctx context.Context, req *mcp.CallToolRequest, input FetchAccountInput) (*mcp.CallToolResult, FetchAccountOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	address, err := types.PublicKeyFromBase58(input.Address)
	if err != nil {
		return nil, FetchAccountOutput{}, fmt.Errorf("invalid address: %w", err)
	}
	info, err := s.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, FetchAccountOutput{}, err
	}
	return nil, FetchAccountOutput{
		Address:  address.String(),
		Owner:    info.Owner.String(),
		Lamports: info.Lamports,
		Data:     base64.StdEncoding.EncodeToString(info.Data),
	}, nil
}

func main() {
	// Use stderr to avoid stdio conflicts with the MCP transport
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("soulboard-mcp").With(zap.String("service", "soulboard-mcp"))

	logger.Info("Starting Soulboard MCP Server")

	endpoint := os.Getenv("RPC_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://127.0.0.1:8899"
	}
	rpcClient := rpc.NewHTTP(endpoint, rpc.WithLogger(logger))

	programID := program.DefaultProgramID
	if v := os.Getenv("PROGRAM_ID"); v != "" {
		pk, err := types.PublicKeyFromBase58(v)
		if err != nil {
			logger.Fatal("Invalid PROGRAM_ID", zap.Error(err))
		}
		programID = pk
	}

	sbServer := &SoulboardServer{
		rpc:       rpcClient,
		programID: programID,
		logger:    logger,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "soulboard",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "derive_address",
		Description: "Derive the deterministic on-chain address of a marketplace entity",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"entity": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"advertiser", "campaign", "provider", "location", "campaign_location", "location_schedule", "campaign_booking", "config"},
					"description": "Entity kind to derive",
				},
				"authority": map[string]interface{}{
					"type":        "string",
					"description": "Base58 authority wallet (advertiser, campaign, provider, location)",
				},
				"campaign_idx": map[string]interface{}{
					"type":        "integer",
					"description": "Campaign index under the authority",
				},
				"location_idx": map[string]interface{}{
					"type":        "integer",
					"description": "Location index under the authority",
				},
				"campaign": map[string]interface{}{
					"type":        "string",
					"description": "Base58 campaign address (campaign_location, campaign_booking)",
				},
				"location": map[string]interface{}{
					"type":        "string",
					"description": "Base58 location address (campaign_location, location_schedule, campaign_booking)",
				},
				"range_start_ts": map[string]interface{}{
					"type":        "integer",
					"description": "Booking range start, unix seconds",
				},
				"range_end_ts": map[string]interface{}{
					"type":        "integer",
					"description": "Booking range end, unix seconds",
				},
			},
			"required": []string{"entity"},
		},
	}, sbServer.DeriveAddress)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fee_breakdown",
		Description: "Split a gross amount into platform fee and provider net using exact integer arithmetic",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"gross": map[string]interface{}{
					"type":        "integer",
					"description": "Gross amount in the chain's smallest unit",
				},
				"fee_bps": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     10000,
					"description": "Fee rate in basis points",
				},
				"flat_amount": map[string]interface{}{
					"type":        "integer",
					"description": "Flat fee added on top of the proportional fee",
				},
				"min_fee": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum combined fee",
				},
				"max_fee": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum combined fee; zero waives the fee",
				},
				"rounding": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"floor", "round", "ceil"},
					"description": "Rounding for the proportional division (defaults to floor)",
				},
			},
			"required": []string{"gross", "fee_bps"},
		},
	}, sbServer.FeeBreakdown)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "settlement_quote",
		Description: "Preview a booking settlement: price delivery metrics, cap at escrow and take the platform fee",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"pricing_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"flat", "perView", "perImpression", "cpm"},
					"description": "Pricing model kind",
				},
				"amount": map[string]interface{}{
					"type":        "integer",
					"description": "Flat amount (flat pricing only)",
				},
				"price": map[string]interface{}{
					"type":        "integer",
					"description": "Unit price (perView, perImpression, cpm)",
				},
				"views": map[string]interface{}{
					"type":        "integer",
					"description": "Delivered views",
				},
				"impressions": map[string]interface{}{
					"type":        "integer",
					"description": "Delivered impressions",
				},
				"cap_amount": map[string]interface{}{
					"type":        "integer",
					"description": "Escrow cap the gross may not exceed",
				},
				"fee_bps": map[string]interface{}{
					"type":        "integer",
					"description": "Fee rate in basis points",
				},
				"rounding": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"floor", "round", "ceil"},
					"description": "Rounding for divisions (defaults to floor)",
				},
			},
			"required": []string{"pricing_type", "fee_bps"},
		},
	}, sbServer.SettlementQuote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_account",
		Description: "Fetch the raw state of an on-chain account",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"address": map[string]interface{}{
					"type":        "string",
					"description": "Base58 account address",
				},
			},
			"required": []string{"address"},
		},
	}, sbServer.FetchAccount)

	logger.Info("MCP Server running via stdio")

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
