package api

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/scrutin/pkg/election"
	"github.com/hazyhaar/scrutin/pkg/kit"
)

// Shared request types used by both HTTP and MCP transports.

type ridingReq struct {
	Code int
}

type provinceReq struct {
	Province string
}

type searchReq struct {
	Term string
}

type partyVotesReq struct {
	Code  int
	Party string
}

type closestReq struct {
	Limit int
	Party string
}

type extremesReq struct {
	Party string
	Limit int
}

type askReq struct {
	Question string
}

// Endpoints are the query operations exposed to every transport. Ask is
// optional: nil when no natural-language bridge is configured.
type Endpoints struct {
	ListRidings       kit.Endpoint
	GetRiding         kit.Endpoint
	ProvinceRidings   kit.Endpoint
	Search            kit.Endpoint
	PartyVotes        kit.Endpoint
	Winner            kit.Endpoint
	SummarizeProvince kit.Endpoint
	SummarizeNational kit.Endpoint
	ClosestRaces      kit.Endpoint
	PartyExtremes     kit.Endpoint
	Ask               kit.Endpoint
}

// Asker answers free-form questions about the results; implemented by
// the natural-language bridge.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskEndpoint adapts an Asker into the endpoint slot.
func AskEndpoint(asker Asker, logger *slog.Logger) kit.Endpoint {
	return kit.Logging(logger, "ask")(func(ctx context.Context, request any) (any, error) {
		req := request.(*askReq)
		return asker.Ask(ctx, req.Question)
	})
}

// NewEndpoints wires the engine's operations into logged endpoints.
func NewEndpoints(eng *election.Engine, logger *slog.Logger) Endpoints {
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Logging(logger, name)(ep)
	}
	return Endpoints{
		ListRidings: wrap("list_ridings", func(_ context.Context, _ any) (any, error) {
			return eng.ListDistricts(), nil
		}),
		GetRiding: wrap("get_riding", func(_ context.Context, request any) (any, error) {
			req := request.(*ridingReq)
			return eng.District(req.Code)
		}),
		ProvinceRidings: wrap("province_ridings", func(_ context.Context, request any) (any, error) {
			req := request.(*provinceReq)
			return eng.RegionDistricts(req.Province)
		}),
		Search: wrap("search_ridings", func(_ context.Context, request any) (any, error) {
			req := request.(*searchReq)
			return eng.Search(req.Term)
		}),
		PartyVotes: wrap("get_party_votes", func(_ context.Context, request any) (any, error) {
			req := request.(*partyVotesReq)
			return eng.PartyVotes(req.Code, req.Party)
		}),
		Winner: wrap("get_winning_party", func(_ context.Context, request any) (any, error) {
			req := request.(*ridingReq)
			return eng.Winner(req.Code)
		}),
		SummarizeProvince: wrap("summarize_province", func(_ context.Context, request any) (any, error) {
			req := request.(*provinceReq)
			return eng.SummarizeRegion(req.Province)
		}),
		SummarizeNational: wrap("summarize_national", func(_ context.Context, _ any) (any, error) {
			return eng.SummarizeNational(), nil
		}),
		ClosestRaces: wrap("closest_races", func(_ context.Context, request any) (any, error) {
			req := request.(*closestReq)
			return eng.ClosestRaces(req.Limit, req.Party), nil
		}),
		PartyExtremes: wrap("party_extremes", func(_ context.Context, request any) (any, error) {
			req := request.(*extremesReq)
			return eng.PartyExtremes(req.Party, req.Limit)
		}),
	}
}
