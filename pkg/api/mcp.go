package api

import (
	"fmt"

	"github.com/hazyhaar/scrutin/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers every query operation as an MCP tool.
func RegisterMCPTools(srv *server.MCPServer, eps Endpoints) {
	kit.RegisterMCPTool(srv,
		mcp.NewTool("list_ridings",
			mcp.WithDescription("List every riding in the 2021 Canadian federal election with its code, English name and province."),
		),
		eps.ListRidings,
		func(_ mcp.CallToolRequest) (any, error) { return nil, nil },
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("get_riding",
			mcp.WithDescription("Get full details for one riding by its numeric code, including the complete vote distribution."),
			mcp.WithNumber("riding_code", mcp.Required(), mcp.Description("Numeric riding code (e.g. 35075)")),
		),
		eps.GetRiding,
		func(req mcp.CallToolRequest) (any, error) {
			code, err := intArg(req, "riding_code")
			if err != nil {
				return nil, err
			}
			return &ridingReq{Code: code}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("province_ridings",
			mcp.WithDescription("List all ridings in a province. Accepts a province code (ON, QC, ...) or a free-form English/French name."),
			mcp.WithString("province", mcp.Required(), mcp.Description("Province code or name (e.g. QC, Québec, British Columbia)")),
		),
		eps.ProvinceRidings,
		func(req mcp.CallToolRequest) (any, error) {
			return &provinceReq{Province: strArg(req, "province")}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("search_ridings",
			mcp.WithDescription("Search ridings by name. Matches substrings of English and French names, ignoring case, accents and hyphens."),
			mcp.WithString("term", mcp.Required(), mcp.Description("Search term (e.g. 'lac')")),
		),
		eps.Search,
		func(req mcp.CallToolRequest) (any, error) {
			return &searchReq{Term: strArg(req, "term")}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("get_party_votes",
			mcp.WithDescription("Get the vote distribution in a riding, optionally filtered to one party."),
			mcp.WithNumber("riding_code", mcp.Required(), mcp.Description("Numeric riding code")),
			mcp.WithString("party", mcp.Description("Party code or name (e.g. LPC, Conservatives); omit for all parties")),
		),
		eps.PartyVotes,
		func(req mcp.CallToolRequest) (any, error) {
			code, err := intArg(req, "riding_code")
			if err != nil {
				return nil, err
			}
			return &partyVotesReq{Code: code, Party: strArg(req, "party")}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("get_winning_party",
			mcp.WithDescription("Get the party that won a riding, with its votes and vote share."),
			mcp.WithNumber("riding_code", mcp.Required(), mcp.Description("Numeric riding code")),
		),
		eps.Winner,
		func(req mcp.CallToolRequest) (any, error) {
			code, err := intArg(req, "riding_code")
			if err != nil {
				return nil, err
			}
			return &ridingReq{Code: code}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("summarize_province",
			mcp.WithDescription("Summarize a province's results: seats won and vote totals per party."),
			mcp.WithString("province", mcp.Required(), mcp.Description("Province code or name")),
		),
		eps.SummarizeProvince,
		func(req mcp.CallToolRequest) (any, error) {
			return &provinceReq{Province: strArg(req, "province")}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("summarize_national",
			mcp.WithDescription("Summarize the national results: seats won and vote totals per party across every riding."),
		),
		eps.SummarizeNational,
		func(_ mcp.CallToolRequest) (any, error) { return nil, nil },
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("closest_races",
			mcp.WithDescription("Rank the closest ridings by winner/runner-up margin, both in percentage points and in raw votes."),
			mcp.WithNumber("limit", mcp.Description("Entries per ranking; 0 or omitted returns all eligible ridings")),
			mcp.WithString("party", mcp.Description("Only count ridings won by this party")),
		),
		eps.ClosestRaces,
		func(req mcp.CallToolRequest) (any, error) {
			limit, _ := numArg(req, "limit")
			return &closestReq{Limit: limit, Party: strArg(req, "party")}, nil
		},
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("party_extremes",
			mcp.WithDescription("A party's best and worst performances: top vote shares, widest winning margins, weakest ridings, narrowest losses."),
			mcp.WithString("party", mcp.Required(), mcp.Description("Party code or name")),
			mcp.WithNumber("limit", mcp.Description("Entries per ranking; 0 or omitted returns all")),
		),
		eps.PartyExtremes,
		func(req mcp.CallToolRequest) (any, error) {
			limit, _ := numArg(req, "limit")
			return &extremesReq{Party: strArg(req, "party"), Limit: limit}, nil
		},
	)

	if eps.Ask != nil {
		kit.RegisterMCPTool(srv,
			mcp.NewTool("ask",
				mcp.WithDescription("Answer a free-form question about the election results, e.g. 'How many votes did the Liberals get in Newfoundland?'"),
				mcp.WithString("question", mcp.Required(), mcp.Description("The question, in plain English or French")),
			),
			eps.Ask,
			func(req mcp.CallToolRequest) (any, error) {
				q := strArg(req, "question")
				if q == "" {
					return nil, fmt.Errorf("missing question")
				}
				return &askReq{Question: q}, nil
			},
		)
	}
}

func strArg(req mcp.CallToolRequest, name string) string {
	v, _ := req.GetArguments()[name].(string)
	return v
}

// numArg reads a JSON number argument; MCP arguments arrive as float64.
func numArg(req mcp.CallToolRequest, name string) (int, bool) {
	v, ok := req.GetArguments()[name].(float64)
	return int(v), ok
}

func intArg(req mcp.CallToolRequest, name string) (int, error) {
	v, ok := numArg(req, name)
	if !ok {
		return 0, fmt.Errorf("missing or invalid %s", name)
	}
	return v, nil
}
