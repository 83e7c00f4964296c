package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
)

// toolDefs declares the query operations the model may choose from.
// One definition per engine operation; the schemas mirror the MCP tool
// surface.
func toolDefs() []openai.ChatCompletionToolParam {
	object := func(props map[string]any, required ...string) openai.FunctionParameters {
		p := openai.FunctionParameters{
			"type":       "object",
			"properties": props,
		}
		if len(required) > 0 {
			p["required"] = required
		}
		return p
	}
	ridingCode := map[string]any{"type": "integer", "description": "Numeric riding code"}
	party := map[string]any{"type": "string", "description": "Party code or free-form name"}
	province := map[string]any{"type": "string", "description": "Province code or free-form name"}
	limit := map[string]any{"type": "integer", "description": "Entries per ranking; 0 for all"}

	def := func(name, desc string, params openai.FunctionParameters) openai.ChatCompletionToolParam {
		return openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        name,
				Description: openai.String(desc),
				Parameters:  params,
			},
		}
	}

	return []openai.ChatCompletionToolParam{
		def("get_riding", "Full results for one riding.",
			object(map[string]any{"riding_code": ridingCode}, "riding_code")),
		def("search_ridings", "Find ridings whose name contains a term.",
			object(map[string]any{"term": map[string]any{"type": "string"}}, "term")),
		def("province_ridings", "List a province's ridings.",
			object(map[string]any{"province": province}, "province")),
		def("get_party_votes", "Votes for one party (or all) in a riding.",
			object(map[string]any{"riding_code": ridingCode, "party": party}, "riding_code")),
		def("get_winning_party", "Which party won a riding.",
			object(map[string]any{"riding_code": ridingCode}, "riding_code")),
		def("summarize_province", "Seats and vote totals per party in a province.",
			object(map[string]any{"province": province}, "province")),
		def("summarize_national", "Seats and vote totals per party nationally.",
			object(map[string]any{})),
		def("closest_races", "Closest ridings by winning margin.",
			object(map[string]any{"limit": limit, "party": party})),
		def("party_extremes", "A party's best and worst ridings.",
			object(map[string]any{"party": party, "limit": limit}, "party")),
	}
}

// dispatch executes the model's chosen operation against the engine.
func (b *Bridge) dispatch(name string, args json.RawMessage) (any, error) {
	var a struct {
		RidingCode int    `json:"riding_code"`
		Term       string `json:"term"`
		Province   string `json:"province"`
		Party      string `json:"party"`
		Limit      int    `json:"limit"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bridge: decode %s arguments: %w", name, err)
		}
	}

	switch name {
	case "get_riding":
		return b.eng.District(a.RidingCode)
	case "search_ridings":
		return b.eng.Search(a.Term)
	case "province_ridings":
		return b.eng.RegionDistricts(a.Province)
	case "get_party_votes":
		return b.eng.PartyVotes(a.RidingCode, a.Party)
	case "get_winning_party":
		return b.eng.Winner(a.RidingCode)
	case "summarize_province":
		return b.eng.SummarizeRegion(a.Province)
	case "summarize_national":
		return b.eng.SummarizeNational(), nil
	case "closest_races":
		return b.eng.ClosestRaces(a.Limit, a.Party), nil
	case "party_extremes":
		return b.eng.PartyExtremes(a.Party, a.Limit)
	default:
		return nil, fmt.Errorf("bridge: unknown operation %q", name)
	}
}
