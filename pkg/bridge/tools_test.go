package bridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/hazyhaar/scrutin/pkg/election"
)

func testBridge(t *testing.T) *Bridge {
	t.Helper()
	idx, err := election.BuildIndex([]election.District{
		{Code: 1, NameEN: "Avalon", NameFR: "Avalon", RegionCode: "NL", Votes: []election.PartyResult{
			{PartyCode: "LPC", Votes: 60, VotePercent: 60},
			{PartyCode: "CPC", Votes: 40, VotePercent: 40},
		}},
	})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	res, err := election.NewResolver(election.DefaultTables())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return &Bridge{
		eng:    election.NewEngine(idx, res),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestDispatch(t *testing.T) {
	b := testBridge(t)

	tests := []struct {
		name string
		args string
	}{
		{"get_riding", `{"riding_code": 1}`},
		{"search_ridings", `{"term": "avalon"}`},
		{"province_ridings", `{"province": "Newfoundland"}`},
		{"get_party_votes", `{"riding_code": 1, "party": "Liberal"}`},
		{"get_winning_party", `{"riding_code": 1}`},
		{"summarize_province", `{"province": "NL"}`},
		{"summarize_national", `{}`},
		{"closest_races", `{"limit": 5}`},
		{"party_extremes", `{"party": "CPC", "limit": 3}`},
	}
	for _, tt := range tests {
		result, err := b.dispatch(tt.name, json.RawMessage(tt.args))
		if err != nil {
			t.Errorf("dispatch(%s): %v", tt.name, err)
			continue
		}
		if result == nil {
			t.Errorf("dispatch(%s): nil result", tt.name)
		}
	}
}

func TestDispatch_UnknownOperation(t *testing.T) {
	b := testBridge(t)
	if _, err := b.dispatch("drop_tables", json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestDispatch_MissReportedAsValue(t *testing.T) {
	b := testBridge(t)
	_, err := b.dispatch("get_riding", json.RawMessage(`{"riding_code": 404}`))
	if _, ok := election.AsNotFound(err); !ok {
		t.Errorf("err = %v, want structured not-found", err)
	}

	// marshalResult renders the miss as JSON, not a fault.
	payload := marshalResult(nil, err)
	var nf election.NotFoundError
	if jerr := json.Unmarshal([]byte(payload), &nf); jerr != nil || nf.Kind != election.KindDistrict {
		t.Errorf("payload = %s", payload)
	}
}

func TestToolDefs_CoverDispatch(t *testing.T) {
	b := testBridge(t)
	for _, def := range toolDefs() {
		name := def.Function.Name
		// Every declared tool must dispatch to a real operation: an
		// unknown-operation error means the two lists drifted apart.
		_, err := b.dispatch(name, json.RawMessage(`{"riding_code":1,"party":"LPC","province":"NL","term":"a","limit":1}`))
		if err != nil {
			if _, ok := election.AsNotFound(err); !ok {
				t.Errorf("tool %s does not dispatch cleanly: %v", name, err)
			}
		}
	}
}
