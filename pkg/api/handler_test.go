package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazyhaar/scrutin/pkg/election"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	idx, err := election.BuildIndex([]election.District{
		{Code: 1, NameEN: "Lac-Saint-Jean", NameFR: "Lac-Saint-Jean", RegionCode: "QC", Votes: []election.PartyResult{
			{PartyCode: "BQ", Votes: 60, VotePercent: 60},
			{PartyCode: "LPC", Votes: 40, VotePercent: 40},
		}},
		{Code: 2, NameEN: "Ottawa Centre", NameFR: "Ottawa-Centre", RegionCode: "ON", Votes: []election.PartyResult{
			{PartyCode: "LPC", Votes: 55, VotePercent: 55},
			{PartyCode: "NDP", Votes: 45, VotePercent: 45},
		}},
	})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	res, err := election.NewResolver(election.DefaultTables())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	eng := election.NewEngine(idx, res)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := httptest.NewServer(NewRouter(NewEndpoints(eng, logger), eng))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: status %d, want %d (body %s)", url, resp.StatusCode, wantStatus, body)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestGetRiding(t *testing.T) {
	ts := testServer(t)

	var d election.District
	getJSON(t, ts.URL+"/v1/ridings/1", http.StatusOK, &d)
	if d.Code != 1 || d.NameEN != "Lac-Saint-Jean" {
		t.Errorf("riding = %+v", d)
	}

	var e map[string]string
	getJSON(t, ts.URL+"/v1/ridings/999", http.StatusNotFound, &e)
	if e["kind"] != election.KindDistrict {
		t.Errorf("kind = %q", e["kind"])
	}

	getJSON(t, ts.URL+"/v1/ridings/abc", http.StatusBadRequest, nil)
}

func TestListAndProvince(t *testing.T) {
	ts := testServer(t)

	var refs []election.DistrictRef
	getJSON(t, ts.URL+"/v1/ridings", http.StatusOK, &refs)
	if len(refs) != 2 {
		t.Fatalf("ridings = %d, want 2", len(refs))
	}

	var bucket election.RegionDistrictsResult
	getJSON(t, ts.URL+"/v1/provinces/Ontario/ridings", http.StatusOK, &bucket)
	if bucket.RegionCode != "ON" || len(bucket.Districts) != 1 {
		t.Errorf("bucket = %+v", bucket)
	}
}

func TestSearchAndWinner(t *testing.T) {
	ts := testServer(t)

	var matches []election.District
	getJSON(t, ts.URL+"/v1/search?q=lac", http.StatusOK, &matches)
	if len(matches) != 1 || matches[0].Code != 1 {
		t.Errorf("matches = %+v", matches)
	}

	getJSON(t, ts.URL+"/v1/search?q=nowhere", http.StatusNotFound, nil)
	getJSON(t, ts.URL+"/v1/search", http.StatusBadRequest, nil)

	var w election.WinnerResult
	getJSON(t, ts.URL+"/v1/ridings/1/winner", http.StatusOK, &w)
	if w.PartyCode != "BQ" {
		t.Errorf("winner = %+v", w)
	}
}

func TestSummariesAndRankings(t *testing.T) {
	ts := testServer(t)

	var s election.Summary
	getJSON(t, ts.URL+"/v1/summary/national", http.StatusOK, &s)
	if s.TotalDistricts != 2 || s.TotalVotes != 200 {
		t.Errorf("summary = %+v", s)
	}

	getJSON(t, ts.URL+"/v1/summary/province/Qu%C3%A9bec", http.StatusOK, &s)
	if s.RegionCode != "QC" {
		t.Errorf("province summary = %+v", s)
	}

	var cr election.ClosestRaces
	getJSON(t, ts.URL+"/v1/closest?limit=1", http.StatusOK, &cr)
	if cr.Eligible != 2 || len(cr.ByVoteMargin) != 1 {
		t.Errorf("closest = %+v", cr)
	}

	var ext election.PartyExtremes
	getJSON(t, ts.URL+"/v1/parties/Liberal/extremes?limit=3", http.StatusOK, &ext)
	if ext.PartyCode != "LPC" || ext.Contested != 2 {
		t.Errorf("extremes = %+v", ext)
	}

	getJSON(t, ts.URL+"/v1/parties/XYZ/extremes", http.StatusNotFound, nil)
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	var h healthResponse
	getJSON(t, ts.URL+"/v1/health", http.StatusOK, &h)
	if h.Status != "ok" || h.Ridings != 2 || h.VoteRows != 4 {
		t.Errorf("health = %+v", h)
	}
}
