package election

import (
	"math"
	"sort"
	"strings"
)

// Engine serves all read operations over one immutable Index. Every
// operation is a pure function of the index, the resolver and its
// parameters; concurrent use needs no coordination.
type Engine struct {
	idx *Index
	res *Resolver
}

// NewEngine wraps an index and resolver into a query engine.
func NewEngine(idx *Index, res *Resolver) *Engine {
	return &Engine{idx: idx, res: res}
}

// Index exposes the underlying index for health/diagnostic reads.
func (e *Engine) Index() *Index { return e.idx }

// Resolver exposes the name resolver.
func (e *Engine) Resolver() *Resolver { return e.res }

// DistrictRef is the projection used by riding listings.
type DistrictRef struct {
	Code       int    `json:"ridingCode"`
	Name       string `json:"ridingName"`
	RegionCode string `json:"province"`
}

// District returns one riding by exact code.
func (e *Engine) District(code int) (*District, error) {
	d, ok := e.idx.District(code)
	if !ok {
		return nil, errDistrict(code)
	}
	return d, nil
}

// ListDistricts returns every riding projected to code, English name
// and province, in input order.
func (e *Engine) ListDistricts() []DistrictRef {
	ds := e.idx.Districts()
	refs := make([]DistrictRef, len(ds))
	for i, d := range ds {
		refs[i] = DistrictRef{Code: d.Code, Name: d.NameEN, RegionCode: d.RegionCode}
	}
	return refs
}

// RegionDistrictsResult is a province's riding bucket.
type RegionDistrictsResult struct {
	RegionCode string      `json:"province"`
	RegionName string      `json:"provinceName"`
	Districts  []*District `json:"ridings"`
}

// RegionDistricts resolves a province name or code and returns its
// ridings in input order.
func (e *Engine) RegionDistricts(regionOrCode string) (*RegionDistrictsResult, error) {
	code := e.res.ResolveRegion(regionOrCode)
	ds, ok := e.idx.Region(code)
	if !ok {
		return nil, errRegion(code)
	}
	return &RegionDistrictsResult{
		RegionCode: code,
		RegionName: e.res.RegionName(code),
		Districts:  ds,
	}, nil
}

// Search returns every riding whose normalized English or French name
// contains the normalized term as a substring. An empty result is a
// reported no_matches condition, not a fault.
func (e *Engine) Search(term string) ([]*District, error) {
	needle := Normalize(term)
	var matches []*District
	for _, d := range e.idx.Districts() {
		if strings.Contains(Normalize(d.NameEN), needle) || strings.Contains(Normalize(d.NameFR), needle) {
			matches = append(matches, d)
		}
	}
	if len(matches) == 0 {
		return nil, &NotFoundError{Kind: KindNoMatches, Detail: "no ridings found matching " + strings.TrimSpace(term)}
	}
	return matches, nil
}

// Distribution is a riding's vote breakdown, possibly filtered to one party.
type Distribution struct {
	DistrictCode int           `json:"ridingCode"`
	DistrictName string        `json:"ridingName"`
	Results      []PartyResult `json:"voteDistribution"`
}

// PartyVotes returns one party's entry in a riding, or the full
// distribution in original order when party is empty.
func (e *Engine) PartyVotes(districtCode int, party string) (*Distribution, error) {
	d, ok := e.idx.District(districtCode)
	if !ok {
		return nil, errDistrict(districtCode)
	}
	dist := &Distribution{DistrictCode: d.Code, DistrictName: d.NameEN}
	if party == "" {
		dist.Results = d.Votes
		return dist, nil
	}
	code := e.res.ResolveParty(party)
	for _, pr := range d.Votes {
		if pr.PartyCode == code {
			dist.Results = []PartyResult{pr}
			return dist, nil
		}
	}
	return nil, errParty(code, districtCode)
}

// WinnerResult identifies the party that took a riding.
type WinnerResult struct {
	DistrictCode int     `json:"ridingCode"`
	DistrictName string  `json:"ridingName"`
	PartyCode    string  `json:"winningParty"`
	PartyName    string  `json:"partyName"`
	Votes        int     `json:"votes"`
	VotePercent  float64 `json:"votePercent"`
}

// Winner returns the party with the most votes in a riding. Ties go to
// the entry listed first in the input; an empty distribution is a
// reported no_data condition.
func (e *Engine) Winner(districtCode int) (*WinnerResult, error) {
	d, ok := e.idx.District(districtCode)
	if !ok {
		return nil, errDistrict(districtCode)
	}
	w := stableMax(d.Votes)
	if w < 0 {
		return nil, &NotFoundError{Kind: KindNoData, Detail: d.NameEN + " has no vote data"}
	}
	pr := d.Votes[w]
	return &WinnerResult{
		DistrictCode: d.Code,
		DistrictName: d.NameEN,
		PartyCode:    pr.PartyCode,
		PartyName:    e.res.PartyName(pr.PartyCode),
		Votes:        pr.Votes,
		VotePercent:  pr.VotePercent,
	}, nil
}

// stableMax returns the index of the entry with the most votes, first
// occurrence winning ties, or -1 for an empty distribution.
func stableMax(results []PartyResult) int {
	best := -1
	for i, pr := range results {
		if best < 0 || pr.Votes > results[best].Votes {
			best = i
		}
	}
	return best
}

// PartySummary is one party's line in a seat/vote summary.
type PartySummary struct {
	PartyCode   string  `json:"partyCode"`
	PartyName   string  `json:"partyName"`
	Seats       int     `json:"seats"`
	Votes       int     `json:"votes"`
	VotePercent float64 `json:"votePercent"`
}

// Summary aggregates seats and votes by party over a set of ridings.
type Summary struct {
	RegionCode     string         `json:"province,omitempty"`
	RegionName     string         `json:"provinceName,omitempty"`
	TotalDistricts int            `json:"totalRidings"`
	TotalVotes     int            `json:"totalVotes"`
	Parties        []PartySummary `json:"parties"`
}

// Summarize computes the seat count (stable-max winner per riding) and
// vote totals per party over the given ridings. Vote share is each
// party's votes over the grand total, rounded to 2 decimals; a zero
// grand total yields zero shares. Ridings with empty distributions are
// counted in TotalDistricts but contribute nothing. Parties appear if
// they hold seats or votes (union), sorted by seats then votes
// descending, stable on first appearance.
func (e *Engine) Summarize(districts []*District) *Summary {
	var order []string
	seen := make(map[string]bool)
	seats := make(map[string]int)
	votes := make(map[string]int)
	grand := 0

	note := func(code string) {
		if !seen[code] {
			seen[code] = true
			order = append(order, code)
		}
	}

	for _, d := range districts {
		if w := stableMax(d.Votes); w >= 0 {
			code := d.Votes[w].PartyCode
			note(code)
			seats[code]++
		}
		for _, pr := range d.Votes {
			note(pr.PartyCode)
			votes[pr.PartyCode] += pr.Votes
			grand += pr.Votes
		}
	}

	parties := make([]PartySummary, 0, len(order))
	for _, code := range order {
		share := 0.0
		if grand > 0 {
			share = round2(float64(votes[code]) / float64(grand) * 100)
		}
		parties = append(parties, PartySummary{
			PartyCode:   code,
			PartyName:   e.res.PartyName(code),
			Seats:       seats[code],
			Votes:       votes[code],
			VotePercent: share,
		})
	}
	sort.SliceStable(parties, func(i, j int) bool {
		if parties[i].Seats != parties[j].Seats {
			return parties[i].Seats > parties[j].Seats
		}
		return parties[i].Votes > parties[j].Votes
	})

	return &Summary{
		TotalDistricts: len(districts),
		TotalVotes:     grand,
		Parties:        parties,
	}
}

// SummarizeRegion summarizes one province's ridings.
func (e *Engine) SummarizeRegion(regionOrCode string) (*Summary, error) {
	bucket, err := e.RegionDistricts(regionOrCode)
	if err != nil {
		return nil, err
	}
	s := e.Summarize(bucket.Districts)
	s.RegionCode = bucket.RegionCode
	s.RegionName = bucket.RegionName
	return s, nil
}

// SummarizeNational summarizes the entire dataset.
func (e *Engine) SummarizeNational() *Summary {
	return e.Summarize(e.idx.Districts())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
