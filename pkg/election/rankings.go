package election

import "sort"

// Race is one riding's winner/runner-up gap.
type Race struct {
	DistrictCode  int     `json:"ridingCode"`
	DistrictName  string  `json:"ridingName"`
	RegionCode    string  `json:"province"`
	Winner        string  `json:"winner"`
	RunnerUp      string  `json:"runnerUp"`
	WinnerVotes   int     `json:"winnerVotes"`
	RunnerUpVotes int     `json:"runnerUpVotes"`
	VoteMargin    int     `json:"voteMargin"`
	PercentMargin float64 `json:"percentMargin"`
}

// ClosestRaces holds the two independently truncated closeness rankings.
type ClosestRaces struct {
	PartyFilter     string `json:"partyFilter,omitempty"`
	Eligible        int    `json:"eligibleRidings"`
	ByPercentMargin []Race `json:"byPercentMargin"`
	ByVoteMargin    []Race `json:"byVoteMargin"`
}

// ClosestRaces ranks ridings by how close the winner/runner-up race
// was, ascending by percent margin and by vote margin. Ridings with
// fewer than two party entries are skipped. A party filter keeps only
// ridings that party won; a filter matching nothing yields empty
// rankings, not an error. The limit is clamped to the eligible set.
func (e *Engine) ClosestRaces(limit int, partyFilter string) *ClosestRaces {
	filter := ""
	if partyFilter != "" {
		filter = e.res.ResolveParty(partyFilter)
	}

	var races []Race
	for _, d := range e.idx.Districts() {
		if len(d.Votes) < 2 {
			continue
		}
		top := topTwo(d.Votes)
		if filter != "" && top[0].PartyCode != filter {
			continue
		}
		races = append(races, Race{
			DistrictCode:  d.Code,
			DistrictName:  d.NameEN,
			RegionCode:    d.RegionCode,
			Winner:        top[0].PartyCode,
			RunnerUp:      top[1].PartyCode,
			WinnerVotes:   top[0].Votes,
			RunnerUpVotes: top[1].Votes,
			VoteMargin:    top[0].Votes - top[1].Votes,
			PercentMargin: top[0].VotePercent - top[1].VotePercent,
		})
	}

	n := clampLimit(limit, len(races))
	byPct := make([]Race, len(races))
	copy(byPct, races)
	sort.SliceStable(byPct, func(i, j int) bool { return byPct[i].PercentMargin < byPct[j].PercentMargin })
	byVotes := make([]Race, len(races))
	copy(byVotes, races)
	sort.SliceStable(byVotes, func(i, j int) bool { return byVotes[i].VoteMargin < byVotes[j].VoteMargin })

	return &ClosestRaces{
		PartyFilter:     filter,
		Eligible:        len(races),
		ByPercentMargin: byPct[:n],
		ByVoteMargin:    byVotes[:n],
	}
}

// topTwo returns the two strongest entries, preserving input order
// among equal vote counts (stable winner, stable runner-up).
func topTwo(results []PartyResult) [2]PartyResult {
	sorted := make([]PartyResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Votes > sorted[j].Votes })
	return [2]PartyResult{sorted[0], sorted[1]}
}

// PartyStanding is one riding's result for a given party, with the
// margin over the runner-up (won) or behind the winner (lost).
type PartyStanding struct {
	DistrictCode int     `json:"ridingCode"`
	DistrictName string  `json:"ridingName"`
	RegionCode   string  `json:"province"`
	Votes        int     `json:"votes"`
	VotePercent  float64 `json:"votePercent"`
	Margin       float64 `json:"margin"`
	Won          bool    `json:"won"`
}

// PartyExtremes holds a party's four best/worst rankings.
type PartyExtremes struct {
	PartyCode    string          `json:"partyCode"`
	PartyName    string          `json:"partyName"`
	Contested    int             `json:"contestedRidings"`
	WonCount     int             `json:"ridingsWon"`
	LostCount    int             `json:"ridingsLost"`
	BestShare    []PartyStanding `json:"bestVoteShare"`
	BestMargins  []PartyStanding `json:"bestWinningMargins"`
	WorstShare   []PartyStanding `json:"worstVoteShare"`
	WorstMargins []PartyStanding `json:"worstLosingMargins"`
}

// PartyExtremes ranks a party's best and worst performances. Margin in
// a won riding is its percent over the runner-up (its own percent when
// unopposed); in a lost riding its percent minus the winner's, zero or
// negative. Each ranking is truncated to min(limit, eligible); a party
// with no entries anywhere is a reported not-found condition.
func (e *Engine) PartyExtremes(party string, limit int) (*PartyExtremes, error) {
	code := e.res.ResolveParty(party)

	var standings []PartyStanding
	for _, d := range e.idx.Districts() {
		idx := -1
		for i, pr := range d.Votes {
			if pr.PartyCode == code {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		own := d.Votes[idx]
		w := stableMax(d.Votes)
		won := w == idx
		var margin float64
		if won {
			if len(d.Votes) == 1 {
				margin = own.VotePercent // unopposed
			} else {
				margin = own.VotePercent - topTwo(d.Votes)[1].VotePercent
			}
		} else {
			margin = own.VotePercent - d.Votes[w].VotePercent
		}
		standings = append(standings, PartyStanding{
			DistrictCode: d.Code,
			DistrictName: d.NameEN,
			RegionCode:   d.RegionCode,
			Votes:        own.Votes,
			VotePercent:  own.VotePercent,
			Margin:       margin,
			Won:          won,
		})
	}
	if len(standings) == 0 {
		return nil, errParty(code, -1)
	}

	var won, lost []PartyStanding
	for _, s := range standings {
		if s.Won {
			won = append(won, s)
		} else {
			lost = append(lost, s)
		}
	}

	ext := &PartyExtremes{
		PartyCode: code,
		PartyName: e.res.PartyName(code),
		Contested: len(standings),
		WonCount:  len(won),
		LostCount: len(lost),
	}
	ext.BestShare = rank(standings, limit, func(a, b PartyStanding) bool { return a.VotePercent > b.VotePercent })
	ext.BestMargins = rank(won, limit, func(a, b PartyStanding) bool { return a.Margin > b.Margin })
	ext.WorstShare = rank(standings, limit, func(a, b PartyStanding) bool { return a.VotePercent < b.VotePercent })
	ext.WorstMargins = rank(lost, limit, func(a, b PartyStanding) bool { return a.Margin < b.Margin })
	return ext, nil
}

// rank sorts a copy of standings and truncates to the clamped limit.
func rank(standings []PartyStanding, limit int, less func(a, b PartyStanding) bool) []PartyStanding {
	out := make([]PartyStanding, len(standings))
	copy(out, standings)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out[:clampLimit(limit, len(out))]
}

// clampLimit maps non-positive or oversized limits to the eligible size.
func clampLimit(limit, eligible int) int {
	if limit <= 0 || limit > eligible {
		return eligible
	}
	return limit
}
