// CLAUDE:SUMMARY Dataset model and load-time index builder: by riding code, by province, plus a flattened vote table.
package election

import (
	"encoding/json"
	"fmt"
	"os"
)

// PartyResult is one party's tally in one riding.
type PartyResult struct {
	PartyCode   string  `json:"partyCode"`
	Votes       int     `json:"votes"`
	VotePercent float64 `json:"votePercent"`
}

// District is one electoral riding with its full vote distribution.
// The JSON keys are the on-disk dataset contract.
type District struct {
	Code       int           `json:"ridingCode"`
	NameEN     string        `json:"ridingName_EN"`
	NameFR     string        `json:"ridingName_FR"`
	RegionCode string        `json:"provCode"`
	ValidVotes int           `json:"validVotes,omitempty"`
	Votes      []PartyResult `json:"voteDistribution"`
}

// VoteRow is one (riding, party) pair from the flattened vote table.
type VoteRow struct {
	DistrictCode int     `json:"ridingCode"`
	DistrictName string  `json:"ridingName"`
	RegionCode   string  `json:"province"`
	PartyCode    string  `json:"partyCode"`
	Votes        int     `json:"votes"`
	VotePercent  float64 `json:"votePercent"`
}

// Index holds the immutable lookup structures built once at startup.
// All query operations are pure reads over it, so it is safe to share
// across goroutines without locking.
type Index struct {
	districts []*District
	byCode    map[int]*District
	byRegion  map[string][]*District
	regions   []string // first-appearance order
	rows      []VoteRow
}

// LoadDataset reads the riding records from a JSON file.
func LoadDataset(path string) ([]District, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var districts []District
	if err := json.Unmarshal(data, &districts); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return districts, nil
}

// BuildIndex validates the records and builds the lookup structures.
// Called exactly once per process; the returned Index is never mutated.
// A missing validVotes is derived as the sum of party votes. Ridings
// with an empty distribution are kept (they still count as ridings) but
// contribute nothing to winner-based aggregates.
func BuildIndex(records []District) (*Index, error) {
	idx := &Index{
		districts: make([]*District, 0, len(records)),
		byCode:    make(map[int]*District, len(records)),
		byRegion:  make(map[string][]*District),
	}

	for i := range records {
		d := records[i]
		if _, exists := idx.byCode[d.Code]; exists {
			return nil, &DuplicateKeyError{Code: d.Code}
		}
		if d.ValidVotes == 0 {
			for _, pr := range d.Votes {
				d.ValidVotes += pr.Votes
			}
		}

		p := &d
		idx.districts = append(idx.districts, p)
		idx.byCode[d.Code] = p
		if _, seen := idx.byRegion[d.RegionCode]; !seen {
			idx.regions = append(idx.regions, d.RegionCode)
		}
		idx.byRegion[d.RegionCode] = append(idx.byRegion[d.RegionCode], p)

		for _, pr := range d.Votes {
			idx.rows = append(idx.rows, VoteRow{
				DistrictCode: d.Code,
				DistrictName: d.NameEN,
				RegionCode:   d.RegionCode,
				PartyCode:    pr.PartyCode,
				Votes:        pr.Votes,
				VotePercent:  pr.VotePercent,
			})
		}
	}
	return idx, nil
}

// District returns the riding for a code.
func (x *Index) District(code int) (*District, bool) {
	d, ok := x.byCode[code]
	return d, ok
}

// Districts returns all ridings in input order. Callers must not mutate.
func (x *Index) Districts() []*District { return x.districts }

// Region returns the ridings of one province in input order.
func (x *Index) Region(code string) ([]*District, bool) {
	ds, ok := x.byRegion[code]
	return ds, ok
}

// Regions returns the province codes in first-appearance order.
func (x *Index) Regions() []string { return x.regions }

// VoteRows returns the flattened per-party-per-riding vote table.
func (x *Index) VoteRows() []VoteRow { return x.rows }

// DistrictCount returns the number of ridings.
func (x *Index) DistrictCount() int { return len(x.districts) }

// RegionCount returns the number of provinces present in the dataset.
func (x *Index) RegionCount() int { return len(x.byRegion) }
