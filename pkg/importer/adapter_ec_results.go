// CLAUDE:SUMMARY Import adapter for the Elections Canada 2021 redistributed riding results CSV.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hazyhaar/scrutin/pkg/election"
)

func init() {
	Register(&ecResultsAdapter{})
}

type ecResultsAdapter struct {
	// encoding overrides the source charset; empty means UTF-8. Older
	// Elections Canada exports ship as windows-1252.
	encoding string
}

func (a *ecResultsAdapter) ID() string { return "ec-2021-redistributed" }
func (a *ecResultsAdapter) Description() string {
	return "Elections Canada 2021 general election, votes redistributed onto the riding map"
}
func (a *ecResultsAdapter) DefaultURL() string {
	return "https://www.elections.ca/res/rep/tra/2021/table_tko_2021.csv"
}
func (a *ecResultsAdapter) License() string { return "Open Government Licence - Canada" }

func (a *ecResultsAdapter) Import(ctx context.Context, sourceURL, outputPath string) (int, error) {
	dlDir := filepath.Join(filepath.Dir(outputPath), "_download")
	if err := ensureDir(dlDir); err != nil {
		return 0, err
	}
	defer os.RemoveAll(dlDir)

	srcPath := filepath.Join(dlDir, "results.csv")
	fmt.Printf("  downloading %s...\n", sourceURL)
	if err := downloadFile(ctx, sourceURL, srcPath); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(sourceURL), ".zip") {
		files, err := unzipFile(srcPath, dlDir)
		if err != nil {
			return 0, fmt.Errorf("unzip: %w", err)
		}
		srcPath = ""
		for _, f := range files {
			if strings.HasSuffix(strings.ToLower(f), ".csv") {
				srcPath = f
				break
			}
		}
		if srcPath == "" {
			return 0, fmt.Errorf("no CSV found in ZIP")
		}
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader, err := decodeReader(f, a.encoding)
	if err != nil {
		return 0, err
	}

	resolver, err := election.NewResolver(election.DefaultTables())
	if err != nil {
		return 0, err
	}
	districts, err := parseECResults(reader, resolver)
	if err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}

	data, err := json.MarshalIndent(districts, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write dataset: %w", err)
	}
	return len(districts), nil
}

// Column headers of the Elections Canada export.
const (
	colDistrictNumber = "Electoral District Number"
	colNameEN         = "Electoral District Name (English)"
	colNameFR         = "Electoral District Name (French)"
	colProvince       = "Province"
	colAffiliation    = "Political Affiliation"
	colVotes          = "Votes Obtained"
	colVotePercent    = "Percentage of Votes Obtained"
	colValidBallots   = "Valid Ballots"
)

// parseECResults aggregates one-row-per-party-per-riding records into
// District values, riding order and per-riding party order both taken
// from the file. Affiliations and province names go through the
// resolver so the dataset carries canonical codes.
func parseECResults(r io.Reader, resolver *election.Resolver) ([]election.District, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colDistrictNumber, colNameEN, colProvince, colAffiliation, colVotes} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("column %q not found in header %v", required, header)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var districts []election.District
	byCode := make(map[int]int) // riding code -> index into districts

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		code, err := strconv.Atoi(field(record, colDistrictNumber))
		if err != nil {
			return nil, fmt.Errorf("bad district number %q: %w", field(record, colDistrictNumber), err)
		}
		votes, err := strconv.Atoi(field(record, colVotes))
		if err != nil {
			return nil, fmt.Errorf("riding %d: bad vote count %q: %w", code, field(record, colVotes), err)
		}
		pct, _ := strconv.ParseFloat(field(record, colVotePercent), 64)

		i, ok := byCode[code]
		if !ok {
			valid, _ := strconv.Atoi(field(record, colValidBallots))
			districts = append(districts, election.District{
				Code:       code,
				NameEN:     field(record, colNameEN),
				NameFR:     field(record, colNameFR),
				RegionCode: resolver.ResolveRegion(field(record, colProvince)),
				ValidVotes: valid,
			})
			i = len(districts) - 1
			byCode[code] = i
		}

		districts[i].Votes = append(districts[i].Votes, election.PartyResult{
			PartyCode:   resolver.ResolveParty(field(record, colAffiliation)),
			Votes:       votes,
			VotePercent: pct,
		})
	}
	return districts, nil
}
