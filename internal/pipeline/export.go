package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"icp-hunter/internal/domain"
)

var csvHeader = []string{"Username", "Name", "Bio", "Followers", "Engagement", "Hunt Score", "Category", "Country"}

// ExportFileName is the download name for a hunt's CSV.
func ExportFileName(handle string, tier domain.TierID) string {
	return fmt.Sprintf("hunt-results-%s-%s.csv", handle, tier)
}

// WriteCSV writes profiles with a fixed header row. Commas in the bio
// become semicolons so naive comma splitting still works.
func WriteCSV(w io.Writer, profiles []domain.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range profiles {
		row := []string{
			p.Username,
			p.Name,
			strings.ReplaceAll(p.Bio, ",", ";"),
			strconv.Itoa(p.Followers),
			p.EngagementLabel(),
			strconv.Itoa(p.HuntScore),
			p.Category.Name,
			p.Country.Code,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
