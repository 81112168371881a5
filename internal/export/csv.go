// Package export renders dashboard data into downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/caselink/analytics-backend-go/internal/models"
)

// suspectHeader is the fixed column order of the suspect export.
var suspectHeader = []string{
	"Name", "Alias", "Threat Level", "Risk Score",
	"Linked Devices", "Linked Cities", "Criminal History",
}

// WriteSuspectsCSV writes one row per suspect. Fields containing commas are
// quote-wrapped by the encoder, so values survive a standard CSV parser
// round-trip unchanged.
func WriteSuspectsCSV(w io.Writer, suspects []models.Suspect) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(suspectHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range suspects {
		devices := make([]string, 0, len(s.LinkedDevices))
		for _, d := range s.LinkedDevices {
			devices = append(devices, d.DeviceName)
		}
		row := []string{
			s.Name,
			s.Alias,
			s.ThreatLevel,
			strconv.FormatFloat(s.TotalScore, 'f', 2, 64),
			strings.Join(devices, "; "),
			strings.Join(s.LinkedCities, "; "),
			s.CriminalHistory,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
