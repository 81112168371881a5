package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselink/analytics-backend-go/internal/models"
)

func TestWriteSuspectsCSVRoundTripsCommas(t *testing.T) {
	suspects := []models.Suspect{
		{
			ID:              "E_0412",
			Name:            "Webb, Marcus",
			Alias:           "Alpha",
			ThreatLevel:     "high",
			TotalScore:      0.91,
			CriminalHistory: "burglary, larceny, trespass",
			LinkedCities:    []string{"Washington DC", "Nashville"},
			LinkedDevices: []models.LinkedDevice{
				{DeviceName: "Pixel 8"}, {DeviceName: "Burner, prepaid"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSuspectsCSV(&buf, suspects))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"Name", "Alias", "Threat Level", "Risk Score",
		"Linked Devices", "Linked Cities", "Criminal History",
	}, rows[0])

	row := rows[1]
	assert.Equal(t, "Webb, Marcus", row[0], "embedded comma survives the round trip")
	assert.Equal(t, "0.91", row[3])
	assert.Equal(t, "Pixel 8; Burner, prepaid", row[4])
	assert.Equal(t, "Washington DC; Nashville", row[5])
	assert.Equal(t, "burglary, larceny, trespass", row[6])
}

func TestWriteSuspectsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSuspectsCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
