package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/netojaycee/forecast-prices-app/internal/predictor"
	"github.com/netojaycee/forecast-prices-app/internal/workflow"
	"github.com/netojaycee/forecast-prices-app/pkg/civildate"
)

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, workflow.Prediction{
		Price:    1245.5,
		Location: "Lagos",
		Date:     civildate.MustParse("2026-03-20"),
	})

	got := buf.String()
	if !strings.Contains(got, "₦1,245.50") {
		t.Errorf("PrettyFormat() output missing grouped amount:\n%s", got)
	}
	if !strings.Contains(got, "For Lagos on 2026-03-20") {
		t.Errorf("PrettyFormat() output missing context line:\n%s", got)
	}
}

func TestChartFormatPreservesOrder(t *testing.T) {
	predictions := []predictor.LocationPrice{
		{Location: "Lagos", Price: 210},
		{Location: "Abuja", Price: 198},
		{Location: "Kano", Price: 105},
	}

	var buf bytes.Buffer
	ChartFormat(&buf, predictions)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// Header plus one row per prediction, in service order.
	if len(lines) != len(predictions)+1 {
		t.Fatalf("ChartFormat() produced %d lines, expected %d", len(lines), len(predictions)+1)
	}
	for i, prediction := range predictions {
		if !strings.HasPrefix(lines[i+1], prediction.Location) {
			t.Errorf("line %d = %q, expected row for %s", i+1, lines[i+1], prediction.Location)
		}
	}

	// The largest price owns the longest bar.
	lagos := strings.Count(lines[1], "#")
	kano := strings.Count(lines[3], "#")
	if lagos <= kano {
		t.Errorf("bar lengths lagos=%d kano=%d, expected lagos longer", lagos, kano)
	}
}

func TestChartFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	ChartFormat(&buf, nil)
	if !strings.Contains(buf.String(), "No predictions") {
		t.Errorf("ChartFormat() empty output = %q", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, []predictor.LocationPrice{
		{Location: "Lagos", Price: 210},
		{Location: "Abuja", Price: 198},
	})

	expected := "\"location\",\"price\"\n\"Lagos\",\"210.00\"\n\"Abuja\",\"198.00\"\n"
	if buf.String() != expected {
		t.Errorf("CsvFormat() = %q, expected %q", buf.String(), expected)
	}
}
