// Package output provides utilities for formatting and displaying prediction results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/netojaycee/forecast-prices-app/internal/predictor"
	"github.com/netojaycee/forecast-prices-app/internal/workflow"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// chartWidth is the number of characters in the longest bar.
const chartWidth = 40

// PrettyFormat writes a human-readable card for a single prediction.
func PrettyFormat(w io.Writer, result workflow.Prediction) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Predicted Wheat Price ---\n")
	_, _ = p.Fprintf(w, "₦%.2f\n", result.Price)
	fmt.Fprintf(w, "For %s on %s\n", result.Location, result.Date)
}

// ChartFormat writes a bar chart of batch predictions keyed by location. The
// category axis keeps the order the service returned.
func ChartFormat(w io.Writer, predictions []predictor.LocationPrice) {
	if len(predictions) == 0 {
		fmt.Fprintf(w, "No predictions to chart.\n")
		return
	}

	p := message.NewPrinter(language.English)

	labelWidth := 0
	maxPrice := 0.0
	for _, prediction := range predictions {
		if len(prediction.Location) > labelWidth {
			labelWidth = len(prediction.Location)
		}
		if prediction.Price > maxPrice {
			maxPrice = prediction.Price
		}
	}

	fmt.Fprintf(w, "--- Predicted Wheat Prices by Location ---\n")
	for _, prediction := range predictions {
		bars := 0
		if maxPrice > 0 && prediction.Price > 0 {
			bars = int(prediction.Price / maxPrice * chartWidth)
			if bars < 1 {
				bars = 1
			}
		}
		amount := p.Sprintf("₦%.2f", prediction.Price)
		fmt.Fprintf(w, "%-*s | %s %s\n",
			labelWidth, prediction.Location, strings.Repeat("#", bars), amount)
	}
}

// CsvFormat writes batch predictions in comma-separated value format.
func CsvFormat(w io.Writer, predictions []predictor.LocationPrice) {
	fmt.Fprintf(w, `"location","price"`)
	fmt.Fprintf(w, "\n")
	for _, prediction := range predictions {
		fmt.Fprintf(w, `"%s","%.2f"`, prediction.Location, prediction.Price)
		fmt.Fprintf(w, "\n")
	}
}
