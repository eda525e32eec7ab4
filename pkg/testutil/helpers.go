// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/netojaycee/forecast-prices-app/internal/predictor"
)

// FindPrediction finds a prediction by location in the results slice.
// Returns a pointer to the entry if found, nil otherwise.
func FindPrediction(predictions []predictor.LocationPrice, location string) *predictor.LocationPrice {
	for i := range predictions {
		if predictions[i].Location == location {
			return &predictions[i]
		}
	}
	return nil
}

// FixedClock returns a clock function pinned to the given instant.
func FixedClock(instant time.Time) func() time.Time {
	return func() time.Time {
		return instant
	}
}
