package common

// Decimal-degree precision, in decimal places.
// https://en.wikipedia.org/wiki/Decimal_degrees
//
// 5 decimal places resolves individual trees and houses (~1.1 m at the
// equator), which is why geocode cache keys round coordinates to 5 places:
// anything closer shares an address anyway.

const (
	// GPSPrecision3 is the precision for neighborhood, street
	GPSPrecision3 = 3
	// GPSPrecision4 is the precision for individual street, large buildings
	GPSPrecision4 = 4
	// GPSPrecision5 is the precision for individual trees, houses
	GPSPrecision5 = 5
)
