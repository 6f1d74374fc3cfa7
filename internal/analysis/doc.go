// Package analysis reduces recorded per-frame series: power spectra for
// sloshing frequencies and settling times for energy decay.
package analysis
