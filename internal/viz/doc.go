// Package viz provides a terminal view of a running fluid simulation.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulation with stats and parameter tuning
//   - [App]: preset picker that launches a [Model]
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reload the scene
//	Tab   - Select parameter
//	Up/K  - Increase selected parameter (+5%)
//	Down/J- Decrease selected parameter (-5%)
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
