// Package scene reads and writes the whitespace-token scene language used to
// initialize or replace a [fluid.Simulation].
//
// A scene is a flat stream of commands:
//
//	TIME t
//	SMOOTHING_DISTANCE h
//	GRAVITY g
//	SCENARIO
//	NEW_P POS x y V x y M m D d P p F x y RGB r g b END_P
//	RECT_FILL x y w h seed   (alias DAMBREAK)
//
// Unknown top-level tokens are skipped. Inside a NEW_P block every token must
// be a known field or END_P. The whole text is parsed before the simulation
// is touched, so a malformed scene never leaves partial state behind.
package scene
