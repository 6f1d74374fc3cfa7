// Package stream broadcasts simulation frames to websocket clients as JSON.
//
// A [Hub] fans each [Message] out to every connected client. Slow clients
// drop frames instead of stalling the simulation. [Run] drives a
// simulation in real time and publishes one message per frame.
package stream
