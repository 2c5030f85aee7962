// Package morph synthesizes intermediate frames between two logical terminal
// buffers. Given frames A and B it classifies every cell (stable, mutating,
// displaced, orphan) via minimum-cost bipartite assignment, freezes the result
// into a Plan, and renders any intermediate frame as a pure function of the
// Plan and a normalized time t.
//
// The Morpher type wraps a cell backend so an application draws logical frames
// normally and the terminal shows them blending into each other.
package morph
