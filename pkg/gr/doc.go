// Package gr reads edge-list graphs and writes contraction sequences in the
// plain-text formats used by twin-width solvers.
//
// # Graph Format (.gr)
//
// One record per line:
//
//	c this is a comment
//	p tww 4 3
//	1 2
//	2 3
//	3 4
//
// Lines starting with "c" (comment) or "p" (problem declaration) are skipped.
// Every other line, blank ones included, must start with two unsigned 32-bit
// integers u and v, which declare a black edge u-v; further fields are
// ignored. Vertices exist only once an edge mentions them, so the vertex count
// in the "p" line is not used. Duplicate edges are harmless. A line "u u"
// declares vertex u without adding an edge.
//
// Parsing is all-or-nothing: [Read] returns no graph when any line is
// malformed, and the error carries the INVALID_INPUT code and the line
// number.
//
// # Sequence Format (.tww)
//
//	c tww: 1
//	1 2
//	1 3
//	1 4
//
// The first line holds the width, followed by one "survivor merged" pair per
// contraction in commit order. [Write] produces it and [ReadSequence] parses
// it back, which is what verification uses.
package gr
