// Package markup rewrites the invisible formatting markers that WebGraphviz
// passes through into SVG text as tspan styling tags.
//
// A run of one to four &zwj; entities opens a span (sub, super, italic, bold
// by run length) and a single &zwnj; closes the most recently opened one.
// Runs are found with one scan, so a run of four is never read as four runs
// of one.
package markup
