// Package micromap computes the layout and linking tables for linked
// micromap displays.
//
// A linked micromap pairs small choropleth maps with ranked dot-strip panels:
// regions are partitioned into ordered groups (display rows), each group gets
// one map panel, one label panel, and one dot panel per plotted variable, and
// all panels index the same rows. This package computes everything those
// panels need (group sizes, row order, coordinate extents, the bidirectional
// row to polygon-part index, and per-row colors) but draws nothing itself. Rendering, widget trees, and mouse events belong
// to the consumer.
//
// The entry point is [New], which runs the full build pipeline
// (allocate → resolve → order → layout → link → color) and returns a
// [Display]. [Display.Reconfigure] re-runs the same pipeline atomically with
// a patched configuration; a failed rebuild leaves the previous display
// state intact.
package micromap
