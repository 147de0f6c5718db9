// Package detection finds candidate UI widgets in a binarized sketch.
//
// Every 4-connected region of ink is one blob. Its bounding box, measured
// from the leftmost to the rightmost and the topmost to the bottommost ink
// pixel, becomes the candidate widget's extent. Diagonal contact does not
// join regions, so strokes that only touch at a corner stay separate.
//
// Regions smaller than the BlobFilter floor (20×20 box, 100 ink pixels by
// default) are dropped as pen specks and text strokes. Blobs are returned in
// row-major order of their first pixel, so output is deterministic for a
// given mask.
//
// The fill uses an explicit stack rather than recursion.
package detection
