// Package imaging prepares sketch images for shape and text extraction.
//
// Every image is brought onto a canonical canvas before anything else looks
// at it: transparent areas are flattened onto white and the image is scaled
// to a fixed width (1000 pixels by default) with the aspect ratio kept, so
// element coordinates are comparable across inputs of any resolution.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. They refer to the
// normalized canvas, not the source image.
//
// # Binarization
//
// Pixels are reduced to ITU-R BT.601 luminance (0.299 R + 0.587 G +
// 0.114 B, rounded) and thresholded: a pixel is ink when its luminance is
// strictly below the threshold (180 by default). Pencil and pen strokes are
// ink; paper and light shading are background.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. PixelBuffer, GrayscaleMap
// and BinaryMask values are never mutated after construction, so they may be
// shared between goroutines.
//
// # Performance Considerations
//
// Decoded source images stay in the ImageCache until Evict or Clear is
// called. Long-running servers that see many distinct sketches should evict
// them once processed.
package imaging
