// Package ocr turns text-recognition output into positioned text fragments.
//
// Recognition engines are modelled by the Engine capability interface so
// that alternate engines can be substituted. The bundled engine wraps
// Tesseract via gosseract/v2 and is compiled only with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag, NewTesseract returns ErrOCRNotEnabled and callers degrade
// to shape-only extraction.
//
// # Prerequisites
//
// With the "ocr" tag, Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Fallback Chain
//
// Engines report results inconsistently: sometimes line boxes, sometimes only
// word boxes, sometimes only a flat string. Fragments tries, in order:
//
//  1. Lines: one fragment per non-blank line box
//  2. Words: one fragment per non-blank word box
//  3. Raw text: one fragment per non-blank line of the flat string, placed on
//     a fixed grid (x=100, y=100+60*i, width=15*chars, height=30 by default)
//
// The raw tier trades positional accuracy for always producing something.
//
// # Engine Lifecycle
//
// Starting an engine is expensive and holds native resources. ExtractText
// starts one engine per call, performs exactly one recognition and closes
// the engine on every return path. A context that is already cancelled
// prevents the engine from being started at all.
package ocr
