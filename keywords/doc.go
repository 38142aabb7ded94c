// Package keywords extracts matchable tokens from the free text of a
// finding.
//
// # Extraction Policy
//
// [Extractor.Extract] accumulates keywords in a fixed order, removing
// duplicates:
//
//  1. Quoted phrases ("..." or “...”), kept verbatim
//  2. Measurements: a number followed by a unit such as min, minutes,
//     hours, mg, ml, µl, °C, C, M, mM, µM, rpm, g or nm
//  3. Standalone integers
//  4. Generic tokens longer than three runes that are not stop words
//
// The order matters to the correlator, which tries keywords in the order
// returned, so specific tokens are tested against a fragment before generic
// ones.
//
//	kws := keywords.Extract(`Incubate at 37°C for 30 minutes in "PBS buffer"`)
//	// ["PBS buffer", "37°c", "30 minutes", "37", "30", "incubate", "minutes", "buffer"]
//
// # Folding
//
// [Fold] applies NFKC normalization and Unicode case folding, so MICRO SIGN
// and GREEK SMALL LETTER MU, or "℃" and "°C", compare equal.
package keywords
