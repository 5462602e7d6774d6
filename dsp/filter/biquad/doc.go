// Package biquad provides the second-order IIR section used by the
// equalizer processors.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Coefficient design lives
// in dsp/filter/design.
package biquad
