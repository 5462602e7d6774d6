// Package spectrum computes windowed magnitude spectra of rendered graph
// output and locates their peaks.
package spectrum
