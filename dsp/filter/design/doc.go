// Package design provides the RBJ high-shelf coefficient designer used by
// the equalizer handle.
package design
