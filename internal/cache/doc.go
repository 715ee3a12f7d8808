// Package cache keeps translated WGSL on disk, keyed by a hash of the
// preprocessed GLSL, the stage and the translator identity, so unchanged
// shaders skip the external compiler on the next run.
package cache
