// Package pipeline defines the progress events and stage timings shared by
// the batch driver and the terminal UI.
package pipeline
