// Package driver runs batch conversions: it walks shader categories,
// preprocesses every file, hands the result to a translate.Translator
// in parallel and writes WGSL (or a commented fallback) plus a binding
// report per category.
package driver
