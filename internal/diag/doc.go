// Package diag defines the diagnostic model shared by the preprocessor,
// the translator glue and the batch driver.
//
// Diagnostics never abort preprocessing: the preprocessor writes an inline
// comment into the shader text and, in parallel, reports a Diagnostic so the
// CLI can summarise what happened without grepping the output.
//
// A Diagnostic points either at a span inside a source.FileSet (imports,
// directives) or, when no span exists (translator failures, skipped files),
// at a plain Path. Rendering lives in internal/diagfmt.
package diag
