// Package preprocess rewrites Minecraft-style GLSL so that a strict
// GLSL front end (naga) accepts it.
//
// A Preprocessor runs five textual passes over a shader:
//
//  1. `#version N` directives are removed.
//  2. `#moj_import <minecraft:NAME>` directives are replaced by the expanded
//     contents of NAME under the include root. Each file is expanded at most
//     once per top-level Process call.
//  3. `precision Q T;` declarations are removed.
//  4. `layout(std140) uniform NAME` blocks get an explicit `binding=N`.
//  5. `uniform sampler2D NAME;` declarations become a marker comment.
//
// Imported files are normalised before splicing (BOM dropped, CRLF turned
// into LF, Unicode NFC), so their bytes may differ from the file on disk.
//
// Passes 1–3 run recursively on imported files; passes 4–5 run once on the
// fully expanded text, so binding indices follow the textual order of the
// final output.
//
// Nothing in this package returns an error. Missing, duplicate, unknown or
// unreadable imports turn into inline comments (and diagnostics when a
// Reporter is configured); callers decide whether those are fatal.
//
// A Preprocessor is not safe for concurrent use. Its binding counter lives as
// long as the instance: reuse one instance to give a whole shader program a
// shared binding namespace, or create one per file for independent numbering.
package preprocess
