// Package translate hands preprocessed GLSL to an external GLSL to WGSL
// compiler and checks what comes back.
//
// The default Translator is NagaCLI. Cached puts the disk cache in front of
// any Translator. Verify runs the pure-Go WGSL front end over the result and
// reflects entry points and resource bindings.
package translate
