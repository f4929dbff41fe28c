// Package wgsl declares the Go vocabulary available to shader modules:
// the iteration position, vector types, built-in functions and the special
// forms that read and write the module's buffers.
//
// Declarations carry //wgsl:builtin and //wgsl:form directives that tell the
// compiler how to translate each use. Calling the buffer forms outside of a
// compiled shader panics.
package wgsl

import _ "embed"

// Path is the import path shader modules use for this package.
const Path = "github.com/nikki93/gxwgsl/wgsl"

// Source is the text of the declarations, type-checked by the compiler when
// a module is compiled without go/packages.
//
//go:embed wgsl.go
var Source string
