// Package internalcheck holds static policy tests over the library sources.
//
// The tests load the pwharden packages with golang.org/x/tools/go/packages
// and fail on constructs that could leak secrets: non-constant-time byte
// comparisons, hex formatting in format strings, and evaluator code that can
// reach client-side state.
package internalcheck
