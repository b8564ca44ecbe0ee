// Package dom provides the tree primitives the hydration engine works on.
//
// The tree is the golang.org/x/net/html node tree, mutated in place. This
// package adds what the html package leaves out: deep cloning, safe
// insert/remove helpers, attribute accessors, fragment parse/render, and an
// event listener table with synthetic dispatch (the tree has no native
// events).
//
// Nothing here knows about markers or bindings; that layering lives in the
// root package.
package dom
