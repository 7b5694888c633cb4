// Package source provides built-in item source implementations.
//
// Item sources supply the ordered document sequence for a packing session.
// The package includes:
//
//   - Static: Fixed list of items, updatable at runtime
//   - Dir: Items discovered by scanning a directory, fingerprinted by content
//
// Custom sources can be implemented by satisfying the types.ItemSource interface.
package source
