// Package testing provides test utilities for the Bindery library.
//
// This package offers in-memory fakes for the external collaborators
// (Compressor, DocumentAssembler, CloudStore, Persistence) with call
// counting and failure injection, plus a logger that writes to testing.T.
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Example usage:
//
//	import (
//	    "testing"
//	    binderytest "github.com/bjud-in-oss/bindery/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    cloud := binderytest.NewFakeCloudStore()
//	    cloud.FailNext(2) // first two uploads fail
//	    // ...
//	}
package testing
