// Package properties holds property-based acceptance tests for umock's
// call-recording invariants.
package properties
