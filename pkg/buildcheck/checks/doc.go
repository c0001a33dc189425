// Package checks contains the checks that ship with buildcheck.
//
// Every check here uses only the public buildcheck API, the same surface a
// third-party check would use. Catalog returns them ready for
// infrastructure.Manager.AcquireChecks.
package checks
