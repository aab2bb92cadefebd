// Package portstest provides an in-memory ports.Client for tests.
//
// The fake models a single page: elements are registered under the locator
// that finds them, every call is recorded, and failures, hangs or panics can
// be injected per method name.
package portstest
