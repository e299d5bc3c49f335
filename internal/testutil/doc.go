// Package testutil contains helper builders and fakes used across tests to
// reduce boilerplate when constructing core model objects (strategies, team
// sessions, surfaces) and asserting behaviors. They are not intended for
// production usage.
package testutil
