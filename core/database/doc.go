// Package database provides the GORM connection used by the branch catalog
// store.
//
// MySQL is the production driver; sqlite (including ":memory:") is supported
// for tests and local single-binary use. Connections are pooled and verified
// with a ping before being handed out, so identity-not-found and
// store-unavailable failures surface at startup rather than mid-merge.
package database
