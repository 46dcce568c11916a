// Package state persists incremental build state: the fingerprint of every
// generated file and a short history of builds. Pages whose fingerprint is
// unchanged since the last build are not rewritten.
package state
