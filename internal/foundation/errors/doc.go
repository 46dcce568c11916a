// Package errors provides the classified error type used across blogbuilder.
//
// Errors carry a category (what kind of failure), a severity (how far it
// propagates) and free-form context. Build code wraps I/O failures with
// category filesystem so the engine can record them per document and keep
// going; configuration failures are fatal and end the process.
package errors
