// Package tlsroots builds the trusted root set for outgoing TLS calls.
//
// The completion endpoint may sit behind a proxy or gateway signed by a
// private CA. Extra roots are read from PEM files or directories and
// added on top of the system pool.
package tlsroots
