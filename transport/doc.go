// Package transport provides the HTTP plumbing every higher-level client
// in this module sends requests through: a retrying connection, header
// construction helpers, a streaming JSON response reader built on jsonv,
// and a multipart form builder for single-request form uploads.
package transport
