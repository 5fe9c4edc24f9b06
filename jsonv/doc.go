// Package jsonv implements the pull-model streaming JSON value model used
// throughout the SDK: a tagged-variant Value over null/bool/int64/float64/
// byte-string/Object/Array, a restartable tokenizer (each string or
// number token carries its own freshly allocated copy of its text), a
// bounded-depth incremental parser that can consume arbitrary
// chunk boundaries of an input stream, and a symmetric incremental
// formatter that writes into caller-supplied buffers.
//
// Every suspension point (need-more-input, out-of-buffer) is reported as a
// sentinel error from package kodoerr rather than a panic or a blocking
// call: callers retry with more input/a fresh buffer.
package jsonv
