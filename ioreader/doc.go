// Package ioreader provides the chunked, positionable Reader abstraction
// the uploader streams through: a generic interface plus file, file
// section, and filter implementations, modeled on the original SDK's
// qn_io_reader vtable (os/linux_file.c) but expressed as an ordinary Go
// interface instead of a hand-rolled vtable-offset trick.
package ioreader
