// Package kodoerr defines the closed error taxonomy shared by every layer
// of the SDK: a dense integer-coded Kind plus a parallel message table,
// the Go-native reading of a flat C enum + lookup table. It is an ordinary
// utility, not one of the four core subsystems.
package kodoerr

import "fmt"

// Kind is a stable, dense error code. Values are grouped by family so a
// caller or log line can reason about the numeric band without decoding
// the name: 1000s generic, 2000s JSON, 3000s HTTP, 11000s file,
// 21000s storage, 22000s content-hash ("qetag").
type Kind uint32

const (
	Succeed Kind = 0

	OutOfMemory        Kind = 1001
	TryAgain           Kind = 1002
	InvalidArgument    Kind = 1003
	OverflowUpperBound Kind = 1004
	OverflowLowerBound Kind = 1005
	BadUTF8Sequence    Kind = 1006
	OutOfBuffer        Kind = 1007
	OutOfCapacity      Kind = 1008
	NoSuchEntry        Kind = 1009

	JSONBadTextInput            Kind = 2001
	JSONTooManyParsingLevels    Kind = 2002
	JSONNeedMoreTextInput       Kind = 2003
	JSONModifyingImmutableObj   Kind = 2004
	JSONModifyingImmutableArr   Kind = 2005
	JSONNotThisType             Kind = 2006
	JSONOutOfIndex              Kind = 2007
	// JSONTextTooLong has no counterpart in the original C registry (its
	// tokenizer treats TEXT_TOO_LONG as a local, unrecoverable scanner
	// outcome rather than a registered error code); it is added here so
	// the condition is reportable through the same taxonomy as every
	// other failure.
	JSONTextTooLong Kind = 2008

	HTTPInvalidHeaderSyntax       Kind = 3001
	HTTPAddingStringFieldFailed   Kind = 3002
	HTTPAddingFileFieldFailed     Kind = 3003
	HTTPAddingBufferFieldFailed   Kind = 3004
	HTTPMismatchingFileSize       Kind = 3005
	HTTPDNSFailed                 Kind = 3006
	HTTPTransmissionFailed        Kind = 3007
	// HTTPUnexpectedStatus has no counterpart in the original C registry
	// (qn_http_conn_get's caller inspects the status code directly); added
	// so a non-2xx discovery/API response has a reportable code of its own
	// instead of being folded into HTTPTransmissionFailed.
	HTTPUnexpectedStatus Kind = 3008

	FileOpeningFailed      Kind = 11001
	FileDuplicatingFailed  Kind = 11002
	FileReadingFailed      Kind = 11003
	FileSeekingFailed      Kind = 11004
	FileStatingFailed      Kind = 11101

	StorLackOfAuth              Kind = 21001
	StorInvalidResumableSession Kind = 21002
	StorInvalidListResult       Kind = 21003
	StorPuttingAbortedByFilter  Kind = 21004
	StorInvalidChunkPutResult   Kind = 21006
	StorAPIReturnNoValue        Kind = 21007

	ETagInitializingFailed Kind = 22001
	ETagUpdatingFailed     Kind = 22002
	ETagMakingDigestFailed Kind = 22005
)

var messages = map[Kind]string{
	Succeed: "operation succeeded",

	OutOfMemory:        "out of memory",
	TryAgain:           "operation would block, try again",
	InvalidArgument:    "invalid argument",
	OverflowUpperBound: "integer value overflows the upper bound",
	OverflowLowerBound: "integer value overflows the lower bound",
	BadUTF8Sequence:    "the string contains a bad UTF-8 sequence",
	OutOfBuffer:        "out of buffer",
	OutOfCapacity:      "out of capacity",
	NoSuchEntry:        "no such entry for the specified key or name",

	JSONBadTextInput:          "bad JSON text input",
	JSONTooManyParsingLevels:  "too many nesting levels while parsing JSON",
	JSONNeedMoreTextInput:     "need more JSON text input to continue parsing",
	JSONModifyingImmutableObj: "modifying an immutable JSON object",
	JSONModifyingImmutableArr: "modifying an immutable JSON array",
	JSONNotThisType:           "value is not of the requested JSON type",
	JSONOutOfIndex:            "index out of range for JSON array",
	JSONTextTooLong:           "JSON text token too long",

	HTTPInvalidHeaderSyntax:     "invalid HTTP header syntax",
	HTTPAddingStringFieldFailed: "adding string field to HTTP form failed",
	HTTPAddingFileFieldFailed:   "adding file field to HTTP form failed",
	HTTPAddingBufferFieldFailed: "adding buffer field to HTTP form failed",
	HTTPMismatchingFileSize:     "response content length does not match file size",
	HTTPDNSFailed:               "DNS resolution failed",
	HTTPTransmissionFailed:      "sending or receiving data failed",
	HTTPUnexpectedStatus:        "unexpected HTTP response status",

	FileOpeningFailed:     "opening file failed",
	FileDuplicatingFailed: "duplicating file descriptor failed",
	FileReadingFailed:     "reading file failed",
	FileSeekingFailed:     "seeking file failed",
	FileStatingFailed:     "stating file information failed",

	StorLackOfAuth:              "lack of authorization information like token or upload policy",
	StorInvalidResumableSession: "invalid resumable upload session information",
	StorInvalidListResult:       "invalid list result",
	StorPuttingAbortedByFilter:  "upload aborted by a reader filter",
	StorInvalidChunkPutResult:   "invalid chunk-put result",
	StorAPIReturnNoValue:        "API call returned no value",

	ETagInitializingFailed: "initializing content-hash context failed",
	ETagUpdatingFailed:     "updating content-hash context failed",
	ETagMakingDigestFailed: "making content-hash digest failed",
}

// String returns the Kind's stable human-readable message, or a generic
// fallback for an unregistered code (never panics — this is a lookup
// table, not an assertion).
func (k Kind) String() string {
	if msg, ok := messages[k]; ok {
		return msg
	}

	return fmt.Sprintf("unknown error kind %d", uint32(k))
}
