package sign

import (
	"encoding/base64"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/bluntblade/kodo-go/jsonv"
)

// UploadPolicy is the set of constraints an upload token grants to
// whoever holds it: a required scope and deadline, plus the optional
// keys spec.md §6 lists (insertOnly, endUser, returnUrl, returnBody,
// callbackUrl, callbackBody, callbackBodyType, saveKey, fsizeLimit,
// detectMime, mimeLimit, persistentOps, persistentNotifyUrl,
// persistentPipeline). Build one with NewUploadPolicy and zero or more
// PolicyOptions, then Encode it into the base64-url string an
// UploadToken signs.
type UploadPolicy struct {
	scope    string
	deadline int64
	extra    *jsonv.Object
}

// PolicyOption sets one optional policy field.
type PolicyOption func(*UploadPolicy)

// NewUploadPolicy returns a policy scoped to scope ("bucket" or
// "bucket:key") that expires at deadline. scope is NFC-normalized first
// so a key entered under a different Unicode normalization form still
// signs identically to one already stored under its canonical form.
func NewUploadPolicy(scope string, deadline time.Time) *UploadPolicy {
	return &UploadPolicy{
		scope:    norm.NFC.String(scope),
		deadline: deadline.Unix(),
		extra:    jsonv.NewObject(8),
	}
}

// Scope returns the policy's scope string ("bucket" or "bucket:key"),
// letting a caller recover the bucket a token authorizes uploads into
// without re-parsing the signed token, the same split
// qn_easy_select_putting_entry performs on qn_json_obj_get_string(pp,
// "scope", ...).
func (p *UploadPolicy) Scope() string { return p.scope }

// With applies opts to p in order and returns p for chaining.
func (p *UploadPolicy) With(opts ...PolicyOption) *UploadPolicy {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func setString(key, value string) PolicyOption {
	return func(p *UploadPolicy) {
		_ = p.extra.Set(key, jsonv.StringFromGo(value))
	}
}

func setInt(key string, value int64) PolicyOption {
	return func(p *UploadPolicy) {
		_ = p.extra.Set(key, jsonv.Int(value))
	}
}

func setBool(key string, value bool) PolicyOption {
	return func(p *UploadPolicy) {
		_ = p.extra.Set(key, jsonv.Bool(value))
	}
}

// InsertOnly forbids the upload from overwriting an existing key.
func InsertOnly() PolicyOption { return setBool("insertOnly", true) }

// EndUser records an opaque end-user identifier in upload logs.
func EndUser(id string) PolicyOption { return setString("endUser", id) }

// ReturnURL redirects the uploading browser here on success instead of
// returning the response body directly.
func ReturnURL(url string) PolicyOption { return setString("returnUrl", url) }

// ReturnBody overrides the JSON object returned on a successful upload
// when ReturnURL is not set; it may reference magic variables such as
// $(key) and $(etag).
func ReturnBody(template string) PolicyOption { return setString("returnBody", template) }

// CallbackURL has the server push the upload result to url after the
// object is stored.
func CallbackURL(url string) PolicyOption { return setString("callbackUrl", url) }

// CallbackBody is the request body template sent to CallbackURL.
func CallbackBody(template string) PolicyOption { return setString("callbackBody", template) }

// CallbackBodyType sets the Content-Type of the CallbackBody request,
// e.g. "application/json".
func CallbackBodyType(contentType string) PolicyOption {
	return setString("callbackBodyType", contentType)
}

// SaveKey overrides the object key the uploaded file is stored under,
// computed server-side from a template when the client omits the key
// form field.
func SaveKey(template string) PolicyOption { return setString("saveKey", template) }

// FsizeLimit caps the uploaded file size in bytes; 0 or unset means
// unlimited.
func FsizeLimit(bytes int64) PolicyOption { return setInt("fsizeLimit", bytes) }

// DetectMime has the server sniff and overwrite the stored MIME type
// from the file's content instead of trusting the client-supplied one.
func DetectMime() PolicyOption { return setBool("detectMime", true) }

// MimeLimit restricts the accepted MIME types to a semicolon-separated
// allow list (a leading "!" negates it into a deny list).
func MimeLimit(pattern string) PolicyOption { return setString("mimeLimit", pattern) }

// PersistentOps queues a post-processing pipeline (fop string, e.g. a
// transcode or thumbnail operation) to run after the upload completes.
func PersistentOps(fops string) PolicyOption { return setString("persistentOps", fops) }

// PersistentNotifyURL receives the PersistentOps result once it
// finishes.
func PersistentNotifyURL(url string) PolicyOption { return setString("persistentNotifyUrl", url) }

// PersistentPipeline names the private processing queue PersistentOps
// runs on, instead of the shared public one.
func PersistentPipeline(name string) PolicyOption { return setString("persistentPipeline", name) }

// Encode serializes the policy to compact JSON and returns its
// base64-url (no padding) encoding, the form UploadToken expects.
func (p *UploadPolicy) Encode() (string, error) {
	obj := p.extra.Clone()
	if err := obj.Set("scope", jsonv.StringFromGo(p.scope)); err != nil {
		return "", err
	}
	if err := obj.Set("deadline", jsonv.Int(p.deadline)); err != nil {
		return "", err
	}

	text, err := jsonv.FormatToString(jsonv.FromObject(obj), jsonv.FormatOptions{})
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(text)), nil
}

// SignedToken encodes p and signs it with creds, returning the full
// "<access_key>:<signature>:<encoded_policy>" upload token.
func (p *UploadPolicy) SignedToken(creds Credentials) (string, error) {
	encoded, err := p.Encode()
	if err != nil {
		return "", err
	}

	return creds.UploadToken(encoded), nil
}
