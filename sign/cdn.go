package sign

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// SignDownloadURL returns rawURL with a CDN access-authentication query
// appended, granting access until deadline. It is the Go reading of
// qn_cdn_make_dnurl_with_deadline: MD5 over
// secretKey + percent-encoded-path + 8-hex-digit epoch, with the path
// percent-encoded preserving "/" (net/url's EscapedPath already does
// this, so the manual case-by-case string scanning in the C original —
// splitting on "://", the first "?", and the first "/" to classify the
// URL into one of a dozen shapes — collapses into a single url.Parse
// call here).
func SignDownloadURL(secretKey, rawURL string, deadline time.Time) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", kodoerr.Wrap(kodoerr.InvalidArgument, rawURL, err)
	}

	epoch := fmt.Sprintf("%08x", uint32(deadline.Unix()))
	path := u.EscapedPath()

	sum := md5.Sum([]byte(secretKey + path + epoch))
	signature := hex.EncodeToString(sum[:])

	sep := "?"
	if u.RawQuery != "" {
		sep = "&"
	}

	return rawURL + sep + "sign=" + signature + "&t=" + epoch, nil
}
