// Package verification detects anti-spam challenges embedded in successful
// API responses and tells the user how to answer them.
package verification

import (
	"github.com/tidwall/gjson"
)

// lookupPaths lists where a challenge object may live, in priority order.
var lookupPaths = []string{
	"verification",
	"comment.verification",
	"post.verification",
}

// Challenge is the server-issued puzzle that gates a pending action.
// Missing fields are empty strings.
type Challenge struct {
	Instructions   string
	Text           string
	Code           string
	VerifyEndpoint string
}

// Status is the outcome of [Detect].
type Status int

const (
	// None means the action completed without a challenge.
	None Status = iota
	// Found means a challenge object was located.
	Found
	// DetailsMissing means the server flagged verification_required but
	// sent no challenge object.
	DetailsMissing
)

// Pending reports whether the action still awaits verification.
func (s Status) Pending() bool { return s != None }

// Detect searches v for a verification challenge. The first object-valued
// match in lookupPaths wins.
func Detect(v gjson.Result) (Challenge, Status) {
	for _, path := range lookupPaths {
		obj := v.Get(path)
		if !obj.IsObject() {
			continue
		}
		return Challenge{
			Instructions:   str(obj, "instructions"),
			Text:           str(obj, "challenge_text", "challenge"),
			Code:           str(obj, "verification_code", "code"),
			VerifyEndpoint: str(obj, "verify_endpoint"),
		}, Found
	}
	if v.Get("verification_required").Type == gjson.True {
		return Challenge{}, DetailsMissing
	}
	return Challenge{}, None
}

// str returns the first string-typed field among keys, or "".
func str(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		if r := obj.Get(k); r.Type == gjson.String {
			return r.Str
		}
	}
	return ""
}
