package httpform

import (
	"net/http"

	"github.com/elnormous/contenttype"
)

var (
	htmlMediaType      = contenttype.NewMediaType("text/html")
	jsonMediaType      = contenttype.NewMediaType("application/json")
	formMediaType      = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartMediaType = contenttype.NewMediaType("multipart/form-data")

	// Order matters: HTML wins when the client accepts both equally.
	responseMediaTypes = []contenttype.MediaType{htmlMediaType, jsonMediaType}
)

type bodyKind int

const (
	bodyUnsupported bodyKind = iota
	bodyForm
	bodyMultipart
	bodyJSON
)

// wantsJSON reports whether the client prefers a JSON response over HTML.
func wantsJSON(r *http.Request) bool {
	accepted, _, err := contenttype.GetAcceptableMediaType(r, responseMediaTypes)
	if err != nil {
		return false
	}
	return accepted.Matches(jsonMediaType)
}

// requestBodyKind classifies the submission by Content-Type. A missing header
// is treated as a urlencoded form.
func requestBodyKind(r *http.Request) bodyKind {
	if r.Header.Get("Content-Type") == "" {
		return bodyForm
	}
	ctype, err := contenttype.GetMediaType(r)
	if err != nil {
		return bodyUnsupported
	}
	switch {
	case ctype.Matches(formMediaType):
		return bodyForm
	case ctype.Matches(multipartMediaType):
		return bodyMultipart
	case ctype.Matches(jsonMediaType):
		return bodyJSON
	default:
		return bodyUnsupported
	}
}
