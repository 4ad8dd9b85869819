package httpapi

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status tells which variant a Response is.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFail    Status = "FAIL"
)

// ErrMalformedEnvelope is returned when decoding an envelope whose status does not match its content.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// Response is the envelope of every handler outcome. A SUCCESS response carries a body and no error,
// a FAIL response carries an error and no body. The zero value is not a valid Response.
type Response[T any] struct {
	status Status
	body   T
	err    string
}

// Success creates a SUCCESS envelope around body.
func Success[T any](body T) Response[T] {
	return Response[T]{status: StatusSuccess, body: body}
}

// Fail creates a FAIL envelope carrying message.
func Fail[T any](message string) Response[T] {
	return Response[T]{status: StatusFail, err: message}
}

// Status returns the variant of the envelope.
func (r Response[T]) Status() Status {
	return r.status
}

// Body returns the body of a SUCCESS envelope. ok is false for FAIL envelopes.
func (r Response[T]) Body() (body T, ok bool) {
	return r.body, r.status == StatusSuccess
}

// ErrorMessage returns the message of a FAIL envelope. ok is false for SUCCESS envelopes.
func (r Response[T]) ErrorMessage() (message string, ok bool) {
	return r.err, r.status == StatusFail
}

type successWire[T any] struct {
	Status Status `json:"status"`
	Body   T      `json:"body"`
}

type failWire struct {
	Status Status `json:"status"`
	Error  string `json:"error"`
}

// MarshalJSON writes only the field belonging to the variant.
func (r Response[T]) MarshalJSON() ([]byte, error) {
	switch r.status {
	case StatusSuccess:
		return json.Marshal(successWire[T]{Status: r.status, Body: r.body})
	case StatusFail:
		return json.Marshal(failWire{Status: r.status, Error: r.err})
	default:
		return nil, fmt.Errorf("%w: status %q", ErrMalformedEnvelope, r.status)
	}
}

type envelopeWire[T any] struct {
	Status Status  `json:"status"`
	Body   *T      `json:"body"`
	Error  *string `json:"error"`
}

// UnmarshalJSON reads an envelope and rejects one that carries both or neither of body and error.
// A null body or error counts as absent.
func (r *Response[T]) UnmarshalJSON(data []byte) error {
	var wire envelopeWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.Status == StatusSuccess && wire.Body != nil && wire.Error == nil:
		*r = Success(*wire.Body)
	case wire.Status == StatusFail && wire.Error != nil && wire.Body == nil:
		*r = Fail[T](*wire.Error)
	default:
		return fmt.Errorf("%w: status %q with body=%t error=%t", ErrMalformedEnvelope, wire.Status, wire.Body != nil, wire.Error != nil)
	}

	return nil
}
