package wire

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Object gob-encodes v into a RespObject response.
func Object(v any) (Response, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return Response{}, fmt.Errorf("wire: encode object: %w", err)
	}
	return Response{Kind: RespObject, Payload: buf.Bytes()}, nil
}

// Into gob-decodes a RespObject response's payload into dst, which must be a
// pointer. Any other response kind is an error (RespError carries its
// message; RespOk is a kind mismatch).
func Into(r Response, dst any) error {
	switch r.Kind {
	case RespObject:
		return gob.NewDecoder(bytes.NewReader(r.Payload)).Decode(dst)
	case RespError:
		return fmt.Errorf("wire: remote error: %s", r.Message)
	default:
		return fmt.Errorf("wire: unexpected response kind %d", r.Kind)
	}
}
