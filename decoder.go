package shardtail

import (
	"bytes"
	"errors"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// ErrSkip may be returned by a Decoder to drop a record without logging it.
var ErrSkip = errors.New("skip record")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decoder turns a record payload into a value. A non-nil error means the
// record yields no event; the consumer logs it and moves on.
type Decoder[T any] interface {
	Decode(data []byte) (T, error)
}

type DecoderFunc[T any] func(data []byte) (T, error)

func (f DecoderFunc[T]) Decode(data []byte) (T, error) {
	return f(data)
}

// JSONDecoder decodes JSON payloads into T. Payloads that are empty values
// (null, false, 0 or "") are skipped.
func JSONDecoder[T any]() Decoder[T] {
	return DecoderFunc[T](func(data []byte) (T, error) {
		var v T
		if emptyJSON(bytes.TrimSpace(data)) {
			return v, ErrSkip
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return v, err
		}
		return v, nil
	})
}

func emptyJSON(data []byte) bool {
	switch string(data) {
	case "null", "false", `""`:
		return true
	}
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return false
	}
	f, err := strconv.ParseFloat(string(data), 64)
	return err == nil && f == 0
}
