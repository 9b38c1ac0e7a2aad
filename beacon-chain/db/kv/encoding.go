package kv

import (
	"encoding/binary"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

var errNilValue = errors.New("cannot encode nil value")

func decode(data []byte, dst interface{}) error {
	data, err := snappy.Decode(nil, data)
	if err != nil {
		return errors.Wrap(err, "could not snappy decode value")
	}
	return cbor.Unmarshal(data, dst)
}

func encode(v interface{}) ([]byte, error) {
	if v == nil || (reflect.ValueOf(v).Kind() == reflect.Ptr && reflect.ValueOf(v).IsNil()) {
		return nil, errNilValue
	}
	enc, err := cbor.Marshal(v)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, enc), nil
}

func slotToKey(slot primitives.Slot) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(slot))
	return b
}

func keyToSlot(b []byte) primitives.Slot {
	return primitives.Slot(binary.BigEndian.Uint64(b[:8]))
}
