package encoder

import (
	"encoding/binary"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

var _ NetworkEncoding = (*CborSnappyEncoder)(nil)

// MaxGossipSize allowed for gossip messages.
var MaxGossipSize = uint64(10 * 1 << 20) // 10 MiB

// MaxChunkSize allowed for decoding messages.
var MaxChunkSize = uint64(10 * 1 << 20) // 10 MiB

// ProtocolSuffixCborSnappy is the last part of the topic string to identify the encoding protocol.
const ProtocolSuffixCborSnappy = "cbor_snappy"

var (
	errExcessMaxLength = errors.New("provided header exceeds the max gossip size")
	errNilDestination  = errors.New("nil decoding destination")
)

// CborSnappyEncoder encodes messages as CBOR compressed with snappy. Gossip
// payloads use the snappy block format and streams use the framed format.
type CborSnappyEncoder struct{}

// EncodeGossip the proto gossip message to the io.Writer.
func (e CborSnappyEncoder) EncodeGossip(w io.Writer, msg interface{}) (int, error) {
	if msg == nil {
		return 0, nil
	}
	b, err := cbor.Marshal(msg)
	if err != nil {
		return 0, errors.Wrap(err, "could not marshal gossip message")
	}
	if uint64(len(b)) > MaxGossipSize {
		return 0, errors.Errorf("gossip message exceeds max gossip size: %d bytes > %d bytes", len(b), MaxGossipSize)
	}
	b = snappy.Encode(nil /*dst*/, b)
	return w.Write(b)
}

// EncodeWithMaxLength the proto message to the io.Writer. This encoding prefixes the byte slice with a protobuf varint
// to indicate the size of the message. This checks that the encoded message isn't larger than the provided max limit.
func (e CborSnappyEncoder) EncodeWithMaxLength(w io.Writer, msg interface{}) (int, error) {
	if msg == nil {
		return 0, nil
	}
	b, err := cbor.Marshal(msg)
	if err != nil {
		return 0, errors.Wrap(err, "could not marshal message")
	}
	if uint64(len(b)) > MaxChunkSize {
		return 0, errors.Errorf(
			"size of encoded message is %d which is larger than the provided max limit of %d",
			len(b),
			MaxChunkSize,
		)
	}
	header := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(header, uint64(len(b)))
	if _, err := w.Write(header[:n]); err != nil {
		return 0, err
	}
	return writeSnappyBuffer(w, b)
}

// DecodeGossip decodes the bytes to the protobuf gossip message provided.
func (e CborSnappyEncoder) DecodeGossip(b []byte, to interface{}) error {
	if to == nil {
		return errNilDestination
	}
	size, err := snappy.DecodedLen(b)
	if err != nil {
		return err
	}
	if uint64(size) > MaxGossipSize {
		return errors.Errorf("gossip message exceeds max gossip size: %d bytes > %d bytes", size, MaxGossipSize)
	}
	b, err = snappy.Decode(nil /*dst*/, b)
	if err != nil {
		return err
	}
	return cbor.Unmarshal(b, to)
}

// DecodeWithMaxLength the bytes from io.Reader to the message provided.
// This checks that the decoded message isn't larger than the provided max limit.
func (e CborSnappyEncoder) DecodeWithMaxLength(r io.Reader, to interface{}) error {
	if to == nil {
		return errNilDestination
	}
	msgLen, err := readVarint(r)
	if err != nil {
		return err
	}
	if msgLen > MaxChunkSize {
		return errors.Wrapf(errExcessMaxLength, "size of decoded message is %d which is larger than the provided max limit of %d", msgLen, MaxChunkSize)
	}
	sr := newBufferedReader(r)
	defer bufReaderPool.Put(sr)
	buf := make([]byte, msgLen)
	if _, err := io.ReadFull(sr, buf); err != nil {
		return err
	}
	return cbor.Unmarshal(buf, to)
}

// ProtocolSuffix returns the appropriate suffix for protocol IDs.
func (e CborSnappyEncoder) ProtocolSuffix() string {
	return "/" + ProtocolSuffixCborSnappy
}

// Writes a bytes value through a snappy buffered writer.
func writeSnappyBuffer(w io.Writer, b []byte) (int, error) {
	bufWriter := newBufferedWriter(w)
	defer bufWriterPool.Put(bufWriter)
	num, err := bufWriter.Write(b)
	if err != nil {
		// Close buf writer in the event of an error.
		if err := bufWriter.Close(); err != nil {
			return 0, err
		}
		return 0, err
	}
	return num, bufWriter.Close()
}

// Reads a uvarint one byte at a time so that no bytes past the header are consumed from r.
func readVarint(r io.Reader) (uint64, error) {
	var x uint64
	var s uint
	b := make([]byte, 1)
	for i := 0; i < binary.MaxVarintLen64; i++ {
		if _, err := io.ReadFull(r, b); err != nil {
			return 0, err
		}
		if b[0] < 0x80 {
			if i == binary.MaxVarintLen64-1 && b[0] > 1 {
				return 0, errors.New("varint overflows a 64-bit integer")
			}
			return x | uint64(b[0])<<s, nil
		}
		x |= uint64(b[0]&0x7f) << s
		s += 7
	}
	return 0, errors.New("varint overflows a 64-bit integer")
}
