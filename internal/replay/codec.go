package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Encode writes l as zstd-compressed JSON.
func Encode(w io.Writer, l Log) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("replay: cannot create encoder: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(l); err != nil {
		_ = enc.Close()
		return fmt.Errorf("replay: cannot encode log: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("replay: cannot flush log: %w", err)
	}
	return nil
}

// Decode reads a log written by Encode.
func Decode(r io.Reader) (Log, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Log{}, fmt.Errorf("replay: cannot create decoder: %w", err)
	}
	defer dec.Close()

	var l Log
	if err := json.NewDecoder(dec).Decode(&l); err != nil {
		return Log{}, fmt.Errorf("replay: cannot decode log: %w", err)
	}
	return l, nil
}

// Marshal returns the encoded form of l.
func Marshal(l Log) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a blob produced by Marshal.
func Unmarshal(b []byte) (Log, error) {
	return Decode(bytes.NewReader(b))
}
