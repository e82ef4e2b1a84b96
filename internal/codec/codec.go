// Package codec implements the framed, compressed, authenticated-encrypted
// message stream shared by the agent and controller over TCP.
//
// Frame layout:
//
//	 0      4      8           20                      20+len
//	 +------+------+-----------+-----------------------+
//	 | MAGIC|  LEN |   NONCE   |       CIPHERTEXT       |
//	 | 4 B  | 4 B  |   12 B    |          LEN B         |
//	 +------+------+-----------+-----------------------+
//
// CIPHERTEXT is AES-256-GCM of the zlib-compressed gob encoding of the
// payload, using a key derived as SHA-256(preSharedSecret).
package codec

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"io"
)

// Magic is the four-byte frame preamble.
var Magic = [4]byte{0x23, 0x33, 0x23, 0x33}

// HeaderLen is the fixed length of MAGIC + LEN + NONCE.
const HeaderLen = 4 + 4 + 12

// ErrNotEnoughData indicates the buffer does not yet hold a complete frame.
// The buffer is left untouched so the caller can append more bytes and retry.
var ErrNotEnoughData = errors.New("codec: not enough data")

// ErrInvalidData indicates a frame failed to decode: bad magic, AEAD
// authentication failure, decompression failure, or deserialisation failure.
var ErrInvalidData = errors.New("codec: invalid data")

// Key is the 32-byte AES-256-GCM key derived from the pre-shared secret.
type Key [32]byte

// DeriveKey hashes a pre-shared secret string into an AES-256-GCM key.
func DeriveKey(presharedSecret string) Key {
	return Key(sha256.Sum256([]byte(presharedSecret)))
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encode serialises v, compresses, encrypts, and appends exactly one frame
// to buf. It never emits a partial frame: any failure is returned without
// writing to buf.
func Encode(v any, buf *bytes.Buffer, key Key) error {
	var plain bytes.Buffer
	if err := gob.NewEncoder(&plain).Encode(v); err != nil {
		return err
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(plain.Bytes()); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	ciphertext := gcm.Seal(nil, nonce, compressed.Bytes(), nil)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(ciphertext)))

	buf.Write(Magic[:])
	buf.Write(lenBuf[:])
	buf.Write(nonce)
	buf.Write(ciphertext)
	return nil
}

// Decode attempts to consume exactly one frame from the front of buf into v.
// If fewer than HeaderLen+LEN bytes are present, it returns ErrNotEnoughData
// without consuming anything. On success, the consumed bytes are removed
// from buf (any trailing bytes remain for the next call).
func Decode(buf *bytes.Buffer, key Key, v any) error {
	data := buf.Bytes()
	if len(data) < HeaderLen {
		return ErrNotEnoughData
	}
	if !bytes.Equal(data[0:4], Magic[:]) {
		return ErrInvalidData
	}
	length := binary.BigEndian.Uint32(data[4:8])
	total := HeaderLen + int(length)
	if len(data) < total {
		return ErrNotEnoughData
	}

	nonce := make([]byte, 12)
	copy(nonce, data[8:20])
	ciphertext := data[20:total]

	gcm, err := newGCM(key)
	if err != nil {
		return ErrInvalidData
	}
	compressed, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrInvalidData
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return ErrInvalidData
	}
	var plain bytes.Buffer
	if _, err := io.Copy(&plain, zr); err != nil {
		return ErrInvalidData
	}
	if err := zr.Close(); err != nil {
		return ErrInvalidData
	}

	if err := gob.NewDecoder(&plain).Decode(v); err != nil {
		return ErrInvalidData
	}

	buf.Next(total)
	return nil
}
