package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name  string
	Count int
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	key := DeriveKey("test-secret")
	var buf bytes.Buffer

	in := samplePayload{Name: "task-a", Count: 42}
	require.NoError(t, Encode(in, &buf, key))

	var out samplePayload
	require.NoError(t, Decode(&buf, key, &out))
	assert.Equal(t, in, out)
	assert.Zero(t, buf.Len())
}

func TestDecode_NotEnoughData_LeavesBufferUntouched(t *testing.T) {
	key := DeriveKey("test-secret")
	var buf bytes.Buffer
	require.NoError(t, Encode(samplePayload{Name: "x"}, &buf, key))

	partial := bytes.NewBuffer(buf.Bytes()[:HeaderLen-1])
	var out samplePayload
	err := Decode(partial, key, &out)

	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.Equal(t, HeaderLen-1, partial.Len())
}

func TestDecode_BadMagic_IsInvalidData(t *testing.T) {
	key := DeriveKey("test-secret")
	var buf bytes.Buffer
	require.NoError(t, Encode(samplePayload{Name: "x"}, &buf, key))

	corrupt := buf.Bytes()
	corrupt[0] ^= 0xFF
	in := bytes.NewBuffer(corrupt)

	var out samplePayload
	assert.ErrorIs(t, Decode(in, key, &out), ErrInvalidData)
}

func TestDecode_WrongKey_IsInvalidData(t *testing.T) {
	key := DeriveKey("right-secret")
	wrongKey := DeriveKey("wrong-secret")
	var buf bytes.Buffer
	require.NoError(t, Encode(samplePayload{Name: "x"}, &buf, key))

	var out samplePayload
	assert.ErrorIs(t, Decode(&buf, wrongKey, &out), ErrInvalidData)
}

func TestDecode_TruncatedCiphertext_ReportsNotEnoughData(t *testing.T) {
	key := DeriveKey("test-secret")
	var buf bytes.Buffer
	require.NoError(t, Encode(samplePayload{Name: "longer payload value"}, &buf, key))

	truncated := bytes.NewBuffer(buf.Bytes()[:len(buf.Bytes())-1])
	var out samplePayload
	assert.ErrorIs(t, Decode(truncated, key, &out), ErrNotEnoughData)
}

func TestEncode_MultipleFrames_DecodeSequentially(t *testing.T) {
	key := DeriveKey("test-secret")
	var buf bytes.Buffer

	first := samplePayload{Name: "one", Count: 1}
	second := samplePayload{Name: "two", Count: 2}
	require.NoError(t, Encode(first, &buf, key))
	require.NoError(t, Encode(second, &buf, key))

	var gotFirst, gotSecond samplePayload
	require.NoError(t, Decode(&buf, key, &gotFirst))
	require.NoError(t, Decode(&buf, key, &gotSecond))

	assert.Equal(t, first, gotFirst)
	assert.Equal(t, second, gotSecond)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	assert.Equal(t, DeriveKey("same"), DeriveKey("same"))
	assert.NotEqual(t, DeriveKey("a"), DeriveKey("b"))
}
