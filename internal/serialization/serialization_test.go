package serialization

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFile assembles a file from a literal JSON header and data section.
func rawFile(header string, data []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(header)))
	buf.WriteString(header)
	buf.Write(data)
	return buf.Bytes()
}

func TestWriteReadRoundTrip(t *testing.T) {
	tensors := map[string][]float32{
		"m.w":  {0.1, -0.2, 0.3},
		"v.w":  {1e-8, 2e-8, 3e-8},
		"step": {42},
	}
	meta := map[string]string{"optimizer": "Adam"}

	var buf bytes.Buffer
	require.NoError(t, WriteState(&buf, tensors, meta))

	state, err := ReadState(&buf)
	require.NoError(t, err)
	assert.Equal(t, tensors, state.Tensors)
	assert.Equal(t, "Adam", state.Metadata["optimizer"])
	assert.Len(t, state.Metadata[ChecksumKey], 64)
}

func TestWriteEmptyState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteState(&buf, map[string][]float32{}, nil))

	state, err := ReadState(&buf)
	require.NoError(t, err)
	assert.Empty(t, state.Tensors)
	assert.NotNil(t, state.Metadata)
}

func TestWriteDeterministic(t *testing.T) {
	tensors := map[string][]float32{"b": {2}, "a": {1}, "c": {3, 4}}

	var first, second bytes.Buffer
	require.NoError(t, WriteState(&first, tensors, nil))
	require.NoError(t, WriteState(&second, tensors, nil))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteRejectsInvalidName(t *testing.T) {
	var buf bytes.Buffer
	err := WriteState(&buf, map[string][]float32{"": {1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidTensorName)

	err = WriteState(&buf, map[string][]float32{MetadataKey: {1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidTensorName)
}

func TestReadDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteState(&buf, map[string][]float32{"x": {1, 2, 3}}, nil))

	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	_, err := ReadState(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReadWithoutChecksum(t *testing.T) {
	data := binary.LittleEndian.AppendUint32(nil, 0x3F800000) // 1.0
	file := rawFile(`{"x":{"dtype":"F32","shape":[1],"data_offsets":[0,4]}}`, data)

	state, err := ReadState(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, state.Tensors["x"])
}

func TestReadValidation(t *testing.T) {
	eight := make([]byte, 8)

	tests := []struct {
		name   string
		header string
		data   []byte
		want   error
	}{
		{
			name:   "unsupported dtype",
			header: `{"x":{"dtype":"F16","shape":[2],"data_offsets":[0,4]}}`,
			data:   eight,
			want:   ErrUnsupportedDType,
		},
		{
			name:   "shape mismatch",
			header: `{"x":{"dtype":"F32","shape":[3],"data_offsets":[0,8]}}`,
			data:   eight,
			want:   ErrShapeMismatch,
		},
		{
			name:   "shape overflow",
			header: `{"x":{"dtype":"F32","shape":[4611686018427387904],"data_offsets":[0,0]}}`,
			data:   eight,
			want:   ErrShapeMismatch,
		},
		{
			name:   "shape product overflow",
			header: `{"x":{"dtype":"F32","shape":[4294967296,4294967296],"data_offsets":[0,0]}}`,
			data:   eight,
			want:   ErrShapeMismatch,
		},
		{
			name:   "negative offset",
			header: `{"x":{"dtype":"F32","shape":[1],"data_offsets":[-4,0]}}`,
			data:   eight,
			want:   ErrNegativeOffset,
		},
		{
			name:   "out of bounds",
			header: `{"x":{"dtype":"F32","shape":[4],"data_offsets":[0,16]}}`,
			data:   eight,
			want:   ErrOutOfBounds,
		},
		{
			name: "overlap",
			header: `{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]},` +
				`"b":{"dtype":"F32","shape":[1],"data_offsets":[4,8]}}`,
			data: eight,
			want: ErrOffsetOverlap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadState(bytes.NewReader(rawFile(tt.header, tt.data)))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestReadMalformed(t *testing.T) {
	t.Run("truncated size", func(t *testing.T) {
		_, err := ReadState(bytes.NewReader([]byte{1, 2}))
		assert.Error(t, err)
	})

	t.Run("header too large", func(t *testing.T) {
		var buf bytes.Buffer
		_ = binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1))
		_, err := ReadState(&buf)
		assert.ErrorIs(t, err, ErrHeaderTooLarge)
	})

	t.Run("truncated header", func(t *testing.T) {
		file := rawFile(`{"x":{}}`, nil)
		_, err := ReadState(bytes.NewReader(file[:len(file)-2]))
		assert.Error(t, err)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := ReadState(bytes.NewReader(rawFile(`null`, nil)))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ReadState(bytes.NewReader(rawFile(`{"x":`, nil)))
		assert.Error(t, err)
	})
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.safetensors")
	tensors := map[string][]float32{"velocity.w": {0.5, -0.5}}

	require.NoError(t, SaveState(path, tensors, map[string]string{"optimizer": "Momentum"}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")

	state, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, tensors, state.Tensors)
	assert.Equal(t, "Momentum", state.Metadata["optimizer"])
}

func TestLoadStateMissingFile(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "missing.safetensors"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateTensorName(t *testing.T) {
	assert.NoError(t, ValidateTensorName("accumulator.layer/0.weight"))
	assert.ErrorIs(t, ValidateTensorName(""), ErrInvalidTensorName)
	assert.ErrorIs(t, ValidateTensorName("a\x00b"), ErrInvalidTensorName)
	assert.ErrorIs(t, ValidateTensorName(strings.Repeat("n", MaxTensorNameLen+1)), ErrInvalidTensorName)
}

func TestValidateChecksum(t *testing.T) {
	data := []byte("test data")
	assert.NoError(t, ValidateChecksum(data, ComputeChecksum(data)))
	assert.ErrorIs(t, ValidateChecksum(data, ComputeChecksum([]byte("other"))), ErrChecksumMismatch)

	// Known vector.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ComputeChecksum(nil))
}
