package serialization

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ReadState reads a state file from r.
//
// Every tensor must be F32, lie within the data section and not overlap
// another tensor. If the metadata carries a checksum, the data section must
// match it.
func ReadState(r io.Reader) (State, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return State{}, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return State{}, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return State{}, fmt.Errorf("failed to read header: %w", err)
	}

	infos, metadata, err := parseHeader(headerBytes)
	if err != nil {
		return State{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return State{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateTensorOffsets(infos, int64(len(data))); err != nil {
		return State{}, err
	}
	if stored, ok := metadata[ChecksumKey]; ok {
		if err := ValidateChecksum(data, stored); err != nil {
			return State{}, err
		}
	}

	tensors := make(map[string][]float32, len(infos))
	for name, info := range infos {
		raw := data[info.DataOffsets[0]:info.DataOffsets[1]]
		vec := make([]float32, len(raw)/bytesPerF32)
		for i := range vec {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*bytesPerF32:]))
		}
		tensors[name] = vec
	}

	return State{Tensors: tensors, Metadata: metadata}, nil
}

// LoadState reads the state file at path.
func LoadState(path string) (State, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoints
	file, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only, close error carries no information
	}()

	state, err := ReadState(file)
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

func parseHeader(headerBytes []byte) (map[string]TensorInfo, map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	if raw == nil {
		return nil, nil, errors.New("header is not a JSON object")
	}

	metadata := map[string]string{}
	if metaRaw, ok := raw[MetadataKey]; ok {
		if err := json.Unmarshal(metaRaw, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		delete(raw, MetadataKey)
	}

	if len(raw) > MaxTensorCount {
		return nil, nil, &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(raw), MaxTensorCount),
		}
	}

	infos := make(map[string]TensorInfo, len(raw))
	for name, value := range raw {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var info TensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal tensor %s: %w", name, err)
		}
		if err := ValidateTensorInfo(name, info); err != nil {
			return nil, nil, err
		}
		infos[name] = info
	}
	return infos, metadata, nil
}
