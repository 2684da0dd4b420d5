package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
)

// WriteState writes tensors and metadata to w in SafeTensors layout.
//
// Tensors are written in alphabetical order by name. A "sha256" entry for the
// data section is added to the metadata, replacing any caller-supplied one.
func WriteState(w io.Writer, tensors map[string][]float32, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(tensors))

	// Encode the data section first so the checksum can go into the header.
	var size int
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		size += len(tensors[name]) * bytesPerF32
	}
	data := make([]byte, 0, size)

	header := make(map[string]any, len(names)+1)
	for _, name := range names {
		vec := tensors[name]
		start := int64(len(data))
		for _, v := range vec {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
		}
		header[name] = TensorInfo{
			DType:       DTypeF32,
			Shape:       []int64{int64(len(vec))},
			DataOffsets: [2]int64{start, int64(len(data))},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	maps.Copy(meta, metadata)
	meta[ChecksumKey] = ComputeChecksum(data)
	header[MetadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(headerJSON))
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return bw.Flush()
}

// SaveState writes tensors and metadata to the file at path.
//
// The file is written to a temporary name in the same directory and renamed
// into place, so a failed save leaves any previous file intact.
func SaveState(path string, tensors map[string][]float32, metadata map[string]string) (err error) {
	tmp := path + ".tmp"
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoints
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = file.Close() // Best effort close on error
			_ = os.Remove(tmp)
		}
	}()

	if err = WriteState(file, tensors, metadata); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
