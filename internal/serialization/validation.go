package serialization

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 16 * 1024 * 1024 // 16MB
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

type span struct {
	name       string
	start, end int64
}

// ValidateTensorName rejects empty, oversized and NUL-containing names.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty name"}
	case name == MetadataKey:
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "reserved key"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name[:64] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	case strings.ContainsRune(name, 0):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains null byte"}
	}
	return nil
}

// ValidateTensorInfo checks dtype and that shape matches the byte range.
func ValidateTensorInfo(name string, info TensorInfo) error {
	if info.DType != DTypeF32 {
		return &ValidationError{Err: ErrUnsupportedDType, Tensor: name, Details: info.DType}
	}

	start, end := info.DataOffsets[0], info.DataOffsets[1]
	if start < 0 || end < start {
		return &ValidationError{
			Err:     ErrNegativeOffset,
			Tensor:  name,
			Details: fmt.Sprintf("data_offsets [%d, %d]", start, end),
		}
	}

	numel := int64(1)
	for _, dim := range info.Shape {
		if dim < 0 {
			return &ValidationError{Err: ErrShapeMismatch, Tensor: name, Details: fmt.Sprintf("negative dim in %v", info.Shape)}
		}
		if dim > 0 && numel > math.MaxInt64/bytesPerF32/dim {
			return &ValidationError{Err: ErrShapeMismatch, Tensor: name, Details: fmt.Sprintf("shape %v overflows int64", info.Shape)}
		}
		numel *= dim
	}
	if numel*bytesPerF32 != end-start {
		return &ValidationError{
			Err:     ErrShapeMismatch,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v needs %d bytes, range holds %d", info.Shape, numel*bytesPerF32, end-start),
		}
	}
	return nil
}

// ValidateTensorOffsets checks for overlapping and out-of-bounds ranges.
func ValidateTensorOffsets(tensors map[string]TensorInfo, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	spans := make([]span, 0, len(tensors))
	for name, info := range tensors {
		spans = append(spans, span{name: name, start: info.DataOffsets[0], end: info.DataOffsets[1]})
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.start, b.start), strings.Compare(a.name, b.name))
	})

	for i, s := range spans {
		if s.start < 0 || s.end < s.start {
			return &ValidationError{
				Err:     ErrNegativeOffset,
				Tensor:  s.name,
				Details: fmt.Sprintf("data_offsets [%d, %d]", s.start, s.end),
			}
		}
		if s.end > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  s.name,
				Details: fmt.Sprintf("end %d > data_size %d", s.end, dataSize),
			}
		}
		if i < len(spans)-1 {
			next := spans[i+1]
			if s.end > next.start {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  s.name,
					Tensor2: next.name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap", s.start, s.end, next.start, next.end),
				}
			}
		}
	}
	return nil
}
