package serialization

// Format constants.
const (
	MetadataKey  = "__metadata__" // Reserved header key for string metadata
	ChecksumKey  = "sha256"       // Metadata key holding the data section checksum
	DTypeF32     = "F32"          // The only supported dtype
	bytesPerF32  = 4
	headerLenLen = 8
)

// TensorInfo describes one tensor in the header.
type TensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end) within the data section
}

// State is the decoded content of a state file.
type State struct {
	Tensors  map[string][]float32 // Flat vectors keyed by name
	Metadata map[string]string    // Free-form metadata (never nil)
}
