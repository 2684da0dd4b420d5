// Package serialization stores named float32 vectors in SafeTensors files.
//
// It is used to checkpoint optimizer state (velocities, moments,
// accumulators) between training runs:
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor entries plus "__metadata__"]
//	  [Tensor data: little-endian float32, sorted by name]
//
// Only F32 tensors are written and read. The writer records a SHA-256 of the
// data section under the "sha256" metadata key; the reader verifies it when
// present.
//
// Example usage:
//
//	state := optimizer.StateDict()
//	if err := serialization.SaveState("adam.safetensors", state, meta); err != nil {
//	    log.Fatal(err)
//	}
//
//	file, err := serialization.LoadState("adam.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = optimizer.LoadStateDict(params, file.Tensors)
package serialization
