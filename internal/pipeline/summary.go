package pipeline

// Summary reports byte counts for a completed encrypt or decrypt run. The
// CLI prints it when verbose output is requested.
type Summary struct {
	// InputBytes is the payload size before the transform chain (for
	// directories, the packed archive size).
	InputBytes int
	// OutputBytes is the size of what was written to disk (for decrypt of
	// a directory, the unpacked archive size).
	OutputBytes int
	// IsDirectory is set when the payload is a packed directory tree.
	IsDirectory bool
	// AlreadyZstd is set when compression was skipped because the payload
	// was already a zstd stream.
	AlreadyZstd bool
}

// RatioPercent is the output size as a percentage of the input size.
// Zero-byte inputs report 0.
func (s Summary) RatioPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.OutputBytes) / float64(s.InputBytes) * 100
}
