package ingest

const bytesPerMB = 1048576

// SizeInMB converts a byte count to megabytes (1 MB = 1048576 bytes).
func SizeInMB(size int64) float64 {
	return float64(size) / bytesPerMB
}

// IsMaxFileSize reports whether size exceeds maxMB megabytes.
func IsMaxFileSize(size int64, maxMB float64) bool {
	return SizeInMB(size) > maxMB
}
