package types

// Parameters are the packing parameters a caller may change at runtime.
//
// Changing any of them affects every size calculation, so the engine responds
// by invalidating all chunks and repacking from the beginning of the
// sequence.
type Parameters struct {
	// CeilingMB is the hard per-volume size ceiling in megabytes, imposed by
	// the external upload limit.
	CeilingMB float64 `json:"ceilingMb" cbor:"1,keyasint"`

	// SafetyMarginPercent inflates size estimates to keep the fast-fill
	// phase from overshooting the ceiling before verification.
	SafetyMarginPercent float64 `json:"safetyMarginPercent" cbor:"2,keyasint"`

	// CompressionLevel is the target level items are processed at.
	CompressionLevel CompressionLevel `json:"compressionLevel" cbor:"3,keyasint"`
}

// CeilingBytes returns the ceiling converted to bytes.
func (p Parameters) CeilingBytes() int64 {
	return int64(p.CeilingMB * 1024 * 1024)
}

// Equal reports whether q would produce identical packing decisions.
func (p Parameters) Equal(q Parameters) bool {
	return p.CeilingMB == q.CeilingMB &&
		p.SafetyMarginPercent == q.SafetyMarginPercent &&
		p.CompressionLevel == q.CompressionLevel
}
