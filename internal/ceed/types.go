package ceed

// Scalar is the base floating point type of all backend arrays.
type Scalar = float64

// Epsilon is the machine epsilon of Scalar.
const Epsilon Scalar = 1e-16

// FieldMax is the maximum number of inputs (and of outputs) of a QFunction.
const FieldMax = 16

// ScalarType identifies the precision of Scalar.
type ScalarType int

// Scalar precisions.
const (
	ScalarFP32 ScalarType = iota
	ScalarFP64
)

// String returns the precision name.
func (t ScalarType) String() string {
	switch t {
	case ScalarFP32:
		return "fp32"
	case ScalarFP64:
		return "fp64"
	default:
		return "unknown"
	}
}

// GetScalarType reports the precision Scalar is compiled with.
func GetScalarType() ScalarType {
	return ScalarFP64
}

// MemType selects where an array view lives.
type MemType int

// Memory types.
const (
	MemHost MemType = iota
	MemDevice
)

// String returns the memory type name.
func (m MemType) String() string {
	if m == MemDevice {
		return "device"
	}
	return "host"
}

// CopyMode controls ownership of arrays handed to a Vector.
type CopyMode int

// Copy modes.
const (
	CopyValues CopyMode = iota // copy the caller's data
	UsePointer                 // borrow the caller's slice
	OwnPointer                 // take ownership of the caller's slice
)

// NormType selects a vector norm.
type NormType int

// Norm types.
const (
	Norm1 NormType = iota
	Norm2
	NormMax
)

// TransposeMode selects the direction of restriction, basis and contraction applies.
type TransposeMode int

// Transpose modes.
const (
	NoTranspose TransposeMode = iota
	Transpose
)

// EvalMode selects what a Basis evaluates.
type EvalMode int

// Evaluation modes.
const (
	EvalNone EvalMode = iota
	EvalInterp
	EvalGrad
	EvalWeight
)

// String returns the evaluation mode name.
func (m EvalMode) String() string {
	switch m {
	case EvalNone:
		return "none"
	case EvalInterp:
		return "interp"
	case EvalGrad:
		return "grad"
	case EvalWeight:
		return "weight"
	default:
		return "unknown"
	}
}
