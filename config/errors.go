package config

import "github.com/kennycoder/gerb2img/gerber"

// ExitCode is the process-boundary exit status, grounded in
// original_source/error_codes.h.
type ExitCode int

const (
	NoError                  ExitCode = 0
	ErrorFileOpenFailed      ExitCode = 2
	ErrorGerberProcessing    ExitCode = 3
	ErrorInvalidParameters   ExitCode = 4
	ErrorNoImage             ExitCode = 5
	ErrorMemoryAllocation    ExitCode = 6
	ErrorOutputFileCreation  ExitCode = 7
	ErrorJSONProcessing      ExitCode = 8
	ErrorUnknown             ExitCode = 9999
)

// ExitCodeFor maps a core fault kind onto the exit code the CLI should
// return. Kinds not produced by the core fall back to ErrorUnknown.
func ExitCodeFor(kind gerber.Kind) ExitCode {
	switch kind {
	case gerber.KindNone:
		return NoError
	case gerber.KindEmptyImage:
		return ErrorNoImage
	case gerber.KindFormatNotSet,
		gerber.KindBadFormatSpec,
		gerber.KindUnknownAperture,
		gerber.KindMalformedMacro,
		gerber.KindArcInconsistentWithQuadrant,
		gerber.KindUnexpectedEndOfStream,
		gerber.KindArithmeticInMacro:
		return ErrorGerberProcessing
	default:
		return ErrorUnknown
	}
}
