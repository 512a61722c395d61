package fat16

// Error is the failure kind returned by this package's operations. It
// mirrors the language-neutral error kinds of the FAT16 interpreter: every
// failure is reported synchronously at the call site, never retried.
type Error int

// Error kinds. See the FAT16 volume/file/dir operations for which kind each
// failure path returns.
const (
	ErrOK Error = iota
	ErrBadArg
	ErrNotFound
	ErrNotDirectory
	ErrIsDirectory
	ErrInvalidFormat
	ErrOutOfRange
	ErrNoMemory
	ErrInvalid
	ErrEndOfStream
)

func (e Error) Error() string {
	switch e {
	case ErrOK:
		return "fat16: ok"
	case ErrBadArg:
		return "fat16: bad argument"
	case ErrNotFound:
		return "fat16: not found"
	case ErrNotDirectory:
		return "fat16: not a directory"
	case ErrIsDirectory:
		return "fat16: is a directory"
	case ErrInvalidFormat:
		return "fat16: invalid format"
	case ErrOutOfRange:
		return "fat16: out of range"
	case ErrNoMemory:
		return "fat16: no memory"
	case ErrInvalid:
		return "fat16: invalid argument"
	case ErrEndOfStream:
		return "fat16: end of stream"
	default:
		return "fat16: unknown error"
	}
}

// MountError is returned by Volume.Mount when validation fails with more
// detail available than a bare Error kind carries: Detail holds every
// individual check that failed (e.g. every boot-sector geometry violation,
// not just the first one found), per SPEC_FULL.md §4.9. Kind is always one
// of the Error constants, so errors.Is(err, fat16.ErrInvalidFormat) still
// matches; errors.As and the Error() text (%v) additionally expose Detail.
type MountError struct {
	Kind   Error
	Detail error
}

func (e *MountError) Error() string {
	if e.Detail == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail.Error()
}

// Unwrap exposes both the Error kind (so errors.Is(err, fat16.ErrInvalidFormat)
// matches) and the underlying Detail (so errors.As/errors.Is can reach the
// individual checks packed into a *multierror.Error Detail).
func (e *MountError) Unwrap() []error {
	return []error{e.Kind, e.Detail}
}
