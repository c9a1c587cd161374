package watermark

import "errors"

// Kind classifies watermarking failures
type Kind int

// Error kinds
const (
	KindInvalidArgument Kind = iota + 1
	KindDecode
	KindRender
	KindEncode
)

// ErrImageTooLarge is returned when the source exceeds MaxPixels
var ErrImageTooLarge = errors.New("image too large")

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindDecode:
		return "DecodeError"
	case KindRender:
		return "RenderError"
	case KindEncode:
		return "EncodeError"
	}
	return "Unknown"
}

// Code returns the machine-readable error code used in API responses
func (k Kind) Code() string {
	switch k {
	case KindInvalidArgument:
		return "VALIDATION_ERROR"
	case KindDecode:
		return "DECODE_ERROR"
	case KindRender:
		return "RENDER_ERROR"
	case KindEncode:
		return "ENCODE_ERROR"
	}
	return "INTERNAL_ERROR"
}

// Error is a watermarking failure with a kind and the operation that failed
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return 0
}
