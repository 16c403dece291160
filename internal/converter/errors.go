package converter

import (
	"errors"
	"fmt"
	"strings"
)

// Unknown is reported for wire values that have no label.
const Unknown = "unknown"

var (
	ErrInvalidValue   = errors.New("invalid value")
	ErrAttributeRead  = errors.New("attribute read failed")
	ErrGetUnsupported = errors.New("get not supported")
)

// InvalidValueError is returned when a set value cannot be resolved. No
// request is sent to the device.
type InvalidValueError struct {
	Key      string
	Value    any
	Accepted []string
	Reason   string
}

func (e *InvalidValueError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: invalid value %q", e.Key, fmt.Sprint(e.Value))
	if len(e.Accepted) > 0 {
		fmt.Fprintf(&b, ", accepted: %s", strings.Join(e.Accepted, ", "))
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " (%s)", e.Reason)
	}
	return b.String()
}

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

// ReadError is a failed attribute read. It is a warning, never fatal to
// the surrounding operation.
type ReadError struct {
	Key       string
	Cluster   uint16
	Attribute uint16
	Err       error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s (cluster 0x%04X attribute 0x%04X): %v", e.Key, e.Cluster, e.Attribute, e.Err)
}

func (e *ReadError) Is(target error) bool { return target == ErrAttributeRead }

func (e *ReadError) Unwrap() error { return e.Err }
