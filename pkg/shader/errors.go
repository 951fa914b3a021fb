package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kjkrol/learngl/pkg/gpu"
)

var ErrEmptySource = errors.New("empty shader source")

// CompileError reports a shader stage that failed to compile.
// Log holds the driver diagnostics, truncated to the builder limit.
type CompileError struct {
	Stage gpu.Stage
	Log   string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compile error: %s", e.Stage, strings.TrimSpace(e.Log))
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link error: %s", strings.TrimSpace(e.Log))
}
