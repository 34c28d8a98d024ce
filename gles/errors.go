package gles

import "fmt"

// CompileError carries the driver's info log for a shader that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the driver's info log for a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// IncompleteError is returned when a framebuffer does not pass the
// completeness check. The driver gives no detail beyond the status code.
type IncompleteError struct {
	Status uint32
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("framebuffer is not complete (status 0x%04x)", e.Status)
}
