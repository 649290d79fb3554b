package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

const (
	CodeInvalidInvocation ErrorCode = "INVALID_INVOCATION"
	CodeModuleNotFound    ErrorCode = "MODULE_NOT_FOUND"
	CodeModuleParse       ErrorCode = "MODULE_PARSE"
	CodeCyclicDependency  ErrorCode = "CYCLIC_DEPENDENCY"
	CodeBatchEntry        ErrorCode = "BATCH_ENTRY"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// ScanError is the one structured error type crossing package boundaries.
// Module identifies the failing module, ImportChain the modules that led the
// traversal to it (root first).
type ScanError struct {
	Code        ErrorCode
	Message     string
	Module      string
	ImportChain []string
	Err         error
}

func (e *ScanError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Module != "" {
		fmt.Fprintf(&b, ": module %q", e.Module)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.ImportChain) > 0 {
		fmt.Fprintf(&b, " (imported via %s)", strings.Join(e.ImportChain, " -> "))
	}
	return b.String()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// WithChain attaches the import chain that reached the failing module.
func (e *ScanError) WithChain(chain []string) *ScanError {
	e.ImportChain = append([]string(nil), chain...)
	return e
}

func New(code ErrorCode, msg string) *ScanError {
	return &ScanError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) *ScanError {
	return &ScanError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) *ScanError {
	return &ScanError{Code: code, Message: msg, Err: err}
}

// InvalidInvocation builds the fatal bootstrap error carrying the diagnostic
// text produced while validating the arguments.
func InvalidInvocation(diagnostics string) *ScanError {
	return &ScanError{Code: CodeInvalidInvocation, Message: diagnostics}
}

// ModuleNotFound reports a module that could not be located on any search
// path.
func ModuleNotFound(name string, searched []string) *ScanError {
	return &ScanError{
		Code:    CodeModuleNotFound,
		Message: fmt.Sprintf("no module definition on search paths %v", searched),
		Module:  name,
	}
}

// ModuleParse reports a located module whose metadata or import list could
// not be extracted.
func ModuleParse(name string, err error) *ScanError {
	return &ScanError{Code: CodeModuleParse, Message: "cannot extract module metadata", Module: name, Err: err}
}

// CyclicDependency reports a module that transitively imports itself. The
// cycle names the identity sequence, first element repeated at the end.
func CyclicDependency(cycle []string) *ScanError {
	return &ScanError{
		Code:        CodeCyclicDependency,
		Message:     fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")),
		Module:      cycle[0],
		ImportChain: append([]string(nil), cycle...),
	}
}

// BatchEntry wraps a per-entry failure so sibling entries keep running.
func BatchEntry(moduleName string, err error) *ScanError {
	return &ScanError{Code: CodeBatchEntry, Message: "batch entry failed", Module: moduleName, Err: err}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *ScanError
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Err
	}
	return false
}

// CodeOf returns the outermost ScanError code, or CodeInternal for foreign
// errors.
func CodeOf(err error) ErrorCode {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}
