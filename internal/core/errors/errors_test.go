package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorRendering(t *testing.T) {
	err := ModuleNotFound("crypto", []string{"/src", "/lib"}).
		WithChain([]string{"app", "net", "crypto"})

	msg := err.Error()
	if !strings.Contains(msg, "MODULE_NOT_FOUND") {
		t.Errorf("Expected the code in the message, got %q", msg)
	}
	if !strings.Contains(msg, `module "crypto"`) {
		t.Errorf("Expected the module name, got %q", msg)
	}
	if !strings.Contains(msg, "app -> net -> crypto") {
		t.Errorf("Expected the import chain, got %q", msg)
	}
}

func TestCyclicDependency(t *testing.T) {
	err := CyclicDependency([]string{"a", "b", "a"})
	if err.Code != CodeCyclicDependency {
		t.Errorf("Expected CYCLIC_DEPENDENCY, got %s", err.Code)
	}
	if err.Module != "a" {
		t.Errorf("Expected the cycle head as the module, got %q", err.Module)
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("Expected the cycle in the message, got %q", err.Error())
	}
}

func TestIsCodeWalksChain(t *testing.T) {
	inner := ModuleParse("app", errors.New("bad token"))
	outer := BatchEntry("app", inner)

	if !IsCode(outer, CodeBatchEntry) {
		t.Error("Expected the outer code to match")
	}
	if !IsCode(outer, CodeModuleParse) {
		t.Error("Expected the inner code to match through the chain")
	}
	if IsCode(outer, CodeCyclicDependency) {
		t.Error("Expected an absent code to not match")
	}
	if IsCode(nil, CodeBatchEntry) {
		t.Error("Expected nil to match nothing")
	}
	if IsCode(errors.New("plain"), CodeBatchEntry) {
		t.Error("Expected a foreign error to match nothing")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(InvalidInvocation("bad args")); got != CodeInvalidInvocation {
		t.Errorf("Expected INVALID_INVOCATION, got %s", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Errorf("Expected INTERNAL_ERROR for a foreign error, got %s", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	wrapped := Wrap(cause, CodeInternal, "write output")
	if !errors.Is(wrapped, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
}
