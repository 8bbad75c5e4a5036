package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeSpawnFailed, "boom")
	if err.Code != ErrCodeSpawnFailed {
		t.Errorf("expected code %s, got %s", ErrCodeSpawnFailed, err.Code)
	}
	if err.Message != "boom" {
		t.Errorf("expected message 'boom', got %q", err.Message)
	}
}

func TestAppError_DirectoryNotFound(t *testing.T) {
	err := DirectoryNotFound("/tmp/does-not-exist")
	if err.Code != ErrCodeDirectoryNotFound {
		t.Errorf("expected DIRECTORY_NOT_FOUND, got %s", err.Code)
	}
	if err.Message != `Directory "/tmp/does-not-exist" not found` {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["path"] != "/tmp/does-not-exist" {
		t.Errorf("expected path detail, got %v", err.Details["path"])
	}
}

func TestAppError_SpawnFailed_CarriesCommand(t *testing.T) {
	cause := fmt.Errorf("executable file not found")
	err := SpawnFailed("nope --flag", cause)
	if err.Details["command"] != "nope --flag" {
		t.Errorf("expected command detail, got %v", err.Details["command"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "executable file not found") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_LifecycleMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
		msg  string
	}{
		{"AlreadyOpened", AlreadyOpened(42), ErrCodeAlreadyOpened, "Attempt to open already opened process"},
		{"AlreadyClosed", AlreadyClosed("process"), ErrCodeAlreadyClosed, "Attempt to use closed process"},
		{"Unsupported", Unsupported("foo"), ErrCodeUnsupported, "foo() not supported"},
		{"InvalidArgument", InvalidArgument("read", "want int"), ErrCodeInvalidArgument, "Invalid argument for read(): want int"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Message != tc.msg {
				t.Errorf("expected message %q, got %q", tc.msg, tc.err.Message)
			}
		})
	}
}

func TestAppError_AlreadyOpened_CarriesPid(t *testing.T) {
	err := AlreadyOpened(1234)
	if err.Details["pid"] != 1234 {
		t.Errorf("expected pid=1234, got %v", err.Details["pid"])
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("program", "must be set")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "program" {
		t.Errorf("expected field=program, got %v", err.Details["field"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Unsupported("x").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := DirectoryNotFound("x").WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["path"] != "x" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Internal(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	err2 := Unsupported("x")
	if err2.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_Is_MatchesOnCode(t *testing.T) {
	wrapped := fmt.Errorf("open: %w", AlreadyClosed("process"))
	if !stderrors.Is(wrapped, New(ErrCodeAlreadyClosed, "")) {
		t.Error("expected errors.Is to match on code")
	}
	if stderrors.Is(wrapped, New(ErrCodeAlreadyOpened, "")) {
		t.Error("expected errors.Is not to match a different code")
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Unsupported("fgets"))
	if !HasCode(wrapped, ErrCodeUnsupported) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeUnsupported) {
		t.Error("expected HasCode false for non-AppError")
	}
	if HasCode(nil, ErrCodeUnsupported) {
		t.Error("expected HasCode false for nil")
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected plain error not to convert")
	}
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", Validation("bad")))
	if !ok {
		t.Fatal("expected wrapped AppError to convert")
	}
	if appErr.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !IsAppError(appErr) {
		t.Error("expected IsAppError true")
	}
}
