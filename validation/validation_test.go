package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/pipekit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("program", "cat")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("program", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("program", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorEnvName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"simple", "foo", true},
		{"upper with digits", "PATH2", true},
		{"leading underscore", "_X", true},
		{"empty", "", false},
		{"leading digit", "1X", false},
		{"contains equals", "A=B", false},
		{"contains dash", "MY-VAR", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().EnvName("env", tc.value)
			if v.HasErrors() == tc.ok {
				t.Errorf("EnvName(%q) errors=%v, want ok=%v", tc.value, v.Errors(), tc.ok)
			}
		})
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("shape", "input", []string{"input", "output"})
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("shape", "sideways", []string{"input", "output"})
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	// Empty should be skipped
	v3 := New()
	v3.OneOf("shape", "", []string{"input"})
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "field", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "field", "custom error")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("name", "echoer")
	if appErr := v.Validate(); appErr != nil {
		t.Error("expected nil for valid input")
	}
	if err := v.Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	v2 := New()
	v2.Required("name", "")
	v2.Required("program", "")
	appErr := v2.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if appErr.Details["fields"] == nil {
		t.Fatal("expected fields in details")
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "program") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("program", "cat").EnvName("env", "HOME").OneOf("shape", "input", []string{"input"})
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestParseEnv(t *testing.T) {
	env, err := ParseEnv("env", []string{"foo=bar", "EMPTY", "EQ=a=b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"foo": "bar", "EMPTY": "", "EQ": "a=b"}
	if len(env) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), env)
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%q] = %q, want %q", k, env[k], v)
		}
	}

	if _, err := ParseEnv("env", []string{"=nokey", "bad-name=1"}); err == nil {
		t.Fatal("expected error for invalid names")
	} else if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

type factoryInput struct {
	Name    string            `mapstructure:"name" validate:"required"`
	Program string            `mapstructure:"program" validate:"required"`
	Shape   string            `mapstructure:"shape" validate:"omitempty,oneof=process input output console-output"`
	Env     map[string]string `mapstructure:"env" validate:"dive,keys,envname,endkeys"`
}

func TestStructValidateValid(t *testing.T) {
	in := factoryInput{Name: "echoer", Program: "echo", Shape: "input", Env: map[string]string{"foo": "bar"}}
	if err := Validate(in); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(factoryInput{Name: "", Program: "echo", Shape: "sideways"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "name: is required") {
		t.Errorf("expected error to mention 'name', got %q", errStr)
	}
	if !strings.Contains(errStr, "shape: must be one of") {
		t.Errorf("expected error to mention 'shape', got %q", errStr)
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors, got %v", appErr.Details["fields"])
	}
}

func TestStructValidateEnvKeys(t *testing.T) {
	in := factoryInput{Name: "x", Program: "y", Env: map[string]string{"NOT-VALID": "1"}}
	err := Validate(in)
	if err == nil {
		t.Fatal("expected error for invalid env key")
	}
	if !strings.Contains(err.Error(), "valid environment variable name") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("WaitDelay"); got != "wait_delay" {
		t.Errorf("toSnakeCase = %q, want wait_delay", got)
	}
}
