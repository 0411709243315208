package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"
)

func TestErrorCodeString(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodeUnknown, "unknown"},
		{ErrorCodeInvalidArgument, "invalid_argument"},
		{ErrorCodeSourceUnavailable, "source_unavailable"},
		{ErrorCodeFocusTimeout, "focus_timeout"},
		{ErrorCodeGenerativeFailure, "generative_failure"},
		{ErrorCodeInjectionFailed, "injection_failed"},
		{ErrorCodeCaptureFailed, "capture_failed"},
		{ErrorCodeCanceled, "canceled"},
		{9999, "code(9999)"}, // default branch
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Fatalf("String(%d) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeFocusTimeout, "not focused")
	if CodeOf(e1) != ErrorCodeFocusTimeout {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeInvalidArgument, "bad region %d", 3)
	if got := e2.Error(); got != "bad region 3" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeSourceUnavailable, "open log")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeGenerativeFailure, "model %s", "gemini")
	if want := "model gemini: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeGenerativeFailure {
		t.Fatalf("Code() = %v", got.Code())
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// copy-on-write mutators
	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "FOCUS_TIMEOUT")
	e7 := WithOp(e6, "validate")
	if fe, ok := As(e6); !ok || fe.Field() != "FOCUS_TIMEOUT" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "validate" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithOp(src, "x") != src || WithField(src, "x") != src {
		t.Fatalf("mutators must leave foreign errors alone")
	}

	// sugar
	if !IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(SourceUnavailablef("x"), ErrorCodeSourceUnavailable) ||
		!IsCode(FocusTimeoutf("x"), ErrorCodeFocusTimeout) ||
		!IsCode(GenerativeFailuref("x"), ErrorCodeGenerativeFailure) {
		t.Fatalf("sugar helpers code mismatch")
	}
	if IsCode(nil, ErrorCodeUnknown) {
		t.Fatalf("nil must never match a code")
	}

	if WrapIf(nil, ErrorCodeUnknown, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", e3))
	if CodeOf(deep) != ErrorCodeSourceUnavailable {
		t.Fatalf("CodeOf should see through wrapping, got %v", CodeOf(deep))
	}
}

func TestFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if FromContext(ctx.Err()) != nil {
		t.Fatalf("live ctx should map to nil")
	}
	cancel()
	err := FromContext(ctx.Err())
	if !IsCode(err, ErrorCodeCanceled) || !stderrs.Is(err, context.Canceled) {
		t.Fatalf("FromContext = %v", err)
	}
}
