package validate

import (
	"testing"
	"time"

	perr "mbot/internal/platform/errors"
)

type opts struct {
	Targets []string      `env:"FOCUS_TARGETS" validate:"min=1,dive,required"`
	Timeout time.Duration `env:"FOCUS_TIMEOUT" validate:"gt=0"`
	Region  []int         `env:"OCR_REGION" validate:"rect"`
	Persona string        `validate:"required"`
}

func good() opts {
	return opts{
		Targets: []string{"minecraft"},
		Timeout: time.Second,
		Region:  []int{10, 800, 600, 150},
		Persona: "mbot",
	}
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(good()); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestStruct_FieldNamesAndMessages(t *testing.T) {
	cases := []struct {
		name      string
		mut       func(*opts)
		wantField string
		wantMsg   string
	}{
		{"empty targets", func(o *opts) { o.Targets = nil }, "FOCUS_TARGETS", "FOCUS_TARGETS must be at least 1"},
		{"zero timeout", func(o *opts) { o.Timeout = 0 }, "FOCUS_TIMEOUT", ""},
		{"short region", func(o *opts) { o.Region = []int{1, 2, 3} }, "OCR_REGION", "OCR_REGION must be x,y,width,height with positive width and height"},
		{"zero width", func(o *opts) { o.Region = []int{0, 0, 0, 10} }, "OCR_REGION", ""},
		{"negative origin", func(o *opts) { o.Region = []int{-1, 0, 10, 10} }, "OCR_REGION", ""},
		{"no env tag", func(o *opts) { o.Persona = "" }, "Persona", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := good()
			c.mut(&o)
			err := Struct(o)
			if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
			}
			e, _ := perr.As(err)
			if e.Field() != c.wantField {
				t.Fatalf("field = %q, want %q", e.Field(), c.wantField)
			}
			if c.wantMsg != "" && e.Error() != c.wantMsg {
				t.Fatalf("msg = %q, want %q", e.Error(), c.wantMsg)
			}
		})
	}
}

func TestStruct_InvalidTarget(t *testing.T) {
	err := Struct(42)
	if !perr.IsCode(err, perr.ErrorCodeUnknown) {
		t.Fatalf("non-struct should be an internal error, got %v", err)
	}
}

func TestFieldAndMessage_Nil(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil -> %q %q", f, m)
	}
	if Get() != Init() {
		t.Fatalf("singleton mismatch")
	}
}
