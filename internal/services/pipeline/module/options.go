package module

import (
	"time"

	"mbot/internal/platform/config"
)

// FocusOptions configures the focus gate
type FocusOptions struct {
	Targets []string      `env:"FOCUS_TARGETS" validate:"min=1,dive,required"`
	Poll    time.Duration `env:"FOCUS_POLL_INTERVAL" validate:"gt=0"`
	Timeout time.Duration `env:"FOCUS_TIMEOUT" validate:"gte=0"`
}

// InjectOptions configures the keystroke sequence
type InjectOptions struct {
	OpenKey   string        `env:"INJECT_OPEN_KEY" validate:"required"`
	SubmitKey string        `env:"INJECT_SUBMIT_KEY" validate:"required"`
	Settle    time.Duration `env:"INJECT_SETTLE" validate:"gte=0"`
	Sanitize  bool          `env:"INJECT_SANITIZE"`
}

// TailOptions configures the log tail source
type TailOptions struct {
	Path string        `env:"SOURCE_LOG_PATH" validate:"required"`
	Poll time.Duration `env:"TAIL_POLL_INTERVAL" validate:"gt=0"`
}

// CaptureOptions configures the screen capture source
type CaptureOptions struct {
	Region       []int         `env:"OCR_REGION" validate:"rect"`
	Interval     time.Duration `env:"OCR_INTERVAL" validate:"gt=0"`
	Cooldown     time.Duration `env:"OCR_COOLDOWN" validate:"gt=0"`
	Path         string        `env:"OCR_CAPTURE_PATH" validate:"required"`
	Threshold    int           `env:"OCR_THRESHOLD" validate:"min=0,max=255"`
	Beep         bool          `env:"OCR_BEEP"`
	CaptureCmd   string        `env:"OCR_CAPTURE_CMD" validate:"required"`
	TesseractCmd string        `env:"OCR_TESSERACT_CMD" validate:"required"`
	Pattern      string        `env:"OCR_PATTERN" validate:"required"`
}

// QuestionOptions configures the wake-word pipeline
type QuestionOptions struct {
	WakeWord        string `env:"QUESTION_WAKE_WORD" validate:"required"`
	DedupeResponses bool   `env:"QUESTION_DEDUPE_RESPONSES"`
}

// WelcomeOptions configures the log join pipeline
type WelcomeOptions struct {
	Pattern string `env:"WELCOME_PATTERN" validate:"required"`
}

// Options controls every pipeline. Values are read from env; only the sections the
// selected pipeline uses are validated
type Options struct {
	Focus    FocusOptions
	Inject   InjectOptions
	Tail     TailOptions
	Capture  CaptureOptions
	Question QuestionOptions
	Welcome  WelcomeOptions
}

// FromConfig reads options from the process environment
func FromConfig(cfg config.Conf) Options {
	focus := cfg.Prefix("FOCUS_")
	inject := cfg.Prefix("INJECT_")
	ocr := cfg.Prefix("OCR_")
	question := cfg.Prefix("QUESTION_")
	return Options{
		Focus: FocusOptions{
			Targets: focus.MayCSV("TARGETS", []string{"minecraft", "lunar"}),
			Poll:    focus.MayDuration("POLL_INTERVAL", time.Second),
			Timeout: focus.MayDuration("TIMEOUT", 60*time.Second),
		},
		Inject: InjectOptions{
			OpenKey:   inject.MayString("OPEN_KEY", "t"),
			SubmitKey: inject.MayString("SUBMIT_KEY", "Return"),
			Settle:    inject.MayDuration("SETTLE", 500*time.Millisecond),
			Sanitize:  inject.MayBool("SANITIZE", true),
		},
		Tail: TailOptions{
			Path: cfg.Prefix("SOURCE_").MayString("LOG_PATH", ""),
			Poll: cfg.Prefix("TAIL_").MayDuration("POLL_INTERVAL", 100*time.Millisecond),
		},
		Capture: CaptureOptions{
			Region:       ocr.MayInts("REGION", []int{10, 800, 600, 150}),
			Interval:     ocr.MayDuration("INTERVAL", time.Second),
			Cooldown:     ocr.MayDuration("COOLDOWN", 10*time.Second),
			Path:         ocr.MayString("CAPTURE_PATH", "Captured_image.png"),
			Threshold:    ocr.MayInt("THRESHOLD", 150),
			Beep:         ocr.MayBool("BEEP", true),
			CaptureCmd:   ocr.MayString("CAPTURE_CMD", "import"),
			TesseractCmd: ocr.MayString("TESSERACT_CMD", "tesseract"),
			Pattern:      ocr.MayString("PATTERN", `\bNEW[ \t]+(\S+)`),
		},
		Question: QuestionOptions{
			WakeWord:        question.MayString("WAKE_WORD", "mbot"),
			DedupeResponses: question.MayBool("DEDUPE_RESPONSES", false),
		},
		Welcome: WelcomeOptions{
			Pattern: cfg.Prefix("WELCOME_").MayString("PATTERN", `\[CHAT\] \+ NEW (\w+)`),
		},
	}
}

// merge applies non-zero overrides on top of o
func (o Options) merge(ov Options) Options {
	if len(ov.Focus.Targets) > 0 {
		o.Focus.Targets = ov.Focus.Targets
	}
	if ov.Focus.Poll != 0 {
		o.Focus.Poll = ov.Focus.Poll
	}
	if ov.Focus.Timeout != 0 {
		o.Focus.Timeout = ov.Focus.Timeout
	}
	if ov.Inject.Settle != 0 {
		o.Inject.Settle = ov.Inject.Settle
	}
	if ov.Tail.Path != "" {
		o.Tail.Path = ov.Tail.Path
	}
	if ov.Tail.Poll != 0 {
		o.Tail.Poll = ov.Tail.Poll
	}
	if len(ov.Capture.Region) > 0 {
		o.Capture.Region = ov.Capture.Region
	}
	if ov.Capture.Path != "" {
		o.Capture.Path = ov.Capture.Path
	}
	if ov.Capture.Interval != 0 {
		o.Capture.Interval = ov.Capture.Interval
	}
	if ov.Capture.Cooldown != 0 {
		o.Capture.Cooldown = ov.Capture.Cooldown
	}
	if ov.Question.WakeWord != "" {
		o.Question.WakeWord = ov.Question.WakeWord
	}
	if ov.Question.DedupeResponses {
		o.Question.DedupeResponses = true
	}
	if ov.Welcome.Pattern != "" {
		o.Welcome.Pattern = ov.Welcome.Pattern
	}
	return o
}
