// Package generative answers free-form questions through Google's Gemini API
package generative

import (
	"context"
	"strings"
	"time"

	perr "mbot/internal/platform/errors"
	"mbot/internal/platform/logger"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.0-flash"

// Options configures the Gemini client
type Options struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration // 0 means the call may take as long as it takes
	Persona   string        // system instruction
}

// contentGenerator is the slice of *genai.Models we use
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements the responder's generative fallback
type Gemini struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	config  *genai.GenerateContentConfig
	log     *logger.Logger
}

// New creates a Gemini client. The API key is required
func New(ctx context.Context, opt Options) (*Gemini, error) {
	if strings.TrimSpace(opt.APIKey) == "" {
		return nil, perr.WithField(perr.InvalidArgf("GenAI API key is required"), "GENAI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opt.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeGenerativeFailure, "create GenAI client")
	}
	return newWith(client.Models, opt), nil
}

func newWith(models contentGenerator, opt Options) *Gemini {
	g := &Gemini{
		models:  models,
		model:   opt.Model,
		timeout: opt.Timeout,
		config:  &genai.GenerateContentConfig{},
		log:     logger.Named("generative"),
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if opt.MaxTokens > 0 {
		g.config.MaxOutputTokens = int32(opt.MaxTokens)
	}
	if p := strings.TrimSpace(opt.Persona); p != "" {
		g.config.SystemInstruction = genai.NewContentFromText(p, genai.RoleUser)
	}
	return g
}

// Generate returns the model's reply to prompt, flattened to a single line
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeGenerativeFailure, "generate with %s", g.model), "generative.Generate")
	}
	text := strings.Join(strings.Fields(resp.Text()), " ")
	if text == "" {
		return "", perr.GenerativeFailuref("%s returned no text", g.model)
	}
	logger.C(ctx).Debug().Str("model", g.model).Dur("took", time.Since(start)).Msg("generated reply")
	return text, nil
}
