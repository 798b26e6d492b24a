// Package narrative produces the short consultant-voiced blurb shown in the
// region detail summary. The blurb comes from a chat completion; any failure
// falls back to a deterministic template so the summary block never goes out
// empty.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ieum-project/ieum/pkg/logger"
	"github.com/ieum-project/ieum/pkg/metrics"
)

// Defaults applied when no option overrides them.
const (
	defaultModel     = openai.GPT4oMini
	defaultMaxTokens = 200
	systemPrompt     = "지역 정착 컨설턴트 '이음'입니다."
)

// Input carries the facts the narrative is written from.
type Input struct {
	RegionName   string
	UserInterest string
	PolicyQuery  string
	JobCount     int
	ListingCount int
	PolicyCount  int
}

// chatAPI is the slice of the OpenAI client the generator uses.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces region narratives.
type Generator struct {
	api       chatAPI
	model     string
	maxTokens int
	log       logger.Logger
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithModel selects the chat model.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithAPI replaces the OpenAI client. Intended for tests.
func WithAPI(api chatAPI) Option {
	return func(g *Generator) {
		if api != nil {
			g.api = api
		}
	}
}

// NewGenerator creates a narrative generator backed by the OpenAI API.
func NewGenerator(apiKey string, log logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		api:       openai.NewClient(apiKey),
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		log:       log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the narrative for a region. It never returns an error:
// on any failure the deterministic fallback is used and the failure is
// counted.
func (g *Generator) Generate(ctx context.Context, in Input) string {
	start := time.Now()
	defer func() {
		metrics.RecordNarrativeLatency(float64(time.Since(start).Milliseconds()))
	}()

	prompt := fmt.Sprintf(
		"지역:%s, 희망직무:%s, 정책관심:%s, 결과:일자리%d건, 매물%d건, 정책%d건. "+
			"위 데이터를 기반으로 이 지역의 특징과 추천 이유를 2문장 내외의 전문적인 한국어로 작성하세요.",
		in.RegionName, in.UserInterest, in.PolicyQuery,
		in.JobCount, in.ListingCount, in.PolicyCount)

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		metrics.RecordNarrativeFallback()
		if err != nil {
			g.log.Warn(ctx, "narrative generation failed, using fallback",
				logger.String("region", in.RegionName),
				logger.Error(err))
		}
		return Fallback(in)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		metrics.RecordNarrativeFallback()
		return Fallback(in)
	}
	return text
}

// Fallback is the deterministic narrative used when generation fails.
func Fallback(in Input) string {
	return fmt.Sprintf("%s은 %s 관련 기회가 풍부하여 정착하기에 우수한 환경을 갖추고 있습니다.",
		in.RegionName, in.UserInterest)
}
