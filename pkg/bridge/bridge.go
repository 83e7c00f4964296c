// CLAUDE:SUMMARY Natural-language bridge: translates a free-text question into one typed query-engine call via OpenAI function calling.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/scrutin/pkg/election"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Bridge answers free-text questions about the election by letting the
// model pick exactly one typed query operation. The model never sees or
// executes anything against the raw dataset; it only chooses among the
// engine's read operations, and the call runs under its own timeout so
// a slow provider cannot stall the read-only index.
type Bridge struct {
	client  openai.Client
	model   string
	eng     *election.Engine
	logger  *slog.Logger
	timeout time.Duration
}

// Config for the bridge. APIKey is required; Model defaults to gpt-4o
// and Timeout to 60s.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New builds a Bridge over the engine.
func New(cfg Config, eng *election.Engine, logger *slog.Logger) (*Bridge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("bridge: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.ChatModelGPT4o)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Bridge{
		client:  openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		eng:     eng,
		logger:  logger,
		timeout: cfg.Timeout,
	}, nil
}

const systemPrompt = `You are a data analyst for the 2021 Canadian federal election.
Answer the user's question by calling exactly one of the provided query functions,
then summarize the returned JSON in plain language.
Party codes: LPC (Liberal), CPC (Conservative), NDP (New Democratic), BQ (Bloc Québécois), GPC (Green), PPC (People's Party).
Province codes: AB, BC, MB, NB, NL, NS, NT, NU, ON, PE, QC, SK, YT.
Functions accept free-form party and province names in English or French.`

// Ask answers a question with at most one tool round-trip. If the
// model answers without choosing a function, its text is returned
// verbatim.
func (b *Bridge) Ask(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Tools: toolDefs(),
	}

	completion, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("bridge: completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("bridge: empty completion")
	}
	msg := completion.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return msg.Content, nil
	}

	call := msg.ToolCalls[0]
	b.logger.Info("bridge tool call", "tool", call.Function.Name, "args", call.Function.Arguments)

	result, err := b.dispatch(call.Function.Name, []byte(call.Function.Arguments))
	payload := marshalResult(result, err)

	params.Messages = append(params.Messages, msg.ToParam())
	params.Messages = append(params.Messages, openai.ToolMessage(payload, call.ID))
	params.Tools = nil

	final, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("bridge: final completion: %w", err)
	}
	if len(final.Choices) == 0 {
		return "", fmt.Errorf("bridge: empty final completion")
	}
	return final.Choices[0].Message.Content, nil
}

// marshalResult renders the engine result (or its structured miss) as
// JSON for the tool message.
func marshalResult(result any, err error) string {
	if err != nil {
		if nf, ok := election.AsNotFound(err); ok {
			data, _ := json.Marshal(nf)
			return string(data)
		}
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(data)
	}
	data, jerr := json.Marshal(result)
	if jerr != nil {
		return `{"error":"marshal failure"}`
	}
	return string(data)
}
