package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/config"
	"github.com/salaryrep/backend/internal/model/negotiation"
	"github.com/salaryrep/backend/internal/model/persona"
	"github.com/salaryrep/backend/internal/model/scenario"
)

// Service wraps the chat model behind the two generation boundaries: the
// streamed counterpart reply and the one-shot feedback evaluation.
type Service struct {
	chatModel model.ChatModel
	personas  persona.Store
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
	logger    *zap.Logger
}

// NewService builds the counterpart chain and keeps the raw model for the
// feedback call.
func NewService(ctx context.Context, personas persona.Store, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile counterpart chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		personas:  personas,
		cfg:       cfg,
		chain:     runnable,
		logger:    logger,
	}, nil
}

// StreamingEnabled reports whether counterpart replies are streamed.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Reply generates the counterpart's next turn. history must end with the
// candidate turn being answered. onDelta receives text fragments in arrival
// order when streaming is enabled; the returned string is always the complete
// reply.
func (s *Service) Reply(ctx context.Context, sc scenario.Descriptor, history []negotiation.Turn, onDelta func(delta string)) (string, error) {
	if len(history) == 0 || history[len(history)-1].Role != negotiation.RoleCandidate {
		return "", fmt.Errorf("history must end with a candidate turn")
	}

	input := map[string]any{
		"system":  BuildSystemPrompt(sc, s.personas.Resolve(sc.Persona)),
		"history": toSchemaMessages(history[:len(history)-1]),
		"query":   history[len(history)-1].Text,
	}

	if !s.cfg.StreamResponse {
		response, err := s.chain.Invoke(ctx, input)
		if err != nil {
			return "", fmt.Errorf("failed to run counterpart chain: %w", err)
		}
		return response.Content, nil
	}

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to stream counterpart chain output: %w", err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" && onDelta != nil {
			onDelta(chunk.Content)
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	s.logger.Debug("counterpart reply generated",
		zap.String("persona", sc.Persona),
		zap.Int("length", len(response.Content)))
	return response.Content, nil
}

// GenerateFeedback runs the evaluation prompt without streaming and returns
// the raw model output for schema validation by the caller.
func (s *Service) GenerateFeedback(ctx context.Context, evaluationPrompt string) (string, error) {
	response, err := s.chatModel.Generate(ctx, []*schema.Message{
		schema.UserMessage(evaluationPrompt),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("feedback generation returned no message")
	}
	return response.Content, nil
}

func toSchemaMessages(turns []negotiation.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case negotiation.RoleCandidate:
			history = append(history, schema.UserMessage(turn.Text))
		case negotiation.RoleCounterpart:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return history
}
