package service

import (
	"context"
	"strings"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// GeneralChatBranch は特定の意図がない発言に会話で応答する
type GeneralChatBranch struct {
	store  repository.RecommendationStore
	chat   repository.ChatResponseRepository
	caller *CollaboratorCaller
}

// NewGeneralChatBranch は新しいGeneralChatBranchを作成
func NewGeneralChatBranch(store repository.RecommendationStore, chat repository.ChatResponseRepository, caller *CollaboratorCaller) *GeneralChatBranch {
	return &GeneralChatBranch{
		store:  store,
		chat:   chat,
		caller: caller,
	}
}

func (b *GeneralChatBranch) Intent() model.Intent {
	return model.IntentGeneralChat
}

// Execute は会話の応答を生成する
func (b *GeneralChatBranch) Execute(ctx context.Context, input *model.WorkflowInput) *model.WorkflowOutput {
	current := input.RecommendedSpots
	if current == nil {
		if stored, ok := b.store.Get(input.PlanID); ok {
			current = stored
		} else {
			current = model.NewEmptyRecommendedSpots()
		}
	}

	out, err := b.run(ctx, input, current)
	return b.caller.normalize(b.Intent(), out, err, current)
}

func (b *GeneralChatBranch) run(ctx context.Context, input *model.WorkflowInput, current *model.RecommendedSpots) (*model.WorkflowOutput, error) {
	reply, err := callCollaborator(ctx, b.caller, "chat_responder", func(ctx context.Context) (string, error) {
		return b.chat.Respond(ctx, input.Messages)
	})
	if err != nil {
		return nil, newBranchFailure("chat_failed", model.MessageChatFallback, err)
	}
	if strings.TrimSpace(reply) == "" {
		b.caller.observer.ObserveFallback(b.Intent(), "chat_empty")
		reply = model.MessageChatFallback
	}
	return model.NewWorkflowOutput(reply, current), nil
}
