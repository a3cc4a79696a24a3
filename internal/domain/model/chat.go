package model

// ChatRole はチャットメッセージの発言者
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage はチャット履歴の1メッセージ
type ChatMessage struct {
	Role    ChatRole `json:"role" binding:"required,oneof=user assistant"`
	Content string   `json:"content"`
}

// LatestUserMessage は履歴の中で最後のユーザー発言を返す（存在しなければ空文字列）
func LatestUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ChatRoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// RecentMessages は直近limit件のメッセージを返す
func RecentMessages(messages []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}
