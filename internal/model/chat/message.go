package chat

// Message is a single turn in the brainstorming log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles used in the message log and replayed to the AI backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SeedGreeting 首次打开工作区时的开场白。
const SeedGreeting = "欢迎回来，创意官。我们的像素冒险继续进行。我们可以从构思世界观开始，也可以直接去“命运编织”抽取你的新英雄原型。"

// ResetGreeting 工厂重置后的开场白。
const ResetGreeting = "系统已重置。我是你的 AI 创意官，让我们重新开始吧。"

// Seed returns the default one-element log.
func Seed() []Message {
	return []Message{{Role: RoleAssistant, Content: SeedGreeting}}
}
