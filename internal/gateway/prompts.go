package gateway

import "fmt"

// brainstormSystem 头脑风暴助手的系统设定。
const brainstormSystem = "你是一位世界级的复古游戏设计师。协助用户进行像素游戏想法的头脑风暴、机制设计、背景设定及技术实现。请保持回答简洁、富有启发性，并使用 Markdown 格式。"

// conceptSystem 命运编织器的系统设定。
const conceptSystem = "你是一位精通荣格心理学（MBTI）和神秘学（塔罗）的游戏叙事设计师。你的任务是为像素游戏提供极具创意的角色和世界观原型。"

// emptyReply 模型返回空内容时的兜底文案。
const emptyReply = "AI 未返回任何响应。"

// spriteStyleSuffix is appended to every image prompt so callers only ever
// supply the raw subject text.
func decorateSpritePrompt(subject string) string {
	return fmt.Sprintf("A high-quality 2D pixel art sprite of %s. Pure white background, clean outlines, high contrast, retro 16-bit console style, game asset.", subject)
}

func conceptPrompt(mbti, tarot string) string {
	return fmt.Sprintf(`结合 MBTI 类型 "%s" 和塔罗牌 "%s"，为一个像素风格游戏创造一个深刻的角色原型或世界观概念。
请包括：
1. 概念名称 (Concept Name)
2. 角色故事背景 (Backstory)
3. 核心游戏机制/技能 (Core Mechanic)
4. 像素视觉设计建议 (Visual Style Guide)
请使用专业、充满神秘感且富有想象力的语言，以 Markdown 格式输出。`, mbti, tarot)
}
