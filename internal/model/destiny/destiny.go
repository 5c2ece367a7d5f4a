package destiny

// MBTITypes 性格矩阵的 16 个固定标签。
var MBTITypes = []string{
	"INTJ", "INTP", "ENTJ", "ENTP",
	"INFJ", "INFP", "ENFJ", "ENFP",
	"ISTJ", "ISFJ", "ESTJ", "ESFJ",
	"ISTP", "ISFP", "ESTP", "ESFP",
}

// TarotCards 大阿卡纳 22 张牌。
var TarotCards = []string{
	"愚者", "魔术师", "女教皇", "女皇", "皇帝", "教皇", "恋人", "战车",
	"力量", "隐士", "命运之轮", "正义", "倒吊人", "死神", "节制", "恶魔",
	"高塔", "星星", "月亮", "太阳", "审判", "世界",
}

// DefaultType is the pre-selected personality label.
const DefaultType = "INTJ"

// WeaveFallback 合成失败时展示的固定文案，不暴露底层错误。
const WeaveFallback = "命运之线已断裂...请稍后再试。"

// Result is the ephemeral weaving state exposed to the frontend.
type Result struct {
	MBTI    string `json:"mbti"`
	Tarot   string `json:"tarot,omitempty"`
	Concept string `json:"concept,omitempty"`
	Weaving bool   `json:"weaving"`
}

// ValidType reports whether label belongs to the closed MBTI set.
func ValidType(label string) bool {
	for _, t := range MBTITypes {
		if t == label {
			return true
		}
	}
	return false
}
