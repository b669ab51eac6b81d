package server

import (
	"math/rand"
)

// 昵称词库
var (
	adjectives = []string{
		"勇敢的", "聪明的", "快乐的", "神秘的", "酷炫的",
		"优雅的", "可爱的", "威武的", "沉稳的", "活泼的",
		"机智的", "潇洒的", "温柔的", "霸气的", "淡定的",
		"闪亮的", "迷人的", "傲娇的", "呆萌的", "高冷的",
	}

	nouns = []string{
		"小猫", "橘猫", "狸花猫", "奶牛猫", "暹罗猫",
		"布偶猫", "蓝猫", "黑猫", "三花猫", "玳瑁猫",
		"无毛猫", "缅因猫", "金渐层", "银渐层", "加菲猫",
		"狮子猫", "奶猫", "大橘", "炸毛猫", "拆家猫",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return adj + noun
}
