package utils

import "math/rand"

// 首次加入房間時隨機組合的暱稱詞庫
var (
	nicknameAdjectives = []string{
		"배고픈", "느긋한", "신나는", "수줍은", "용감한",
		"졸린", "상큼한", "진지한", "엉뚱한", "씩씩한",
	}
	nicknameNouns = []string{
		"라쿤", "고양이", "펭귄", "수달", "다람쥐",
		"호랑이", "강아지", "판다", "부엉이", "알파카",
	}
)

// MakeRandomNickname 產生「形容詞 + 動物」形式的隨機暱稱
func MakeRandomNickname() string {
	adjective := nicknameAdjectives[rand.Intn(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.Intn(len(nicknameNouns))]
	return adjective + " " + noun
}
