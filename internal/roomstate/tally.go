package roomstate

import "sort"

// VoteCount 是單一餐廳的得票數
type VoteCount struct {
	RestaurantID string `json:"restaurantId"`
	Count        int    `json:"count"`
}

// Tally 將候選名單整理成可廣播的投票現況
// 沒有得票的餐廳會被略過；結果固定以 restaurantId 排序，
// 候選名單本身的迭代順序依儲存後端而異，不能依賴
func Tally(candidates map[string][]string) []VoteCount {
	result := make([]VoteCount, 0, len(candidates))
	for restaurantID, voters := range candidates {
		if len(voters) == 0 {
			continue
		}
		result = append(result, VoteCount{
			RestaurantID: restaurantID,
			Count:        len(voters),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RestaurantID < result[j].RestaurantID
	})
	return result
}

// VotedBy 回傳指定使用者投過票的 restaurantId 列表，以 id 排序
func VotedBy(candidates map[string][]string, userID string) []string {
	ids := make([]string, 0)
	for restaurantID, voters := range candidates {
		for _, voter := range voters {
			if voter == userID {
				ids = append(ids, restaurantID)
				break
			}
		}
	}

	sort.Strings(ids)
	return ids
}
