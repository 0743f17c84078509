package service

import "github.com/chatthan/lastletter/internal/model"

// ComputeStatus 按固定优先级归类：已开信 > 有访问 > 未触达。
// 每个收信人独立判定，不依赖其他行。
func ComputeStatus(isViewed bool, visitCount int64) model.FriendStatus {
	switch {
	case isViewed:
		return model.StatusViewed
	case visitCount > 0:
		return model.StatusScanned
	default:
		return model.StatusLocked
	}
}

// DashboardStats 后台首页的分区统计
type DashboardStats struct {
	Total   int `json:"total"`
	Viewed  int `json:"viewed"`
	Scanned int `json:"scanned"`
	Locked  int `json:"locked"`
}

// ComputeStats 对全部收信人的状态做分区计数
func ComputeStats(statuses []model.FriendStatus) DashboardStats {
	st := DashboardStats{Total: len(statuses)}
	for _, s := range statuses {
		switch s {
		case model.StatusViewed:
			st.Viewed++
		case model.StatusScanned:
			st.Scanned++
		default:
			st.Locked++
		}
	}
	return st
}
