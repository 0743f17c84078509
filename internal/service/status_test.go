package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatthan/lastletter/internal/model"
)

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name       string
		isViewed   bool
		visitCount int64
		want       model.FriendStatus
	}{
		{"viewed wins over visits", true, 5, model.StatusViewed},
		{"viewed with zero visits", true, 0, model.StatusViewed},
		{"scanned", false, 3, model.StatusScanned},
		{"single visit", false, 1, model.StatusScanned},
		{"locked", false, 0, model.StatusLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatus(tt.isViewed, tt.visitCount))
		})
	}
}

func TestComputeStats(t *testing.T) {
	statuses := []model.FriendStatus{
		model.StatusViewed,
		model.StatusViewed,
		model.StatusScanned,
		model.StatusLocked,
		model.StatusLocked,
		model.StatusLocked,
	}
	st := ComputeStats(statuses)
	assert.Equal(t, DashboardStats{Total: 6, Viewed: 2, Scanned: 1, Locked: 3}, st)
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Equal(t, DashboardStats{}, ComputeStats(nil))
}
