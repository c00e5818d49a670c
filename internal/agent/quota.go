package agent

import (
	"sync"
	"time"
)

// dailyQuota 每日部署配额状态
// 单写者为编排器本身, 加锁仅为读路径(状态接口)安全
type dailyQuota struct {
	mu        sync.Mutex
	count     int
	lastReset string
}

func newDailyQuota(now time.Time) *dailyQuota {
	return &dailyQuota{
		lastReset: dateKey(now),
	}
}

// Roll 日历日期前进时清零当日计数
func (q *dailyQuota) Roll(now time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	today := dateKey(now)
	if today != q.lastReset {
		q.count = 0
		q.lastReset = today
	}
}

// Allow 当日计数是否仍低于上限
func (q *dailyQuota) Allow(max int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count < max
}

// Inc 部署成功后递增当日计数
func (q *dailyQuota) Inc() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.count++
}

// Count 当日已部署数量
func (q *dailyQuota) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
