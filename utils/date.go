package utils

import "time"

// The bot's user base lives in UTC+9; day boundaries follow Seoul time
// no matter where the process runs.
var kst = time.FixedZone("KST", 9*60*60)

// TodayKST returns today's date key (YYYY-MM-DD) in Korea Standard Time
func TodayKST() string {
	return DateKST(time.Now())
}

// DateKST formats an instant as a KST date key
func DateKST(t time.Time) string {
	return t.In(kst).Format("2006-01-02")
}
