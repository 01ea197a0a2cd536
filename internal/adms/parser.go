package adms

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ADMS-backend/internal/platform/db"
)

// DropReason は行を捨てた理由
type DropReason string

const (
	DropTooFewFields DropReason = "fields"
	DropBadTime      DropReason = "time"
	DropPINTooLong   DropReason = "pin" // logs.pin の幅を超える
)

// minFields: PIN, DateTime, VerifyMode, WorkCode。5番目以降は無視する
const minFields = 4

// 端末ごとに日時の書式が揺れるので順に試す。タイムゾーンは付けず壁時計のまま扱う。
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// Record は受理した1行
type Record struct {
	Line     int // 1 始まり
	PIN      string
	Time     time.Time
	WorkCode int
}

// Drop は捨てた1行
type Drop struct {
	Line   int
	Reason DropReason
	Raw    string
}

type ParseResult struct {
	Records []Record
	Drops   []Drop
}

// ParseAttendance は cdata 本文（改行区切り・タブ区切り）を打刻に分解する。
// 空行は無視、項目不足・PIN 長すぎ・日時不正の行は Drops に入れて続行し、エラーは返さない。
// WorkCode は先頭の数字だけを読み（"12abc" は 12）、読めない・INT に収まらない場合は 0。
func ParseAttendance(payload []byte) ParseResult {
	var res ParseResult
	for i, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := i + 1

		parts := strings.Split(line, "\t")
		if len(parts) < minFields {
			res.Drops = append(res.Drops, Drop{Line: n, Reason: DropTooFewFields, Raw: line})
			continue
		}
		pin := strings.ToValidUTF8(strings.TrimSpace(parts[0]), "\uFFFD")
		if utf8.RuneCountInString(pin) > db.MaxPINLength {
			res.Drops = append(res.Drops, Drop{Line: n, Reason: DropPINTooLong, Raw: line})
			continue
		}
		ts, ok := parseDeviceTime(parts[1])
		if !ok {
			res.Drops = append(res.Drops, Drop{Line: n, Reason: DropBadTime, Raw: line})
			continue
		}
		res.Records = append(res.Records, Record{
			Line:     n,
			PIN:      pin,
			Time:     ts,
			WorkCode: parseWorkCode(parts[3]),
		})
	}
	return res
}

func parseDeviceTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			// オフセット付きでも壁時計の値だけを残す
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseWorkCode(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}
