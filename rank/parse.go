package rank

import (
	"regexp"
	"strconv"
	"strings"
)

// StaleDaysSentinel 是发布时间字符串解析失败时的天数哨兵值，
// 足够大以使新鲜度降为 0，而不是让候选整体失败。
const StaleDaysSentinel = 9999

// 展示字符串的文法针对上游抓取接口实际输出钉死：
// 播放量如 "1,234,567 回視聴" / "123万 回視聴" / "1.2M views"，
// 发布时间如 "3日前" / "2 weeks ago"。格式变化只会让分数退化为
// 中性值，不会让排序过程失败。

var viewMultiplierRe = regexp.MustCompile(`([0-9][0-9,.]*)\s*(万|億|[kKmMbB])`)
var nonDigitRe = regexp.MustCompile(`[^0-9]`)

// ParseViewCount 把展示用播放量字符串解析为数值。
// 优先识别带量词的缩写（万/億/K/M/B），否则剥掉所有非数字字符。
// 解析失败返回 0（中性值）。
func ParseViewCount(s string) int64 {
	if s == "" {
		return 0
	}

	if m := viewMultiplierRe.FindStringSubmatch(s); m != nil {
		numStr := strings.ReplaceAll(m[1], ",", "")
		n, err := strconv.ParseFloat(numStr, 64)
		if err == nil {
			var mul float64
			switch strings.ToLower(m[2]) {
			case "万":
				mul = 1e4
			case "億":
				mul = 1e8
			case "k":
				mul = 1e3
			case "m":
				mul = 1e6
			case "b":
				mul = 1e9
			}
			return int64(n * mul)
		}
	}

	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var daysAgoRe = regexp.MustCompile(`([0-9]+)\s*(分|時間|日|週間|か月|ヶ月|カ月|年|minute|min|hour|day|week|month|year)`)

// ParseDaysAgo 把展示用发布时间字符串折算为"多少天前"。
//   - 分/時間（minutes/hours）→ 0 天
//   - N日（days）→ N；N週間（weeks）→ 7N；Nか月（months）→ 30N；N年（years）→ 365N
//
// 解析失败返回 StaleDaysSentinel（新鲜度按 0 处理）。
func ParseDaysAgo(s string) float64 {
	if s == "" {
		return StaleDaysSentinel
	}

	m := daysAgoRe.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return StaleDaysSentinel
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return StaleDaysSentinel
	}

	switch m[2] {
	case "分", "minute", "min", "時間", "hour":
		return 0
	case "日", "day":
		return n
	case "週間", "week":
		return n * 7
	case "か月", "ヶ月", "カ月", "month":
		return n * 30
	case "年", "year":
		return n * 365
	}
	return StaleDaysSentinel
}
