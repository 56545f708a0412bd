package service

import (
	"strings"
	"time"
)

// 带时区的完整时间格式
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// 不带时区的时间格式，按服务器本地时区解析
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04",
}

// ParseExpenseDate 宽松解析消费日期，无法解析时使用当前时间
func ParseExpenseDate(raw string, now func() time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s != "" {
		for _, layout := range zonedLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t
			}
		}
	}
	return now()
}
