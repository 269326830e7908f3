package service

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容展开为日程事件列表。
//
//   - DTSTART/DTEND 确定单次事件的起止时间，缺少 DTEND 时按 1 小时处理
//   - RRULE 仅支持 DAILY / WEEKLY，按 COUNT / UNTIL / INTERVAL 展开
//   - EXDATE 指定的日期跳过
//   - 单个日历最多展开 icsMaxOccurrences 个事件
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize     = 5 * 1024 * 1024 // 5MB
	icsMaxOccurrences  = 500
	icsDefaultDuration = time.Hour
	icsExpandHorizon   = 366 * 24 * time.Hour
)

// ParseICS 解析 ICS 内容并展开为属于 userID 的事件，时间统一为 UTC
func ParseICS(reader io.Reader, userID uint) ([]model.Event, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}

	var events []model.Event
	for _, comp := range cal.Events() {
		expanded, ok := expandVEvent(comp, userID)
		if !ok {
			continue
		}
		events = append(events, expanded...)
		if len(events) >= icsMaxOccurrences {
			events = events[:icsMaxOccurrences]
			break
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

// expandVEvent 解析单个 VEVENT 并按重复规则展开
func expandVEvent(evt *ics.VEvent, userID uint) ([]model.Event, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return nil, false
	}
	title := strings.TrimSpace(summary.Value)

	description := ""
	if p := evt.GetProperty(ics.ComponentPropertyDescription); p != nil {
		description = strings.TrimSpace(p.Value)
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return nil, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil || dtEnd.Before(dtStart) {
		dtEnd = dtStart.Add(icsDefaultDuration)
	}
	duration := dtEnd.Sub(dtStart)

	newEvent := func(start time.Time) model.Event {
		return model.Event{
			UserID:      userID,
			Title:       title,
			StartTime:   start,
			EndTime:     start.Add(duration),
			Description: description,
		}
	}

	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		return []model.Event{newEvent(dtStart)}, true
	}

	rule := parseRRule(rruleProp.Value)
	var step func(time.Time) time.Time
	switch rule.freq {
	case "DAILY":
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, rule.interval) }
	case "WEEKLY":
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 7*rule.interval) }
	default:
		// 其他频率只保留首次
		return []model.Event{newEvent(dtStart)}, true
	}

	exDates := parseExDates(evt)
	maxDate := dtStart.Add(icsExpandHorizon)
	if !rule.until.IsZero() && rule.until.Before(maxDate) {
		maxDate = rule.until
	}

	var events []model.Event
	count := 0
	for current := dtStart; !current.After(maxDate); current = step(current) {
		if rule.count > 0 && count >= rule.count {
			break
		}
		if len(events) >= icsMaxOccurrences {
			break
		}
		count++
		if exDates[current.Format("20060102")] {
			continue
		}
		events = append(events, newEvent(current))
	}
	return events, len(events) > 0
}

// rruleParams RRULE 解析结果
type rruleParams struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// parseRRule 解析 RRULE 字符串（如 FREQ=WEEKLY;COUNT=16;INTERVAL=1）
func parseRRule(value string) rruleParams {
	r := rruleParams{interval: 1}
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			r.freq = strings.ToUpper(kv[1])
		case "INTERVAL":
			fmt.Sscanf(kv[1], "%d", &r.interval)
		case "COUNT":
			fmt.Sscanf(kv[1], "%d", &r.count)
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				// 仅日期的 UNTIL 包含当天
				if t, err = time.Parse("20060102", kv[1]); err == nil {
					t = t.Add(24*time.Hour - time.Second)
				}
			}
			r.until = t.UTC()
		}
	}
	if r.interval < 1 {
		r.interval = 1
	}
	return r
}

// parseExDates 解析事件中所有 EXDATE，返回 UTC 日期集合
func parseExDates(evt *ics.VEvent) map[string]bool {
	exDates := make(map[string]bool)
	for _, prop := range evt.Properties {
		if prop.IANAToken != string(ics.ComponentPropertyExdate) {
			continue
		}
		for _, v := range strings.Split(prop.Value, ",") {
			if t, err := parseICSValue(strings.TrimSpace(v), tzidOf(prop.ICalParameters)); err == nil {
				exDates[t.Format("20060102")] = true
			}
		}
	}
	return exDates
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	return parseICSValue(prop.Value, tzidOf(prop.ICalParameters))
}

func tzidOf(params map[string][]string) string {
	for k, v := range params {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// parseICSValue 解析单个 ICS 日期值；带 TZID 的本地时间按该时区换算，浮动时间视为 UTC
func parseICSValue(val, tzid string) (time.Time, error) {
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.UTC(), nil
		}
		if tzid != "" {
			if loc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc).UTC(), nil
			}
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
