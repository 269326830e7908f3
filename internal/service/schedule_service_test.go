package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guoyuhou/NewLab/internal/dto"
)

func TestAddEvent_WithParticipants(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	event, err := env.svc.Schedule.AddEvent(ctx, user.ID, &dto.CreateEventRequest{
		Title:        "组会",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		Participants: "bob, carol",
	})
	if err != nil {
		t.Fatalf("AddEvent 失败: %v", err)
	}

	events, err := env.svc.Schedule.EventsByDate(ctx, user.ID, "2026-05-10")
	if err != nil {
		t.Fatalf("EventsByDate 失败: %v", err)
	}
	if len(events) != 1 || events[0].ID != event.ID {
		t.Fatalf("期望查到 1 个事件，实际=%+v", events)
	}
	if strings.Join(events[0].Participants, ",") != "bob,carol" {
		t.Errorf("参与者不符: %v", events[0].Participants)
	}

	// 其他用户看不到
	other, err := env.svc.Schedule.EventsByDate(ctx, user.ID+1, "2026-05-10")
	if err != nil {
		t.Fatalf("EventsByDate 失败: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("事件按用户隔离，其他用户不应看到，实际=%d", len(other))
	}
}

func TestAddEvent_InvalidRange(t *testing.T) {
	env := setupTestEnv(t)
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	_, err := env.svc.Schedule.AddEvent(context.Background(), 1, &dto.CreateEventRequest{
		Title: "反向", StartTime: start, EndTime: start.Add(-time.Hour),
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestEventsByRange_InclusiveEnd(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	for _, day := range []int{1, 3, 5} {
		start := time.Date(2026, 6, day, 23, 0, 0, 0, time.UTC)
		if _, err := env.svc.Schedule.AddEvent(ctx, user.ID, &dto.CreateEventRequest{
			Title: "实验", StartTime: start, EndTime: start.Add(30 * time.Minute),
		}); err != nil {
			t.Fatalf("AddEvent 失败: %v", err)
		}
	}

	events, err := env.svc.Schedule.EventsByRange(ctx, user.ID, "2026-06-01", "2026-06-03")
	if err != nil {
		t.Fatalf("EventsByRange 失败: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("区间两端均包含，期望 2 个事件，实际=%d", len(events))
	}

	if _, err := env.svc.Schedule.EventsByRange(ctx, user.ID, "2026-06-05", "2026-06-01"); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	event, err := env.svc.Schedule.AddEvent(ctx, user.ID, &dto.CreateEventRequest{
		Title: "答辩", StartTime: start, EndTime: start.Add(time.Hour), Participants: "bob",
	})
	if err != nil {
		t.Fatalf("AddEvent 失败: %v", err)
	}

	if err := env.svc.Schedule.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent 失败: %v", err)
	}
	if err := env.svc.Schedule.DeleteEvent(ctx, event.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("重复删除期望 ErrEventNotFound，实际: %v", err)
	}
}

func TestUpcomingEvents(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	env.svc.Schedule.(*scheduleService).now = fixedClock(now)

	for _, offset := range []int{1, 6, 10} {
		start := now.AddDate(0, 0, offset)
		if _, err := env.svc.Schedule.AddEvent(ctx, user.ID, &dto.CreateEventRequest{
			Title: "安排", StartTime: start, EndTime: start.Add(time.Hour),
		}); err != nil {
			t.Fatalf("AddEvent 失败: %v", err)
		}
	}

	events, err := env.svc.Schedule.UpcomingEvents(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("UpcomingEvents 失败: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("默认 7 天内期望 2 个事件，实际=%d", len(events))
	}
}

// ── ICS 解析 ──

const weeklyICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//NewLab//Test//CN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:seminar-1\r\n" +
	"SUMMARY:周例会\r\n" +
	"DESCRIPTION:进展汇报\r\n" +
	"DTSTART:20260302T060000Z\r\n" +
	"DTEND:20260302T073000Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"EXDATE:20260316T060000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:once-1\r\n" +
	"SUMMARY:设备检修\r\n" +
	"DTSTART:20260305T010000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS_ExpandsWeeklyRule(t *testing.T) {
	events, err := ParseICS(strings.NewReader(weeklyICS), 7)
	if err != nil {
		t.Fatalf("ParseICS 失败: %v", err)
	}

	// 4 次周例会去掉 1 个 EXDATE，加 1 个单次事件
	if len(events) != 4 {
		t.Fatalf("期望 4 个事件，实际=%d", len(events))
	}

	first := events[0]
	if first.Title != "周例会" || first.UserID != 7 {
		t.Errorf("首个事件不符: %+v", first)
	}
	if first.EndTime.Sub(first.StartTime) != 90*time.Minute {
		t.Errorf("期望时长 90 分钟，实际=%v", first.EndTime.Sub(first.StartTime))
	}

	once := events[1]
	if once.Title != "设备检修" || once.EndTime.Sub(once.StartTime) != time.Hour {
		t.Errorf("缺少 DTEND 时应按 1 小时处理: %+v", once)
	}

	for _, e := range events {
		if e.StartTime.Format("2006-01-02") == "2026-03-16" {
			t.Error("EXDATE 指定的日期不应出现")
		}
	}
}

func TestImportICS(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	result, err := env.svc.Schedule.ImportICS(ctx, user.ID, strings.NewReader(weeklyICS))
	if err != nil {
		t.Fatalf("ImportICS 失败: %v", err)
	}
	if result.Success != 4 {
		t.Errorf("期望导入 4 个事件，实际=%d", result.Success)
	}

	events, err := env.svc.Schedule.EventsByRange(ctx, user.ID, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("EventsByRange 失败: %v", err)
	}
	if len(events) != 4 {
		t.Errorf("期望查到 4 个事件，实际=%d", len(events))
	}

	empty := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"
	if _, err := env.svc.Schedule.ImportICS(ctx, user.ID, strings.NewReader(empty)); !errors.Is(err, ErrICSNoEvents) {
		t.Errorf("空日历期望 ErrICSNoEvents，实际: %v", err)
	}
}
