package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v5"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
)

// ── 资源预约 ──

func TestResourceBooking_SlotsAndCancel(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	res, err := env.svc.Resource.CreateResource(ctx, &dto.CreateResourceRequest{Name: "会议室A", Type: "room"})
	if err != nil {
		t.Fatalf("CreateResource 失败: %v", err)
	}

	slots, err := env.svc.Resource.AvailableSlots(ctx, res.ID, "2026-05-10")
	if err != nil {
		t.Fatalf("AvailableSlots 失败: %v", err)
	}
	if len(slots) != 9 || slots[0] != "09:00-10:00" || slots[8] != "17:00-18:00" {
		t.Fatalf("空闲时段应为 9 个整点段，实际=%v", slots)
	}

	booking, err := env.svc.Resource.Book(ctx, user.ID, res.ID, &dto.BookResourceRequest{Date: "2026-05-10", TimeSlot: "10:00-11:00"})
	if err != nil {
		t.Fatalf("Book 失败: %v", err)
	}
	if booking.ResourceName != "会议室A" {
		t.Errorf("预约应带资源名称，实际=%s", booking.ResourceName)
	}

	// 重复预约同一时段不做校验
	if _, err := env.svc.Resource.Book(ctx, user.ID, res.ID, &dto.BookResourceRequest{Date: "2026-05-10", TimeSlot: "10:00-11:00"}); err != nil {
		t.Errorf("重复预约应被允许: %v", err)
	}

	slots, err = env.svc.Resource.AvailableSlots(ctx, res.ID, "2026-05-10")
	if err != nil {
		t.Fatalf("AvailableSlots 失败: %v", err)
	}
	if len(slots) != 8 {
		t.Errorf("预约后应剩 8 个时段，实际=%d", len(slots))
	}

	if _, err := env.svc.Resource.Book(ctx, user.ID, res.ID, &dto.BookResourceRequest{Date: "2026-05-10", TimeSlot: "20:00-21:00"}); !errors.Is(err, ErrInvalidTimeSlot) {
		t.Errorf("非法时段期望 ErrInvalidTimeSlot，实际: %v", err)
	}
	if _, err := env.svc.Resource.Book(ctx, user.ID, 999, &dto.BookResourceRequest{Date: "2026-05-10", TimeSlot: "09:00-10:00"}); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("资源不存在期望 ErrResourceNotFound，实际: %v", err)
	}

	if err := env.svc.Resource.CancelBooking(ctx, booking.ID, user.ID+1); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("他人取消期望 ErrBookingNotFound，实际: %v", err)
	}
	if err := env.svc.Resource.CancelBooking(ctx, booking.ID, user.ID); err != nil {
		t.Fatalf("CancelBooking 失败: %v", err)
	}
	mine, err := env.svc.Resource.UserBookings(ctx, user.ID)
	if err != nil {
		t.Fatalf("UserBookings 失败: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("取消后应剩 1 条预约，实际=%d", len(mine))
	}
}

// ── 设备 ──

func TestEquipmentBooking_RequiresEquipmentCategory(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")
	scope := addItem(t, env, "电镜", model.CategoryEquipment, 1)
	glove := addItem(t, env, "手套", "耗材", 100)

	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	req := &dto.TimeRangeRequest{EquipmentID: scope.ID, StartTime: start, EndTime: start.Add(2 * time.Hour)}
	if _, err := env.svc.Equipment.Book(ctx, user.ID, req); err != nil {
		t.Fatalf("Book 失败: %v", err)
	}

	bad := &dto.TimeRangeRequest{EquipmentID: glove.ID, StartTime: start, EndTime: start.Add(time.Hour)}
	if _, err := env.svc.Equipment.Book(ctx, user.ID, bad); !errors.Is(err, ErrEquipmentNotFound) {
		t.Errorf("非设备类物品期望 ErrEquipmentNotFound，实际: %v", err)
	}

	if _, err := env.svc.Equipment.LogUsage(ctx, user.ID, req); err != nil {
		t.Fatalf("LogUsage 失败: %v", err)
	}

	bookings, err := env.svc.Equipment.BookingsInRange(ctx, "2026-07-01", "2026-07-01")
	if err != nil {
		t.Fatalf("BookingsInRange 失败: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("期望 1 条设备预约，实际=%d", len(bookings))
	}
	logs, err := env.svc.Equipment.UsageLogsInRange(ctx, "2026-06-30", "2026-07-02")
	if err != nil {
		t.Fatalf("UsageLogsInRange 失败: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("期望 1 条使用日志，实际=%d", len(logs))
	}

	equipment, err := env.svc.Equipment.ListEquipment(ctx)
	if err != nil {
		t.Fatalf("ListEquipment 失败: %v", err)
	}
	if len(equipment) != 1 {
		t.Errorf("设备列表只应包含 equipment 类别，实际=%d", len(equipment))
	}
}

// ── 聊天 ──

func TestSendMessage_PersistsThenBroadcasts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	room, err := env.svc.Communication.CreateRoom(ctx, user.ID, "课题组")
	if err != nil {
		t.Fatalf("CreateRoom 失败: %v", err)
	}
	for _, text := range []string{"早上好", "今天组会"} {
		if _, err := env.svc.Communication.SendMessage(ctx, room.ID, user.ID, user.Username, text); err != nil {
			t.Fatalf("SendMessage 失败: %v", err)
		}
	}

	msgs, err := env.svc.Communication.ListMessages(ctx, room.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages 失败: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "早上好" || msgs[1].Username != "alice" {
		t.Errorf("消息应按时间顺序并带用户名，实际=%+v", msgs)
	}
	if len(env.broadcaster.messages) != 2 || env.broadcaster.messages[0] != "alice:早上好" {
		t.Errorf("广播内容不符: %v", env.broadcaster.messages)
	}

	if _, err := env.svc.Communication.SendMessage(ctx, 999, user.ID, user.Username, "x"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("聊天室不存在期望 ErrRoomNotFound，实际: %v", err)
	}
	if len(env.broadcaster.messages) != 2 {
		t.Error("发送失败时不应广播")
	}
}

// ── 实验室信息 ──

func TestLabInfo_Upsert(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Lab.GetInfo(ctx); !errors.Is(err, ErrLabInfoNotFound) {
		t.Errorf("未设置时期望 ErrLabInfoNotFound，实际: %v", err)
	}
	for _, name := range []string{"催化实验室", "绿色催化实验室"} {
		if _, err := env.svc.Lab.UpdateInfo(ctx, &dto.LabInfoRequest{Name: name}); err != nil {
			t.Fatalf("UpdateInfo 失败: %v", err)
		}
	}
	info, err := env.svc.Lab.GetInfo(ctx)
	if err != nil {
		t.Fatalf("GetInfo 失败: %v", err)
	}
	if info.Name != "绿色催化实验室" {
		t.Errorf("实验室信息应为单行更新，实际=%s", info.Name)
	}
}

func TestRecentPapers_Limit(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	for i := 1; i <= 6; i++ {
		date := time.Date(2026, time.Month(i), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		if _, err := env.svc.Lab.AddPaper(ctx, &dto.PaperRequest{Title: "论文", Date: date}); err != nil {
			t.Fatalf("AddPaper 失败: %v", err)
		}
	}
	papers, err := env.svc.Lab.RecentPapers(ctx)
	if err != nil {
		t.Fatalf("RecentPapers 失败: %v", err)
	}
	if len(papers) != 5 {
		t.Errorf("最近论文最多 5 篇，实际=%d", len(papers))
	}
}

// ── 文献 ──

func TestLiterature_SearchAndUpdate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	lit, err := env.svc.Literature.Add(ctx, user.ID, &dto.LiteratureRequest{
		Title: "Zeolite catalysis", Authors: "Smith", Year: null.IntFrom(2020), Notes: "综述",
	})
	if err != nil {
		t.Fatalf("Add 失败: %v", err)
	}

	found, err := env.svc.Literature.Search(ctx, "Smith")
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("按作者检索期望 1 条，实际=%d", len(found))
	}

	updated, err := env.svc.Literature.Update(ctx, lit.ID, user.ID, &dto.LiteratureRequest{Title: "Zeolite catalysis II"})
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if updated.Title != "Zeolite catalysis II" {
		t.Errorf("标题未更新: %s", updated.Title)
	}

	if err := env.svc.Literature.Delete(ctx, lit.ID, user.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := env.svc.Literature.Get(ctx, lit.ID); !errors.Is(err, ErrLiteratureNotFound) {
		t.Errorf("删除后期望 ErrLiteratureNotFound，实际: %v", err)
	}
}

func TestLiterature_WritesScopedToOwner(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.repo, "alice", "researcher")
	other := createTestUser(t, env.repo, "bob", "guest")

	lit, err := env.svc.Literature.Add(ctx, owner.ID, &dto.LiteratureRequest{Title: "MOF synthesis"})
	if err != nil {
		t.Fatalf("Add 失败: %v", err)
	}

	_, err = env.svc.Literature.Update(ctx, lit.ID, other.ID, &dto.LiteratureRequest{Title: "篡改"})
	if !errors.Is(err, ErrLiteratureNotFound) {
		t.Errorf("他人更新期望 ErrLiteratureNotFound，实际: %v", err)
	}
	if err := env.svc.Literature.Delete(ctx, lit.ID, other.ID); !errors.Is(err, ErrLiteratureNotFound) {
		t.Errorf("他人删除期望 ErrLiteratureNotFound，实际: %v", err)
	}

	got, err := env.svc.Literature.Get(ctx, lit.ID)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got.Title != "MOF synthesis" {
		t.Errorf("他人操作后标题不应变化，实际: %s", got.Title)
	}
}
