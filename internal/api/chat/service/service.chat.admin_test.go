package chatsvc

import (
	"strings"
	"testing"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestIsSLABreached(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	cases := []struct {
		name    string
		session chatmodels.ChatSession
		want    bool
	}{
		{
			"chờ quá ngưỡng, chưa có phản hồi admin",
			chatmodels.ChatSession{
				Status:             chatmodels.ChatStatusBot,
				FirstUserMessageAt: now.Add(-11 * time.Minute).UnixMilli(),
			},
			true,
		},
		{
			"chờ dưới ngưỡng",
			chatmodels.ChatSession{
				Status:             chatmodels.ChatStatusBot,
				FirstUserMessageAt: now.Add(-5 * time.Minute).UnixMilli(),
			},
			false,
		},
		{
			"admin đã phản hồi",
			chatmodels.ChatSession{
				Status:             chatmodels.ChatStatusHuman,
				FirstUserMessageAt: now.Add(-30 * time.Minute).UnixMilli(),
				FirstAdminReplyAt:  now.Add(-20 * time.Minute).UnixMilli(),
			},
			false,
		},
		{
			"phiên đã đóng",
			chatmodels.ChatSession{
				Status:             chatmodels.ChatStatusClosed,
				FirstUserMessageAt: now.Add(-30 * time.Minute).UnixMilli(),
			},
			false,
		},
		{
			"chưa có tin nhắn khách",
			chatmodels.ChatSession{Status: chatmodels.ChatStatusOpen},
			false,
		},
		{
			"đúng bằng ngưỡng",
			chatmodels.ChatSession{
				Status:             chatmodels.ChatStatusBot,
				FirstUserMessageAt: now.Add(-slaThreshold).UnixMilli(),
			},
			true,
		},
	}

	for _, tc := range cases {
		if got := isSLABreached(tc.session, now); got != tc.want {
			t.Errorf("%s: isSLABreached = %v, mong đợi %v", tc.name, got, tc.want)
		}
	}
}

func TestBuildMessageSearchFilter_MatchesTextAndSenderFields(t *testing.T) {
	filter := buildMessageSearchFilter("", "livraison")

	or, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("filter phải có mảng $or, được %v", filter)
	}
	wantFields := map[string]bool{"text": false, "sender": false, "senderName": false, "senderEmail": false}
	for _, clause := range or {
		for field, pattern := range clause {
			if _, known := wantFields[field]; !known {
				t.Errorf("field không mong đợi trong $or: %q", field)
				continue
			}
			wantFields[field] = true
			p, ok := pattern.(bson.M)
			if !ok || p["$regex"] != "livraison" || p["$options"] != "i" {
				t.Errorf("field %q: pattern phải là regex case-insensitive, được %v", field, pattern)
			}
		}
	}
	for field, seen := range wantFields {
		if !seen {
			t.Errorf("$or thiếu field %q", field)
		}
	}
	if _, has := filter["chatId"]; has {
		t.Error("chatId rỗng thì filter không được giới hạn phiên")
	}
}

func TestBuildMessageSearchFilter_ScopesToChatAndEscapesRegex(t *testing.T) {
	filter := buildMessageSearchFilter("chat_user_abc", "prix (test)?")

	if filter["chatId"] != "chat_user_abc" {
		t.Errorf("filter phải giới hạn theo chatId, được %v", filter["chatId"])
	}
	or := filter["$or"].([]bson.M)
	pattern := or[0]["text"].(bson.M)["$regex"].(string)
	if pattern == "prix (test)?" {
		t.Error("ký tự regex trong query phải được escape")
	}
	if pattern != `prix \(test\)\?` {
		t.Errorf("pattern escape sai: %q", pattern)
	}
}

func TestBuildPrintableTranscript_EscapesAndOrders(t *testing.T) {
	messages := []chatmodels.ChatMessage{
		{Sender: chatmodels.SenderUser, SenderName: "Awa", Text: "Bonjour <script>alert(1)</script>", CreatedAt: "2026-08-01T10:00:00.000Z"},
		{Sender: chatmodels.SenderBot, Text: "Bonjour, comment puis-je aider ?", CreatedAt: "2026-08-01T10:00:05.000Z"},
	}

	page := string(BuildPrintableTranscript("chat_user_abc", messages))

	if !strings.Contains(page, "Conversation chat_user_abc") {
		t.Error("trang in phải có tiêu đề với chatId")
	}
	if strings.Contains(page, "<script>") {
		t.Error("nội dung tin nhắn phải được escape, không thành markup")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("ký tự HTML trong text phải xuất hiện dưới dạng entity")
	}
	first := strings.Index(page, "Bonjour &lt;script&gt;")
	second := strings.Index(page, "comment puis-je aider")
	if first == -1 || second == -1 || first > second {
		t.Errorf("tin nhắn phải giữ thứ tự truyền vào: %d vs %d", first, second)
	}
	if !strings.Contains(page, "Awa") {
		t.Error("senderName phải được dùng làm nhãn khi có")
	}
}

func TestSortSummariesByPriority(t *testing.T) {
	summaries := []SessionSummary{
		{Session: chatmodels.ChatSession{ID: "a", Priority: chatmodels.PriorityNormal, LastMessageAt: 500}},
		{Session: chatmodels.ChatSession{ID: "b", Priority: chatmodels.PriorityUrgent, LastMessageAt: 100}},
		{Session: chatmodels.ChatSession{ID: "c", Priority: chatmodels.PriorityHigh, LastMessageAt: 300}},
		{Session: chatmodels.ChatSession{ID: "d", Priority: chatmodels.PriorityNormal, LastMessageAt: 900}},
		{Session: chatmodels.ChatSession{ID: "e", Priority: chatmodels.PriorityUrgent, LastMessageAt: 200}},
		{Session: chatmodels.ChatSession{ID: "f", Priority: "", LastMessageAt: 700}},
	}

	SortSummariesByPriority(summaries)

	wantOrder := []string{"e", "b", "c", "d", "f", "a"}
	for i, want := range wantOrder {
		if summaries[i].Session.ID != want {
			t.Fatalf("vị trí %d: được %q, mong đợi %q", i, summaries[i].Session.ID, want)
		}
	}
}
