// Package chatsvc - Test handoff: summary transcript và resume phrases.
package chatsvc

import (
	"strings"
	"testing"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildHandoffSummary_TagsAndJoins(t *testing.T) {
	messages := []chatmodels.ChatMessage{
		{Sender: chatmodels.SenderUser, Text: "Bonjour"},
		{Sender: chatmodels.SenderBot, Text: "Bonjour, comment puis-je aider ?"},
		{Sender: chatmodels.SenderAI, Text: "Le prix est 5000 FCFA"},
		{Sender: chatmodels.SenderAdmin, Text: "Je prends le relais"},
	}

	summary := BuildHandoffSummary(messages)

	if !strings.Contains(summary, "[CLIENT] Bonjour") {
		t.Errorf("Summary thiếu tag [CLIENT]: %q", summary)
	}
	if !strings.Contains(summary, "[IA] Le prix est 5000 FCFA") {
		t.Errorf("Tin nhắn AI phải tag [IA]: %q", summary)
	}
	if !strings.Contains(summary, "[AUTRE] Je prends le relais") {
		t.Errorf("Tin nhắn admin phải tag [AUTRE]: %q", summary)
	}
	if !strings.Contains(summary, " | ") {
		t.Errorf("Các phần phải nối bằng ' | ': %q", summary)
	}
}

func TestBuildHandoffSummary_SkipsNoise(t *testing.T) {
	messages := []chatmodels.ChatMessage{
		{Sender: chatmodels.SenderSystem, Text: "notice"},
		{Sender: chatmodels.SenderUser, Type: chatmodels.TypeReadReceipt, Text: "x"},
		{Sender: chatmodels.SenderUser, Text: "Vu"},
		{Sender: chatmodels.SenderUser, Text: "Question reelle"},
	}
	summary := BuildHandoffSummary(messages)
	if summary != "[CLIENT] Question reelle" {
		t.Errorf("Summary phải bỏ noise, nhận %q", summary)
	}
}

func TestBuildHandoffSummary_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 2000)
	summary := BuildHandoffSummary([]chatmodels.ChatMessage{
		{Sender: chatmodels.SenderUser, Text: long},
	})
	if len(summary) > summaryMaxChars {
		t.Errorf("Summary phải bị cắt tại %d ký tự, nhận %d", summaryMaxChars, len(summary))
	}
}

func TestRecentHumanRequestFilter_DedupeWindow(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	filter := recentHumanRequestFilter("chat_user_abc", now)

	if filter["chatId"] != "chat_user_abc" {
		t.Errorf("filter phải giới hạn theo chatId, được %v", filter["chatId"])
	}
	if filter["type"] != chatmodels.TypeHumanRequest {
		t.Errorf("filter phải chỉ khớp human_request, được %v", filter["type"])
	}

	cutoff, ok := filter["createdAt"].(bson.M)["$gt"].(string)
	if !ok {
		t.Fatalf("createdAt phải so sánh $gt với khóa sắp xếp chuỗi, được %v", filter["createdAt"])
	}

	// Yêu cầu 4 phút trước còn trong cửa sổ ⇒ yêu cầu lặp lại là no-op
	within := SortKeyFromMillis(now.Add(-4 * time.Minute).UnixMilli())
	if within <= cutoff {
		t.Errorf("yêu cầu 4 phút trước phải nằm trong cửa sổ: %q <= %q", within, cutoff)
	}
	// Yêu cầu 6 phút trước đã ra ngoài cửa sổ ⇒ được ghi human_request mới
	outside := SortKeyFromMillis(now.Add(-6 * time.Minute).UnixMilli())
	if outside > cutoff {
		t.Errorf("yêu cầu 6 phút trước phải nằm ngoài cửa sổ: %q > %q", outside, cutoff)
	}
	// Đúng biên không được tính là gần đây ($gt, không phải $gte)
	boundary := SortKeyFromMillis(now.Add(-handoffIdempotenceWindow).UnixMilli())
	if boundary > cutoff {
		t.Errorf("đúng biên cửa sổ không được khớp filter: %q > %q", boundary, cutoff)
	}
}

func TestIsResumePhrase(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"reprendre ia", true},
		{"  Reprendre IA  ", true},
		{"réactiver ia", true},
		{"retour assistant", true},
		{"je veux reprendre ia maintenant", false}, // phải là cụm từ chính xác
		{"bonjour", false},
	}
	for _, tc := range cases {
		if got := IsResumePhrase(tc.text); got != tc.want {
			t.Errorf("IsResumePhrase(%q) = %v, muốn %v", tc.text, got, tc.want)
		}
	}
}
