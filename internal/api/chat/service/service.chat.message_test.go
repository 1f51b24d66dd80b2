package chatsvc

import (
	"regexp"
	"sort"
	"testing"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
)

func TestIsNoise(t *testing.T) {
	cases := []struct {
		name    string
		message chatmodels.ChatMessage
		want    bool
	}{
		{"sender system", chatmodels.ChatMessage{Sender: chatmodels.SenderSystem, Text: "Session cloturee"}, true},
		{"read receipt", chatmodels.ChatMessage{Sender: chatmodels.SenderAdmin, Type: chatmodels.TypeReadReceipt}, true},
		{"text vu thuong", chatmodels.ChatMessage{Sender: chatmodels.SenderUser, Text: "vu"}, true},
		{"text Vu hoa co khoang trang", chatmodels.ChatMessage{Sender: chatmodels.SenderUser, Text: "  Vu  "}, true},
		{"tin nhan khach thuong", chatmodels.ChatMessage{Sender: chatmodels.SenderUser, Text: "Bonjour"}, false},
		{"tra loi AI", chatmodels.ChatMessage{Sender: chatmodels.SenderAI, Text: "Bonjour !"}, false},
		{"ghi chu admin", chatmodels.ChatMessage{Sender: chatmodels.SenderAdminNote, Text: "client VIP"}, false},
	}

	for _, tc := range cases {
		if got := IsNoise(&tc.message); got != tc.want {
			t.Errorf("%s: IsNoise = %v, mong đợi %v", tc.name, got, tc.want)
		}
	}
}

func TestIsNoise_NilMessage(t *testing.T) {
	if IsNoise(nil) {
		t.Error("IsNoise(nil) phải trả về false")
	}
}

func TestNowSortKey_Format(t *testing.T) {
	key := NowSortKey()

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
	if !pattern.MatchString(key) {
		t.Errorf("NowSortKey = %q không đúng định dạng ISO-8601 UTC", key)
	}
}

func TestSortKeyFromMillis_LexicographicOrder(t *testing.T) {
	// Khóa sắp xếp độ dài cố định: so sánh chuỗi phải trùng với so sánh thời gian
	millis := []int64{
		0,
		1700000000000,
		1700000000001,
		1700000001000,
		1764547200000,
	}

	keys := make([]string, 0, len(millis))
	for _, ms := range millis {
		keys = append(keys, SortKeyFromMillis(ms))
	}

	if !sort.StringsAreSorted(keys) {
		t.Errorf("khóa sắp xếp không tăng dần theo thời gian: %v", keys)
	}

	if keys[1] == keys[2] {
		t.Error("hai thời điểm cách nhau 1ms phải cho khóa khác nhau")
	}
}

func TestSortKeyFromMillis_KnownValue(t *testing.T) {
	if got := SortKeyFromMillis(0); got != "1970-01-01T00:00:00.000Z" {
		t.Errorf("SortKeyFromMillis(0) = %q", got)
	}
}
