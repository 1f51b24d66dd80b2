package chatsvc

import (
	"errors"
	"testing"
	"time"

	"bienfaire_commerce/internal/common"
)

func TestSpamThrottle_AllowsUpToLimit(t *testing.T) {
	throttle := newSpamThrottle()

	for i := 0; i < spamMaxMessages; i++ {
		if !throttle.allow("chat_user_abc") {
			t.Fatalf("tin nhắn thứ %d trong cửa sổ phải được chấp nhận", i+1)
		}
	}
	if throttle.allow("chat_user_abc") {
		t.Error("tin nhắn vượt ngưỡng trong cửa sổ phải bị từ chối")
	}
	// Vẫn bị chặn chừng nào cửa sổ chưa trôi qua
	if throttle.allow("chat_user_abc") {
		t.Error("tin nhắn tiếp theo vẫn phải bị từ chối")
	}
}

func TestSpamThrottle_PerChatIsolation(t *testing.T) {
	throttle := newSpamThrottle()

	for i := 0; i < spamMaxMessages; i++ {
		throttle.allow("chat_user_abc")
	}
	if throttle.allow("chat_user_abc") {
		t.Fatal("phiên đã vượt ngưỡng phải bị chặn")
	}
	if !throttle.allow("chat_user_xyz") {
		t.Error("phiên khác không bị ảnh hưởng bởi ngưỡng của phiên đầu")
	}
}

func TestAllowSend_SharedWindowAcrossWritePaths(t *testing.T) {
	// allowSend là rào chắn chung của SendMessage lẫn RequestHuman:
	// mọi thao tác ghi của khách đều tiêu một suất trong cùng cửa sổ
	service := &WidgetService{throttle: newSpamThrottle()}

	for i := 0; i < spamMaxMessages; i++ {
		if err := service.allowSend("chat_user_abc"); err != nil {
			t.Fatalf("thao tác thứ %d trong cửa sổ phải được chấp nhận: %v", i+1, err)
		}
	}
	err := service.allowSend("chat_user_abc")
	if !errors.Is(err, common.ErrChatThrottled) {
		t.Errorf("vượt ngưỡng phải trả ErrChatThrottled, được %v", err)
	}
}

func TestSpamThrottle_WindowSlides(t *testing.T) {
	throttle := newSpamThrottle()

	// Backdate toàn bộ lịch sử ra ngoài cửa sổ rồi kiểm tra được gửi lại
	for i := 0; i < spamMaxMessages; i++ {
		throttle.allow("chat_user_abc")
	}
	throttle.mu.Lock()
	aged := make([]time.Time, 0, spamMaxMessages)
	for range throttle.history["chat_user_abc"] {
		aged = append(aged, time.Now().Add(-spamWindow-time.Second))
	}
	throttle.history["chat_user_abc"] = aged
	throttle.mu.Unlock()

	if !throttle.allow("chat_user_abc") {
		t.Error("lịch sử ngoài cửa sổ phải được dọn và cho phép gửi lại")
	}
}
