// Package chatsvc - Test identity resolver: id ổn định theo email, phân loại legacy/modern.
package chatsvc

import (
	"strings"
	"testing"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
)

func TestResolveByEmail_StableAndNormalized(t *testing.T) {
	a := ResolveByEmail("client@example.com")
	b := ResolveByEmail("  Client@Example.COM ")
	if a != b {
		t.Errorf("Cùng email (sau normalize) phải cho cùng id: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, SessionIDUserPrefix) {
		t.Errorf("Id theo email phải có prefix %q, nhận %q", SessionIDUserPrefix, a)
	}
	if c := ResolveByEmail("autre@example.com"); c == a {
		t.Errorf("Email khác phải cho id khác, cả hai đều là %q", a)
	}
}

func TestResolveSessionID_Branches(t *testing.T) {
	// Có email: id dẫn xuất, bỏ qua id hiện tại
	withEmail := ResolveSessionID("client@example.com", "chat_123_abc")
	if withEmail != ResolveByEmail("client@example.com") {
		t.Errorf("Có email phải dùng id dẫn xuất, nhận %q", withEmail)
	}

	// Không email, có id hiện tại: giữ nguyên
	if got := ResolveSessionID("", "chat_123_abc"); got != "chat_123_abc" {
		t.Errorf("Không email phải giữ id hiện tại, nhận %q", got)
	}

	// Không email, không id: mint id ngẫu nhiên theo scheme anonymous
	minted := ResolveSessionID("", "")
	if !strings.HasPrefix(minted, "chat_") || strings.HasPrefix(minted, SessionIDUserPrefix) {
		t.Errorf("Id anonymous phải theo scheme chat_<ms>_<suffix>, nhận %q", minted)
	}
}

func TestIsLegacy_Classification(t *testing.T) {
	cases := []struct {
		name    string
		session chatmodels.ChatSession
		want    bool
	}{
		{"id cũ, không danh tính", chatmodels.ChatSession{ID: "chat_1700000000000_x7k2p9"}, true},
		{"id cũ, tên placeholder", chatmodels.ChatSession{ID: "chat_1700000000000_x7k2p9", UserName: "Client"}, true},
		{"id cũ nhưng có email", chatmodels.ChatSession{ID: "chat_1700000000000_x7k2p9", UserEmail: "a@b.com"}, false},
		{"id cũ nhưng có tên thật", chatmodels.ChatSession{ID: "chat_1700000000000_x7k2p9", UserName: "Awa Diop"}, false},
		{"id theo email", chatmodels.ChatSession{ID: SessionIDUserPrefix + "abc123"}, false},
	}
	for _, tc := range cases {
		if got := IsLegacy(&tc.session); got != tc.want {
			t.Errorf("%s: IsLegacy = %v, muốn %v", tc.name, got, tc.want)
		}
	}
}

func TestIsModern_Classification(t *testing.T) {
	if !IsModern(&chatmodels.ChatSession{ID: SessionIDUserPrefix + "abc"}) {
		t.Error("Phiên có id dẫn xuất từ email phải là modern")
	}
	if !IsModern(&chatmodels.ChatSession{ID: "chat_1700000000000_x7k2p9", UserEmail: "a@b.com"}) {
		t.Error("Phiên id cũ nhưng đã có email phải là modern")
	}
	if IsModern(&chatmodels.ChatSession{ID: "chat_1700000000000_x7k2p9"}) {
		t.Error("Phiên id cũ không email không được là modern")
	}
}
