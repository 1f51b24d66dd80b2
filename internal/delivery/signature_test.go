package delivery

import (
	"testing"

	"bienfaire_commerce/config"
	"bienfaire_commerce/internal/global"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignPayload(t *testing.T) {
	global.ServerConfig = &config.Configuration{JwtSecret: "test_secret"}

	body := []byte(`{"event":"new_user_message","chatId":"chat_user_abc"}`)
	sig := SignPayload(body)

	require.Len(t, sig, 64, "chữ ký HMAC-SHA256 hex phải dài 64 ký tự")

	// Cùng body + cùng secret phải cho cùng chữ ký (bên nhận tính lại để xác thực)
	assert.Equal(t, sig, SignPayload(body), "chữ ký phải deterministic")

	other := SignPayload([]byte(`{"event":"new_user_message","chatId":"chat_user_xyz"}`))
	assert.NotEqual(t, sig, other, "body khác phải cho chữ ký khác")

	global.ServerConfig = &config.Configuration{JwtSecret: "other_secret"}
	assert.NotEqual(t, sig, SignPayload(body), "secret khác phải cho chữ ký khác")
}
