package delivery

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"bienfaire_commerce/internal/global"
)

// SignPayload tạo chữ ký HMAC-SHA256 (hex) cho body webhook từ JWT secret.
// Bên nhận tính lại cùng chữ ký để xác thực nguồn gửi.
func SignPayload(body []byte) string {
	mac := hmac.New(sha256.New, []byte(global.ServerConfig.JwtSecret+"_webhook_signature_key"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
