package basehdl

import (
	"context"
	"time"

	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"
	deliverymodels "bienfaire_commerce/internal/api/delivery/models"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// startedAt mốc khởi động process, dùng tính uptime
var startedAt = time.Now()

// SystemHandler xử lý các route hệ thống (health check)
type SystemHandler struct {
	*BaseHandler[interface{}, interface{}, interface{}]
}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler() (*SystemHandler, error) {
	return &SystemHandler{
		BaseHandler: &BaseHandler[interface{}, interface{}, interface{}]{},
	}, nil
}

// HandleHealth trả về trạng thái hệ thống: kết nối MongoDB, số collection
// đã đăng ký và độ sâu hàng đợi webhook đang chờ. Database lỗi ⇒ 503.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":      "healthy",
		"timestamp":   time.Now().Format(time.RFC3339),
		"uptimeSec":   int64(time.Since(startedAt).Seconds()),
		"collections": global.RegistryCollections.Len(),
		"services":    services,
	}

	if global.MongoDB_Session == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
		return c.Status(common.StatusOK).JSON(fiber.Map{
			"code":    common.StatusOK,
			"message": common.MsgSuccess,
			"data":    healthData,
			"status":  "success",
		})
	}

	if err := global.MongoDB_Session.Ping(ctx, nil); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		healthData["database_error"] = err.Error()
		return c.Status(common.StatusServiceUnavailable).JSON(fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Hệ thống đang gặp sự cố",
			"data":    healthData,
			"status":  "error",
		})
	}
	services["database"] = "ok"

	// Độ sâu queue webhook: best-effort, không ảnh hưởng trạng thái health
	if queueCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliveryQueue); exist {
		pending, err := queueCollection.CountDocuments(ctx, bson.M{"status": deliverymodels.QueueStatusPending})
		if err == nil {
			healthData["deliveryQueuePending"] = pending
			services["delivery"] = "ok"
		}
	}

	return c.Status(common.StatusOK).JSON(fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
