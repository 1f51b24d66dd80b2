package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"bienfaire_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// JSONResponse ghi JSON với charset=utf-8 rõ ràng (tiếng Việt/Pháp trong payload)
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// errorBody dựng body lỗi thống nhất từ một error bất kỳ.
// Error của common giữ nguyên code/details; lỗi lạ quy về internal.
func errorBody(err error) (int, fiber.Map) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		}
	}
	return common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeDatabase.Code,
		"message": err.Error(),
		"status":  "error",
	}
}

// HandleResponse chuẩn hóa response: err != nil ⇒ body lỗi, ngược lại
// envelope success với data.
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleResponse(c fiber.Ctx, data interface{}, err error) {
	if err != nil {
		status, body := errorBody(err)
		JSONResponse(c, status, body)
		return
	}
	JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// SafeHandler bọc handler với recover: panic vẫn trả response cho client
// thay vì rơi connection.
func (h *BaseHandler[T, CreateInput, UpdateInput]) SafeHandler(c fiber.Ctx, handler func() error) error {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"panic": fmt.Sprintf("%v", r),
				"stack": string(debug.Stack()),
			}).Error("Panic trong handler")
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return handler()
}

// SafeHandlerWrapper biến thể cho handler function không embed BaseHandler
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) error {
	return fn()
}
