// Package registry - generic registry thread-safe cho các singleton của app
// (hiện dùng cho các collection MongoDB đăng ký lúc khởi động).
package registry

import (
	"fmt"
	"sync"

	"bienfaire_commerce/internal/common"
)

// Registry quản lý items theo tên, an toàn cho truy cập đồng thời.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry tạo registry rỗng cho kiểu T
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register đăng ký item dưới tên name, ghi đè nếu đã tồn tại.
// Trả về isNew = false khi ghi đè.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên; exists = false khi chưa đăng ký
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// Len số lượng item đang được quản lý
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
