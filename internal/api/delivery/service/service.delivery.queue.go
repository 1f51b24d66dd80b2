// Package deliverysvc - service data access cho hàng đợi webhook notification.
package deliverysvc

import (
	"context"
	"fmt"
	"time"

	deliverymodels "bienfaire_commerce/internal/api/delivery/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// staleProcessingSec item ở trạng thái processing quá lâu coi như bị bỏ rơi
const staleProcessingSec = 300

// DeliveryQueueService quản lý collection delivery_queue.
type DeliveryQueueService struct {
	*basesvc.BaseServiceMongoImpl[deliverymodels.NotificationQueueItem]
}

// NewDeliveryQueueService tạo mới DeliveryQueueService
func NewDeliveryQueueService() (*DeliveryQueueService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliveryQueue)
	if !exist {
		return nil, fmt.Errorf("failed to get delivery_queue collection: %v", common.ErrNotFound)
	}
	return &DeliveryQueueService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[deliverymodels.NotificationQueueItem](collection),
	}, nil
}

// FindPending trả về items chờ gửi: status pending đã đến hạn retry,
// hoặc processing bị bỏ rơi quá staleProcessingSec (worker chết giữa chừng).
func (s *DeliveryQueueService) FindPending(ctx context.Context, limit int) ([]deliverymodels.NotificationQueueItem, error) {
	now := time.Now().UnixMilli()
	staleThreshold := now - staleProcessingSec*1000

	filter := bson.M{
		"$and": []bson.M{
			{
				"$or": []bson.M{
					{"status": deliverymodels.QueueStatusPending},
					{
						"status":    deliverymodels.QueueStatusProcessing,
						"updatedAt": bson.M{"$lt": staleThreshold},
					},
				},
			},
			{
				"$or": []bson.M{
					{"nextRetryAt": nil},
					{"nextRetryAt": bson.M{"$lte": now}},
				},
			},
		},
	}

	return s.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit)))
}

// UpdateStatus đổi trạng thái một loạt item theo id
func (s *DeliveryQueueService) UpdateStatus(ctx context.Context, ids []interface{}, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UnixMilli(),
		},
	}, nil)
	return err
}
