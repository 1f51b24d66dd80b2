package cataloghdl

import (
	"fmt"

	basehdl "bienfaire_commerce/internal/api/base/handler"
	basesvc "bienfaire_commerce/internal/api/base/service"
	catalogdto "bienfaire_commerce/internal/api/catalog/dto"
	models "bienfaire_commerce/internal/api/catalog/models"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"
)

// OrderHandler CRUD trên catalog_orders
type OrderHandler struct {
	*basehdl.BaseHandler[models.Order, catalogdto.OrderCreateInput, catalogdto.OrderUpdateInput]
}

// NewOrderHandler tạo instance mới của OrderHandler
func NewOrderHandler() (*OrderHandler, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %v", common.ErrNotFound)
	}
	service := basesvc.NewBaseServiceMongo[models.Order](collection)
	return &OrderHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Order, catalogdto.OrderCreateInput, catalogdto.OrderUpdateInput](service),
	}, nil
}
