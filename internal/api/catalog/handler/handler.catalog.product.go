// Package cataloghdl - handler CRUD cho domain catalog.
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

// ProductHandler CRUD trên catalog_products
type ProductHandler struct {
	*basehdl.BaseHandler[models.Product, catalogdto.ProductCreateInput, catalogdto.ProductUpdateInput]
}

// NewProductHandler tạo instance mới của ProductHandler
func NewProductHandler() (*ProductHandler, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	service := basesvc.NewBaseServiceMongo[models.Product](collection)
	return &ProductHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Product, catalogdto.ProductCreateInput, catalogdto.ProductUpdateInput](service),
	}, nil
}
