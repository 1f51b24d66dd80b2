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

// FaqHandler CRUD trên catalog_faq
type FaqHandler struct {
	*basehdl.BaseHandler[models.FaqEntry, catalogdto.FaqCreateInput, catalogdto.FaqUpdateInput]
}

// NewFaqHandler tạo instance mới của FaqHandler
func NewFaqHandler() (*FaqHandler, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Faq)
	if !exist {
		return nil, fmt.Errorf("failed to get faq collection: %v", common.ErrNotFound)
	}
	service := basesvc.NewBaseServiceMongo[models.FaqEntry](collection)
	return &FaqHandler{
		BaseHandler: basehdl.NewBaseHandler[models.FaqEntry, catalogdto.FaqCreateInput, catalogdto.FaqUpdateInput](service),
	}, nil
}
