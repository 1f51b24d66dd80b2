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

// SettingsHandler thao tác trên settings_chatbot (1 document per site)
type SettingsHandler struct {
	*basehdl.BaseHandler[models.ChatbotSettings, catalogdto.ChatbotSettingsUpdateInput, catalogdto.ChatbotSettingsUpdateInput]
}

// NewSettingsHandler tạo instance mới của SettingsHandler
func NewSettingsHandler() (*SettingsHandler, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatbotSettings)
	if !exist {
		return nil, fmt.Errorf("failed to get settings collection: %v", common.ErrNotFound)
	}
	service := basesvc.NewBaseServiceMongo[models.ChatbotSettings](collection)
	return &SettingsHandler{
		BaseHandler: basehdl.NewBaseHandler[models.ChatbotSettings, catalogdto.ChatbotSettingsUpdateInput, catalogdto.ChatbotSettingsUpdateInput](service),
	}, nil
}
