// Package aisvc - dựng context site/sản phẩm gửi kèm AI request.
package aisvc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	catalogmodels "bienfaire_commerce/internal/api/catalog/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// contextTTL context được rebuild tối đa mỗi 10 giây
	contextTTL = 10 * time.Second
	// contextMaxChars giới hạn kích thước context gửi đi
	contextMaxChars = 18000
	// contextMaxProducts số sản phẩm tối đa trong digest
	contextMaxProducts = 60
	// contextMaxFaq số mục FAQ tối đa trong digest
	contextMaxFaq = 40
)

// ContextBuilder dựng digest sản phẩm/FAQ làm context cho AI,
// cache theo TTL để không query catalog mỗi tin nhắn.
type ContextBuilder struct {
	productService *basesvc.BaseServiceMongoImpl[catalogmodels.Product]
	faqService     *basesvc.BaseServiceMongoImpl[catalogmodels.FaqEntry]

	mu      sync.Mutex
	cached  string
	builtAt time.Time
}

var (
	builderInstance *ContextBuilder
	builderOnce     sync.Once
)

// GetContextBuilder trả về singleton ContextBuilder
func GetContextBuilder() (*ContextBuilder, error) {
	var initErr error
	builderOnce.Do(func() {
		builderInstance, initErr = newContextBuilder()
	})
	if builderInstance == nil {
		return nil, initErr
	}
	return builderInstance, nil
}

func newContextBuilder() (*ContextBuilder, error) {
	productCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	faqCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Faq)
	if !exist {
		return nil, fmt.Errorf("failed to get faq collection: %v", common.ErrNotFound)
	}
	return &ContextBuilder{
		productService: basesvc.NewBaseServiceMongo[catalogmodels.Product](productCollection),
		faqService:     basesvc.NewBaseServiceMongo[catalogmodels.FaqEntry](faqCollection),
	}, nil
}

// Build trả về digest sản phẩm + FAQ, cache trong contextTTL, cap contextMaxChars.
// Lỗi query trả về context rỗng (AI vẫn được gọi, chỉ thiếu context).
func (b *ContextBuilder) Build(ctx context.Context) string {
	b.mu.Lock()
	if b.cached != "" && time.Since(b.builtAt) < contextTTL {
		cached := b.cached
		b.mu.Unlock()
		return cached
	}
	b.mu.Unlock()

	var sb strings.Builder

	products, err := b.productService.Find(ctx, bson.M{"outOfStock": bson.M{"$ne": true}},
		options.Find().SetLimit(contextMaxProducts).SetSort(bson.D{{Key: "category", Value: 1}}))
	if err != nil {
		logrus.WithError(err).Warn("🤖 [AI] Không query được products cho context")
	} else if len(products) > 0 {
		sb.WriteString("PRODUITS:\n")
		for _, p := range products {
			sb.WriteString(fmt.Sprintf("- %s | %s | %.0f FCFA | stock: %d\n", p.Name, p.Category, p.Price, p.Stock))
		}
	}

	faqs, err := b.faqService.Find(ctx, bson.M{},
		options.Find().SetLimit(contextMaxFaq).SetSort(bson.D{{Key: "score", Value: -1}}))
	if err != nil {
		logrus.WithError(err).Warn("🤖 [AI] Không query được FAQ cho context")
	} else if len(faqs) > 0 {
		sb.WriteString("FAQ:\n")
		for _, f := range faqs {
			sb.WriteString(fmt.Sprintf("- Q: %s / R: %s\n", f.Question, f.Answer))
		}
	}

	digest := sb.String()
	if len(digest) > contextMaxChars {
		digest = digest[:contextMaxChars]
	}

	b.mu.Lock()
	b.cached = digest
	b.builtAt = time.Now()
	b.mu.Unlock()
	return digest
}
