// Package chatsvc - reply engine: chuỗi replier cho tin nhắn khách.
//
// Thứ tự resolve (hit đầu tiên thắng):
//  1. FAQ do admin soạn (xếp hạng: trùng category trước, rồi score giảm dần)
//  2. AI proxy (nếu bật và không trong cool-down)
//  3. Shortcut câu hỏi tồn kho khi AI không khả dụng (tra catalog thật)
//  4. Bot theo danh mục (Paiement/Livraison/Stock/Devis/SAV)
//  5. Rule phẳng theo từ khóa
//  6. Câu trả lời mặc định
package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	aisvc "bienfaire_commerce/internal/api/ai/service"
	catalogmodels "bienfaire_commerce/internal/api/catalog/models"
	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultReply câu trả lời cuối cùng khi không rule nào khớp
const DefaultReply = "Je peux aider pour prix, stock, livraison, paiement, devis..."

// aiHistoryTurns số lượt hội thoại gửi kèm AI request
const aiHistoryTurns = 12

// aiSystemPrompt persona cố định của trợ lý
const aiSystemPrompt = "Tu es l'assistant du magasin Bienfaire Commerce. " +
	"Reponds de maniere concise et polie, en francais sauf si le client ecrit en anglais. " +
	"Utilise uniquement les informations du contexte produits/FAQ fourni."

// ReplyCandidate cặp {text, sender} do reply engine sinh ra trước khi ghi thành Message
type ReplyCandidate struct {
	Text   string
	Sender string
	Type   string
}

// availabilityKeywords từ vựng câu hỏi tồn kho
var availabilityKeywords = []string{
	"disponible", "disponibles", "stock", "article", "articles", "produit", "produits",
}

// categoryBot một bot danh mục: tập từ khóa + câu trả lời mẫu
type categoryBot struct {
	Name     string
	Keywords []string
	Replies  []string
}

// categoryBots bảng cố định các bot danh mục, thứ tự = thứ tự thử
var categoryBots = []categoryBot{
	{
		Name:     "Paiement",
		Keywords: []string{"paiement", "payer", "carte", "mobile money", "wave", "orange money", "espece"},
		Replies: []string{
			"Nous acceptons les paiements par carte, mobile money (Wave, Orange Money) et en especes a la livraison.",
			"Vous pouvez payer a la livraison ou en ligne par mobile money. Besoin d'aide pour finaliser ?",
		},
	},
	{
		Name:     "Livraison",
		Keywords: []string{"livraison", "livrer", "delai", "expedition", "envoi", "recevoir"},
		Replies: []string{
			"La livraison se fait sous 24-72h selon votre zone. Les frais dependent de la destination.",
			"Nous livrons partout. Indiquez votre commune pour connaitre le delai et les frais exacts.",
		},
	},
	{
		Name:     "Stock",
		Keywords: []string{"stock", "disponible", "disponibilite", "rupture", "reassort"},
		Replies: []string{
			"La disponibilite est affichee sur chaque fiche produit. Dites-moi quel article vous interesse.",
			"Je peux verifier le stock d'un article precis : donnez-moi son nom.",
		},
	},
	{
		Name:     "Devis",
		Keywords: []string{"devis", "quote", "proforma", "facture proforma", "gros", "quantite"},
		Replies: []string{
			"Pour un devis, envoyez la liste des articles et quantites souhaitees, nous repondons rapidement.",
			"Les commandes en gros beneficient de tarifs degressifs. Decrivez votre besoin pour un devis.",
		},
	},
	{
		Name:     "SAV",
		Keywords: []string{"sav", "retour", "rembourse", "remboursement", "echange", "defectueux", "panne", "probleme"},
		Replies: []string{
			"Les retours sont acceptes sous 7 jours avec l'emballage d'origine. Decrivez le probleme rencontre.",
			"Notre SAV va vous aider : precisez le produit concerne et la date d'achat.",
		},
	},
}

// flatRule một rule phẳng {keywords, reply}
type flatRule struct {
	Keywords []string
	Reply    string
}

// flatRules liste ordonnée, premier match gagne
var flatRules = []flatRule{
	{[]string{"prix", "cout", "combien", "tarif"}, "Les prix sont affiches sur chaque fiche produit. Quel article vous interesse ?"},
	{[]string{"livraison", "livrer"}, "Livraison sous 24-72h selon la zone. Frais variables selon la destination."},
	{[]string{"paiement", "payer"}, "Paiement par carte, mobile money ou especes a la livraison."},
	{[]string{"stock", "disponible"}, "Consultez la fiche produit pour la disponibilite, ou donnez-moi le nom de l'article."},
	{[]string{"garantie"}, "Nos produits sont garantis 12 mois sauf mention contraire sur la fiche."},
	{[]string{"facture"}, "La facture est envoyee par email apres chaque commande. Besoin d'un duplicata ?"},
	{[]string{"contact", "telephone", "appeler"}, "Vous pouvez nous joindre via ce chat ou par email. Un conseiller vous repond rapidement."},
	{[]string{"heure", "horaire", "ouvert"}, "Nous sommes ouverts du lundi au samedi, 8h-19h."},
	{[]string{"reduction", "promo", "remise", "solde"}, "Les promotions en cours sont sur la page d'accueil. Inscrivez-vous a la newsletter pour les codes promo."},
}

// englishHints / frenchHints từ vựng phát hiện ngôn ngữ
var englishHints = []string{"the", "is", "are", "you", "hello", "hi", "please", "thanks", "price", "delivery", "order", "available", "when", "how"}
var frenchHints = []string{"le", "la", "les", "bonjour", "salut", "merci", "prix", "livraison", "commande", "disponible", "quand", "comment", "je", "vous"}

// DetectLanguage đếm hint words en/fr, chỉ chọn "en" khi thắng tuyệt đối
func DetectLanguage(text string) string {
	words := strings.Fields(strings.ToLower(text))
	var en, fr int
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"")
		for _, h := range englishHints {
			if w == h {
				en++
				break
			}
		}
		for _, h := range frenchHints {
			if w == h {
				fr++
				break
			}
		}
	}
	if en > fr {
		return "en"
	}
	return "fr"
}

// IsAvailabilityQuestion kiểm tra text có chứa từ vựng câu hỏi tồn kho
func IsAvailabilityQuestion(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range availabilityKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// faqMatch kết quả xếp hạng một mục FAQ
type faqMatch struct {
	entry         catalogmodels.FaqEntry
	categoryMatch bool
}

// RankFaqEntries lọc và xếp hạng FAQ theo text: mục khớp khi bất kỳ từ khóa
// question nào là substring của text (lowercase). Mục có category cũng khớp
// xếp trên mục không, bất kể score; cùng trạng thái category thì score cao hơn trước.
func RankFaqEntries(entries []catalogmodels.FaqEntry, text string) []catalogmodels.FaqEntry {
	lowered := strings.ToLower(text)

	matches := []faqMatch{}
	for _, entry := range entries {
		if !keywordListMatches(entry.Question, lowered) {
			continue
		}
		matches = append(matches, faqMatch{
			entry:         entry,
			categoryMatch: keywordListMatches(entry.Category, lowered),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].categoryMatch != matches[j].categoryMatch {
			return matches[i].categoryMatch
		}
		return matches[i].entry.Score > matches[j].entry.Score
	})

	ranked := make([]catalogmodels.FaqEntry, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.entry)
	}
	return ranked
}

// keywordListMatches kiểm tra bất kỳ từ khóa nào (phân cách dấu phẩy)
// là substring của loweredText
func keywordListMatches(keywordList, loweredText string) bool {
	for _, kw := range strings.Split(keywordList, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(loweredText, kw) {
			return true
		}
	}
	return false
}

// MatchCategoryBot trả về reply của bot danh mục đầu tiên có từ khóa khớp
// (reply chọn ngẫu nhiên trong các mẫu, prefix tên bot)
func MatchCategoryBot(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, bot := range categoryBots {
		for _, kw := range bot.Keywords {
			if strings.Contains(lowered, kw) {
				reply := bot.Replies[rand.Intn(len(bot.Replies))]
				return bot.Name + ": " + reply, true
			}
		}
	}
	return "", false
}

// MatchFlatRule trả về reply của rule phẳng đầu tiên khớp
func MatchFlatRule(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range flatRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Reply, true
			}
		}
	}
	return "", false
}

// ReplyEngine sinh câu trả lời tự động cho tin nhắn khách.
type ReplyEngine struct {
	faqService      *basesvc.BaseServiceMongoImpl[catalogmodels.FaqEntry]
	productService  *basesvc.BaseServiceMongoImpl[catalogmodels.Product]
	settingsService *basesvc.BaseServiceMongoImpl[catalogmodels.ChatbotSettings]
	aiClient        *aisvc.Client
	contextBuilder  *aisvc.ContextBuilder
}

// NewReplyEngine tạo mới ReplyEngine
func NewReplyEngine() (*ReplyEngine, error) {
	faqCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Faq)
	if !exist {
		return nil, fmt.Errorf("failed to get faq collection: %v", common.ErrNotFound)
	}
	productCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	settingsCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatbotSettings)
	if !exist {
		return nil, fmt.Errorf("failed to get settings collection: %v", common.ErrNotFound)
	}
	contextBuilder, err := aisvc.GetContextBuilder()
	if err != nil {
		return nil, err
	}
	return &ReplyEngine{
		faqService:      basesvc.NewBaseServiceMongo[catalogmodels.FaqEntry](faqCollection),
		productService:  basesvc.NewBaseServiceMongo[catalogmodels.Product](productCollection),
		settingsService: basesvc.NewBaseServiceMongo[catalogmodels.ChatbotSettings](settingsCollection),
		aiClient:        aisvc.GetClient(),
		contextBuilder:  contextBuilder,
	}, nil
}

// Reply chạy chuỗi replier cho một tin nhắn khách.
// history là các tin nhắn không-noise gần nhất (thứ tự thời gian).
func (e *ReplyEngine) Reply(ctx context.Context, userText string, history []chatmodels.ChatMessage) (ReplyCandidate, error) {
	// 1. FAQ
	entries, err := e.faqService.Find(ctx, bson.M{}, nil)
	if err != nil {
		logrus.WithError(err).Warn("💬 [REPLY] Không query được FAQ, bỏ qua tầng FAQ")
	} else if ranked := RankFaqEntries(entries, userText); len(ranked) > 0 {
		return ReplyCandidate{Text: ranked[0].Answer, Sender: chatmodels.SenderBot}, nil
	}

	// 2. AI proxy
	if e.aiEnabled(ctx) && e.aiClient.Available() {
		reply, err := e.aiClient.Reply(ctx, userText, toAITurns(history), e.contextBuilder.Build(ctx), aiSystemPrompt)
		if err == nil && reply != "" {
			return ReplyCandidate{Text: reply, Sender: chatmodels.SenderAI, Type: chatmodels.TypeAIAuto}, nil
		}
		if err != nil && !errors.Is(err, common.ErrAICoolingDown) && !errors.Is(err, common.ErrAIUnavailable) {
			logrus.WithError(err).Warn("💬 [REPLY] Lỗi AI không mong đợi, rơi xuống keyword")
		}
	}

	// 3. Shortcut tồn kho: AI không khả dụng nhưng khách hỏi về stock
	if IsAvailabilityQuestion(userText) {
		if answer, ok := e.availabilityAnswer(ctx); ok {
			return ReplyCandidate{Text: answer, Sender: chatmodels.SenderBot, Type: chatmodels.TypeAICatalogFallback}, nil
		}
	}

	// 4. Bot danh mục
	if reply, ok := MatchCategoryBot(userText); ok {
		return ReplyCandidate{Text: reply, Sender: chatmodels.SenderBot}, nil
	}

	// 5. Rule phẳng
	if reply, ok := MatchFlatRule(userText); ok {
		return ReplyCandidate{Text: reply, Sender: chatmodels.SenderBot}, nil
	}

	// 6. Mặc định
	return ReplyCandidate{Text: DefaultReply, Sender: chatmodels.SenderBot}, nil
}

// aiEnabled đọc toggle aiEnabled từ settings_chatbot (mặc định bật khi thiếu document)
func (e *ReplyEngine) aiEnabled(ctx context.Context) bool {
	settings, err := e.settingsService.FindOne(ctx, bson.M{}, nil)
	if err != nil {
		return true
	}
	return settings.AIEnabled
}

// availabilityAnswer tổng hợp câu trả lời tồn kho từ catalog thật:
// chỉ sản phẩm còn hàng, nhóm theo danh mục, tối đa 5 mục mỗi danh mục.
func (e *ReplyEngine) availabilityAnswer(ctx context.Context) (string, bool) {
	const maxPerCategory = 5

	products, err := e.productService.Find(ctx, bson.M{"outOfStock": bson.M{"$ne": true}},
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil || len(products) == 0 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("Voici nos articles disponibles :\n")
	currentCategory := ""
	countInCategory := 0
	for _, p := range products {
		if p.Category != currentCategory {
			currentCategory = p.Category
			countInCategory = 0
			sb.WriteString(fmt.Sprintf("\n%s :\n", p.Category))
		}
		if countInCategory >= maxPerCategory {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s : %.0f FCFA (stock %d)\n", p.Name, p.Price, p.Stock))
		countInCategory++
	}
	return sb.String(), true
}

// toAITurns chuyển history thành các lượt {role, content} cho AI (tối đa aiHistoryTurns)
func toAITurns(history []chatmodels.ChatMessage) []aisvc.Turn {
	start := 0
	if len(history) > aiHistoryTurns {
		start = len(history) - aiHistoryTurns
	}
	turns := make([]aisvc.Turn, 0, len(history)-start)
	for _, m := range history[start:] {
		role := "assistant"
		if m.Sender == chatmodels.SenderUser {
			role = "user"
		}
		turns = append(turns, aisvc.Turn{Role: role, Content: m.Text})
	}
	return turns
}
