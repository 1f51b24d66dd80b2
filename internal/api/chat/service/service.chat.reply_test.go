// Package chatsvc - Test các tầng keyword của reply engine (FAQ ranking, bot danh mục, rule phẳng).
package chatsvc

import (
	"strings"
	"testing"

	catalogmodels "bienfaire_commerce/internal/api/catalog/models"
)

func TestRankFaqEntries_CategoryMatchWinsOverScore(t *testing.T) {
	entries := []catalogmodels.FaqEntry{
		{Question: "livraison, delai", Answer: "Generique livraison", Category: "", Score: 90},
		{Question: "livraison, zone", Answer: "Livraison par zone", Category: "zone, commune", Score: 10},
	}

	ranked := RankFaqEntries(entries, "Quelle est la livraison pour ma zone ?")
	if len(ranked) != 2 {
		t.Fatalf("Muốn 2 mục khớp, nhận %d", len(ranked))
	}
	// Mục khớp cả category phải đứng trước dù score thấp hơn
	if ranked[0].Answer != "Livraison par zone" {
		t.Errorf("Mục khớp category phải xếp trước, nhận %q", ranked[0].Answer)
	}
}

func TestRankFaqEntries_ScoreOrderWithinSameCategoryState(t *testing.T) {
	entries := []catalogmodels.FaqEntry{
		{Question: "prix", Answer: "A", Score: 5},
		{Question: "prix", Answer: "B", Score: 50},
	}
	ranked := RankFaqEntries(entries, "quel est le prix ?")
	if len(ranked) != 2 || ranked[0].Answer != "B" {
		t.Errorf("Cùng trạng thái category, score cao phải trước: %+v", ranked)
	}
}

func TestRankFaqEntries_NoMatch(t *testing.T) {
	entries := []catalogmodels.FaqEntry{
		{Question: "garantie", Answer: "12 mois"},
	}
	if ranked := RankFaqEntries(entries, "bonjour"); len(ranked) != 0 {
		t.Errorf("Không từ khóa nào khớp thì phải rỗng, nhận %+v", ranked)
	}
}

func TestMatchCategoryBot_PrefixesBotName(t *testing.T) {
	reply, ok := MatchCategoryBot("je veux payer par wave")
	if !ok {
		t.Fatal("Từ khóa paiement phải khớp bot Paiement")
	}
	if !strings.HasPrefix(reply, "Paiement: ") {
		t.Errorf("Reply phải có prefix tên bot, nhận %q", reply)
	}
}

func TestMatchCategoryBot_OrderFirstWins(t *testing.T) {
	// "retour" chỉ thuộc SAV
	reply, ok := MatchCategoryBot("comment faire un retour ?")
	if !ok || !strings.HasPrefix(reply, "SAV: ") {
		t.Errorf("Từ khóa retour phải khớp bot SAV, nhận %q (ok=%v)", reply, ok)
	}
}

func TestMatchFlatRule(t *testing.T) {
	reply, ok := MatchFlatRule("c'est combien ?")
	if !ok {
		t.Fatal("Từ khóa combien phải khớp rule prix")
	}
	if !strings.Contains(reply, "prix") {
		t.Errorf("Rule prix phải nói về prix, nhận %q", reply)
	}

	if _, ok := MatchFlatRule("xyzzy"); ok {
		t.Error("Text không chứa từ khóa nào không được khớp")
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Hello, when is the delivery please?", "en"},
		{"Bonjour, je veux connaitre le prix de la livraison", "fr"},
		{"ok", "fr"}, // không hint nào ⇒ mặc định fr
		{"bonjour hello", "fr"}, // hòa ⇒ fr
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, muốn %q", tc.text, got, tc.want)
		}
	}
}

func TestIsAvailabilityQuestion(t *testing.T) {
	if !IsAvailabilityQuestion("Avez-vous ce produit en stock ?") {
		t.Error("Câu hỏi stock phải được nhận diện")
	}
	if IsAvailabilityQuestion("bonjour merci") {
		t.Error("Câu chào không được nhận diện là câu hỏi tồn kho")
	}
}
