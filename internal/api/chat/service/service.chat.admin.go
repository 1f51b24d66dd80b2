// Package chatsvc - service phía quản trị: inbox, trả lời, bulk ops, export.
package chatsvc

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"

	chatmodels "bienfaire_commerce/internal/api/chat/models"
	basesvc "bienfaire_commerce/internal/api/base/service"
	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"
	"bienfaire_commerce/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slaThreshold: phiên chưa có phản hồi admin sau ngưỡng này bị gắn cờ SLA
const slaThreshold = 10 * time.Minute

// SessionSummary là một dòng trong inbox admin
type SessionSummary struct {
	Session     chatmodels.ChatSession `json:"session"`
	UnreadCount int64                  `json:"unreadCount"`
	SLABreached bool                   `json:"slaBreached"`
}

// InboxFilter lọc danh sách phiên cho inbox admin
type InboxFilter struct {
	Status   string
	Priority string
	// IncludeHidden hiện cả phiên đã soft-archive
	IncludeHidden bool
}

// KPISummary số liệu tổng hợp cho dashboard admin
type KPISummary struct {
	TotalSessions      int64   `json:"totalSessions"`
	OpenSessions       int64   `json:"openSessions"`
	HumanSessions      int64   `json:"humanSessions"`
	ClosedSessions     int64   `json:"closedSessions"`
	TotalMessages      int64   `json:"totalMessages"`
	AvgFirstResponseS  float64 `json:"avgFirstResponseSec"`
	RatedSessions      int64   `json:"ratedSessions"`
	AvgRating          float64 `json:"avgRating"`
	SLABreachedCurrent int64   `json:"slaBreachedCurrent"`
}

// AdminChatService gom các thao tác quản trị trên kênh chat.
type AdminChatService struct {
	sessionService  *SessionService
	messageService  *MessageService
	handoffService  *HandoffService
	identityService *IdentityService
	bannedService   *basesvc.BaseServiceMongoImpl[chatmodels.BannedUser]
	logService      *basesvc.BaseServiceMongoImpl[chatmodels.AdminLog]
}

// NewAdminChatService tạo mới AdminChatService
func NewAdminChatService() (*AdminChatService, error) {
	sessionService, err := NewSessionService()
	if err != nil {
		return nil, err
	}
	messageService, err := NewMessageService()
	if err != nil {
		return nil, err
	}
	handoffService, err := NewHandoffService()
	if err != nil {
		return nil, err
	}
	identityService, err := NewIdentityService()
	if err != nil {
		return nil, err
	}
	bannedCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.BannedUsers)
	if !exist {
		return nil, fmt.Errorf("failed to get banned_users collection: %v", common.ErrNotFound)
	}
	logCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AdminLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get admin_logs collection: %v", common.ErrNotFound)
	}
	return &AdminChatService{
		sessionService:  sessionService,
		messageService:  messageService,
		handoffService:  handoffService,
		identityService: identityService,
		bannedService:   basesvc.NewBaseServiceMongo[chatmodels.BannedUser](bannedCollection),
		logService:      basesvc.NewBaseServiceMongo[chatmodels.AdminLog](logCollection),
	}, nil
}

// ListSessions trả về inbox admin: phiên sắp theo lastMessageAt giảm dần,
// kèm số tin chưa đọc và cờ SLA. Phiên legacy (id cũ, không danh tính)
// bị ẩn khi đã tồn tại phiên hiện đại, trừ khi IncludeHidden.
func (s *AdminChatService) ListSessions(ctx context.Context, filter InboxFilter) ([]SessionSummary, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if !filter.IncludeHidden {
		query["adminHidden"] = bson.M{"$ne": true}
	}

	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}}).SetLimit(500)
	sessions, err := s.sessionService.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	hasModern := false
	for i := range sessions {
		if IsModern(&sessions[i]) {
			hasModern = true
			break
		}
	}

	now := time.Now()
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		// Declutter: ẩn rác legacy khi inbox đã có phiên hiện đại
		if hasModern && !filter.IncludeHidden && IsLegacy(&session) {
			continue
		}
		unread, countErr := s.messageService.CountUnread(ctx, session.ID, session.LastAdminReadAt)
		if countErr != nil {
			logrus.WithFields(logrus.Fields{"chatId": session.ID, "error": countErr.Error()}).Warn("🤝 [ADMIN-CHAT] Không đếm được unread")
			unread = 0
		}
		summaries = append(summaries, SessionSummary{
			Session:     session,
			UnreadCount: unread,
			SLABreached: isSLABreached(session, now),
		})
	}
	return summaries, nil
}

// isSLABreached: phiên mở có tin khách đầu tiên nhưng chưa có phản hồi admin
// quá ngưỡng slaThreshold
func isSLABreached(session chatmodels.ChatSession, now time.Time) bool {
	if session.Status == chatmodels.ChatStatusClosed {
		return false
	}
	if session.FirstUserMessageAt == 0 || session.FirstAdminReplyAt != 0 {
		return false
	}
	waited := now.Sub(time.UnixMilli(session.FirstUserMessageAt))
	return waited >= slaThreshold
}

// Reply ghi câu trả lời của admin vào phiên. Lần đầu phiên được trả lời:
// gán assignedTo, stamp firstAdminReplyAt và firstResponseSec.
func (s *AdminChatService) Reply(ctx context.Context, chatID, adminEmail, adminName, text string) (chatmodels.ChatMessage, error) {
	session, err := s.sessionService.FindByID(ctx, chatID)
	if err != nil {
		return chatmodels.ChatMessage{}, err
	}
	if session.Status == chatmodels.ChatStatusClosed {
		return chatmodels.ChatMessage{}, common.ErrChatClosed
	}

	message, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID:      chatID,
		Sender:      chatmodels.SenderAdmin,
		SenderName:  adminName,
		SenderEmail: adminEmail,
		Text:        text,
	})
	if err != nil {
		return chatmodels.ChatMessage{}, err
	}

	if err := s.sessionService.TouchLastMessage(ctx, chatID, chatmodels.SenderAdmin, text); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [ADMIN-CHAT] Không cập nhật được lastMessage")
	}

	set := map[string]interface{}{"lastAdminReadAt": time.Now().UnixMilli()}
	if session.AssignedTo == "" {
		set["assignedTo"] = adminEmail
	}
	if session.FirstAdminReplyAt == 0 && session.FirstUserMessageAt != 0 {
		now := time.Now().UnixMilli()
		set["firstAdminReplyAt"] = now
		set["firstResponseSec"] = (now - session.FirstUserMessageAt) / 1000
	}
	if _, err := s.sessionService.UpdateOne(ctx, bson.M{"_id": chatID}, &basesvc.UpdateData{Set: set}, nil); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [ADMIN-CHAT] Không stamp được first reply")
	}
	return message, nil
}

// AddNote ghi one note nội bộ (khách không bao giờ thấy)
func (s *AdminChatService) AddNote(ctx context.Context, chatID, adminEmail, adminName, text string) (chatmodels.ChatMessage, error) {
	return s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID:      chatID,
		Sender:      chatmodels.SenderAdminNote,
		SenderName:  adminName,
		SenderEmail: adminEmail,
		Text:        text,
	})
}

// Feed trả về toàn bộ luồng cho admin (gồm cả note, lọc noise)
func (s *AdminChatService) Feed(ctx context.Context, chatID, after string) ([]chatmodels.ChatMessage, error) {
	return s.messageService.Feed(ctx, chatID, after, AudienceAdmin)
}

// MarkRead đánh dấu admin đã đọc phiên
func (s *AdminChatService) MarkRead(ctx context.Context, chatID string) error {
	return s.sessionService.MarkRead(ctx, chatID)
}

// SetPriority đổi độ ưu tiên của phiên
func (s *AdminChatService) SetPriority(ctx context.Context, chatID, priority string) error {
	return s.sessionService.SetPriority(ctx, chatID, priority)
}

// Join/Leave roster phiên (danh sách admin đang mở phiên này)
func (s *AdminChatService) JoinRoster(ctx context.Context, chatID, adminEmail string) error {
	return s.sessionService.JoinRoster(ctx, chatID, adminEmail)
}

func (s *AdminChatService) LeaveRoster(ctx context.Context, chatID, adminEmail string) error {
	return s.sessionService.LeaveRoster(ctx, chatID, adminEmail)
}

// Transfer chuyển phiên giữa hai admin qua handoff coordinator, có audit log
func (s *AdminChatService) Transfer(ctx context.Context, chatID, fromAdmin, toAdmin, byAdminID string) error {
	if err := s.handoffService.Transfer(ctx, chatID, fromAdmin, toAdmin); err != nil {
		return err
	}
	s.writeLog(ctx, byAdminID, fromAdmin, chatmodels.LogActionTransfer, chatID,
		fmt.Sprintf("Transfert vers %s", toAdmin))
	return nil
}

// ResumeAI kích hoạt lại trả lời tự động trên phiên đang human
func (s *AdminChatService) ResumeAI(ctx context.Context, chatID string) error {
	return s.handoffService.ResumeAI(ctx, chatID)
}

// Close đóng phiên, ghi notice hệ thống và lời mời đánh giá.
// Phiên đã đóng thì idempotent, không nhân đôi tin nhắn.
func (s *AdminChatService) Close(ctx context.Context, chatID, adminID, adminEmail string) error {
	session, err := s.sessionService.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	alreadyClosed := session.Status == chatmodels.ChatStatusClosed

	if _, err := s.sessionService.Close(ctx, chatID); err != nil {
		return err
	}
	if alreadyClosed {
		return nil
	}

	if _, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
		ChatID: chatID,
		Sender: chatmodels.SenderSystem,
		Text:   "La conversation a ete cloturee par notre equipe.",
	}); err != nil {
		logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [ADMIN-CHAT] Không ghi được notice đóng phiên")
	}
	if session.Rating == 0 {
		if _, err := s.messageService.Append(ctx, chatmodels.ChatMessage{
			ChatID: chatID,
			Sender: chatmodels.SenderBot,
			Type:   chatmodels.TypeRatingRequest,
			Text:   "Comment evaluez-vous cet echange ? (1 a 5 etoiles)",
		}); err != nil {
			logrus.WithFields(logrus.Fields{"chatId": chatID, "error": err.Error()}).Warn("🤝 [ADMIN-CHAT] Không ghi được lời mời đánh giá")
		}
	}
	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionCloseSession, chatID, "")
	return nil
}

// BanUser chặn một email khỏi kênh chat
func (s *AdminChatService) BanUser(ctx context.Context, email, reason, adminID, adminEmail string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utility.ValidateEmail(email); err != nil {
		return err
	}
	_, err := s.bannedService.InsertOne(ctx, chatmodels.BannedUser{
		Email:    email,
		Reason:   reason,
		BannedBy: adminEmail,
	})
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil // đã bị chặn từ trước
		}
		return err
	}
	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionBanUser, email, reason)
	return nil
}

// UnbanUser gỡ chặn một email
func (s *AdminChatService) UnbanUser(ctx context.Context, email, adminID, adminEmail string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.bannedService.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return err
	}
	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionUnbanUser, email, "")
	return nil
}

// ListBanned trả về danh sách email đang bị chặn
func (s *AdminChatService) ListBanned(ctx context.Context) ([]chatmodels.BannedUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.bannedService.Find(ctx, bson.M{}, opts)
}

// ClearAll xoá toàn bộ tin nhắn + phiên chat. Nếu xoá cứng thất bại,
// fallback soft-archive từng phiên để inbox vẫn sạch.
func (s *AdminChatService) ClearAll(ctx context.Context, adminID, adminEmail string) (int64, int64, error) {
	deletedMessages, msgErr := s.messageService.DeleteMany(ctx, bson.M{})
	deletedSessions, sessErr := s.sessionService.DeleteMany(ctx, bson.M{})

	if msgErr != nil || sessErr != nil {
		logrus.WithFields(logrus.Fields{
			"messagesError": fmt.Sprintf("%v", msgErr),
			"sessionsError": fmt.Sprintf("%v", sessErr),
		}).Warn("🤝 [ADMIN-CHAT] Clear all thất bại một phần, fallback archive")
		sessions, err := s.sessionService.Find(ctx, bson.M{"adminHidden": bson.M{"$ne": true}}, nil)
		if err != nil {
			return deletedMessages, deletedSessions, err
		}
		for _, session := range sessions {
			if err := s.sessionService.SoftArchive(ctx, session.ID); err != nil {
				logrus.WithFields(logrus.Fields{"chatId": session.ID, "error": err.Error()}).Warn("🤝 [ADMIN-CHAT] Archive fallback fail")
			}
		}
	}

	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionClearAll, "",
		fmt.Sprintf("%d messages, %d sessions", deletedMessages, deletedSessions))
	return deletedMessages, deletedSessions, nil
}

// CleanupNoise xoá tin nhắn nhiễu (system, read_receipt, "vu").
// chatID rỗng áp dụng trên mọi phiên.
func (s *AdminChatService) CleanupNoise(ctx context.Context, chatID, adminID, adminEmail string) (int64, error) {
	deleted, err := s.messageService.DeleteNoise(ctx, chatID)
	if err != nil {
		return 0, err
	}
	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionCleanupNoise, chatID,
		fmt.Sprintf("%d messages", deleted))
	return deleted, nil
}

// ExportCSV xuất transcript một phiên (hoặc mọi phiên nếu chatID rỗng) ra CSV.
func (s *AdminChatService) ExportCSV(ctx context.Context, chatID, adminID, adminEmail string) ([]byte, error) {
	filter := bson.M{}
	if chatID != "" {
		filter["chatId"] = chatID
	}
	opts := options.Find().SetSort(bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: 1}})
	messages, err := s.messageService.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{"chatId", "createdAt", "sender", "senderName", "senderEmail", "type", "text"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, message := range messages {
		record := []string{
			message.ChatID,
			message.CreatedAt,
			message.Sender,
			message.SenderName,
			message.SenderEmail,
			message.Type,
			message.Text,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionExport, chatID,
		fmt.Sprintf("%d messages", len(messages)))
	return buf.Bytes(), nil
}

// buildMessageSearchFilter dựng filter tìm kiếm: khớp text hoặc người gửi
// (sender/senderName/senderEmail), không phân biệt hoa thường. Query được
// escape để ký tự regex trong input không đổi nghĩa filter.
func buildMessageSearchFilter(chatID, query string) bson.M {
	pattern := bson.M{
		"$regex":   regexp.QuoteMeta(strings.TrimSpace(query)),
		"$options": "i",
	}
	filter := bson.M{
		"$or": []bson.M{
			{"text": pattern},
			{"sender": pattern},
			{"senderName": pattern},
			{"senderEmail": pattern},
		},
	}
	if chatID != "" {
		filter["chatId"] = chatID
	}
	return filter
}

// SearchMessages tìm tin nhắn theo nội dung hoặc người gửi cho console admin.
// chatID rỗng tìm trên mọi phiên; noise bị loại khỏi kết quả.
func (s *AdminChatService) SearchMessages(ctx context.Context, chatID, query string, limit int64) ([]chatmodels.ChatMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, common.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: 1}}).
		SetLimit(limit)
	messages, err := s.messageService.Find(ctx, buildMessageSearchFilter(chatID, query), opts)
	if err != nil {
		return nil, err
	}

	results := make([]chatmodels.ChatMessage, 0, len(messages))
	for i := range messages {
		if IsNoise(&messages[i]) {
			continue
		}
		results = append(results, messages[i])
	}
	return results, nil
}

// BuildPrintableTranscript dựng trang HTML tự chứa, in được, từ transcript
// một phiên. Nội dung tin nhắn được escape để text của khách không thành markup.
func BuildPrintableTranscript(chatID string, messages []chatmodels.ChatMessage) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Conversation " + html.EscapeString(chatID) + "</title>\n")
	b.WriteString("<style>body{font-family:sans-serif;max-width:720px;margin:2em auto}" +
		".msg{margin:.6em 0;padding:.4em .8em;border-left:3px solid #ccc}" +
		".msg .meta{color:#666;font-size:.8em}" +
		"@media print{.msg{break-inside:avoid}}</style>\n</head>\n<body>\n")
	b.WriteString("<h1>Conversation " + html.EscapeString(chatID) + "</h1>\n")
	b.WriteString("<p>Exportee le " + time.Now().Format("02/01/2006 15:04") + "</p>\n")

	for i := range messages {
		m := &messages[i]
		label := m.Sender
		if m.SenderName != "" {
			label = m.SenderName
		}
		b.WriteString("<div class=\"msg\"><div class=\"meta\">" +
			html.EscapeString(label) + " — " + html.EscapeString(m.CreatedAt) +
			"</div><div>" + html.EscapeString(m.Text) + "</div></div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// ExportPrintable xuất transcript một phiên dưới dạng trang HTML in được
// (bản CSV dùng cho xử lý dữ liệu, bản này cho con người đọc/in).
func (s *AdminChatService) ExportPrintable(ctx context.Context, chatID, adminID, adminEmail string) ([]byte, error) {
	if chatID == "" {
		return nil, common.ErrInvalidInput
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	messages, err := s.messageService.Find(ctx, bson.M{"chatId": chatID}, opts)
	if err != nil {
		return nil, err
	}
	s.writeLog(ctx, adminID, adminEmail, chatmodels.LogActionExport, chatID,
		fmt.Sprintf("print, %d messages", len(messages)))
	return BuildPrintableTranscript(chatID, messages), nil
}

// KPI tổng hợp số liệu dashboard từ chats + chat_messages
func (s *AdminChatService) KPI(ctx context.Context) (KPISummary, error) {
	var summary KPISummary
	var err error

	if summary.TotalSessions, err = s.sessionService.CountDocuments(ctx, bson.M{}); err != nil {
		return summary, err
	}
	if summary.OpenSessions, err = s.sessionService.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{chatmodels.ChatStatusBot, chatmodels.ChatStatusOpen}},
	}); err != nil {
		return summary, err
	}
	if summary.HumanSessions, err = s.sessionService.CountDocuments(ctx, bson.M{"status": chatmodels.ChatStatusHuman}); err != nil {
		return summary, err
	}
	if summary.ClosedSessions, err = s.sessionService.CountDocuments(ctx, bson.M{"status": chatmodels.ChatStatusClosed}); err != nil {
		return summary, err
	}
	if summary.TotalMessages, err = s.messageService.CountDocuments(ctx, bson.M{}); err != nil {
		return summary, err
	}

	// Trung bình first response và rating tính in-memory trên các field đã stamp
	responded, err := s.sessionService.Find(ctx, bson.M{"firstResponseSec": bson.M{"$gt": 0}}, nil)
	if err == nil && len(responded) > 0 {
		var total int64
		for _, session := range responded {
			total += session.FirstResponseSec
		}
		summary.AvgFirstResponseS = float64(total) / float64(len(responded))
	}
	rated, err := s.sessionService.Find(ctx, bson.M{"rating": bson.M{"$gt": 0}}, nil)
	if err == nil && len(rated) > 0 {
		summary.RatedSessions = int64(len(rated))
		var total int64
		for _, session := range rated {
			total += int64(session.Rating)
		}
		summary.AvgRating = float64(total) / float64(len(rated))
	}

	now := time.Now()
	pending, err := s.sessionService.Find(ctx, bson.M{
		"status":            bson.M{"$ne": chatmodels.ChatStatusClosed},
		"firstAdminReplyAt": bson.M{"$in": []interface{}{nil, int64(0)}},
	}, nil)
	if err == nil {
		for _, session := range pending {
			if isSLABreached(session, now) {
				summary.SLABreachedCurrent++
			}
		}
	}
	return summary, nil
}

// BackfillIdentity chạy backfill danh tính cho một phiên legacy
func (s *AdminChatService) BackfillIdentity(ctx context.Context, chatID string) error {
	return s.identityService.Backfill(ctx, chatID)
}

// QuickReplies trả về mẫu câu trả lời nhanh cho admin theo ngôn ngữ
func (s *AdminChatService) QuickReplies(language string) []string {
	if language == "en" {
		return []string{
			"Hello, how can I help you?",
			"Your order is being processed.",
			"We will get back to you shortly.",
			"Thank you for contacting Bienfaire Commerce.",
		}
	}
	return []string{
		"Bonjour, comment puis-je vous aider ?",
		"Votre commande est en cours de traitement.",
		"Nous revenons vers vous tres rapidement.",
		"Merci d'avoir contacte Bienfaire Commerce.",
	}
}

// ListLogs trả về nhật ký thao tác admin, mới nhất trước
func (s *AdminChatService) ListLogs(ctx context.Context, limit int64) ([]chatmodels.AdminLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return s.logService.Find(ctx, bson.M{}, opts)
}

// writeLog ghi audit log, lỗi chỉ cảnh báo
func (s *AdminChatService) writeLog(ctx context.Context, adminID, adminEmail, action, target, details string) {
	_, err := s.logService.InsertOne(ctx, chatmodels.AdminLog{
		AdminID:    adminID,
		AdminEmail: adminEmail,
		Action:     action,
		Target:     target,
		Details:    details,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"action": action, "error": err.Error()}).Warn("🤝 [ADMIN-CHAT] Không ghi được admin log")
	}
}

// SortSummariesByPriority sắp inbox: urgent > high > normal, cùng mức thì
// lastMessageAt mới nhất trước. Dùng ở handler khi client yêu cầu sort ưu tiên.
func SortSummariesByPriority(summaries []SessionSummary) {
	rank := map[string]int{
		chatmodels.PriorityUrgent: 0,
		chatmodels.PriorityHigh:   1,
		chatmodels.PriorityNormal: 2,
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		ri, ok := rank[summaries[i].Session.Priority]
		if !ok {
			ri = 2
		}
		rj, ok := rank[summaries[j].Session.Priority]
		if !ok {
			rj = 2
		}
		if ri != rj {
			return ri < rj
		}
		return summaries[i].Session.LastMessageAt > summaries[j].Session.LastMessageAt
	})
}
