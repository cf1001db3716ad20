package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"madibot_server/models"
	"madibot_server/utils"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// searchFetchCap bounds how many counter reads one "@name" query can
// trigger; only the first 10 rows are shown after sorting
const (
	searchFetchCap = 50
	searchShowCap  = 10
)

// ReplySink delivers one reply message for a reply token. lineapi.Client
// implements it.
type ReplySink interface {
	ReplyMessage(ctx context.Context, replyToken string, message models.TextMessage) error
}

// DispatchService classifies inbound events, counts ordinary chat
// messages and routes slash commands to their handlers
type DispatchService struct {
	Store       Store
	Profiles    *ProfileService
	Mentions    *MentionService
	Replies     ReplySink
	AdminIDs    []string
	WelcomeText string
}

func (s *DispatchService) isAdmin(userID string) bool {
	for _, id := range s.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HandleEvent processes one webhook event. It never fails upward:
// whatever a handler returns becomes an in-chat error reply, and a
// failure in the dispatch itself (including a failed error reply) gets
// one best-effort reply before being dropped, so the transport always
// acknowledges the delivery.
func (s *DispatchService) HandleEvent(ctx context.Context, event models.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while handling event: %v", r)
			s.replySystemError(ctx, event.ReplyToken, fmt.Errorf("%v", r))
		}
	}()

	if err := s.dispatch(ctx, event); err != nil {
		log.Printf("❌ Dispatch error: %v", err)
		s.replySystemError(ctx, event.ReplyToken, err)
	}
}

func (s *DispatchService) dispatch(ctx context.Context, event models.Event) error {
	// only text messages count or answer
	if event.Type != "message" || event.Message == nil || event.Message.Type != "text" {
		return nil
	}

	conv := models.DeriveConversation(event.Source)
	userID := event.Source.UserID
	text := strings.TrimSpace(event.Message.Text)
	today := utils.TodayKST()

	if !strings.HasPrefix(text, models.CommandPrefix) {
		s.countMessage(ctx, conv, userID, text, today)
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(text, models.CommandPrefix))
	if len(fields) == 0 {
		return nil
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch command {
	case models.CmdDailyReport:
		// admin only, and silent for everyone else so the command's
		// existence does not leak
		if !s.isAdmin(userID) {
			return nil
		}
		err = s.handleDailyReport(ctx, event, conv, args, today)

	case models.CmdAdminList, models.CmdInvite, models.CmdVerify:
		err = s.handleAdminList(ctx, event, conv)

	case models.CmdWelcome:
		err = s.handleWelcome(ctx, event)

	case models.CmdMyID, models.CmdMyIDAlias:
		err = s.handleMyID(ctx, event)

	case models.CmdNickChange:
		err = s.handleNickChange(ctx, event, conv, userID)

	default:
		return nil // unknown commands stay silent
	}

	if err != nil {
		log.Printf("❌ Command '%s' failed: %v", command, err)
		return s.replyCommandError(ctx, event.ReplyToken, err)
	}
	return nil
}

// countMessage handles the ordinary-message path: no reply ever, just a
// counter bump when the message clears the noise floor
func (s *DispatchService) countMessage(ctx context.Context, conv models.ConversationRef, userID, text, today string) {
	clean := utils.StripWhitespace(text)
	if utils.UTF16Len(clean) < models.MinCountedLength {
		return
	}

	// cache-populating side effect: the sender gets a cached name even
	// before ever invoking a command
	s.Profiles.ResolveDisplayName(ctx, conv, userID)

	if err := s.Store.IncrementDailyCount(ctx, conv.ID, userID, today); err != nil {
		// ordinary messages never get a reply, so a store failure here
		// only loses this one count
		log.Printf("❌ Failed to count message for %s/%s: %v", conv.ID, userID, err)
	}
}

type reportRow struct {
	name  string
	count int
}

// sortRowsByName orders report lines with Korean collation. A fresh
// collator per call: collators carry internal buffers and events run
// concurrently.
func sortRowsByName(rows []reportRow) {
	c := collate.New(language.Korean)
	sort.SliceStable(rows, func(i, j int) bool {
		return c.CompareString(rows[i].name, rows[j].name) < 0
	})
}

func mentionedUserIDs(message *models.MessageContent) []string {
	if message.Mention == nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, m := range message.Mention.Mentionees {
		if m.UserID == "" || seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		ids = append(ids, m.UserID)
	}
	return ids
}

// handleDailyReport answers /마디수. Resolution order: rich mentions on
// the triggering message, then textual "@name" arguments against the
// cached profiles, then the sender themselves.
func (s *DispatchService) handleDailyReport(ctx context.Context, event models.Event, conv models.ConversationRef, args []string, today string) error {
	// 1) mentioned users win
	if ids := mentionedUserIDs(event.Message); len(ids) > 0 {
		rows := make([]reportRow, 0, len(ids))
		for _, uid := range ids {
			name := s.Profiles.ResolveDisplayName(ctx, conv, uid)
			count, err := s.Store.GetDailyCount(ctx, conv.ID, uid, today)
			if err != nil {
				return err
			}
			rows = append(rows, reportRow{name: name, count: count})
		}
		sortRowsByName(rows)

		lines := make([]string, 0, len(rows))
		for _, r := range rows {
			lines = append(lines, fmt.Sprintf("- %s: %d", r.name, r.count))
		}
		return s.reply(ctx, event.ReplyToken, fmt.Sprintf("오늘(%s) 마디수:\n%s", today, strings.Join(lines, "\n")))
	}

	// 2) "@닉네임" arguments search the cached profiles
	var queries []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			continue
		}
		if q := strings.TrimSpace(strings.TrimPrefix(arg, "@")); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) > 0 {
		var out []string
		for _, q := range queries {
			matches, err := s.Store.SearchProfilesByNameSubstring(ctx, conv.ID, q)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				out = append(out, fmt.Sprintf("- \"%s\" 해당 없음", q))
				continue
			}

			fetch := matches
			if len(fetch) > searchFetchCap {
				fetch = fetch[:searchFetchCap]
			}
			rows := make([]reportRow, 0, len(fetch))
			for _, m := range fetch {
				count, err := s.Store.GetDailyCount(ctx, conv.ID, m.UserID, today)
				if err != nil {
					return err
				}
				name := m.DisplayName
				if name == "" {
					name = models.UnknownAdminPlaceholder
				}
				rows = append(rows, reportRow{name: name, count: count})
			}
			sortRowsByName(rows)

			shown := rows
			if len(shown) > searchShowCap {
				shown = shown[:searchShowCap]
			}
			for _, r := range shown {
				out = append(out, fmt.Sprintf("- %s: %d", r.name, r.count))
			}
			if len(matches) > searchShowCap {
				out = append(out, "... (10명까지만 표시)")
			}
		}
		return s.reply(ctx, event.ReplyToken, fmt.Sprintf("오늘(%s) 마디수:\n%s", today, strings.Join(out, "\n")))
	}

	// 3) no arguments: the sender's own count
	name := s.Profiles.ResolveDisplayName(ctx, conv, event.Source.UserID)
	count, err := s.Store.GetDailyCount(ctx, conv.ID, event.Source.UserID, today)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("오늘(%s) 「%s」의 마디수: %d\n\n다른 사람은 \"/마디수 @닉네임\" 으로 확인하세요.", today, name, count)
	return s.reply(ctx, event.ReplyToken, text)
}

// handleAdminList answers /관리자 (and its synonyms) with one line per
// configured admin. Unlike the mention builder, an unreachable admin is
// never skipped; it shows as a placeholder line.
func (s *DispatchService) handleAdminList(ctx context.Context, event models.Event, conv models.ConversationRef) error {
	if len(s.AdminIDs) == 0 {
		return s.reply(ctx, event.ReplyToken, "관리자 목록이 비어있어요. 환경변수 ADMIN_USER_IDS를 설정해 주세요.")
	}

	names := make([]string, 0, len(s.AdminIDs))
	for _, uid := range s.AdminIDs {
		name, err := s.Profiles.FetchMemberName(ctx, conv, uid)
		switch {
		case err != nil:
			names = append(names, models.UnknownAdminPlaceholder)
		case name == "":
			names = append(names, models.AdminFallbackName)
		default:
			names = append(names, name)
		}
	}

	text := "ᰔᩚ 𝙳𝙰𝚆𝙾𝙾𝙽𝚈 ᰔᩚ 방장, 관리자, 인증자는\n" +
		strings.Join(names, "\n") +
		"\n입니다 !"
	return s.reply(ctx, event.ReplyToken, text)
}

func (s *DispatchService) handleWelcome(ctx context.Context, event models.Event) error {
	return s.reply(ctx, event.ReplyToken, s.WelcomeText)
}

func (s *DispatchService) handleMyID(ctx context.Context, event models.Event) error {
	text := fmt.Sprintf("당신의 USER_ID는 다음과 같습니다:\n%s", event.Source.UserID)
	return s.reply(ctx, event.ReplyToken, text)
}

// handleNickChange answers /닉변 with the admin mention line and a fixed
// template around the sender's current name. The mention metadata is
// omitted entirely when no admin could be mentioned.
func (s *DispatchService) handleNickChange(ctx context.Context, event models.Event, conv models.ConversationRef, userID string) error {
	name := s.Profiles.ResolveDisplayName(ctx, conv, userID)
	line, mention := s.Mentions.BuildAdminMentionLine(ctx, conv)

	text := fmt.Sprintf("%s\n<%s - 변경닉네임 닉변> 작성해주시고\n족보에 댓글 남겨주세요!", line, name)

	message := models.NewTextMessage(utils.TruncateUTF16(text, models.MaxReplyLength))
	message.Mention = mention
	if err := s.Replies.ReplyMessage(ctx, event.ReplyToken, message); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (s *DispatchService) reply(ctx context.Context, replyToken, text string) error {
	message := models.NewTextMessage(utils.TruncateUTF16(text, models.MaxReplyLength))
	if err := s.Replies.ReplyMessage(ctx, replyToken, message); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// replyCommandError surfaces a handler failure in chat. If this reply
// itself fails the error propagates to HandleEvent's outer net.
func (s *DispatchService) replyCommandError(ctx context.Context, replyToken string, cause error) error {
	text := fmt.Sprintf("명령 처리 중 오류가 발생했어요.\n%s",
		utils.TruncateUTF16(cause.Error(), models.MaxErrorLength))
	return s.reply(ctx, replyToken, text)
}

// replySystemError is the outermost net: one best-effort reply, every
// further failure swallowed
func (s *DispatchService) replySystemError(ctx context.Context, replyToken string, cause error) {
	if replyToken == "" {
		return
	}
	text := fmt.Sprintf("시스템 오류가 발생했어요. 잠시 후 다시 시도해 주세요.\n%s",
		utils.TruncateUTF16(cause.Error(), models.MaxErrorLength))
	if err := s.Replies.ReplyMessage(ctx, replyToken, models.NewTextMessage(text)); err != nil {
		log.Printf("❌ Best-effort error reply failed: %v", err)
	}
}
