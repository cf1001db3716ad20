package services

import (
	"context"
	"strings"

	"madibot_server/models"
	"madibot_server/utils"
)

// MentionService lays out the parenthesized admin mention line used by
// the nickname-change reply
type MentionService struct {
	Profiles *ProfileService
	AdminIDs []string
}

// BuildAdminMentionLine resolves every configured admin in the given
// conversation and builds "( @a,@b )" together with the mention spans
// the platform needs to render real @-mentions. Offsets and lengths are
// UTF-16 code units. An admin the platform cannot resolve in this
// conversation is skipped (not present, cannot be mentioned); when none
// resolve, the literal fallback line is returned with a nil mention.
//
// Names containing '@' or ',' are not escaped. The platform renders the
// spans by offset, so the text stays correct; keep it that way.
func (s *MentionService) BuildAdminMentionLine(ctx context.Context, conv models.ConversationRef) (string, *models.Mention) {
	type member struct {
		userID string
		name   string
	}
	var present []member
	for _, uid := range s.AdminIDs {
		name, err := s.Profiles.FetchMemberName(ctx, conv, uid)
		if err != nil || name == "" {
			continue
		}
		present = append(present, member{userID: uid, name: name})
	}

	if len(present) == 0 {
		return models.NoAdminMentionLine, nil
	}

	var b strings.Builder
	b.WriteString("(")
	cursor := 1 // already past the opening paren
	var mentionees []models.Mentionee

	for i, m := range present {
		// first token gets " @Name", the rest ",@Name"
		separator := ","
		if i == 0 {
			separator = " "
		}
		b.WriteString(separator)
		b.WriteString("@")
		b.WriteString(m.name)

		length := 1 + utils.UTF16Len(m.name) // '@' plus the name
		mentionees = append(mentionees, models.Mentionee{
			Index:  cursor + 1, // the '@' sits right after the separator
			Length: length,
			UserID: m.userID,
		})
		cursor += 1 + length // separator plus '@name'
	}
	b.WriteString(" )")

	return b.String(), &models.Mention{Mentionees: mentionees}
}
