package models

// CommandPrefix marks slash commands
const CommandPrefix = "/"

// ✅ Slash commands (first token, lowercased before matching)
const (
	CmdDailyReport = "마디수"
	CmdAdminList   = "관리자"
	CmdInvite      = "초대"
	CmdVerify      = "인증"
	CmdWelcome     = "인사"
	CmdMyID        = "내아이디"
	CmdMyIDAlias   = "myid"
	CmdNickChange  = "닉변"
)

// ✅ Display-name sentinels
const (
	UnknownName             = "알수없음"  // cached when resolution fails
	UnknownAdminPlaceholder = "(알수없음)" // admin list line for an unreachable admin
	AdminFallbackName       = "관리자"    // admin resolved but with an empty name
	NoAdminMentionLine      = "(관리자)"  // mention line when no admin is mentionable
)

// Reply limits, measured in UTF-16 code units (the platform's text
// indexing unit)
const (
	MaxReplyLength = 4500
	MaxErrorLength = 200
)

// MinCountedLength is the counting floor: messages shorter than this
// after whitespace removal are ignored
const MinCountedLength = 3
