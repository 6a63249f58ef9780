package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxGroupIDLen bounds the message lengths worth a store lookup; real
// group ids are short strings like "g5" or "cs101".
const maxGroupIDLen = 32

// handleMessage is the attendance check-in path: while a check is open,
// students post their group id in the channel and get added to the list.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	content := strings.ToLower(strings.TrimSpace(m.Content))
	if content == "" || len(content) > maxGroupIDLen {
		return
	}
	if !b.attendance.IsOpen(content) {
		return
	}
	added, err := b.attendance.CheckIn(content, displayName(m.Member, m.Author))
	if err != nil || !added {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, "You are added to the attendance list."); err != nil {
		log.WithError(err).Warn("confirm check-in")
	}
}
