package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/infun-course/tutorbot/internal/services"
)

func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respond(s, i, fmt.Sprintf("Pong! Answered with the %d ms delay.", rand.IntN(1000)))
}

func (b *Bot) handleHello(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respond(s, i, fmt.Sprintf("Hello %s! I hope you have a nice day. :blush:", mention(i)))
}

func (b *Bot) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isTutor(i) {
		respondEphemeral(s, i, permissionDenied)
		return
	}
	count := int(optionMap(i)["count"].IntValue())
	if count <= 0 || count > 100 {
		respondEphemeral(s, i, "Please give a message count between 1 and 100.")
		return
	}
	messages, err := s.ChannelMessages(i.ChannelID, count, "", "", "")
	if err != nil {
		log.WithError(err).Error("fetch messages for clear")
		respondEphemeral(s, i, "Could not fetch the channel messages.")
		return
	}
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		log.WithError(err).Error("bulk delete")
		respondEphemeral(s, i, "Could not delete the messages.")
		return
	}
	respondEphemeral(s, i, "Channel cleared!")
}

func (b *Bot) handleGiveStudentRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isTutor(i) {
		respondEphemeral(s, i, permissionDenied)
		return
	}
	if b.cfg.StudentRole == "" {
		respondEphemeral(s, i, "No student role is configured.")
		return
	}
	respond(s, i, "Adding new roles! It can take some time...")

	granted := 0
	after := ""
	for {
		members, err := s.GuildMembers(i.GuildID, after, 1000)
		if err != nil {
			log.WithError(err).Error("list guild members")
			break
		}
		if len(members) == 0 {
			break
		}
		for _, m := range members {
			after = m.User.ID
			// Only @everyone: no explicit roles at all.
			if len(m.Roles) != 0 || m.User.Bot {
				continue
			}
			if err := s.GuildMemberRoleAdd(i.GuildID, m.User.ID, b.cfg.StudentRole); err != nil {
				log.WithError(err).Warnf("grant student role to %s", m.User.ID)
				continue
			}
			granted++
		}
		if len(members) < 1000 {
			break
		}
	}
	if _, err := s.ChannelMessageSend(i.ChannelID, fmt.Sprintf("New roles have been added! (%d members)", granted)); err != nil {
		log.WithError(err).Warn("send role summary")
	}
}

func (b *Bot) handleAttendance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isTutor(i) {
		respondEphemeral(s, i, permissionDenied)
		return
	}
	opts := optionMap(i)
	action := opts["action"].StringValue()
	group := services.NormalizeGroup(opts["group"].StringValue())

	switch action {
	case "start":
		if err := b.attendance.Start(group); err != nil {
			switch {
			case errors.Is(err, services.ErrSessionAlreadyOpen):
				respondEphemeral(s, i, fmt.Sprintf("An attendance check for the group %s is already running.", group))
			case errors.Is(err, services.ErrBlankGroup):
				respondEphemeral(s, i, "Please give a group id.")
			default:
				log.WithError(err).Error("start attendance")
				respondEphemeral(s, i, "Could not start the attendance check.")
			}
			return
		}
		respond(s, i, fmt.Sprintf("%s, accepting check-ins for the group %s. Students: post your group id in this channel.", mention(i), group))
	case "stop":
		sess, err := b.attendance.Stop(group)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSessionNotOpen):
				respondEphemeral(s, i, fmt.Sprintf("No attendance check is running for the group %s.", group))
			case errors.Is(err, services.ErrBlankGroup):
				respondEphemeral(s, i, "Please give a group id.")
			default:
				log.WithError(err).Error("stop attendance")
				respondEphemeral(s, i, "Could not stop the attendance check.")
			}
			return
		}
		respond(s, i, fmt.Sprintf("%s, check-ins are no longer accepted for the group %s.", mention(i), group))
		b.sendRoster(s, i, sess)
	default:
		respondEphemeral(s, i, `Can not recognize the action argument. Please use "start" or "stop".`)
	}
}

// sendRoster DMs the final attendance list to the tutor who stopped the
// check, mirroring where tutors expect it from the old workflow.
func (b *Bot) sendRoster(s *discordgo.Session, i *discordgo.InteractionCreate, sess *services.AttendanceSession) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	dm, err := s.UserChannelCreate(user.ID)
	if err != nil {
		log.WithError(err).Warn("create tutor DM")
		return
	}
	list := "Nobody checked in."
	if len(sess.Members) > 0 {
		list = strings.Join(sess.Members, "\n")
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Tutor Group %s Attendance", sess.Group),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Students List (%d)", len(sess.Members)),
				Value: list,
			},
		},
	}
	if _, err := s.ChannelMessageSendEmbed(dm.ID, embed); err != nil {
		log.WithError(err).Warn("send roster DM")
	}
}

func (b *Bot) handleTutorSessionFeedback(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	sessionID := opts["tutor_session_id"].StringValue()
	content := opts["content"].StringValue()

	entry, err := b.feedback.Record(sessionID, interactionUser(i).ID, content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyFeedback) {
			respondEphemeral(s, i, "Your feedback is empty, please write something.")
			return
		}
		log.WithError(err).Error("record feedback")
		respondEphemeral(s, i, "Could not record your feedback.")
		return
	}
	respondEphemeral(s, i, fmt.Sprintf("Thank you! Your feedback for the session %s has been recorded.", entry.SessionID))
}

func (b *Bot) handleFeedbackSummary(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isTutor(i) {
		respondEphemeral(s, i, permissionDenied)
		return
	}
	opts := optionMap(i)
	sessionID := opts["tutor_session_id"].StringValue()

	var entries []*services.FeedbackEntry
	for e := range b.feedback.List(sessionID) {
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		respondEphemeral(s, i, fmt.Sprintf("No feedback has been recorded for the session %s.", sessionID))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Tutor Session Feedback — %s", sessionID),
	}
	// Embeds cap out at 25 fields; the spreadsheet has everything.
	for n, e := range entries {
		if n == 25 {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", n+1, e.SubmittedAt.Format("2006-01-02 15:04")),
			Value: e.Content,
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d entries", len(entries))}

	if opts["export"] != nil && opts["export"].BoolValue() {
		workbook, err := services.BuildFeedbackWorkbook(sessionID, entries)
		if err != nil {
			log.WithError(err).Error("build feedback workbook")
			respondEphemeral(s, i, "Could not build the spreadsheet, sorry.")
			return
		}
		respondEmbed(s, i, embed, workbook, fmt.Sprintf("feedback-%s.xlsx", sessionID))
		return
	}
	respondEmbed(s, i, embed, nil, "")
}
