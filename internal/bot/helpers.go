package bot

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const permissionDenied = "You lack the permissions to use this command!"

// optionMap flattens the interaction's options for lookup by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// interactionUser returns the invoking user regardless of whether the
// interaction came from a guild or a DM.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// displayName prefers the guild nickname over the account name.
func displayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user != nil {
		return user.Username
	}
	return ""
}

// isTutor reports whether the invoking member holds one of the configured
// tutor roles. An empty role list disables the gate.
func (b *Bot) isTutor(i *discordgo.InteractionCreate) bool {
	if len(b.cfg.TutorRoles) == 0 {
		return true
	}
	if i.Member == nil {
		return false
	}
	for _, have := range i.Member.Roles {
		for _, want := range b.cfg.TutorRoles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.WithError(err).Warn("interaction respond failed")
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Warn("interaction respond failed")
	}
}

// respondEmbed sends an embed reply, optionally attaching a workbook.
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, workbook *excelize.File, filename string) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if workbook != nil {
		buf, err := workbook.WriteToBuffer()
		if err != nil {
			log.WithError(err).Error("write workbook")
			respondEphemeral(s, i, "Could not build the spreadsheet, sorry.")
			return
		}
		data.Files = []*discordgo.File{{
			Name:        filename,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Reader:      bytes.NewReader(buf.Bytes()),
		}}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.WithError(err).Warn("interaction respond failed")
	}
}

func mention(i *discordgo.InteractionCreate) string {
	if u := interactionUser(i); u != nil {
		return fmt.Sprintf("<@%s>", u.ID)
	}
	return "there"
}
