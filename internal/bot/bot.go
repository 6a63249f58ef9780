package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/infun-course/tutorbot/internal/config"
	"github.com/infun-course/tutorbot/internal/services"
)

// Bot wires the Discord session to the attendance, survey and feedback
// services. It parses command options, calls exactly one service operation
// per command and formats the result as a reply; no business logic lives
// here.
type Bot struct {
	session    *discordgo.Session
	cfg        *config.Config
	attendance *services.AttendanceService
	surveys    *services.SurveyService
	feedback   *services.FeedbackService
	handlers   map[string]handlerFunc
}

type handlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate)

// New creates the session and builds the handler registry. The registry
// is checked against the declared command set so a command without a
// handler (or the reverse) fails startup instead of failing a user.
func New(cfg *config.Config, attendance *services.AttendanceService, surveys *services.SurveyService, feedback *services.FeedbackService) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	b := &Bot{
		session:    session,
		cfg:        cfg,
		attendance: attendance,
		surveys:    surveys,
		feedback:   feedback,
	}
	b.handlers = b.commandHandlers()
	if err := checkHandlerCoverage(commandDefs, b.handlers); err != nil {
		return nil, err
	}
	return b, nil
}

// Start opens the gateway connection and overwrites the application's
// slash commands with the declared set.
func (b *Bot) Start() error {
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.cfg.GuildID, commandDefs); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	log.Infof("registered %d slash commands", len(commandDefs))
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Infof("logged in as %s (%s)", r.User.Username, r.User.ID)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		h, ok := b.handlers[name]
		if !ok {
			log.Warnf("no handler for command %q", name)
			return
		}
		log.WithFields(log.Fields{
			"command": name,
			"user":    interactionUser(i).ID,
		}).Debug("dispatching command")
		h(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

// checkHandlerCoverage fails when the declared command set and the handler
// registry disagree in either direction.
func checkHandlerCoverage(defs []*discordgo.ApplicationCommand, handlers map[string]handlerFunc) error {
	declared := make(map[string]bool, len(defs))
	for _, def := range defs {
		declared[def.Name] = true
		if _, ok := handlers[def.Name]; !ok {
			return fmt.Errorf("command %q has no handler", def.Name)
		}
	}
	for name := range handlers {
		if !declared[name] {
			return fmt.Errorf("handler %q has no command definition", name)
		}
	}
	return nil
}
