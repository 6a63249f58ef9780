package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/infun-course/tutorbot/internal/services"
)

func (b *Bot) handleCreateSimpleSurvey(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	questions := []services.Question{{
		Prompt: opts["question"].StringValue(),
	}}
	if opt := opts["answers"]; opt != nil {
		questions[0].Answers = splitList(opt.StringValue(), ",")
	}
	b.createAndPostSurvey(s, i, questions)
}

func (b *Bot) handleCreateComplexSurvey(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isTutor(i) {
		respondEphemeral(s, i, permissionDenied)
		return
	}
	opts := optionMap(i)
	answersRaw := ""
	if opt := opts["answers"]; opt != nil {
		answersRaw = opt.StringValue()
	}
	questions, err := parseQuestions(opts["questions"].StringValue(), answersRaw)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("Invalid question list provided: %v", err))
		return
	}
	b.createAndPostSurvey(s, i, questions)
}

// createAndPostSurvey is the shared tail of both create commands: one
// service call, then the announcement message in the target channel.
func (b *Bot) createAndPostSurvey(s *discordgo.Session, i *discordgo.InteractionCreate, questions []services.Question) {
	opts := optionMap(i)
	topic := ""
	if opt := opts["topic"]; opt != nil {
		topic = opt.StringValue()
	}
	channelID := i.ChannelID
	if opt := opts["channel"]; opt != nil {
		if ch := opt.ChannelValue(s); ch != nil {
			channelID = ch.ID
		}
	}

	sv, err := b.surveys.Create(interactionUser(i).ID, topic, questions)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyQuestionSet):
			respondEphemeral(s, i, "The survey needs at least one question.")
		case errors.Is(err, services.ErrBlankPrompt):
			respondEphemeral(s, i, "Every question needs a prompt.")
		default:
			log.WithError(err).Error("create survey")
			respondEphemeral(s, i, "Could not create the survey.")
		}
		return
	}

	if err := b.postSurvey(s, channelID, sv); err != nil {
		log.WithError(err).Error("post survey")
		respondEphemeral(s, i, fmt.Sprintf("Survey %s was created but could not be posted in <#%s>.", sv.ID, channelID))
		return
	}
	respondEphemeral(s, i, fmt.Sprintf("Survey %s created and posted in <#%s>.", sv.ID, channelID))
}

func (b *Bot) postSurvey(s *discordgo.Session, channelID string, sv *services.Survey) error {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    surveyMessage(sv),
		Components: surveyComponents(sv),
	})
	return err
}

func surveyMessage(sv *services.Survey) string {
	var sb strings.Builder
	sb.WriteString("```\n")
	if sv.Topic != "" {
		fmt.Fprintf(&sb, "Survey on %s (id %s)\n", sv.Topic, sv.ID)
	} else {
		fmt.Fprintf(&sb, "Survey %s\n", sv.ID)
	}
	for n, q := range sv.Questions {
		fmt.Fprintf(&sb, "%d. %s\n", n+1, q.Prompt)
	}
	fmt.Fprintf(&sb, "\nAnswer with the buttons below or with /answer-survey survey_id:%s\n", sv.ID)
	sb.WriteString("```")
	return sb.String()
}

// surveyComponents builds one button row per fixed-answer question.
// Discord allows five rows per message and five buttons per row, so
// questions beyond either limit are answered with /answer-survey instead.
func surveyComponents(sv *services.Survey) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for qi, q := range sv.Questions {
		if q.FreeText() || len(q.Answers) > 5 || len(rows) == 5 {
			continue
		}
		var buttons []discordgo.MessageComponent
		for ai, a := range q.Answers {
			buttons = append(buttons, discordgo.Button{
				Label:    fmt.Sprintf("%d: %s", qi+1, a),
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("survey:%s:%d:%d", sv.ID, qi, ai),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func (b *Bot) handleAnswerSurvey(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	surveyID := strings.TrimSpace(opts["survey_id"].StringValue())
	answers := splitPositional(opts["answers"].StringValue(), ";")

	err := b.surveys.SubmitResponse(surveyID, interactionUser(i).ID, answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSurveyNotFound):
			respondEphemeral(s, i, fmt.Sprintf("There is no survey with the id %s.", surveyID))
		case errors.Is(err, services.ErrAnswerCountMismatch):
			respondEphemeral(s, i, fmt.Sprintf("Please give one answer per question, separated by semicolons. (%v)", err))
		case errors.Is(err, services.ErrInvalidAnswer):
			respondEphemeral(s, i, fmt.Sprintf("One of your answers is not allowed: %v", err))
		default:
			log.WithError(err).Error("submit response")
			respondEphemeral(s, i, "Could not record your response.")
		}
		return
	}
	respondEphemeral(s, i, fmt.Sprintf("Your response to the survey %s has been recorded. Submitting again replaces it.", surveyID))
}

func (b *Bot) handleSurveyResults(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isTutor(i) {
		respondEphemeral(s, i, permissionDenied)
		return
	}
	opts := optionMap(i)
	surveyID := strings.TrimSpace(opts["survey_id"].StringValue())

	tally, err := b.surveys.Tally(surveyID)
	if err != nil {
		if errors.Is(err, services.ErrSurveyNotFound) {
			respondEphemeral(s, i, fmt.Sprintf("There is no survey with the id %s.", surveyID))
			return
		}
		log.WithError(err).Error("tally survey")
		respondEphemeral(s, i, "Could not aggregate the survey results.")
		return
	}

	embed := tallyEmbed(tally)
	if opts["export"] != nil && opts["export"].BoolValue() {
		workbook, err := services.BuildTallyWorkbook(tally)
		if err != nil {
			log.WithError(err).Error("build tally workbook")
			respondEphemeral(s, i, "Could not build the spreadsheet, sorry.")
			return
		}
		respondEmbed(s, i, embed, workbook, fmt.Sprintf("survey-%s.xlsx", surveyID))
		return
	}
	respondEmbed(s, i, embed, nil, "")
}

func tallyEmbed(t *services.SurveyTally) *discordgo.MessageEmbed {
	title := fmt.Sprintf("Survey %s", t.Survey.ID)
	if t.Survey.Topic != "" {
		title = fmt.Sprintf("Survey on %s (%s)", t.Survey.Topic, t.Survey.ID)
	}
	embed := &discordgo.MessageEmbed{
		Title:  title,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d responses", t.Responses)},
	}
	for n, q := range t.Questions {
		var lines []string
		if q.Options != nil {
			for _, opt := range q.Options {
				lines = append(lines, fmt.Sprintf("%s — %d", opt, q.Counts[opt]))
			}
		} else if len(q.Texts) == 0 {
			lines = append(lines, "No answers yet.")
		} else {
			// Free text can be long; the spreadsheet export has the full list.
			for _, text := range q.Texts {
				if len(lines) == 10 {
					lines = append(lines, fmt.Sprintf("… and %d more", len(q.Texts)-10))
					break
				}
				lines = append(lines, text)
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", n+1, q.Prompt),
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}

// handleComponent records a single button answer. The custom id carries
// survey id, question index and answer index.
func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 4 || parts[0] != "survey" {
		return
	}
	surveyID := parts[1]
	qi, err1 := strconv.Atoi(parts[2])
	ai, err2 := strconv.Atoi(parts[3])
	if err1 != nil || err2 != nil {
		return
	}

	sv, err := b.surveys.Get(surveyID)
	if err != nil {
		respondEphemeral(s, i, "This survey no longer exists.")
		return
	}
	if qi < 0 || qi >= len(sv.Questions) || ai < 0 || ai >= len(sv.Questions[qi].Answers) {
		return
	}
	answer := sv.Questions[qi].Answers[ai]

	complete, err := b.surveys.SubmitAnswer(surveyID, interactionUser(i).ID, qi, answer)
	if err != nil {
		log.WithError(err).Warn("submit button answer")
		respondEphemeral(s, i, "Could not record your answer.")
		return
	}
	if complete {
		respondEphemeral(s, i, fmt.Sprintf("Answer %q recorded — your full response to the survey %s has been saved.", answer, surveyID))
		return
	}
	respondEphemeral(s, i, fmt.Sprintf("Answer %q recorded. Answer the remaining questions to submit your response.", answer))
}
