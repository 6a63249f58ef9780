package bot

import "github.com/bwmarrin/discordgo"

// commandDefs is the full slash-command surface. Registration overwrites
// whatever the application had before, so retired commands disappear on
// deploy.
var commandDefs = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Ping-Pong game.",
	},
	{
		Name:        "hello",
		Description: "Greets the user.",
	},
	{
		Name:        "clear",
		Description: "Deletes the specified amount of messages from channel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "Enter the number of messages.",
				Required:    true,
			},
		},
	},
	{
		Name:        "give-student-role",
		Description: "Gives users without roles (just with @everyone) a student role.",
	},
	{
		Name:        "attendance",
		Description: "Start or stop the attendance check for the specified group.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "action",
				Description: `Enter "start" to begin the check or "stop" to end it.`,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "start", Value: "start"},
					{Name: "stop", Value: "stop"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "group",
				Description: "Enter the group id (e.g. g5).",
				Required:    true,
			},
		},
	},
	{
		Name:        "tutor-session-feedback",
		Description: "Leave feedback on a tutor session.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tutor_session_id",
				Description: "The tutor session the feedback is about.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "content",
				Description: "Your feedback.",
				Required:    true,
			},
		},
	},
	{
		Name:        "feedback-summary",
		Description: "List the feedback recorded for a tutor session.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tutor_session_id",
				Description: "The tutor session to report on.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "export",
				Description: "Attach the feedback log as a spreadsheet.",
				Required:    false,
			},
		},
	},
	{
		Name:        "create-simple-survey",
		Description: "Create a one question survey.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "question",
				Description: "The question prompt.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "answers",
				Description: "Comma-separated allowed answers; leave empty for free text.",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "topic",
				Description: `The main topic of the survey, e.g. "exercise T01E01".`,
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "The channel to publish the survey.",
				Required:    false,
			},
		},
	},
	{
		Name:        "create-complex-survey",
		Description: "Create a multiple question survey.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "questions",
				Description: "Semicolon-separated question prompts.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "answers",
				Description: "Per-question comma-separated answer sets, semicolon-separated; blank set = free text.",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "topic",
				Description: `The main topic of the survey, e.g. "exercise T01E01".`,
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "The channel to publish the survey.",
				Required:    false,
			},
		},
	},
	{
		Name:        "answer-survey",
		Description: "Answer every question of a survey at once.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "survey_id",
				Description: "The survey id shown in the survey message.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "answers",
				Description: "Semicolon-separated answers, one per question in order.",
				Required:    true,
			},
		},
	},
	{
		Name:        "survey-results",
		Description: "Show the aggregated results of a survey.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "survey_id",
				Description: "The survey id shown in the survey message.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "export",
				Description: "Attach the results as a spreadsheet.",
				Required:    false,
			},
		},
	},
}

func (b *Bot) commandHandlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		"ping":                   b.handlePing,
		"hello":                  b.handleHello,
		"clear":                  b.handleClear,
		"give-student-role":      b.handleGiveStudentRole,
		"attendance":             b.handleAttendance,
		"tutor-session-feedback": b.handleTutorSessionFeedback,
		"feedback-summary":       b.handleFeedbackSummary,
		"create-simple-survey":   b.handleCreateSimpleSurvey,
		"create-complex-survey":  b.handleCreateComplexSurvey,
		"answer-survey":          b.handleAnswerSurvey,
		"survey-results":         b.handleSurveyResults,
	}
}
