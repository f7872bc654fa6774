package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Trivia answers the live question. Any answer, right or wrong, consumes
// the question: state is cleared and the job is re-armed with either a
// short delay or a randomized interval.
type Trivia struct{}

func (Trivia) Kind() models.CommandKind { return models.KindTrivia }

func (Trivia) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.TriviaOpts)
	if !ok {
		return false
	}
	cost := cmd.Cost
	if cost > user.Points {
		return false
	}

	cron, err := env.Stores.Crons.Fetch(ctx, models.CronTrivia)
	if err != nil {
		slog.Error("trivia state fetch failed", slog.Any("err", err))
		return false
	}
	state, ok := cron.Opts.(*models.TriviaState)
	if !ok {
		return false
	}

	if state.Question == "" || len(state.Answers) == 0 || state.Prize == 0 {
		if opts.ShowMessages.NotReady {
			env.Chat.Send(bot.Render(opts.Messages.NotReady, map[string]string{"user": user.Username}))
		}
		return false
	}

	given := strings.TrimSpace(strings.Join(params, " "))
	won := false
	for _, answer := range state.Answers {
		if strings.EqualFold(answer, given) {
			won = true
			break
		}
	}
	reward := 0
	if won {
		reward = state.Prize
	}

	question, answers := state.Question, state.Answers

	// Re-arm the question job: a short delay when configured to advance
	// on any answer, otherwise a randomized interval.
	span := opts.MaxQuestionInterval - opts.MinQuestionInterval + 1
	interval := env.Rand.Float64()*float64(span) + float64(opts.MinQuestionInterval)
	if opts.NewQuestionOnAnswer {
		interval = 10
	}

	now := env.Now()
	state.Question, state.Answers, state.Prize = "", nil, 0
	cron.LastCalledAt = now
	cron.CallAt = cron.NextCallAt(now, interval)
	if err := env.Stores.Crons.Update(ctx, cron); err != nil {
		slog.Error("trivia state update failed", slog.Any("err", err))
		return false
	}

	if err := env.Ledger.AddPoints(ctx, user, cost, reward-cost, string(cmd.Kind), cmd.IsLogEnabled); err != nil {
		slog.Error("trivia payout failed", slog.String("user", user.UserID), slog.Any("err", err))
		return false
	}

	if won || opts.ShowMessages.Lost {
		message := opts.Messages.Lost
		if won {
			message = opts.Messages.Won
		}
		env.Chat.Send(bot.Render(message, map[string]string{
			"user":       user.Username,
			"cost":       itoa(cost),
			"reward":     itoa(reward),
			"currency":   env.Currency,
			"answerUser": given,
			"answers":    strings.Join(answers, " and "),
			"question":   question,
		}))
	}
	return true
}

func (Trivia) DefaultConfig() models.Command {
	opts := &models.TriviaOpts{
		MinReward:           10,
		MaxReward:           20,
		MinQuestionInterval: 600,
		MaxQuestionInterval: 1200,
		Questions: []models.TriviaQuestion{
			{Question: "What's two plus two?", Answers: []string{"four", "4"}},
			{Question: "What color is the grass?", Answers: []string{"green"}},
		},
	}
	opts.Messages.Won = "$user answered the question first - $answerUser and won $reward $currency!"
	opts.Messages.Lost = "$user gave the wrong answer - $answerUser and lost $cost $currency!"
	opts.Messages.NotReady = "$user the trivia is not ready yet!"
	opts.Messages.NewQuestion = "Win $reward $currency by answering: $question"
	opts.Messages.RightAnswer = "The right answer for \"$question\" was $answers"
	opts.ShowMessages.Lost = true
	opts.ShowMessages.NotReady = true
	opts.ShowMessages.RightAnswer = true
	return models.Command{
		Name:         "!answer",
		Kind:         models.KindTrivia,
		CdMessage:    "$user You can use $command after $cd seconds!",
		IsEnabled:    true,
		OnlyOnline:   true,
		Permissions:  models.AllRoles,
		LastCalledAt: epoch,
		IsLogEnabled: true,
		Opts:         opts,
	}
}
