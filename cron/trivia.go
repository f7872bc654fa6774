package cron

import (
	"context"
	"fmt"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Trivia rotates the live question: it announces the previous question's
// answer when one expired unanswered, picks an unseen question from the
// pool (resetting the rotation history once the pool is exhausted) and
// arms it with a random prize and a randomized expiry.
type Trivia struct{}

func (Trivia) Kind() models.CronKind { return models.CronTrivia }

func (Trivia) Run(ctx context.Context, env *bot.Env) (bool, error) {
	cmd, open, err := commandGate(ctx, env, models.KindTrivia)
	if err != nil || !open {
		return false, err
	}
	opts, ok := cmd.Opts.(*models.TriviaOpts)
	if !ok || len(opts.Questions) == 0 {
		return false, nil
	}

	cron, err := claim(ctx, env, models.CronTrivia)
	if err != nil || cron == nil {
		return false, err
	}
	state, ok := cron.Opts.(*models.TriviaState)
	if !ok {
		unlock(ctx, env, cron)
		return false, fmt.Errorf("cron %s: unexpected opts type", cron.Kind)
	}
	oldQuestion, oldAnswers, oldPrize := state.Question, state.Answers, state.Prize

	if state.PreviousQuestions == nil {
		state.PreviousQuestions = map[string]bool{}
	}
	pool := make([]models.TriviaQuestion, 0, len(opts.Questions))
	for _, q := range opts.Questions {
		if !state.PreviousQuestions[q.Question] {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		pool = opts.Questions
		state.PreviousQuestions = map[string]bool{}
	}

	next := pool[env.Rand.Intn(len(pool))]
	prize := env.Rand.Intn(opts.MaxReward-opts.MinReward+1) + opts.MinReward
	span := opts.MaxQuestionInterval - opts.MinQuestionInterval + 1
	interval := env.Rand.Float64()*float64(span) + float64(opts.MinQuestionInterval)

	state.Question = next.Question
	state.Answers = next.Answers
	state.Prize = prize
	state.PreviousQuestions[next.Question] = true
	if err := release(ctx, env, cron, interval); err != nil {
		return false, err
	}

	if opts.ShowMessages.RightAnswer && oldQuestion != "" && len(oldAnswers) > 0 && oldPrize != 0 {
		env.Chat.Send(bot.Render(opts.Messages.RightAnswer, map[string]string{
			"reward":   itoa(oldPrize),
			"currency": env.Currency,
			"answers":  joinAnswers(oldAnswers),
			"question": oldQuestion,
		}))
	}
	env.Chat.Send(bot.Render(opts.Messages.NewQuestion, map[string]string{
		"reward":   itoa(prize),
		"currency": env.Currency,
		"question": next.Question,
	}))
	return true, nil
}

func (Trivia) DefaultConfig() models.Cron {
	return models.Cron{
		Kind:         models.CronTrivia,
		IsEnabled:    true,
		IsLogEnabled: true,
		Opts:         &models.TriviaState{PreviousQuestions: map[string]bool{}},
	}
}
