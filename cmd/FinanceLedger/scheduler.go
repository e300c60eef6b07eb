package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceLedger/internal/logger"
)

const autoSavingsTimeout = 5 * time.Minute

// StartAutoSavingsScheduler runs the auto savings job on spec, evaluated in UTC.
func StartAutoSavingsScheduler(spec string, runner interfaces.AutoSavingsRunner, log zerolog.Logger) (*cron.Cron, error) {
	cronLog := log.With().Str("component", "scheduler").Logger()
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.PrintfLogger(&cronLog)), cron.SkipIfStillRunning(cron.PrintfLogger(&cronLog))),
	)

	_, err := c.AddFunc(spec, func() {
		runAutoSavingsJob(runner, cronLog, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	cronLog.Info().Str("schedule", spec).Msg("auto savings scheduler started")
	return c, nil
}

func runAutoSavingsJob(runner interfaces.AutoSavingsRunner, log zerolog.Logger, now time.Time) {
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), autoSavingsTimeout)
	defer cancel()

	result, err := runner.RunAutoSavings(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("error running auto savings")
		return
	}
	log.Info().
		Int("day", result.Day).
		Int("processed_goals", result.ProcessedGoals).
		Int("updated_goals", result.UpdatedGoals).
		Msg("auto savings executed")
}
