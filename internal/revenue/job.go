package revenue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fastzila-analytics/internal/notify"
	"fastzila-analytics/internal/storage"
)

// Event-log sources for the two record families.
const (
	sourceCouriers = "lenta_couriers_revenues"
	sourcePickers  = "lenta_pickers_revenues"
)

// Job fills the payment columns of received courier and picker shifts.
// Each run is idempotent: it picks up whatever dates still carry NULL
// payments, so interrupted runs are finished by the next one.
type Job struct {
	store     *storage.Storage
	notifier  notify.Notifier
	logger    *zap.Logger
	projectID int64
}

func NewJob(store *storage.Storage, notifier notify.Notifier, logger *zap.Logger, projectID int64) *Job {
	return &Job{
		store:     store,
		notifier:  notifier,
		logger:    logger,
		projectID: projectID,
	}
}

// RunCouriers computes payments for all courier shifts that still lack them.
func (j *Job) RunCouriers(ctx context.Context) error {
	dates, err := j.store.UnresolvedCourierDates(ctx)
	if err != nil {
		return j.fail(ctx, sourceCouriers, err)
	}
	if len(dates) == 0 {
		j.notifier.Send(ctx, "Нет незаполненных данных по выручке по курьерам Ленты")
		return j.store.LogEvent(ctx, storage.EventTypeEvent, sourceCouriers, "No new data")
	}

	j.logger.Info("Calculating courier revenues", zap.Int("dates", len(dates)))
	j.notifier.Send(ctx, fmt.Sprintf("Идет заполнение выручки от курьеров Ленты на: %s", formatDates(dates)))

	cards, regions, err := j.loadRateCards(ctx, dates)
	if err != nil {
		return j.fail(ctx, sourceCouriers, err)
	}

	shifts, err := j.store.CourierShiftsOn(ctx, dates)
	if err != nil {
		return j.fail(ctx, sourceCouriers, err)
	}

	rows, skipped := BuildCourierRows(shifts, regions, cards)
	if skipped > 0 {
		j.logger.Info("Shifts without tariff coverage, left for the next run",
			zap.Int("count", skipped))
	}

	payments := make([]storage.CourierPayment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, CourierPaymentFor(row))
	}

	changed, err := j.store.SaveCourierPayments(ctx, payments)
	if err != nil {
		return j.fail(ctx, sourceCouriers, err)
	}

	j.logger.Info("Courier revenues updated", zap.Int64("records", changed))
	j.notifier.Send(ctx, fmt.Sprintf("Успешно выполнено обновление выручки в таблице курьеров. Изменено записей: %d", changed))
	return j.store.LogEvent(ctx, storage.EventTypeEvent, sourceCouriers,
		fmt.Sprintf("Updated %d records", changed))
}

// RunPickers computes payments for all picker shifts that still lack them.
func (j *Job) RunPickers(ctx context.Context) error {
	dates, err := j.store.UnresolvedPickerDates(ctx)
	if err != nil {
		return j.fail(ctx, sourcePickers, err)
	}
	if len(dates) == 0 {
		j.notifier.Send(ctx, "Нет незаполненных данных по выручке по сборщикам Ленты")
		return j.store.LogEvent(ctx, storage.EventTypeEvent, sourcePickers, "No new data")
	}

	j.logger.Info("Calculating picker revenues", zap.Int("dates", len(dates)))
	j.notifier.Send(ctx, fmt.Sprintf("Идет заполнение выручки от сборщиков Ленты на: %s", formatDates(dates)))

	cards, regions, err := j.loadRateCards(ctx, dates)
	if err != nil {
		return j.fail(ctx, sourcePickers, err)
	}

	shifts, err := j.store.PickerShiftsOn(ctx, dates)
	if err != nil {
		return j.fail(ctx, sourcePickers, err)
	}

	rows, skipped := BuildPickerRows(shifts, regions, cards)
	if skipped > 0 {
		j.logger.Info("Shifts without tariff coverage, left for the next run",
			zap.Int("count", skipped))
	}

	payments := make([]storage.PickerPayment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, PickerPaymentFor(row))
	}

	changed, err := j.store.SavePickerPayments(ctx, payments)
	if err != nil {
		return j.fail(ctx, sourcePickers, err)
	}

	j.logger.Info("Picker revenues updated", zap.Int64("records", changed))
	j.notifier.Send(ctx, fmt.Sprintf("Успешно выполнено обновление выручки в таблице сборщиков. Изменено записей: %d", changed))
	return j.store.LogEvent(ctx, storage.EventTypeEvent, sourcePickers,
		fmt.Sprintf("Updated %d records", changed))
}

func (j *Job) loadRateCards(ctx context.Context, dates []time.Time) (map[RateKey]RateCard, map[int64]int64, error) {
	tariffs, err := j.store.TariffsForProject(ctx, j.projectID)
	if err != nil {
		return nil, nil, err
	}

	regions, err := j.store.TradeCenterRegions(ctx)
	if err != nil {
		return nil, nil, err
	}

	cards, err := BuildRateCards(ResolveTariffs(tariffs, dates))
	if err != nil {
		return nil, nil, err
	}
	return cards, regions, nil
}

// fail records a hard error in the event log, alerts the operations chat and
// hands the error back so the run exits non-zero.
func (j *Job) fail(ctx context.Context, source string, err error) error {
	j.logger.Error("Revenue calculation aborted", zap.String("source", source), zap.Error(err))
	j.notifier.Send(ctx, fmt.Sprintf("Ошибка при расчете выручки (%s): %v", source, err))
	if logErr := j.store.LogEvent(ctx, storage.EventTypeError, source, err.Error()); logErr != nil {
		j.logger.Error("Failed to write event log", zap.Error(logErr))
	}
	return err
}

func formatDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}
