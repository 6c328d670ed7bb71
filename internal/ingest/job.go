package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fastzila-analytics/internal/notify"
	"fastzila-analytics/internal/storage"
)

const source = "lenta_mail_parser"

// File is one attachment pulled from the mailbox, with the sender and the
// message date it arrived under.
type File struct {
	Path   string
	Name   string
	Sender string
	Date   time.Time
}

// Job parses downloaded report workbooks and loads them into the received
// tables. Files it does not recognise stay on disk for an operator to look
// at; processed files are removed.
type Job struct {
	store    *storage.Storage
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewJob(store *storage.Storage, notifier notify.Notifier, logger *zap.Logger) *Job {
	return &Job{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Process handles every downloaded file in turn. One broken file does not
// stop the rest; its error is reported and the batch continues.
func (j *Job) Process(ctx context.Context, files []File) error {
	var errs []error
	for _, file := range files {
		if err := j.processFile(ctx, file); err != nil {
			j.logger.Error("File processing failed",
				zap.String("file", file.Name), zap.Error(err))
			j.notifier.Send(ctx, fmt.Sprintf("Ошибка при обработке файла '%s': %v", file.Name, err))
			if logErr := j.store.LogEvent(ctx, storage.EventTypeError, source, err.Error()); logErr != nil {
				j.logger.Error("Failed to write event log", zap.Error(logErr))
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (j *Job) processFile(ctx context.Context, file File) error {
	sheets, err := readSheets(file.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", file.Name, err)
	}

	kind := DetectSheets(sheets)
	if kind == KindUnknown {
		j.logger.Info("Unrecognised workbook left in place", zap.String("file", file.Name))
		return nil
	}

	j.logger.Info("Processing workbook",
		zap.String("file", file.Name), zap.Stringer("kind", kind))
	j.notifier.Send(ctx, fmt.Sprintf("Обнаружен файл <b>'%s'</b>, идет обработка ...", file.Name))

	switch kind {
	case KindActivityReport:
		err = j.loadActivityReport(ctx, file, sheets)
	case KindStaffingRequest:
		err = j.loadStaffingRequest(ctx, file, sheets)
	case KindFinanceRevenue:
		err = j.loadFinanceRevenue(ctx, file, sheets)
	}
	if err != nil {
		return err
	}

	if err := os.Remove(file.Path); err != nil {
		j.logger.Warn("Failed to remove processed file",
			zap.String("file", file.Path), zap.Error(err))
	}
	return nil
}

func readSheets(path string) (map[string][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := make(map[string][][]string)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		sheets[name] = rows
	}
	return sheets, nil
}

func (j *Job) loadActivityReport(ctx context.Context, file File, sheets map[string][][]string) error {
	var couriers []CourierRecord
	var pickers []PickerRecord

	for name, rows := range sheets {
		switch {
		case headerMatches(rows, courierHeader):
			records, stats, err := ParseCourierSheet(rows, file.Name, file.Date)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
			j.reportStats(ctx, stats)
			couriers = append(couriers, records...)
		case headerMatches(rows, pickerHeader):
			records, stats, err := ParsePickerSheet(rows, file.Name, file.Date)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
			j.reportStats(ctx, stats)
			pickers = append(pickers, records...)
		}
	}

	names := newNameSet()
	for _, r := range couriers {
		names.add(r.TK, r.Organisation)
	}
	for _, r := range pickers {
		names.add(r.TK, r.Organisation)
	}

	tks, orgs, err := j.ensureDictionaries(ctx, names)
	if err != nil {
		return err
	}

	if len(couriers) > 0 {
		shifts := make([]storage.CourierShift, 0, len(couriers))
		for _, r := range couriers {
			r.Shift.TKID = tks[r.TK]
			r.Shift.OrganisationID = orgs[r.Organisation]
			shifts = append(shifts, r.Shift)
		}
		changed, err := j.store.UpsertCourierShifts(ctx, shifts)
		if err != nil {
			return err
		}
		j.notifier.Send(ctx, fmt.Sprintf("Обработка файла завершена, загружено %d строк курьеров", changed))
		if err := j.store.LogEvent(ctx, storage.EventTypeEvent, source,
			fmt.Sprintf("%s %d records changed in table lenta_received_couriers", file.Name, changed)); err != nil {
			return err
		}
	}

	if len(pickers) > 0 {
		shifts := make([]storage.PickerShift, 0, len(pickers))
		for _, r := range pickers {
			r.Shift.TKID = tks[r.TK]
			r.Shift.OrganisationID = orgs[r.Organisation]
			shifts = append(shifts, r.Shift)
		}
		changed, err := j.store.UpsertPickerShifts(ctx, shifts)
		if err != nil {
			return err
		}
		j.notifier.Send(ctx, fmt.Sprintf("Обработка файла завершена, загружено %d строк сборщиков", changed))
		if err := j.store.LogEvent(ctx, storage.EventTypeEvent, source,
			fmt.Sprintf("%s %d records changed in table lenta_received_pickers", file.Name, changed)); err != nil {
			return err
		}
	}
	return nil
}

func (j *Job) loadStaffingRequest(ctx context.Context, file File, sheets map[string][][]string) error {
	var records []RequestRecord
	for _, rows := range sheets {
		parsed, stats := ParseRequestSheet(rows, file.Name, file.Date)
		if stats.UnknownResource > 0 {
			j.warn(ctx, fmt.Sprintf("Field 'resource_id' has %d zero values", stats.UnknownResource))
		}
		records = append(records, parsed...)
	}
	if len(records) == 0 {
		return nil
	}

	names := newNameSet()
	for _, r := range records {
		names.add(r.TK, "")
	}
	tks, _, err := j.ensureDictionaries(ctx, names)
	if err != nil {
		return err
	}

	requests := make([]storage.StaffingRequest, 0, len(records))
	for _, r := range records {
		r.Request.TKID = tks[r.TK]
		requests = append(requests, r.Request)
	}

	inserted, err := j.store.InsertStaffingRequests(ctx, requests)
	if err != nil {
		return err
	}
	j.notifier.Send(ctx, fmt.Sprintf("Обработка файла завершена, загружено %d строк", inserted))
	return j.store.LogEvent(ctx, storage.EventTypeEvent, source,
		fmt.Sprintf("File %s added new %d records", file.Name, inserted))
}

func (j *Job) loadFinanceRevenue(ctx context.Context, file File, sheets map[string][][]string) error {
	var records []RevenueRecord
	for name, rows := range sheets {
		if !headerMatches(rows, revenueHeader) {
			continue
		}
		parsed, err := ParseRevenueSheet(rows, file.Name, file.Date)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		records = append(records, parsed...)
	}
	if len(records) == 0 {
		return nil
	}

	author, err := j.store.UserIDByEmail(ctx, file.Sender)
	if errors.Is(err, storage.ErrUserNotFound) {
		author = 0
		j.warn(ctx, fmt.Sprintf("User '%s' is unknown. Field 'created_by' sets in 0", file.Sender))
	} else if err != nil {
		return err
	}

	projects, err := j.store.ProjectsByName(ctx)
	if err != nil {
		return err
	}
	regions, err := j.store.RegionsByName(ctx)
	if err != nil {
		return err
	}
	specialities, err := j.store.SpecialitiesByName(ctx)
	if err != nil {
		return err
	}

	revenues := make([]storage.FinRevenue, 0, len(records))
	for _, r := range records {
		projectID, ok := projects[r.Project]
		if !ok {
			return fmt.Errorf("unknown project %q", r.Project)
		}
		regionID, ok := regions[r.Region]
		if !ok {
			return fmt.Errorf("unknown region %q", r.Region)
		}
		specialityID, ok := specialities[r.Speciality]
		if !ok {
			return fmt.Errorf("unknown speciality %q", r.Speciality)
		}

		r.Revenue.CreatedBy = author
		r.Revenue.ProjectID = projectID
		r.Revenue.RegionID = regionID
		r.Revenue.SpecialityID = specialityID
		revenues = append(revenues, r.Revenue)
	}

	inserted, err := j.store.InsertFinRevenues(ctx, revenues)
	if err != nil {
		return err
	}
	j.notifier.Send(ctx, fmt.Sprintf("Обработка файла завершена, загружено %d строк", inserted))
	return j.store.LogEvent(ctx, storage.EventTypeEvent, source,
		fmt.Sprintf("%s inserted %d rows to table fin_revenues", file.Name, inserted))
}

// ensureDictionaries tops up the TK and organisation dictionaries with names
// first seen in this file, then returns complete name-to-id indexes.
func (j *Job) ensureDictionaries(ctx context.Context, names nameSet) (tks, orgs map[string]int64, err error) {
	tks, err = j.ensure(ctx, names.tks, "lenta_tks",
		j.tradeCenterIndex, j.store.AddTradeCenters)
	if err != nil {
		return nil, nil, err
	}
	orgs, err = j.ensure(ctx, names.orgs, "lenta_organisations",
		j.organisationIndex, j.store.AddOrganisations)
	if err != nil {
		return nil, nil, err
	}
	return tks, orgs, nil
}

func (j *Job) ensure(ctx context.Context, wanted map[string]bool, table string,
	index func(context.Context) (map[string]int64, error),
	add func(context.Context, []string) error) (map[string]int64, error) {

	known, err := index(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	for name := range wanted {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return known, nil
	}

	if err := add(ctx, missing); err != nil {
		return nil, err
	}
	if err := j.store.LogEvent(ctx, storage.EventTypeEvent, source,
		fmt.Sprintf("%d names added to dictionary-table %s", len(missing), table)); err != nil {
		return nil, err
	}
	return index(ctx)
}

func (j *Job) tradeCenterIndex(ctx context.Context) (map[string]int64, error) {
	tks, err := j.store.TradeCenters(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int64, len(tks))
	for _, tk := range tks {
		index[tk.Name] = tk.ID
	}
	return index, nil
}

func (j *Job) organisationIndex(ctx context.Context) (map[string]int64, error) {
	orgs, err := j.store.Organisations(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int64, len(orgs))
	for _, org := range orgs {
		index[org.Name] = org.ID
	}
	return index, nil
}

func (j *Job) reportStats(ctx context.Context, stats ReportStats) {
	if stats.UnknownTransport > 0 {
		j.warn(ctx, fmt.Sprintf("Field 'transport_id' has %d zero values", stats.UnknownTransport))
	}
	if stats.UnknownDivision > 0 {
		j.warn(ctx, fmt.Sprintf("Field 'division_id' has %d zero values", stats.UnknownDivision))
	}
}

func (j *Job) warn(ctx context.Context, text string) {
	j.logger.Warn(text)
	if err := j.store.LogEvent(ctx, storage.EventTypeWarning, source, text); err != nil {
		j.logger.Error("Failed to write event log", zap.Error(err))
	}
}

type nameSet struct {
	tks  map[string]bool
	orgs map[string]bool
}

func newNameSet() nameSet {
	return nameSet{tks: make(map[string]bool), orgs: make(map[string]bool)}
}

func (n nameSet) add(tk, org string) {
	if tk != "" {
		n.tks[tk] = true
	}
	if org != "" {
		n.orgs[org] = true
	}
}
