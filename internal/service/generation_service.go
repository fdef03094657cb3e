package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tidyhaus/scheduling-service/internal/config"
	"github.com/tidyhaus/scheduling-service/internal/model"
	"github.com/tidyhaus/scheduling-service/internal/repository"
	"github.com/tidyhaus/scheduling-service/internal/schedule"
)

type RosterGenerator interface {
	Generate(roster model.Roster) ([]byte, error)
}

// GenerationService turns recurring contracts into persisted job instances
// and exports rosters. Concurrent runs for the same contract are serialized
// in-process; the unique (contract, date) index is the cross-process
// backstop.
type GenerationService struct {
	contracts *repository.ContractRepository
	instances *repository.InstanceRepository
	excel     RosterGenerator
	cfg       *config.Config
	log       zerolog.Logger
	locks     sync.Map // contract id -> *sync.Mutex
}

type GenerateInput struct {
	ContractID uuid.UUID
	WeeksAhead int
	AssigneeID *uuid.UUID
	Pay        *float64
	Days       []model.ScheduleDay
	Principal  model.Principal
}

type GenerateResult struct {
	Instances []model.JobInstance
	Warnings  []schedule.SlotWarning
}

type ExportRosterInput struct {
	ContractID  uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Principal   model.Principal
}

type ExportRosterResult struct {
	FileName string
	Content  []byte
}

func NewGenerationService(
	contracts *repository.ContractRepository,
	instances *repository.InstanceRepository,
	excel RosterGenerator,
	cfg *config.Config,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		contracts: contracts,
		instances: instances,
		excel:     excel,
		cfg:       cfg,
		log:       log,
	}
}

// GenerateForContract expands one contract over its horizon and persists
// the resulting drafts. Slot warnings are returned alongside the instances
// so the caller can surface them without failing the run.
func (s *GenerationService) GenerateForContract(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if input.Principal.IsCleaner() {
		return nil, ErrPermissionDenied
	}
	if input.ContractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract_id is required", ErrInvalidInput)
	}
	return s.generate(ctx, input)
}

func (s *GenerationService) generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	unlock := s.lockContract(input.ContractID)
	defer unlock()

	contract, err := s.contracts.GetContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	req := schedule.Request{
		AsOf:                   time.Now().UTC(),
		WeeksAhead:             input.WeeksAhead,
		AssigneeID:             input.AssigneeID,
		Pay:                    input.Pay,
		DaysOverride:           input.Days,
		DefaultStartTime:       s.cfg.Schedule.DefaultStartTime,
		DefaultDurationMinutes: s.cfg.Schedule.DefaultDurationMinutes,
	}
	if req.WeeksAhead <= 0 {
		req.WeeksAhead = s.cfg.Schedule.WeeksAhead
	}

	horizon := schedule.ComputeHorizon(req.AsOf, req.WeeksAhead, contract.StartDate, contract.EndDate)
	if horizon.Empty() {
		return &GenerateResult{}, nil
	}

	// The engine needs a consistent snapshot; the per-contract lock keeps
	// it from being refreshed mid-expansion.
	existing, err := s.instances.ListForContractBetween(ctx, contract.ID, horizon.Start, horizon.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	index := schedule.NewInstanceIndex(existing)

	drafts, warnings, err := schedule.Expand(*contract, req, index)
	if err != nil {
		if errors.Is(err, schedule.ErrNoSchedulePattern) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		return nil, err
	}

	instances := make([]model.JobInstance, 0, len(drafts))
	for _, draft := range drafts {
		instance := model.JobInstance{
			ID:             uuid.New(),
			ContractID:     draft.ContractID,
			CustomerID:     draft.CustomerID,
			ScheduledStart: draft.ScheduledStart,
			ScheduledEnd:   draft.ScheduledEnd,
			AssigneeID:     draft.AssigneeID,
			Pay:            draft.Pay,
			Status:         draft.Status,
		}
		for i, title := range draft.Tasks {
			instance.Tasks = append(instance.Tasks, model.JobTask{
				ID:         uuid.New(),
				InstanceID: instance.ID,
				Position:   i + 1,
				Title:      title,
			})
		}
		instances = append(instances, instance)
	}

	if err := s.instances.CreateBatch(ctx, instances); err != nil {
		return nil, err
	}
	if err := s.contracts.TouchUpdatedAt(ctx, contract.ID, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("contract", contract.ID.String()).Msg("failed to touch contract")
	}

	for _, warning := range warnings {
		s.log.Warn().
			Str("contract", contract.ID.String()).
			Int("slot", warning.Position).
			Str("weekday", warning.Weekday).
			Msg(warning.Reason)
	}

	return &GenerateResult{Instances: instances, Warnings: warnings}, nil
}

// GenerateDue expands every contract still inside its horizon. Per-contract
// failures are logged and skipped so one bad contract cannot stall the
// sweep.
func (s *GenerationService) GenerateDue(ctx context.Context) error {
	ids, err := s.contracts.ListActiveContractIDs(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, id := range ids {
		result, err := s.generate(ctx, GenerateInput{ContractID: id})
		if err != nil {
			s.log.Warn().Err(err).Str("contract", id.String()).Msg("contract generation failed")
			continue
		}
		if len(result.Instances) > 0 {
			s.log.Info().
				Str("contract", id.String()).
				Int("created", len(result.Instances)).
				Msg("materialized schedule instances")
		}
	}
	return nil
}

// RunSweep calls GenerateDue on the configured interval until the context
// is cancelled.
func (s *GenerationService) RunSweep(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Schedule.SweepInterval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.cfg.Schedule.SweepInterval).Msg("generation sweep started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("generation sweep stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.GenerateDue(ctx); err != nil {
				s.log.Error().Err(err).Msg("generation sweep failed")
			}
		}
	}
}

// ExportRoster renders a contract's generated schedule for a period as an
// xlsx workbook.
func (s *GenerationService) ExportRoster(ctx context.Context, input ExportRosterInput) (*ExportRosterResult, error) {
	if input.Principal.IsCleaner() {
		return nil, ErrPermissionDenied
	}
	if input.ContractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract_id is required", ErrInvalidInput)
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}

	periodStart := dateOnly(input.PeriodStart)
	periodEnd := dateOnly(input.PeriodEnd)
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("%w: period_start must be before or equal to period_end", ErrInvalidInput)
	}

	contract, err := s.contracts.GetContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	customer, err := s.contracts.GetCustomer(ctx, contract.CustomerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if customer == nil {
		customer = &model.Customer{ID: contract.CustomerID}
	}

	instances, err := s.instances.ListWithTasks(ctx, contract.ID, periodStart, periodEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	roster, err := s.buildRoster(ctx, *contract, *customer, periodStart, periodEnd, instances)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*roster)
	if err != nil {
		return nil, err
	}

	return &ExportRosterResult{
		FileName: s.buildFileName(*roster),
		Content:  content,
	}, nil
}

func (s *GenerationService) buildRoster(
	ctx context.Context,
	contract model.RecurringContract,
	customer model.Customer,
	periodStart, periodEnd time.Time,
	instances []model.JobInstance,
) (*model.Roster, error) {
	assigneeIDs := make([]uuid.UUID, 0, len(instances))
	for _, inst := range instances {
		if inst.AssigneeID != nil {
			assigneeIDs = append(assigneeIDs, *inst.AssigneeID)
		}
	}
	employees, err := s.contracts.ListEmployees(ctx, assigneeIDs)
	if err != nil {
		return nil, err
	}

	roster := &model.Roster{
		Contract:    contract,
		Customer:    customer,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalVisits: len(instances),
	}

	weekIndex := make(map[time.Time]int)
	for _, inst := range instances {
		row := model.RosterRow{
			ScheduledStart: inst.ScheduledStart,
			ScheduledEnd:   inst.ScheduledEnd,
			Pay:            inst.Pay,
			Status:         inst.Status,
		}
		if inst.AssigneeID != nil {
			if emp, ok := employees[*inst.AssigneeID]; ok {
				name := emp.FullName
				row.AssigneeName = &name
			}
		}
		for _, task := range inst.Tasks {
			row.Tasks = append(row.Tasks, task.Title)
		}

		week := mondayOf(inst.ScheduledStart)
		pos, ok := weekIndex[week]
		if !ok {
			roster.Weeks = append(roster.Weeks, model.RosterWeek{WeekStart: week})
			pos = len(roster.Weeks) - 1
			weekIndex[week] = pos
		}
		roster.Weeks[pos].Rows = append(roster.Weeks[pos].Rows, row)
	}

	return roster, nil
}

func (s *GenerationService) buildFileName(roster model.Roster) string {
	target := sanitizeFileName(roster.Contract.Title)
	if target == "" {
		target = roster.Contract.ID.String()
	}
	period := fmt.Sprintf("%s-%s", roster.PeriodStart.Format("20060102"), roster.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("roster-%s-%s.xlsx", target, period)
}

func (s *GenerationService) lockContract(id uuid.UUID) func() {
	value, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mondayOf(t time.Time) time.Time {
	day := dateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
