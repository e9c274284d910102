package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/pkg/logger"
)

const jobFinanceRefresh = "finance_refresh"

// StatusRefresher vence contratos y marca facturas atrasadas.
type StatusRefresher interface {
	RefreshStatuses(ctx context.Context, now time.Time) (*dto.RefreshResult, error)
}

// JobRecorder recibe el resultado de cada ejecución (métricas).
type JobRecorder interface {
	JobRun(job string, err error)
}

type noopRecorder struct{}

func (noopRecorder) JobRun(string, error) {}

// Scheduler ejecuta las tareas periódicas de la API.
type Scheduler struct {
	cron      *cron.Cron
	log       *logger.Logger
	refresher StatusRefresher
	recorder  JobRecorder
	timeout   time.Duration
	now       func() time.Time
}

// New crea el cron en UTC con precisión de segundos y registra las tareas.
func New(log *logger.Logger, refresher StatusRefresher, recorder JobRecorder, financeSpec string) (*Scheduler, error) {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		log:       log.Named("scheduler"),
		refresher: refresher,
		recorder:  recorder,
		timeout:   2 * time.Minute,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if _, err := s.cron.AddFunc(financeSpec, s.runFinanceRefresh); err != nil {
		return nil, fmt.Errorf("register %s (%q): %w", jobFinanceRefresh, financeSpec, err)
	}
	s.log.Info().Str("job", jobFinanceRefresh).Str("spec", financeSpec).Msg("tarea programada registrada")
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler iniciado")
}

// Stop espera a que terminen las tareas en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("scheduler detenido")
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler: tiempo de apagado agotado")
	}
}

// RefreshNow ejecuta la tarea de finanzas fuera de calendario.
func (s *Scheduler) RefreshNow(ctx context.Context) (*dto.RefreshResult, error) {
	start := time.Now()
	res, err := s.refresher.RefreshStatuses(ctx, s.now())
	s.recorder.JobRun(jobFinanceRefresh, err)
	if err != nil {
		s.log.Error().Err(err).Str("job", jobFinanceRefresh).Msg("tarea programada falló")
		return nil, err
	}
	s.log.Info().
		Str("job", jobFinanceRefresh).
		Int64("contracts_expired", res.ContractsExpired).
		Int64("invoices_overdue", res.InvoicesOverdue).
		Dur("elapsed", time.Since(start)).
		Msg("tarea programada finalizada")
	return res, nil
}

func (s *Scheduler) runFinanceRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RefreshNow(ctx)
}
