package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
)

// Reconciler runs scheduled read-repair over the document store. The
// compound writes in the booking flow have no cross-document
// transaction, so a crash between them can leave a rejected booking
// still holding its service. The sweep puts such services back on the
// market and prunes expired announcements.
type Reconciler struct {
	repo *repository.Repository
	log  *zap.Logger
	cron *cron.Cron
}

func NewReconciler(repo *repository.Repository, log *zap.Logger) *Reconciler {
	return &Reconciler{
		repo: repo,
		log:  log.With(zap.String("component", "reconciler")),
		cron: cron.New(),
	}
}

// Start schedules the sweeps. Stop must be called on shutdown.
func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc("@every 5m", r.sweepBookings); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc("@hourly", r.sweepAnnouncements); err != nil {
		return err
	}

	r.cron.Start()
	r.log.Info("Reconciler started")
	return nil
}

func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Reconciler) sweepBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := r.ReleaseStuckServices(ctx); err != nil {
		r.log.Error("Booking sweep failed", zap.Error(err))
	}
}

func (r *Reconciler) sweepAnnouncements() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := r.PruneExpiredAnnouncements(ctx); err != nil {
		r.log.Error("Announcement sweep failed", zap.Error(err))
	}
}

// ReleaseStuckServices re-releases services still held by a rejected
// booking's customer. Release is idempotent, so racing a concurrent
// repair is harmless.
func (r *Reconciler) ReleaseStuckServices(ctx context.Context) error {
	rejected, err := r.repo.Booking.FindByStatus(ctx, entity.BookingStatusRejected)
	if err != nil {
		return err
	}

	repaired := 0
	for _, booking := range rejected {
		service, err := r.repo.Service.FindByID(ctx, booking.ServiceID)
		if err != nil {
			return err
		}
		if service == nil || service.IsAvailable {
			continue
		}
		if service.BookedBy != booking.CustomerID {
			// held by a newer booking, not ours to release
			continue
		}

		if err := r.repo.Service.Release(ctx, booking.ServiceID); err != nil {
			return err
		}

		r.log.Info("Released service stuck behind rejected booking",
			zap.String("service_id", booking.ServiceID),
			zap.String("booking_id", booking.ID),
		)
		repaired++
	}

	if repaired > 0 {
		r.log.Info("Booking sweep repaired services", zap.Int("count", repaired))
	}

	return nil
}

// PruneExpiredAnnouncements deletes announcements past their expiry.
func (r *Reconciler) PruneExpiredAnnouncements(ctx context.Context) error {
	pruned, err := r.repo.Announcement.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if pruned > 0 {
		r.log.Info("Pruned expired announcements", zap.Int("count", pruned))
	}
	return nil
}
