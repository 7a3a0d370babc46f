package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
	"sokoni/internal/dto/request"
	"sokoni/pkg/utils"
)

type RatingService interface {
	// Rate writes or replaces the user's score for a service.
	Rate(ctx context.Context, userID string, req *request.RateServiceRequest) error

	// WatchService streams one listing merged with its live rating mean.
	WatchService(ctx context.Context, serviceID string) (*RatedListingStream, error)

	// WatchListings streams all listings with their rating means. The
	// first emission waits until every listing's ratings have loaded
	// once; after that any single change re-emits the whole set.
	WatchListings(ctx context.Context) (*RatedListingsStream, error)
}

type ratingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRatingService(repo *repository.Repository, log *zap.Logger) RatingService {
	return &ratingService{
		repo: repo,
		log:  log.With(zap.String("service", "rating")),
	}
}

func (s *ratingService) Rate(ctx context.Context, userID string, req *request.RateServiceRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	service, err := s.repo.Service.FindByID(ctx, req.ServiceID)
	if err != nil {
		return fmt.Errorf("find service %s: %w", req.ServiceID, err)
	}
	if service == nil {
		return fmt.Errorf("service %s not found", req.ServiceID)
	}

	rating := &entity.Rating{
		BaseSimple: entity.BaseSimple{
			CreatedAt: time.Now().UTC(),
		},
		ServiceID: req.ServiceID,
		UserID:    userID,
		Score:     req.Score,
		Comment:   req.Comment,
	}

	if err := s.repo.Rating.Upsert(ctx, rating); err != nil {
		return fmt.Errorf("rate service %s: %w", req.ServiceID, err)
	}

	s.log.Info("Service rated",
		zap.String("service_id", req.ServiceID),
		zap.String("user_id", userID),
		zap.Float64("score", req.Score),
	)

	return nil
}

// RatedListingStream carries one listing's live rated view.
type RatedListingStream struct {
	ch     chan entity.RatedListing
	cancel context.CancelFunc
}

func (rs *RatedListingStream) Listings() <-chan entity.RatedListing { return rs.ch }

func (rs *RatedListingStream) Close() { rs.cancel() }

func (s *ratingService) WatchService(ctx context.Context, serviceID string) (*RatedListingStream, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	serviceStream, err := s.repo.Service.WatchByID(watchCtx, serviceID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch service %s: %w", serviceID, err)
	}

	ratingStream, err := s.repo.Rating.WatchByService(watchCtx, serviceID)
	if err != nil {
		serviceStream.Close()
		cancel()
		return nil, fmt.Errorf("watch ratings for %s: %w", serviceID, err)
	}

	rs := &RatedListingStream{
		ch:     make(chan entity.RatedListing, 1),
		cancel: cancel,
	}

	go func() {
		defer close(rs.ch)
		defer serviceStream.Close()
		defer ratingStream.Close()
		defer cancel()

		var (
			listing     entity.ServiceListing
			haveListing bool
			ratings     []entity.Rating
			haveRatings bool
		)

		emit := func() {
			// hold the first emission until both sides have loaded
			if !haveListing || !haveRatings {
				return
			}
			merged := entity.RatedListing{
				Service:       listing,
				AverageRating: entity.AverageScore(ratings),
				RatingCount:   len(ratings),
			}
			for {
				select {
				case rs.ch <- merged:
					return
				default:
					select {
					case <-rs.ch:
					default:
					}
				}
			}
		}

		for {
			select {
			case <-watchCtx.Done():
				return
			case snap, ok := <-serviceStream.Snapshots():
				if !ok {
					return
				}
				if len(snap) == 0 {
					// listing deleted; the stream ends
					return
				}
				if err := snap[0].Decode(&listing); err != nil {
					continue
				}
				listing.ID = snap[0].ID
				haveListing = true
				emit()
			case snap, ok := <-ratingStream.Snapshots():
				if !ok {
					return
				}
				ratings = decodeRatings(snap)
				haveRatings = true
				emit()
			}
		}
	}()

	return rs, nil
}

// RatedListingsStream carries the full rated-listing set.
type RatedListingsStream struct {
	ch     chan []entity.RatedListing
	cancel context.CancelFunc
}

func (rs *RatedListingsStream) Listings() <-chan []entity.RatedListing { return rs.ch }

func (rs *RatedListingsStream) Close() { rs.cancel() }

type childUpdate struct {
	serviceID string
	ratings   []entity.Rating
}

type childState struct {
	stream  *docstore.Stream
	loaded  bool
	ratings []entity.Rating
}

func (s *ratingService) WatchListings(ctx context.Context) (*RatedListingsStream, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	services, err := s.repo.Service.Watch(watchCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch services: %w", err)
	}

	rs := &RatedListingsStream{
		ch:     make(chan []entity.RatedListing, 1),
		cancel: cancel,
	}

	go s.runListings(watchCtx, services, rs)

	return rs, nil
}

func (s *ratingService) runListings(ctx context.Context, services *docstore.Stream, rs *RatedListingsStream) {
	defer close(rs.ch)
	defer services.Close()
	defer rs.cancel()

	var (
		order    []string
		listings = make(map[string]entity.ServiceListing)
		children = make(map[string]*childState)
		updates  = make(chan childUpdate)
	)

	defer func() {
		for _, child := range children {
			child.stream.Close()
		}
	}()

	emit := func() {
		// the quorum gate: no combined emission until every child's
		// ratings have loaded at least once
		for _, child := range children {
			if !child.loaded {
				return
			}
		}
		out := make([]entity.RatedListing, 0, len(order))
		for _, id := range order {
			child, ok := children[id]
			if !ok {
				continue
			}
			out = append(out, entity.RatedListing{
				Service:       listings[id],
				AverageRating: entity.AverageScore(child.ratings),
				RatingCount:   len(child.ratings),
			})
		}
		for {
			select {
			case rs.ch <- out:
				return
			default:
				select {
				case <-rs.ch:
				default:
				}
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case snap, ok := <-services.Snapshots():
			if !ok {
				if err := services.Err(); err != nil {
					s.log.Error("Service stream failed", zap.Error(err))
				}
				return
			}

			next := make(map[string]struct{}, len(snap))
			order = order[:0]
			for _, doc := range snap {
				var listing entity.ServiceListing
				if err := doc.Decode(&listing); err != nil {
					continue
				}
				listing.ID = doc.ID
				listings[doc.ID] = listing
				next[doc.ID] = struct{}{}
				order = append(order, doc.ID)

				if _, exists := children[doc.ID]; exists {
					continue
				}
				child, err := s.repo.Rating.WatchByService(ctx, doc.ID)
				if err != nil {
					s.log.Error("Child rating watch failed", zap.Error(err), zap.String("service_id", doc.ID))
					return
				}
				children[doc.ID] = &childState{stream: child}
				go forwardRatings(ctx, doc.ID, child, updates)
			}

			for id, child := range children {
				if _, keep := next[id]; !keep {
					child.stream.Close()
					delete(children, id)
					delete(listings, id)
				}
			}

			emit()

		case upd := <-updates:
			child, ok := children[upd.serviceID]
			if !ok {
				continue
			}
			child.ratings = upd.ratings
			child.loaded = true
			emit()
		}
	}
}

func forwardRatings(ctx context.Context, serviceID string, stream *docstore.Stream, updates chan<- childUpdate) {
	for snap := range stream.Snapshots() {
		select {
		case updates <- childUpdate{serviceID: serviceID, ratings: decodeRatings(snap)}:
		case <-ctx.Done():
			return
		}
	}
}

func decodeRatings(snap docstore.Snapshot) []entity.Rating {
	out := make([]entity.Rating, 0, len(snap))
	for _, doc := range snap {
		var rating entity.Rating
		if err := doc.Decode(&rating); err != nil {
			continue
		}
		rating.ID = doc.ID
		out = append(out, rating)
	}
	return out
}
