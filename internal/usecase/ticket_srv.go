package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sokoni/internal/data/entity"
	"sokoni/internal/data/repository"
	"sokoni/internal/dto/response"
	"sokoni/pkg/utils"
)

type TicketService interface {
	// IssueTicket mints the ticket for a successful payment. The ticket
	// document id equals the payment id, so retries and duplicate
	// deliveries converge on one ticket.
	IssueTicket(ctx context.Context, paymentID, eventID, ticketTypeID, userID string) (string, error)

	// Redeem is the server side of /scan-ticket.
	Redeem(ctx context.Context, qrCode, scannerID string) *response.ScanResponse

	// Stats streams the live total/sold/remaining view for an event.
	Stats(ctx context.Context, eventID string) (*StatsStream, error)

	UserTickets(ctx context.Context, userID string) ([]response.TicketResponse, error)
	QRImage(ctx context.Context, ticketID string) ([]byte, error)
	CreateType(ctx context.Context, tt *entity.TicketType) error

	// RegisterScanner enrolls a redemption device. The plaintext device
	// key is returned once and only its bcrypt hash is stored.
	RegisterScanner(ctx context.Context, name, eventID string) (*entity.Scanner, string, error)
}

type ticketService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTicketService(repo *repository.Repository, log *zap.Logger) TicketService {
	return &ticketService{
		repo: repo,
		log:  log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) IssueTicket(ctx context.Context, paymentID, eventID, ticketTypeID, userID string) (string, error) {
	ticket := &entity.Ticket{
		BaseSimple: entity.BaseSimple{
			ID:        paymentID,
			CreatedAt: time.Now().UTC(),
		},
		EventID:      eventID,
		UserID:       userID,
		TicketTypeID: ticketTypeID,
		QRCode:       utils.GenerateQRCode(),
		Status:       entity.TicketStatusActive,
	}

	created, err := s.repo.Ticket.Create(ctx, ticket)
	if err != nil {
		return "", fmt.Errorf("issue ticket for payment %s: %w", paymentID, err)
	}
	if !created {
		s.log.Info("Ticket already issued", zap.String("payment_id", paymentID))
		return paymentID, nil
	}

	s.log.Info("Ticket issued",
		zap.String("ticket_id", paymentID),
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
	)

	return paymentID, nil
}

// Redeem never returns an error: every outcome, including lookup
// failures, is a {success, message} result for the scanning device.
func (s *ticketService) Redeem(ctx context.Context, qrCode, scannerID string) *response.ScanResponse {
	ticket, err := s.repo.Ticket.FindByQRCode(ctx, qrCode)
	if err != nil {
		s.log.Error("Ticket lookup failed", zap.Error(err), zap.String("scanner_id", scannerID))
		return &response.ScanResponse{Success: false, Message: "Validation failed, try again"}
	}
	if ticket == nil {
		return &response.ScanResponse{Success: false, Message: "Unknown ticket"}
	}

	switch ticket.Status {
	case entity.TicketStatusUsed:
		return &response.ScanResponse{Success: false, Message: "Ticket already used"}
	case entity.TicketStatusVoid:
		return &response.ScanResponse{Success: false, Message: "Ticket is void"}
	}

	if err := s.repo.Ticket.MarkUsed(ctx, ticket.ID, time.Now().UTC()); err != nil {
		s.log.Error("Mark used failed", zap.Error(err), zap.String("ticket_id", ticket.ID))
		return &response.ScanResponse{Success: false, Message: "Validation failed, try again"}
	}

	s.log.Info("Ticket redeemed",
		zap.String("ticket_id", ticket.ID),
		zap.String("scanner_id", scannerID),
	)

	return &response.ScanResponse{Success: true, Message: "Ticket valid, entry granted"}
}

func (s *ticketService) UserTickets(ctx context.Context, userID string) ([]response.TicketResponse, error) {
	tickets, err := s.repo.Ticket.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tickets for user %s: %w", userID, err)
	}

	out := make([]response.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, response.TicketToResponse(t))
	}
	return out, nil
}

// QRImage renders the ticket's code as a PNG for the wallet view.
func (s *ticketService) QRImage(ctx context.Context, ticketID string) ([]byte, error) {
	ticket, err := s.repo.Ticket.FindByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("find ticket %s: %w", ticketID, err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket %s not found", ticketID)
	}

	png, err := qrcode.Encode(ticket.QRCode, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render qr for ticket %s: %w", ticketID, err)
	}
	return png, nil
}

func (s *ticketService) CreateType(ctx context.Context, tt *entity.TicketType) error {
	if tt.ID == "" {
		tt.ID = utils.GenerateUUIDString()
	}
	if tt.CreatedAt.IsZero() {
		tt.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Ticket.CreateType(ctx, tt); err != nil {
		return fmt.Errorf("create ticket type: %w", err)
	}
	return nil
}

func (s *ticketService) RegisterScanner(ctx context.Context, name, eventID string) (*entity.Scanner, string, error) {
	key := utils.GenerateUUIDString()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash scanner key: %w", err)
	}

	scanner := &entity.Scanner{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: time.Now().UTC(),
		},
		Name:    name,
		EventID: eventID,
		KeyHash: string(hash),
	}

	if err := s.repo.Scanner.Create(ctx, scanner); err != nil {
		return nil, "", fmt.Errorf("register scanner: %w", err)
	}

	s.log.Info("Scanner registered",
		zap.String("scanner_id", scanner.ID),
		zap.String("name", name),
	)

	return scanner, key, nil
}

// StatsStream carries live TicketStats snapshots. Delivery is
// latest-only like the document streams it is built from.
type StatsStream struct {
	ch     chan entity.TicketStats
	cancel context.CancelFunc
}

func (ss *StatsStream) Stats() <-chan entity.TicketStats { return ss.ch }

func (ss *StatsStream) Close() { ss.cancel() }

// Stats fans two subscriptions into one: ticket type quantities give the
// total, issued tickets give the sold count, and remaining is their
// difference. A fresh view is emitted whenever either side changes;
// remaining is not clamped, so over-issuance shows up as a negative.
func (s *ticketService) Stats(ctx context.Context, eventID string) (*StatsStream, error) {
	statsCtx, cancel := context.WithCancel(ctx)

	types, err := s.repo.Ticket.WatchTypesByEvent(statsCtx, eventID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch ticket types for %s: %w", eventID, err)
	}

	tickets, err := s.repo.Ticket.WatchByEvent(statsCtx, eventID)
	if err != nil {
		types.Close()
		cancel()
		return nil, fmt.Errorf("watch tickets for %s: %w", eventID, err)
	}

	ss := &StatsStream{
		ch:     make(chan entity.TicketStats, 1),
		cancel: cancel,
	}

	go func() {
		defer close(ss.ch)
		defer types.Close()
		defer tickets.Close()
		defer cancel()

		var total, sold int

		emit := func() {
			stats := entity.TicketStats{
				Total:     total,
				Sold:      sold,
				Remaining: total - sold,
			}
			for {
				select {
				case ss.ch <- stats:
					return
				default:
					select {
					case <-ss.ch:
					default:
					}
				}
			}
		}

		for {
			select {
			case <-statsCtx.Done():
				return
			case snap, ok := <-types.Snapshots():
				if !ok {
					if err := types.Err(); err != nil {
						s.log.Error("Ticket type stream failed", zap.Error(err), zap.String("event_id", eventID))
					}
					return
				}
				total = 0
				for _, doc := range snap {
					var tt entity.TicketType
					if err := doc.Decode(&tt); err != nil {
						continue
					}
					total += tt.Quantity
				}
				emit()
			case snap, ok := <-tickets.Snapshots():
				if !ok {
					if err := tickets.Err(); err != nil {
						s.log.Error("Ticket stream failed", zap.Error(err), zap.String("event_id", eventID))
					}
					return
				}
				sold = len(snap)
				emit()
			}
		}
	}()

	return ss, nil
}
