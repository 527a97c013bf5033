package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"trek/internal/domain"
	"trek/internal/repository"
)

// ProjectionService composes the read-only views of the marketplace.
type ProjectionService struct {
	core
}

// NewProjectionService creates a new ProjectionService.
func NewProjectionService(store repository.Store, opts ...Option) *ProjectionService {
	return &ProjectionService{core: newCore(store, opts...)}
}

// ListingFilter narrows the public listing. Zero values match everything.
type ListingFilter struct {
	Location   string
	Difficulty domain.Difficulty
	From       time.Time
	To         time.Time
	Query      string
}

// TripSummary is a trip annotated with its live capacity.
type TripSummary struct {
	Trip           *domain.Trip
	SpotsRemaining int
}

// PublicListing returns approved trips by departure date. A porter does not
// see their own trips.
func (s *ProjectionService) PublicListing(ctx context.Context, viewer domain.Actor, filter ListingFilter) ([]TripSummary, error) {
	repos := s.store.Repos()

	porter, err := isPorter(ctx, repos, viewer.ID)
	if err != nil {
		return nil, err
	}

	trips, err := repos.Trips.ListByStatus(ctx, domain.TripStatusApproved)
	if err != nil {
		return nil, err
	}

	location := foldText(filter.Location)
	query := foldText(filter.Query)

	out := make([]TripSummary, 0, len(trips))
	for _, trip := range trips {
		if porter && trip.OrganizerID == viewer.ID {
			continue
		}
		if filter.Difficulty != "" && trip.Difficulty != filter.Difficulty {
			continue
		}
		if !filter.From.IsZero() && trip.DepartureDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && trip.DepartureDate.After(filter.To) {
			continue
		}
		if location != "" && !strings.Contains(foldText(trip.Location), location) {
			continue
		}
		if query != "" && !strings.Contains(foldText(trip.Name+" "+trip.Location+" "+trip.Description), query) {
			continue
		}

		regs, err := repos.Registrations.ListByTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, TripSummary{Trip: trip, SpotsRemaining: domain.SpotsRemaining(trip, regs)})
	}

	slices.SortStableFunc(out, func(a, b TripSummary) int {
		return a.Trip.DepartureDate.Compare(b.Trip.DepartureDate)
	})
	return out, nil
}

// TripDetail returns a single trip. Trips that have not been approved are
// only visible to their organizer and admins.
func (s *ProjectionService) TripDetail(ctx context.Context, viewer domain.Actor, tripID string) (*TripSummary, error) {
	repos := s.store.Repos()

	trip, err := repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, notFound(err, ErrTripNotFound)
	}
	if !publiclyVisible(trip.Status) && trip.OrganizerID != viewer.ID && !viewer.IsAdmin() {
		return nil, ErrTripNotFound
	}

	regs, err := repos.Registrations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &TripSummary{Trip: trip, SpotsRemaining: domain.SpotsRemaining(trip, regs)}, nil
}

func publiclyVisible(status domain.TripStatus) bool {
	switch status {
	case domain.TripStatusApproved, domain.TripStatusCancelled, domain.TripStatusCompleted:
		return true
	}
	return false
}

// OrganizerTrip is one row of the organizer inbox.
type OrganizerTrip struct {
	Trip           *domain.Trip
	Counts         domain.RegistrationCounts
	SpotsRemaining int
}

// StatusGroup holds the organizer's trips in one status.
type StatusGroup struct {
	Status domain.TripStatus
	Trips  []OrganizerTrip
}

// OrganizerInbox returns the organizer's trips grouped by status in
// lifecycle order, each with its registration counts.
func (s *ProjectionService) OrganizerInbox(ctx context.Context, viewer domain.Actor, organizerID string) ([]StatusGroup, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	if viewer.ID != organizerID && !viewer.IsAdmin() {
		return nil, ErrNotSelf
	}

	repos := s.store.Repos()
	trips, err := repos.Trips.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[domain.TripStatus][]OrganizerTrip)
	for _, trip := range trips {
		regs, err := repos.Registrations.ListByTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		byStatus[trip.Status] = append(byStatus[trip.Status], OrganizerTrip{
			Trip:           trip,
			Counts:         domain.CountByStatus(regs),
			SpotsRemaining: domain.SpotsRemaining(trip, regs),
		})
	}

	groups := make([]StatusGroup, 0, len(byStatus))
	for _, status := range domain.TripStatuses {
		if rows, ok := byStatus[status]; ok {
			groups = append(groups, StatusGroup{Status: status, Trips: rows})
		}
	}
	return groups, nil
}

// RegisteredTrip pairs a registration with its trip.
type RegisteredTrip struct {
	Trip         *domain.Trip
	Registration *domain.Registration
	HasReviewed  bool
}

// ParticipantView lists a user's registrations and the completed trips they
// took part in.
type ParticipantView struct {
	Registrations []RegisteredTrip
	Completed     []RegisteredTrip
}

// ParticipantView builds the view for userID. Viewers may only see their own.
func (s *ProjectionService) ParticipantView(ctx context.Context, viewer domain.Actor, userID string) (*ParticipantView, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	if viewer.ID != userID && !viewer.IsAdmin() {
		return nil, ErrNotSelf
	}

	repos := s.store.Repos()
	regs, err := repos.Registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := repos.Reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviewed := make(map[string]bool, len(reviews))
	for _, review := range reviews {
		reviewed[review.TripID] = true
	}

	view := &ParticipantView{
		Registrations: make([]RegisteredTrip, 0, len(regs)),
		Completed:     []RegisteredTrip{},
	}
	for _, reg := range regs {
		trip, err := repos.Trips.GetByID(ctx, reg.TripID)
		if err != nil {
			return nil, err
		}
		row := RegisteredTrip{Trip: trip, Registration: reg, HasReviewed: reviewed[trip.ID]}
		view.Registrations = append(view.Registrations, row)
		if trip.Status == domain.TripStatusCompleted && reg.Status == domain.RegistrationStatusApproved {
			view.Completed = append(view.Completed, row)
		}
	}
	return view, nil
}

// QueueKind selects an admin queue.
type QueueKind string

const (
	QueueTrips              QueueKind = "trip"
	QueuePorterApplications QueueKind = "porter_application"
)

// AdminQueue holds pending entities, oldest first.
type AdminQueue struct {
	Kind         QueueKind
	Trips        []*domain.Trip
	Applications []*domain.PorterApplication
}

// AdminQueue returns the pending trips or porter applications in FIFO order.
func (s *ProjectionService) AdminQueue(ctx context.Context, admin domain.Actor, kind QueueKind) (*AdminQueue, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	queue := &AdminQueue{Kind: kind}

	switch kind {
	case QueueTrips:
		trips, err := repos.Trips.ListByStatus(ctx, domain.TripStatusPendingApproval)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(trips, func(a, b *domain.Trip) int {
			return cmp.Or(a.SubmittedAt.Compare(b.SubmittedAt), a.CreatedAt.Compare(b.CreatedAt))
		})
		queue.Trips = trips
	case QueuePorterApplications:
		apps, err := repos.Applications.ListByStatus(ctx, domain.ApplicationStatusPending)
		if err != nil {
			return nil, err
		}
		queue.Applications = apps
	default:
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown queue %q", kind))
	}

	return queue, nil
}

// foldText lowercases s and strips diacritics so "Tà Xùa" matches "ta xua".
func foldText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ReplaceAll(cases.Fold().String(stripped), "đ", "d")
}
