// Package handler implements the HTTP handlers for the trek booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trek.go, projection.go, user.go, ...) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/service"
)

// The servicer interfaces below are defined here, in the consumer package,
// so handler tests can inject mocks without a database.

// TrekServicer writes the trek aggregate.
type TrekServicer interface {
	Create(ctx context.Context, in service.CreateTrekInput) (domain.Trek, error)
	AddDate(ctx context.Context, trekID uuid.UUID, in service.DateInput) (domain.TrekDate, error)
	Update(ctx context.Context, trekID uuid.UUID, in service.PatchTrekInput) (domain.Trek, error)
	UpdateDate(ctx context.Context, dateID uuid.UUID, in service.DateInput) (domain.TrekDate, error)
	Delete(ctx context.Context, trekID uuid.UUID) error
	DeleteDate(ctx context.Context, dateID uuid.UUID) error
}

// ProjectionServicer reads the joined trek views.
type ProjectionServicer interface {
	AllDetails(ctx context.Context) ([]domain.TrekAllDetails, error)
	TrekAllDetails(ctx context.Context, id uuid.UUID) (domain.TrekAllDetails, error)
	Slider(ctx context.Context, q domain.SliderQuery) ([]domain.SliderSummary, error)
	GroupByType(ctx context.Context) ([]domain.TypeGroup, error)
	TrekDetail(ctx context.Context, id uuid.UUID) (domain.TrekDetail, error)
	DateDetail(ctx context.Context, dateID uuid.UUID) (domain.DateDetails, error)
	TrekDates(ctx context.Context, trekID uuid.UUID) ([]domain.DateWindow, error)
	Listing(ctx context.Context) ([]domain.TrekListing, error)
	Names(ctx context.Context) ([]domain.TrekName, error)
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// TrekTypeServicer manages trek types.
type TrekTypeServicer interface {
	Create(ctx context.Context, in service.TrekTypeInput) (domain.TrekType, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TrekType, error)
	List(ctx context.Context) ([]domain.TrekType, error)
	Update(ctx context.Context, id uuid.UUID, in service.TrekTypeInput) (domain.TrekType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GuideServicer manages guides.
type GuideServicer interface {
	Create(ctx context.Context, in service.GuideInput) (domain.Guide, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Guide, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Guide, int64, error)
	Update(ctx context.Context, id uuid.UUID, in service.GuideInput) (domain.Guide, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TestimonialServicer manages testimonials.
type TestimonialServicer interface {
	Create(ctx context.Context, in service.TestimonialInput) (domain.Testimonial, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Testimonial, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Testimonial, int64, error)
	Update(ctx context.Context, id uuid.UUID, in service.TestimonialInput) (domain.Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserServicer manages admin accounts and sessions.
type UserServicer interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, domain.TokenPair, error)
	Logout(ctx context.Context, id uuid.UUID) error
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Current(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, fullName, username string) (domain.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Services bundles every servicer the router needs. A nil field leaves its
// routes unregistered, which keeps handler tests focused.
type Services struct {
	Treks        TrekServicer
	Projections  ProjectionServicer
	Export       ExportServicer
	TrekTypes    TrekTypeServicer
	Guides       GuideServicer
	Testimonials TestimonialServicer
	Users        UserServicer
}

// Options configures transport details that are not business logic.
type Options struct {
	Logger       *slog.Logger
	CookieSecure bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration

	// MaxMultipartMemory is how much of a multipart body is held in memory
	// before spilling to temporary files.
	MaxMultipartMemory int64

	// UploadDir, when set, is served read-only under /public/uploads/.
	UploadDir string
}

// Server holds the handler dependencies.
type Server struct {
	svc  Services
	opts Options
	log  *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxMultipartMemory <= 0 {
		opts.MaxMultipartMemory = 8 << 20
	}
	return &Server{svc: svc, opts: opts, log: opts.Logger}
}
