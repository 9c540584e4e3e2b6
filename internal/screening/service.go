package screening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	"github.com/MrJamesThe3rd/tenantry/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=screening
type Repository interface {
	CreateScreening(ctx context.Context, s *Screening) error
	GetScreening(ctx context.Context, id uuid.UUID) (*Screening, error)
	GetScreeningByApplication(ctx context.Context, applicationID uuid.UUID) (*Screening, error)
	ListScreenings(ctx context.Context, filter ListFilter) ([]*Screening, error)
	UpdateScreening(ctx context.Context, s *Screening) error
}

// Applications is the part of the application service a screening drives.
type Applications interface {
	Get(ctx context.Context, id uuid.UUID) (*application.Application, error)
	LinkScreening(ctx context.Context, id, screeningID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, update application.StatusUpdate) (*application.Application, error)
}

type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

type Recorder interface {
	ObserveRecommendation(recommendation string, score int)
	IncrementDecision(decision string)
	IncrementAdverseAction(sent bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRecommendation(string, int) {}
func (nopRecorder) IncrementDecision(string)          {}
func (nopRecorder) IncrementAdverseAction(bool)       {}

type ListFilter struct {
	Status         *Status
	Recommendation *Recommendation
}

type Service struct {
	repo     Repository
	apps     Applications
	notifier Notifier
	metrics  Recorder
	reviewer string
	now      func() time.Time
}

type Option func(*Service)

// WithReviewer sets the name recorded when a reviewer or decision maker is not
// given.
func WithReviewer(name string) Option {
	return func(s *Service) {
		s.reviewer = name
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithMetrics(r Recorder) Option {
	return func(s *Service) {
		s.metrics = r
	}
}

func NewService(repo Repository, apps Applications, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		apps:     apps,
		notifier: notify.Log{},
		metrics:  nopRecorder{},
		reviewer: "Property Manager",
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start returns the screening for an application, creating it when screening
// work begins. A newly screened application moves from submitted to screening.
func (s *Service) Start(ctx context.Context, applicationID uuid.UUID) (*Screening, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.ScreeningID != nil {
		return s.repo.GetScreening(ctx, *app.ScreeningID)
	}

	existing, err := s.repo.GetScreeningByApplication(ctx, applicationID)

	switch {
	case err == nil:
		if err := s.apps.LinkScreening(ctx, applicationID, existing.ID); err != nil {
			return nil, fmt.Errorf("linking screening: %w", err)
		}

		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	scr := New(applicationID)
	scr.IncomeVerification.MonthlyIncome = app.MonthlyIncome
	scr.IncomeVerification.AdditionalIncome = app.AdditionalMonthlyIncome()
	scr = Recompute(scr)

	if err := s.repo.CreateScreening(ctx, &scr); err != nil {
		return nil, err
	}

	if err := s.apps.LinkScreening(ctx, applicationID, scr.ID); err != nil {
		return nil, fmt.Errorf("linking screening: %w", err)
	}

	if app.Status == application.StatusSubmitted {
		_, err := s.apps.UpdateStatus(ctx, applicationID, application.StatusUpdate{Status: application.StatusScreening})
		if err != nil {
			return nil, fmt.Errorf("moving application to screening: %w", err)
		}
	}

	return &scr, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Screening, error) {
	return s.repo.GetScreening(ctx, id)
}

func (s *Service) GetByApplication(ctx context.Context, applicationID uuid.UUID) (*Screening, error) {
	return s.repo.GetScreeningByApplication(ctx, applicationID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Screening, error) {
	return s.repo.ListScreenings(ctx, filter)
}

func (s *Service) getOpen(ctx context.Context, id uuid.UUID) (*Screening, error) {
	scr, err := s.repo.GetScreening(ctx, id)
	if err != nil {
		return nil, err
	}

	if scr.Finalized() {
		return nil, ErrFinalized
	}

	return scr, nil
}

func (s *Service) save(ctx context.Context, scr *Screening) (*Screening, error) {
	out := Recompute(*scr)

	if result := out.Validate(); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(result.Errors, "; "))
	}

	if err := s.repo.UpdateScreening(ctx, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Update applies a partial edit to an open screening and recomputes its score.
// Completion is only reachable through Complete.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Screening, error) {
	if p.Status != nil && (*p.Status == StatusCompleted || !p.Status.Valid()) {
		return nil, fmt.Errorf("%w: status %q cannot be set directly", ErrInvalid, *p.Status)
	}

	scr, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ApplicationID = nil
	scr.Apply(p)

	if scr.Status == StatusNotStarted && p.touchesSections() {
		scr.Status = StatusInProgress
	}

	return s.save(ctx, scr)
}

// IncomeParams are the figures for the rent-to-income check. Missing income
// figures default to what the applicant declared.
type IncomeParams struct {
	MonthlyIncome    *float64
	AdditionalIncome *float64
	ProposedRent     float64
}

func (s *Service) CalculateIncome(ctx context.Context, id uuid.UUID, params IncomeParams) (*Screening, error) {
	if params.ProposedRent < 0 {
		return nil, fmt.Errorf("%w: proposed rent cannot be negative", ErrInvalid)
	}

	scr, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}

	monthly, additional := params.MonthlyIncome, params.AdditionalIncome

	if monthly == nil || additional == nil {
		app, err := s.apps.Get(ctx, scr.ApplicationID)
		if err != nil {
			return nil, fmt.Errorf("loading application: %w", err)
		}

		if monthly == nil {
			monthly = new(app.MonthlyIncome)
		}

		if additional == nil {
			additional = new(app.AdditionalMonthlyIncome())
		}
	}

	if *monthly < 0 || *additional < 0 {
		return nil, fmt.Errorf("%w: income cannot be negative", ErrInvalid)
	}

	scr.CalculateRentToIncomeRatio(*monthly, params.ProposedRent, *additional)

	if scr.Status == StatusNotStarted {
		scr.Status = StatusInProgress
	}

	return s.save(ctx, scr)
}

// Complete closes a screening once every check is done, freezing its
// recommendation and conditions.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, reviewedBy string) (*Screening, error) {
	scr, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}

	if pct := scr.CompletionPercentage(); pct != 100 {
		return nil, fmt.Errorf("%w: %d%% done", ErrIncomplete, pct)
	}

	if strings.TrimSpace(reviewedBy) == "" {
		reviewedBy = s.reviewer
	}

	scr.Status = StatusCompleted
	scr.ReviewedBy = reviewedBy
	scr.ReviewedDate = new(s.now())

	out, err := s.save(ctx, scr)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRecommendation(string(out.Recommendation), out.OverallScore)

	slog.Info("screening completed",
		"screening_id", out.ID,
		"application_id", out.ApplicationID,
		"score", out.OverallScore,
		"recommendation", out.Recommendation,
	)

	return out, nil
}

type DecisionParams struct {
	Decision  Decision
	Reason    string
	DecidedBy string
}

var applicationStatus = map[Decision]application.Status{
	DecisionApproved:    application.StatusApproved,
	DecisionConditional: application.StatusConditional,
	DecisionRejected:    application.StatusRejected,
}

// Decide records the manager's decision on a completed screening and moves the
// application to match. A rejection that owes an adverse action notice sends it.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, params DecisionParams) (*Screening, error) {
	if !params.Decision.Valid() {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalid, params.Decision)
	}

	scr, err := s.repo.GetScreening(ctx, id)
	if err != nil {
		return nil, err
	}

	if !scr.Finalized() {
		return nil, ErrNotCompleted
	}

	if scr.Decision != "" {
		return nil, ErrAlreadyDecided
	}

	decidedBy := params.DecidedBy
	if strings.TrimSpace(decidedBy) == "" {
		decidedBy = s.reviewer
	}

	scr.Decision = params.Decision
	scr.DecisionReason = strings.TrimSpace(params.Reason)
	scr.DecisionBy = decidedBy
	scr.DecisionDate = new(s.now())

	if result := scr.Validate(); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(result.Errors, "; "))
	}

	app, err := s.apps.UpdateStatus(ctx, scr.ApplicationID, application.StatusUpdate{
		Status:     applicationStatus[params.Decision],
		ReviewedBy: decidedBy,
		Reason:     scr.DecisionReason,
	})
	if err != nil {
		return nil, fmt.Errorf("updating application status: %w", err)
	}

	if err := s.repo.UpdateScreening(ctx, scr); err != nil {
		return nil, err
	}

	s.metrics.IncrementDecision(string(params.Decision))

	switch {
	case params.Decision == DecisionRejected && scr.AdverseActionRequired:
		if err := s.sendAdverseAction(ctx, scr, app); err != nil {
			slog.Error("failed to send adverse action notice", "screening_id", scr.ID, "error", err)
		}
	default:
		d := notify.Decision{
			ApplicantName: app.FullName(),
			Email:         app.Email,
			Approved:      params.Decision == DecisionApproved,
			Conditions:    scr.Conditions,
			DecidedBy:     decidedBy,
		}

		if params.Decision == DecisionRejected {
			d.Rejected = true
			d.Reason = scr.DecisionReason
		}

		msg := notify.DecisionNotice(d)
		if err := s.notifier.Send(ctx, msg); err != nil {
			slog.Error("failed to send decision notice", "screening_id", scr.ID, "error", err)
		}
	}

	return scr, nil
}

// SendAdverseAction delivers an outstanding adverse action notice, for retrying
// after a failed send during Decide.
func (s *Service) SendAdverseAction(ctx context.Context, id uuid.UUID) (*Screening, error) {
	scr, err := s.repo.GetScreening(ctx, id)
	if err != nil {
		return nil, err
	}

	if scr.Decision != DecisionRejected || !scr.AdverseActionRequired {
		return nil, fmt.Errorf("%w: no adverse action notice is owed", ErrInvalid)
	}

	if scr.AdverseActionSentDate != nil {
		return scr, nil
	}

	app, err := s.apps.Get(ctx, scr.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("loading application: %w", err)
	}

	if err := s.sendAdverseAction(ctx, scr, app); err != nil {
		return nil, err
	}

	return scr, nil
}

func (s *Service) sendAdverseAction(ctx context.Context, scr *Screening, app *application.Application) error {
	msg := notify.AdverseActionNotice(notify.AdverseAction{
		ApplicantName:     app.FullName(),
		Email:             app.Email,
		Reason:            scr.DecisionReason,
		ScoreReason:       scr.RecommendationReason,
		DecidedBy:         scr.DecisionBy,
		DecidedAt:         *scr.DecisionDate,
		CreditProvider:    scr.CreditCheck.Provider,
		ScreeningProvider: scr.BackgroundCheck.Provider,
	})

	if err := s.notifier.Send(ctx, msg); err != nil {
		s.metrics.IncrementAdverseAction(false)
		return fmt.Errorf("sending adverse action notice: %w", err)
	}

	s.metrics.IncrementAdverseAction(true)

	scr.AdverseActionSentDate = new(s.now())
	if err := s.repo.UpdateScreening(ctx, scr); err != nil {
		return fmt.Errorf("stamping adverse action notice: %w", err)
	}

	return nil
}
