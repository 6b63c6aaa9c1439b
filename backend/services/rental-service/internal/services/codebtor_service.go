package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/config"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/constants"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/metrics"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/repositories"
	shared_dtos "github.com/trying-dev/properties/backend/shared/go-dtos"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// Delivery is the outcome of notifying one co-debtor.
type Delivery struct {
	Index     int                  `json:"index"`
	Email     string               `json:"email"`
	State     models.CoDebtorState `json:"state"`
	EmailSent bool                 `json:"email_sent"`
	SMSSent   bool                 `json:"sms_sent"`
	Skipped   bool                 `json:"skipped,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// IssueResult is returned on success and as error details on partial
// failure, so the caller knows which co-debtors to resend to.
type IssueResult struct {
	ProcessID        uuid.UUID            `json:"process_id"`
	SelectedSecurity models.GuaranteeType `json:"selected_security"`
	Deliveries       []Delivery           `json:"deliveries"`
	Failed           int                  `json:"failed"`
}

type ConfirmResult struct {
	ProcessID        uuid.UUID `json:"process_id"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
	AlreadyConfirmed bool      `json:"already_confirmed"`
	Confirmed        int       `json:"confirmed"`
	Total            int       `json:"total"`
}

// errAlreadyConfirmed short-circuits the update loop without writing.
var errAlreadyConfirmed = errors.New("co-debtor already confirmed")

// CoDebtorService issues and validates co-debtor confirmation tokens.
type CoDebtorService struct {
	cfg         *config.Config
	processRepo repositories.ProcessRepository
	notifier    Notifier

	now        func() time.Time
	newToken   func() (string, error)
	checkEmail func(ctx context.Context, email string) (bool, error)
}

func NewCoDebtorService(cfg *config.Config, processRepo repositories.ProcessRepository, notifier Notifier) *CoDebtorService {
	s := &CoDebtorService{
		cfg:         cfg,
		processRepo: processRepo,
		notifier:    notifier,
		now:         time.Now,
		newToken: func() (string, error) {
			return utils.RandomHexToken(constants.ConfirmationTokenBytes)
		},
	}
	if cfg.LDFlag_ValidateEmailWithSG {
		s.checkEmail = func(ctx context.Context, email string) (bool, error) {
			return utils.ValidateEmail(ctx, cfg.SendgridAPIKey, email, true)
		}
	}
	return s
}

// ConfirmURL is the link embedded in the co-debtor email.
func (s *CoDebtorService) ConfirmURL(processID uuid.UUID, token string) string {
	q := url.Values{}
	q.Set("process_id", processID.String())
	q.Set("token", token)
	return s.cfg.AppUrl + constants.CoDebtorConfirmPath + "?" + q.Encode()
}

// IssueConfirmations replaces payload.security with fresh tokens for every
// co-debtor still pending, then notifies each one. Parties that already
// confirmed keep their token and are not notified. Token state is persisted
// before any send and is never rolled back; a failed send yields a
// DependencyFailure whose details list per-recipient outcomes.
func (s *CoDebtorService) IssueConfirmations(
	ctx context.Context,
	processID uuid.UUID,
	selected models.GuaranteeType,
	inputs []models.CoDebtor,
) (*IssueResult, error) {
	logger := utils.Logger.WithFields(logrus.Fields{"processID": processID, "selectedSecurity": selected})

	if len(inputs) > 0 {
		if err := s.notifier.Ready(); err != nil {
			logger.WithError(err).Error("Refusing to issue co-debtor tokens without mail transport")
			return nil, utils.ConfigurationError("Email delivery is not configured")
		}
	}

	if err := s.checkDeliverability(ctx, inputs); err != nil {
		return nil, err
	}

	now := s.now()
	expires := now.Add(constants.ConfirmationTokenTTL)
	issued := make([]models.CoDebtor, len(inputs))
	for i, in := range inputs {
		tok, err := s.newToken()
		if err != nil {
			return nil, utils.InternalError("Could not generate confirmation token", err)
		}
		cd := in.Identity()
		cd.Token = tok
		exp := expires
		cd.TokenExpiresAt = &exp
		issued[i] = cd
	}

	var stored []models.CoDebtor
	err := s.processRepo.UpdateWithRetry(ctx, processID, func(p *models.Process) error {
		if p.ContractID != nil {
			return utils.InvalidInputError("The guarantee cannot change once a contract is linked", nil)
		}
		prior, err := p.Payload.Security()
		if err != nil {
			prior = nil
		}
		stored = models.KeepConfirmed(issued, prior)
		return p.Payload.SetSecurity(models.SecuritySelection{SelectedSecurity: selected, CoDebtors: stored})
	})
	if err != nil {
		return nil, storeError(err, "Process not found")
	}
	logger.WithField("coDebtors", len(stored)).Info("Co-debtor tokens issued")

	result := &IssueResult{ProcessID: processID, SelectedSecurity: selected}
	for i, cd := range stored {
		if cd.ConfirmedAt != nil {
			result.Deliveries = append(result.Deliveries, Delivery{Index: i, Email: cd.Email, State: models.CoDebtorConfirmed, Skipped: true})
			continue
		}
		result.Deliveries = append(result.Deliveries, s.deliver(ctx, processID, i, cd, now))
	}
	return finishDeliveries(result)
}

// Resend re-notifies co-debtors whose token is still pending, keeping the
// same tokens. Expired and confirmed entries are reported as skipped.
func (s *CoDebtorService) Resend(ctx context.Context, processID uuid.UUID) (*IssueResult, error) {
	p, err := s.processRepo.GetByID(ctx, processID)
	if err != nil {
		return nil, utils.InternalError("Failed to load process", err)
	}
	if p == nil {
		return nil, utils.NotFoundError("Process not found")
	}

	sec, err := p.Payload.Security()
	if err != nil || sec == nil || len(sec.CoDebtors) == 0 {
		return nil, utils.InvalidInputError("No co-debtor confirmations have been issued", nil)
	}
	if err := s.notifier.Ready(); err != nil {
		return nil, utils.ConfigurationError("Email delivery is not configured")
	}

	now := s.now()
	result := &IssueResult{ProcessID: processID, SelectedSecurity: sec.SelectedSecurity}
	for i, cd := range sec.CoDebtors {
		if st := cd.State(now); st != models.CoDebtorPending {
			result.Deliveries = append(result.Deliveries, Delivery{Index: i, Email: cd.Email, State: st, Skipped: true})
			continue
		}
		result.Deliveries = append(result.Deliveries, s.deliver(ctx, processID, i, cd, now))
	}
	return finishDeliveries(result)
}

// Confirm records a co-debtor's agreement. Unknown processes and unknown
// tokens are both InvalidToken so the endpoint leaks nothing. Repeating a
// successful confirmation is a no-op success.
func (s *CoDebtorService) Confirm(ctx context.Context, processID uuid.UUID, token string) (*ConfirmResult, error) {
	logger := utils.Logger.WithField("processID", processID)
	if token == "" {
		metrics.ObserveConfirmation(metrics.ResultInvalid)
		return nil, invalidTokenError()
	}

	now := s.now()
	res := &ConfirmResult{ProcessID: processID}

	err := s.processRepo.UpdateWithRetry(ctx, processID, func(p *models.Process) error {
		sec, err := p.Payload.Security()
		if err != nil || sec == nil {
			return utils.ErrInvalidToken
		}

		idx := -1
		for i, cd := range sec.CoDebtors {
			if cd.Token != "" && subtle.ConstantTimeCompare([]byte(cd.Token), []byte(token)) == 1 {
				idx = i
				break
			}
		}
		if idx < 0 {
			return utils.ErrInvalidToken
		}

		cd := &sec.CoDebtors[idx]
		switch cd.State(now) {
		case models.CoDebtorConfirmed:
			res.ConfirmedAt = *cd.ConfirmedAt
			res.AlreadyConfirmed = true
			countConfirmed(res, sec)
			return errAlreadyConfirmed
		case models.CoDebtorExpired:
			return utils.ErrTokenExpired
		}

		confirmedAt := now
		cd.ConfirmedAt = &confirmedAt
		res.ConfirmedAt = confirmedAt
		countConfirmed(res, sec)
		logger.WithField("coDebtorIndex", idx).Info("Co-debtor confirmed")
		return p.Payload.SetSecurity(*sec)
	})

	switch {
	case err == nil:
		metrics.ObserveConfirmation(metrics.ResultOK)
		return res, nil
	case errors.Is(err, errAlreadyConfirmed):
		metrics.ObserveConfirmation(metrics.ResultRepeat)
		return res, nil
	case errors.Is(err, utils.ErrInvalidToken), errors.Is(err, pgx.ErrNoRows):
		metrics.ObserveConfirmation(metrics.ResultInvalid)
		return nil, invalidTokenError()
	case errors.Is(err, utils.ErrTokenExpired):
		metrics.ObserveConfirmation(metrics.ResultExpired)
		return nil, utils.TokenExpiredError("This confirmation link has expired; ask the applicant to resend it")
	default:
		metrics.ObserveConfirmation(metrics.ResultFailed)
		return nil, storeError(err, "Process not found")
	}
}

func (s *CoDebtorService) deliver(ctx context.Context, processID uuid.UUID, idx int, cd models.CoDebtor, now time.Time) Delivery {
	d := Delivery{Index: idx, Email: cd.Email, State: cd.State(now)}
	link := s.ConfirmURL(processID, cd.Token)
	logger := utils.Logger.WithFields(logrus.Fields{"processID": processID, "coDebtorIndex": idx})

	if err := s.notifier.SendConfirmationEmail(ctx, cd.Email, link, cd.FullName()); err != nil {
		logger.WithError(err).Warn("Co-debtor confirmation email failed")
		d.Error = err.Error()
		return d
	}
	d.EmailSent = true

	if s.notifier.SMSEnabled() && cd.Phone != "" {
		if err := s.notifier.SendConfirmationSMS(ctx, cd.Phone, link); err != nil {
			// SMS is best effort on top of the email.
			logger.WithError(err).Warn("Co-debtor confirmation SMS failed")
		} else {
			d.SMSSent = true
		}
	}
	return d
}

func (s *CoDebtorService) checkDeliverability(ctx context.Context, inputs []models.CoDebtor) error {
	if s.checkEmail == nil {
		return nil
	}
	for i, in := range inputs {
		ok, err := s.checkEmail(ctx, in.Email)
		if err != nil {
			// A SendGrid outage should not block the application.
			utils.Logger.WithError(err).Warn("Email deliverability check failed; accepting address")
			continue
		}
		if !ok {
			field := fmt.Sprintf("coDebtors[%d].email", i)
			return utils.InvalidInputError("Co-debtor email is not deliverable", []shared_dtos.ValidationErrorDetail{{
				Field:   field,
				Message: fmt.Sprintf("Field '%s' is not a deliverable address", field),
				Code:    "validation_email",
			}})
		}
	}
	return nil
}

// hasExpired reports whether a co-debtor was skipped because its token
// lapsed; such a process needs a fresh security submission.
func (r *IssueResult) hasExpired() bool {
	for _, d := range r.Deliveries {
		if d.Skipped && d.State == models.CoDebtorExpired {
			return true
		}
	}
	return false
}

func finishDeliveries(result *IssueResult) (*IssueResult, error) {
	for _, d := range result.Deliveries {
		if !d.Skipped && !d.EmailSent {
			result.Failed++
		}
	}
	if result.Failed > 0 {
		return result, utils.DependencyFailureError(
			fmt.Sprintf("%d of %d confirmation email(s) could not be sent; tokens were saved, use resend", result.Failed, len(result.Deliveries)),
			result,
		)
	}
	return result, nil
}

func countConfirmed(res *ConfirmResult, sec *models.SecuritySelection) {
	res.Total = len(sec.CoDebtors)
	res.Confirmed = 0
	for _, cd := range sec.CoDebtors {
		if cd.ConfirmedAt != nil {
			res.Confirmed++
		}
	}
}

func invalidTokenError() *utils.AppError {
	return utils.InvalidTokenError("Invalid confirmation link")
}
