// Package steps decides whether a process payload satisfies a workflow step
// and which status transitions are legal. Everything here is pure.
package steps

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/constants"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	shared_dtos "github.com/trying-dev/properties/backend/shared/go-dtos"
)

// Applicant profiles accepted at step 1.
const (
	ProfileEmployed    = "EMPLOYED"
	ProfileIndependent = "INDEPENDENT"
	ProfilePensioner   = "PENSIONER"
	ProfileStudent     = "STUDENT"
	ProfileCompany     = "COMPANY"
)

var profiles = map[string]struct{}{
	ProfileEmployed:    {},
	ProfileIndependent: {},
	ProfilePensioner:   {},
	ProfileStudent:     {},
	ProfileCompany:     {},
}

// RequiredBasicInfoFields must be non-empty to leave step 2.
var RequiredBasicInfoFields = []string{"name", "lastName", "email", "monthlyIncome"}

var coDebtorsRequired = map[models.GuaranteeType]int{
	models.GuaranteeSimple:     0,
	models.GuaranteeInsurance:  0,
	models.GuaranteeReinforced: 1,
	models.GuaranteeMixed:      1,
	models.GuaranteeDouble:     2,
}

var validate = validator.New()

func IsValidProfile(p string) bool {
	_, ok := profiles[p]
	return ok
}

// RequiredCoDebtors returns how many co-debtors a guarantee type needs and
// whether the type is known at all.
func RequiredCoDebtors(g models.GuaranteeType) (int, bool) {
	n, ok := coDebtorsRequired[g]
	return n, ok
}

// IsComplete reports whether payload satisfies the minimum shape of step.
func IsComplete(step int, payload models.ProcessPayload) bool {
	return len(Missing(step, payload)) == 0
}

// Missing lists what keeps payload from completing step. An unknown step
// always reports one detail.
func Missing(step int, payload models.ProcessPayload) []shared_dtos.ValidationErrorDetail {
	switch step {
	case constants.StepProfile:
		if !IsValidProfile(payload.Profile()) {
			return []shared_dtos.ValidationErrorDetail{{
				Field:   models.PayloadKeyProfile,
				Message: fmt.Sprintf("Field 'profile' must be one of [%s]", strings.Join(profileList(), " ")),
				Code:    "validation_oneof",
			}}
		}
		return nil

	case constants.StepBasicInfo:
		bi, err := payload.BasicInfo()
		if err != nil {
			return []shared_dtos.ValidationErrorDetail{malformed(models.PayloadKeyBasicInfo)}
		}
		var out []shared_dtos.ValidationErrorDetail
		for _, f := range RequiredBasicInfoFields {
			if bi.Field(f) == "" {
				out = append(out, shared_dtos.RequiredField(models.PayloadKeyBasicInfo+"."+f))
			}
		}
		return out

	case constants.StepSecurity:
		sec, err := payload.Security()
		if err != nil {
			return []shared_dtos.ValidationErrorDetail{malformed(models.PayloadKeySecurity)}
		}
		if sec == nil {
			return []shared_dtos.ValidationErrorDetail{shared_dtos.RequiredField(models.PayloadKeySecurity)}
		}
		return securitySlots(sec.SelectedSecurity, sec.CoDebtors, false)

	default:
		return []shared_dtos.ValidationErrorDetail{{
			Field:   "step",
			Message: fmt.Sprintf("Unknown step %d", step),
			Code:    "validation_step",
		}}
	}
}

// ValidateSecurity checks a security submission before any token is
// issued: the guarantee type must be known and exactly the required number
// of co-debtors must be supplied, each with every identity field.
func ValidateSecurity(selected models.GuaranteeType, coDebtors []models.CoDebtor) []shared_dtos.ValidationErrorDetail {
	return securitySlots(selected, coDebtors, true)
}

func securitySlots(selected models.GuaranteeType, coDebtors []models.CoDebtor, exact bool) []shared_dtos.ValidationErrorDetail {
	required, ok := RequiredCoDebtors(selected)
	if !ok {
		return []shared_dtos.ValidationErrorDetail{{
			Field:   "selectedSecurity",
			Message: fmt.Sprintf("Field 'selectedSecurity' must be one of [%s]", strings.Join(guaranteeList(), " ")),
			Code:    "validation_oneof",
		}}
	}

	if len(coDebtors) < required || (exact && len(coDebtors) != required) {
		return []shared_dtos.ValidationErrorDetail{{
			Field:   "coDebtors",
			Message: fmt.Sprintf("Guarantee '%s' requires exactly %d co-debtor(s), got %d", selected, required, len(coDebtors)),
			Code:    "validation_len",
		}}
	}

	var out []shared_dtos.ValidationErrorDetail
	for i := 0; i < required; i++ {
		out = append(out, coDebtorMissing(i, coDebtors[i])...)
	}
	return out
}

func coDebtorMissing(i int, cd models.CoDebtor) []shared_dtos.ValidationErrorDetail {
	fields := []struct {
		name  string
		value string
	}{
		{"name", cd.Name},
		{"lastName", cd.LastName},
		{"birthDate", cd.BirthDate},
		{"documentNumber", cd.DocumentNumber},
		{"email", cd.Email},
		{"phone", cd.Phone},
	}

	var out []shared_dtos.ValidationErrorDetail
	for _, f := range fields {
		path := fmt.Sprintf("coDebtors[%d].%s", i, f.name)
		if strings.TrimSpace(f.value) == "" {
			out = append(out, shared_dtos.RequiredField(path))
			continue
		}
		if f.name == "email" && validate.Var(f.value, "email") != nil {
			out = append(out, shared_dtos.ValidationErrorDetail{
				Field:   path,
				Message: fmt.Sprintf("Field '%s' must be a valid email address", path),
				Code:    "validation_email",
			})
		}
	}
	return out
}

// CanTransition reports whether a process may move from one status to
// another. Closed statuses are terminal and a process linked to a contract
// never goes back to IN_PROGRESS.
func CanTransition(from, to models.ProcessStatus, hasContract bool) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.IsClosed() {
		return false
	}
	if to == models.StatusInProgress && hasContract {
		return false
	}
	return true
}

func malformed(field string) shared_dtos.ValidationErrorDetail {
	return shared_dtos.ValidationErrorDetail{
		Field:   field,
		Message: fmt.Sprintf("Field '%s' is malformed", field),
		Code:    "validation_type",
	}
}

func profileList() []string {
	return []string{ProfileEmployed, ProfileIndependent, ProfilePensioner, ProfileStudent, ProfileCompany}
}

func guaranteeList() []string {
	return []string{
		string(models.GuaranteeSimple), string(models.GuaranteeInsurance),
		string(models.GuaranteeReinforced), string(models.GuaranteeMixed),
		string(models.GuaranteeDouble),
	}
}
