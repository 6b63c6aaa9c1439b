package steps

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/constants"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
)

func completeCoDebtor(email string) models.CoDebtor {
	return models.CoDebtor{
		Name:           "Luis",
		LastName:       "Gomez",
		BirthDate:      "1980-04-02",
		DocumentNumber: "1020304050",
		Email:          email,
		Phone:          "+573001112233",
	}
}

func payloadWith(t *testing.T, key string, v any) models.ProcessPayload {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return models.ProcessPayload{key: b}
}

func TestIsComplete_Profile(t *testing.T) {
	require.True(t, IsComplete(constants.StepProfile, payloadWith(t, models.PayloadKeyProfile, "EMPLOYED")))
	require.True(t, IsComplete(constants.StepProfile, payloadWith(t, models.PayloadKeyProfile, "COMPANY")))
	require.False(t, IsComplete(constants.StepProfile, payloadWith(t, models.PayloadKeyProfile, "employed")))
	require.False(t, IsComplete(constants.StepProfile, models.ProcessPayload{}))
}

func TestIsComplete_BasicInfo(t *testing.T) {
	full := map[string]any{"name": "Ana", "lastName": "Diaz", "email": "ana@example.com", "monthlyIncome": "3000000"}
	require.True(t, IsComplete(constants.StepBasicInfo, payloadWith(t, models.PayloadKeyBasicInfo, full)))

	numericIncome := map[string]any{"name": "Ana", "lastName": "Diaz", "email": "ana@example.com", "monthlyIncome": 3000000}
	require.True(t, IsComplete(constants.StepBasicInfo, payloadWith(t, models.PayloadKeyBasicInfo, numericIncome)))

	partial := map[string]any{"name": "Ana", "lastName": " ", "email": "ana@example.com"}
	missing := Missing(constants.StepBasicInfo, payloadWith(t, models.PayloadKeyBasicInfo, partial))
	require.Len(t, missing, 2)
	require.Equal(t, "basicInfo.lastName", missing[0].Field)
	require.Equal(t, "basicInfo.monthlyIncome", missing[1].Field)

	require.False(t, IsComplete(constants.StepBasicInfo, payloadWith(t, models.PayloadKeyBasicInfo, "not-an-object")))
}

func TestIsComplete_Security(t *testing.T) {
	simple := models.SecuritySelection{SelectedSecurity: models.GuaranteeSimple}
	require.True(t, IsComplete(constants.StepSecurity, payloadWith(t, models.PayloadKeySecurity, simple)))

	double := models.SecuritySelection{
		SelectedSecurity: models.GuaranteeDouble,
		CoDebtors:        []models.CoDebtor{completeCoDebtor("a@example.com")},
	}
	require.False(t, IsComplete(constants.StepSecurity, payloadWith(t, models.PayloadKeySecurity, double)))

	double.CoDebtors = append(double.CoDebtors, completeCoDebtor("b@example.com"))
	require.True(t, IsComplete(constants.StepSecurity, payloadWith(t, models.PayloadKeySecurity, double)))

	unknown := models.SecuritySelection{SelectedSecurity: "pawn"}
	require.False(t, IsComplete(constants.StepSecurity, payloadWith(t, models.PayloadKeySecurity, unknown)))
	require.False(t, IsComplete(constants.StepSecurity, models.ProcessPayload{}))
}

func TestIsComplete_UnknownStep(t *testing.T) {
	require.False(t, IsComplete(0, models.ProcessPayload{}))
	require.False(t, IsComplete(9, models.ProcessPayload{}))
}

func TestRequiredCoDebtors(t *testing.T) {
	cases := map[models.GuaranteeType]int{
		models.GuaranteeSimple:     0,
		models.GuaranteeInsurance:  0,
		models.GuaranteeReinforced: 1,
		models.GuaranteeMixed:      1,
		models.GuaranteeDouble:     2,
	}
	for g, want := range cases {
		n, ok := RequiredCoDebtors(g)
		require.True(t, ok, g)
		require.Equal(t, want, n, g)
	}
	_, ok := RequiredCoDebtors("triple")
	require.False(t, ok)
}

func TestValidateSecurity(t *testing.T) {
	require.Empty(t, ValidateSecurity(models.GuaranteeSimple, nil))
	require.Empty(t, ValidateSecurity(models.GuaranteeDouble, []models.CoDebtor{
		completeCoDebtor("a@example.com"), completeCoDebtor("b@example.com"),
	}))

	// wrong count in either direction
	require.NotEmpty(t, ValidateSecurity(models.GuaranteeSimple, []models.CoDebtor{completeCoDebtor("a@example.com")}))
	require.NotEmpty(t, ValidateSecurity(models.GuaranteeDouble, []models.CoDebtor{completeCoDebtor("a@example.com")}))

	incomplete := completeCoDebtor("not-an-email")
	incomplete.Phone = ""
	details := ValidateSecurity(models.GuaranteeReinforced, []models.CoDebtor{incomplete})
	require.Len(t, details, 2)
	require.Equal(t, "coDebtors[0].email", details[0].Field)
	require.Equal(t, "validation_email", details[0].Code)
	require.Equal(t, "coDebtors[0].phone", details[1].Field)

	details = ValidateSecurity("unknown", nil)
	require.Len(t, details, 1)
	require.Equal(t, "selectedSecurity", details[0].Field)
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(models.StatusInProgress, models.StatusInEvaluation, false))
	require.True(t, CanTransition(models.StatusInEvaluation, models.StatusWaitingForFeedback, false))
	require.True(t, CanTransition(models.StatusWaitingForFeedback, models.StatusInProgress, false))
	require.True(t, CanTransition(models.StatusInEvaluation, models.StatusApproved, true))

	require.False(t, CanTransition(models.StatusInEvaluation, models.StatusInProgress, true), "contract linked")
	require.False(t, CanTransition(models.StatusApproved, models.StatusInProgress, false), "closed is terminal")
	require.False(t, CanTransition(models.StatusCancelled, models.StatusInEvaluation, false))
	require.False(t, CanTransition(models.StatusInProgress, "ARCHIVED", false))

	require.True(t, CanTransition(models.StatusApproved, models.StatusApproved, true), "no-op")
}
