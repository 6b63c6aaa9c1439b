package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestProcessPayload_MergeReplacesTopLevelKeysWholesale(t *testing.T) {
	current := ProcessPayload{
		PayloadKeyProfile:   raw(t, "EMPLOYED"),
		PayloadKeyBasicInfo: raw(t, map[string]any{"name": "Ana", "phone": "300"}),
	}
	patch := ProcessPayload{
		PayloadKeyBasicInfo: raw(t, map[string]any{"email": "ana@example.com"}),
	}

	merged := current.Merge(patch)

	require.JSONEq(t, `"EMPLOYED"`, string(merged[PayloadKeyProfile]))
	require.JSONEq(t, `{"email":"ana@example.com"}`, string(merged[PayloadKeyBasicInfo]), "no deep merge")
	require.JSONEq(t, `{"name":"Ana","phone":"300"}`, string(current[PayloadKeyBasicInfo]), "input untouched")
}

func TestProcessPayload_MergeWithEmptyPatchIsIdentity(t *testing.T) {
	current := ProcessPayload{PayloadKeyProfile: raw(t, "STUDENT"), "custom": raw(t, 7)}
	merged := current.Merge(nil)
	require.Equal(t, current, merged)
}

func TestProcessPayload_Accessors(t *testing.T) {
	p := ProcessPayload{}
	require.Equal(t, "", p.Profile())

	bi, err := p.BasicInfo()
	require.NoError(t, err)
	require.Empty(t, bi)

	sec, err := p.Security()
	require.NoError(t, err)
	require.Nil(t, sec)

	require.NoError(t, p.Set(PayloadKeyProfile, "PENSIONER"))
	require.Equal(t, "PENSIONER", p.Profile())

	p[PayloadKeyProfile] = raw(t, 12)
	require.Equal(t, "", p.Profile(), "non-string profile reads as empty")
}

func TestProcessPayload_RedactedStripsTokens(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	p := ProcessPayload{}
	require.NoError(t, p.SetSecurity(SecuritySelection{
		SelectedSecurity: GuaranteeReinforced,
		CoDebtors:        []CoDebtor{{Name: "Luis", Token: "secret", TokenExpiresAt: &exp}},
	}))

	red := p.Redacted()
	sec, err := red.Security()
	require.NoError(t, err)
	require.Equal(t, "", sec.CoDebtors[0].Token)
	require.NotNil(t, sec.CoDebtors[0].TokenExpiresAt)

	orig, err := p.Security()
	require.NoError(t, err)
	require.Equal(t, "secret", orig.CoDebtors[0].Token)
}

func TestProcessPayload_RedactedDropsMalformedSecurity(t *testing.T) {
	p := ProcessPayload{PayloadKeySecurity: json.RawMessage(`{"coDebtors":"oops"}`), PayloadKeyProfile: raw(t, "EMPLOYED")}

	red := p.Redacted()
	require.NotContains(t, red, PayloadKeySecurity)
	require.Equal(t, "EMPLOYED", red.Profile())
	require.Contains(t, p, PayloadKeySecurity, "source payload untouched")
}

func TestBasicInfo_FillBlanks_FirstWriteWins(t *testing.T) {
	current := BasicInfo{"name": "Ana", "email": ""}
	incoming := BasicInfo{"name": "Maria", "email": "ana@example.com", "company": "Acme"}

	out := current.FillBlanks(incoming)

	require.Equal(t, "Ana", out.Field("name"), "filled field must not be overwritten")
	require.Equal(t, "ana@example.com", out.Field("email"), "blank field is filled")
	require.Equal(t, "Acme", out.Field("company"), "missing field is filled")
	require.Equal(t, "", current.Field("email"), "receiver untouched")
}

func TestBasicInfo_FillBlanks_BlankIncomingNeverClears(t *testing.T) {
	current := BasicInfo{"name": "Ana", "monthlyIncome": 2500000.0}
	out := current.FillBlanks(BasicInfo{"name": "", "monthlyIncome": nil})

	require.Equal(t, "Ana", out.Field("name"))
	require.Equal(t, "2500000", out.Field("monthlyIncome"))
}

func TestCoDebtor_State(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)
	earlier := now.Add(-time.Minute)

	require.Equal(t, CoDebtorPending, CoDebtor{TokenExpiresAt: &later}.State(now))
	require.Equal(t, CoDebtorExpired, CoDebtor{TokenExpiresAt: &earlier}.State(now))
	require.Equal(t, CoDebtorExpired, CoDebtor{TokenExpiresAt: &now}.State(now), "expiry instant is expired")
	require.Equal(t, CoDebtorConfirmed, CoDebtor{TokenExpiresAt: &earlier, ConfirmedAt: &earlier}.State(now))
}

func TestKeepConfirmed(t *testing.T) {
	confirmedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := confirmedAt.Add(24 * time.Hour)
	prior := &SecuritySelection{
		SelectedSecurity: GuaranteeDouble,
		CoDebtors: []CoDebtor{
			{DocumentNumber: "10", Email: "a@example.com", Token: "old-a", TokenExpiresAt: &exp, ConfirmedAt: &confirmedAt},
			{DocumentNumber: "20", Email: "b@example.com", Token: "old-b", TokenExpiresAt: &exp},
		},
	}
	next := []CoDebtor{
		{DocumentNumber: "10", Email: " A@Example.com ", Token: "new-a"},
		{DocumentNumber: "20", Email: "b@example.com", Token: "new-b"},
		{DocumentNumber: "30", Email: "a@example.com", Token: "new-c"},
	}

	out := KeepConfirmed(next, prior)
	require.Equal(t, "old-a", out[0].Token)
	require.Equal(t, &confirmedAt, out[0].ConfirmedAt)
	require.Equal(t, "new-b", out[1].Token, "pending entries are replaced")
	require.Nil(t, out[1].ConfirmedAt)
	require.Equal(t, "new-c", out[2].Token, "email alone is not the same party")
	require.Equal(t, "new-a", next[0].Token, "input slice untouched")

	require.Equal(t, next, KeepConfirmed(next, nil))
}

func TestProcess_Summary(t *testing.T) {
	confirmed := time.Now()
	tenant := uuid.New()
	p := &Process{ID: uuid.New(), TenantID: &tenant, Status: StatusInEvaluation, CurrentStep: 4, Payload: ProcessPayload{}}
	require.NoError(t, p.Payload.Set(PayloadKeyProfile, "EMPLOYED"))
	require.NoError(t, p.Payload.SetSecurity(SecuritySelection{
		SelectedSecurity: GuaranteeDouble,
		CoDebtors:        []CoDebtor{{ConfirmedAt: &confirmed}, {}},
	}))

	s := p.Summary()
	require.Equal(t, "EMPLOYED", s.Profile)
	require.Equal(t, GuaranteeDouble, s.SelectedSecurity)
	require.Equal(t, 2, s.CoDebtorsTotal)
	require.Equal(t, 1, s.CoDebtorsConfirmed)
	require.True(t, p.OwnedBy(tenant))
	require.False(t, p.OwnedBy(uuid.New()))
}

func TestProcessStatus(t *testing.T) {
	for _, s := range OpenStatuses {
		require.True(t, s.Valid())
		require.False(t, s.IsClosed())
	}
	require.True(t, StatusApproved.IsClosed())
	require.True(t, StatusRejected.IsClosed())
	require.True(t, StatusCancelled.IsClosed())
	require.False(t, ProcessStatus("ARCHIVED").Valid())
}
