package models

import (
	"encoding/json"
	"fmt"
)

// Top-level payload keys.
const (
	PayloadKeyProfile   = "profile"
	PayloadKeyBasicInfo = "basicInfo"
	PayloadKeySecurity  = "security"
	PayloadKeyContract  = "contract"
)

// ProcessPayload is the semi-structured application document. Values are
// kept raw so keys this service does not know survive a round trip.
type ProcessPayload map[string]json.RawMessage

// Clone returns a copy that shares no map with p.
func (p ProcessPayload) Clone() ProcessPayload {
	out := make(ProcessPayload, len(p))
	for k, v := range p {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Merge is a shallow merge: each top-level key in patch replaces the same
// key of p wholesale. p is not modified.
func (p ProcessPayload) Merge(patch ProcessPayload) ProcessPayload {
	out := p.Clone()
	for k, v := range patch {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Set marshals v under key.
func (p ProcessPayload) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode payload key %q: %w", key, err)
	}
	p[key] = raw
	return nil
}

// Profile returns payload.profile, or "" when absent or not a string.
func (p ProcessPayload) Profile() string {
	raw, ok := p[PayloadKeyProfile]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// BasicInfo decodes payload.basicInfo; a missing or null key yields an
// empty BasicInfo.
func (p ProcessPayload) BasicInfo() (BasicInfo, error) {
	raw, ok := p[PayloadKeyBasicInfo]
	if !ok || isJSONNull(raw) {
		return BasicInfo{}, nil
	}
	var bi BasicInfo
	if err := json.Unmarshal(raw, &bi); err != nil {
		return nil, fmt.Errorf("decode basicInfo: %w", err)
	}
	if bi == nil {
		bi = BasicInfo{}
	}
	return bi, nil
}

func (p ProcessPayload) SetBasicInfo(bi BasicInfo) error {
	return p.Set(PayloadKeyBasicInfo, bi)
}

// Security decodes payload.security; nil when the key is absent.
func (p ProcessPayload) Security() (*SecuritySelection, error) {
	raw, ok := p[PayloadKeySecurity]
	if !ok || isJSONNull(raw) {
		return nil, nil
	}
	var sec SecuritySelection
	if err := json.Unmarshal(raw, &sec); err != nil {
		return nil, fmt.Errorf("decode security: %w", err)
	}
	return &sec, nil
}

func (p ProcessPayload) SetSecurity(sec SecuritySelection) error {
	return p.Set(PayloadKeySecurity, sec)
}

// Redacted is the payload as shown to API callers: co-debtor tokens
// are stripped so only the co-debtor's inbox can confirm.
func (p ProcessPayload) Redacted() ProcessPayload {
	out := p.Clone()
	sec, err := p.Security()
	if err != nil {
		delete(out, PayloadKeySecurity)
		return out
	}
	if sec == nil {
		return out
	}
	for i := range sec.CoDebtors {
		sec.CoDebtors[i].Token = ""
	}
	if err := out.SetSecurity(*sec); err != nil {
		delete(out, PayloadKeySecurity)
	}
	return out
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
