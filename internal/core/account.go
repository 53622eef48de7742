package core

import (
	"errors"
	"strings"
)

// CredentialState 帳號可用的登入方式
type CredentialState string

const (
	CredentialNone         CredentialState = "none"
	CredentialPasswordOnly CredentialState = "password_only"
	CredentialExternalOnly CredentialState = "external_only"
	CredentialBoth         CredentialState = "both"
)

type ProfileState string

const (
	ProfileIncomplete ProfileState = "incomplete"
	ProfileComplete   ProfileState = "complete"
)

// AccountState = 登入方式 × 資料完整度
type AccountState struct {
	Credentials CredentialState `json:"credentials"`
	Profile     ProfileState    `json:"profile"`
}

type AccountEventKind string

const (
	EventPasswordSet    AccountEventKind = "password_set"
	EventExternalLinked AccountEventKind = "external_linked"
	EventProfileUpdated AccountEventKind = "profile_updated"
)

type AccountEvent struct {
	Kind AccountEventKind
	// 僅 EventProfileUpdated 使用：更新後的 name/email/phone 是否齊全
	ProfileComplete bool
}

var (
	ErrNoCredential        = errors.New("account has no authentication method")
	ErrPasswordAlreadySet  = errors.New("password already set")
	ErrUnknownAccountEvent = errors.New("unknown account event")
)

// ProfileCompleteFor 判斷 name / email / phone 是否皆非空白
func ProfileCompleteFor(name, email, phone string) bool {
	return strings.TrimSpace(name) != "" &&
		strings.TrimSpace(email) != "" &&
		strings.TrimSpace(phone) != ""
}

func DeriveAccountState(hasPassword bool, externalLinks int, profileComplete bool) AccountState {
	state := AccountState{Credentials: CredentialNone, Profile: ProfileIncomplete}
	switch {
	case hasPassword && externalLinks > 0:
		state.Credentials = CredentialBoth
	case hasPassword:
		state.Credentials = CredentialPasswordOnly
	case externalLinks > 0:
		state.Credentials = CredentialExternalOnly
	}
	if profileComplete {
		state.Profile = ProfileComplete
	}
	return state
}

func (s AccountState) Valid() bool {
	return s.Credentials != CredentialNone
}

func (s AccountState) HasPassword() bool {
	return s.Credentials == CredentialPasswordOnly || s.Credentials == CredentialBoth
}

func (s AccountState) HasExternal() bool {
	return s.Credentials == CredentialExternalOnly || s.Credentials == CredentialBoth
}

func (s AccountState) IsProfileComplete() bool {
	return s.Profile == ProfileComplete
}

// Apply 是帳號狀態唯一的轉移函式
func (s AccountState) Apply(event AccountEvent) (AccountState, error) {
	next := s
	switch event.Kind {
	case EventPasswordSet:
		switch s.Credentials {
		case CredentialPasswordOnly, CredentialBoth:
			return s, ErrPasswordAlreadySet
		case CredentialExternalOnly:
			next.Credentials = CredentialBoth
		default:
			next.Credentials = CredentialPasswordOnly
		}
	case EventExternalLinked:
		switch s.Credentials {
		case CredentialPasswordOnly:
			next.Credentials = CredentialBoth
		case CredentialNone:
			next.Credentials = CredentialExternalOnly
		}
	case EventProfileUpdated:
		next.Profile = ProfileIncomplete
		if event.ProfileComplete {
			next.Profile = ProfileComplete
		}
	default:
		return s, ErrUnknownAccountEvent
	}
	return next, nil
}
