// Package transition is the single authority on booking lifecycle moves.
// Every (status, role, action) combination maps to exactly one outcome;
// anything not listed in the table is rejected. UI-side button state and
// server-side enforcement both derive from this table, so they cannot drift.
package transition

import "github.com/Domenick1991/roomstay/internal/domain"

type rule struct {
	action domain.Action
	role   domain.Role
	from   domain.BookingStatus
	to     domain.BookingStatus
}

// rules is the full transition table. A guest may only cancel while the
// booking is WAITING_PAYMENT: uploading a proof advances the status, so
// "no proof yet" is implied by the status itself.
var rules = []rule{
	{domain.ActionUploadProof, domain.RoleGuest, domain.BookingStatusWaitingPayment, domain.BookingStatusWaitingConfirmation},
	{domain.ActionCancel, domain.RoleGuest, domain.BookingStatusWaitingPayment, domain.BookingStatusCancelled},
	{domain.ActionCancel, domain.RoleTenant, domain.BookingStatusWaitingPayment, domain.BookingStatusCancelled},
	{domain.ActionCancel, domain.RoleTenant, domain.BookingStatusWaitingConfirmation, domain.BookingStatusCancelled},
	{domain.ActionApprove, domain.RoleTenant, domain.BookingStatusWaitingConfirmation, domain.BookingStatusProcessing},
	{domain.ActionReject, domain.RoleTenant, domain.BookingStatusWaitingConfirmation, domain.BookingStatusWaitingPayment},
	{domain.ActionRemind, domain.RoleTenant, domain.BookingStatusProcessing, domain.BookingStatusProcessing},
	{domain.ActionComplete, domain.RoleSystem, domain.BookingStatusProcessing, domain.BookingStatusCompleted},
}

// Decide returns the status that performing action in role from current
// would produce. Rejections, in precedence order: ErrTerminal when current
// admits no transitions at all, ErrWrongRole when the role may never perform
// the action, ErrInvalidStatus when the role may perform it but not from
// current.
func Decide(current domain.BookingStatus, role domain.Role, action domain.Action) (domain.BookingStatus, error) {
	if current.IsTerminal() {
		return current, domain.ErrTerminal
	}

	roleMayAct := false
	for _, r := range rules {
		if r.action != action || r.role != role {
			continue
		}
		if r.from == current {
			return r.to, nil
		}
		roleMayAct = true
	}
	if roleMayAct {
		return current, domain.ErrInvalidStatus
	}
	return current, domain.ErrWrongRole
}

// Allowed reports whether the action would succeed; used to mirror the table
// into API responses that drive UI button state.
func Allowed(current domain.BookingStatus, role domain.Role, action domain.Action) bool {
	_, err := Decide(current, role, action)
	return err == nil
}
