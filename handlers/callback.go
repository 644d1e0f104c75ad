package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback actions. Simple actions are the callback data verbatim; actions
// with arguments are encoded as action:arg[:amount] and decoded exactly once
// here, at the transport boundary.
const (
	ActionStartRegistration = "start_registration"
	ActionCancel            = "cancel"
	ActionBackToMenu        = "back_to_menu"
	ActionRefreshBalance    = "refresh_balance"
	ActionVisitWebsite      = "visit_website"

	ActionDeposit       = "deposit"
	ActionDepositCrypto = "deposit_crypto"
	ActionSelectCrypto  = "crypto_select"
	ActionCopyAddress   = "copy_address"
	ActionPaymentMade   = "payment_made"

	ActionWithdraw       = "withdraw"
	ActionWithdrawCrypto = "withdraw_crypto"
	ActionSelectWithdraw = "withdraw_select"

	ActionTradingBot = "trading_bot"
	ActionSelectBot  = "select_bot"

	ActionStake         = "stake"
	ActionStakeDeposit  = "stake_deposit"
	ActionStartStaking  = "start_staking"
	ActionStakeCoin     = "stake_coin"
	ActionStakeDuration = "stake_duration"
	ActionStakePlan     = "stake_plan"

	ActionAdminPanel        = "admin_panel"
	ActionApproveUser       = "approve_user"
	ActionApproveDeposit    = "approve_deposit"
	ActionApproveWithdrawal = "approve_withdrawal"
	ActionRejectWithdrawal  = "reject_withdrawal"
)

// Callback is the decoded form of an inline-button payload.
type Callback struct {
	Action string
	Arg    string  // currency, coin, bot name, duration, plan, panel item
	UserID int64   // target user for admin approvals
	Amount float64 // amount for admin approvals
}

// simpleActions have no arguments.
var simpleActions = map[string]bool{
	ActionStartRegistration: true,
	ActionCancel:            true,
	ActionBackToMenu:        true,
	ActionRefreshBalance:    true,
	ActionVisitWebsite:      true,
	ActionDeposit:           true,
	ActionDepositCrypto:     true,
	ActionPaymentMade:       true,
	ActionWithdraw:          true,
	ActionWithdrawCrypto:    true,
	ActionTradingBot:        true,
	ActionStake:             true,
	ActionStakeDeposit:      true,
	ActionStartStaking:      true,
}

// argActions carry a single string argument.
var argActions = map[string]bool{
	ActionSelectCrypto:   true,
	ActionCopyAddress:    true,
	ActionSelectWithdraw: true,
	ActionSelectBot:      true,
	ActionStakeCoin:      true,
	ActionStakeDuration:  true,
	ActionStakePlan:      true,
	ActionAdminPanel:     true,
	ActionApproveUser:    true,
}

// amountActions carry a target user id and an amount.
var amountActions = map[string]bool{
	ActionApproveDeposit:    true,
	ActionApproveWithdrawal: true,
	ActionRejectWithdrawal:  true,
}

// EncodeCallback builds the wire form of a callback.
func EncodeCallback(action string, parts ...string) string {
	if len(parts) == 0 {
		return action
	}
	return action + ":" + strings.Join(parts, ":")
}

// EncodeApproval builds the wire form for admin approve/reject buttons.
func EncodeApproval(action string, userID int64, amount float64) string {
	return fmt.Sprintf("%s:%d:%.2f", action, userID, amount)
}

// ParseCallback decodes inline-button data into a typed Callback.
func ParseCallback(data string) (Callback, error) {
	if simpleActions[data] {
		return Callback{Action: data}, nil
	}

	idx := strings.Index(data, ":")
	if idx < 0 {
		return Callback{}, fmt.Errorf("unknown callback %q", data)
	}
	action, rest := data[:idx], data[idx+1:]

	switch {
	case argActions[action]:
		if rest == "" {
			return Callback{}, fmt.Errorf("callback %q missing argument", action)
		}
		cb := Callback{Action: action, Arg: rest}
		if action == ActionApproveUser {
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				return Callback{}, fmt.Errorf("callback %q: bad user id %q", action, rest)
			}
			cb.UserID = id
		}
		return cb, nil

	case amountActions[action]:
		parts := strings.Split(rest, ":")
		if len(parts) != 2 {
			return Callback{}, fmt.Errorf("callback %q: want user id and amount, got %q", action, rest)
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("callback %q: bad user id %q", action, parts[0])
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return Callback{}, fmt.Errorf("callback %q: bad amount %q", action, parts[1])
		}
		return Callback{Action: action, UserID: id, Amount: amount}, nil
	}

	return Callback{}, fmt.Errorf("unknown callback %q", data)
}

// IsAdminAction reports whether the action may only be taken by the admin.
func (c Callback) IsAdminAction() bool {
	switch c.Action {
	case ActionAdminPanel, ActionApproveUser, ActionApproveDeposit,
		ActionApproveWithdrawal, ActionRejectWithdrawal:
		return true
	}
	return false
}
