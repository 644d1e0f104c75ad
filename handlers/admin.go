package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
	"telegram-trading-bot/models"
)

const adminHelpText = `🛠 *Admin Commands*

👥 /listusers — list all registered users
✅ /approveuser <user_id> — approve a registration
💳 /approve <user_id> <amount> — approve a pending deposit
💸 /approvewithdrawal <user_id> <amount> — approve a pending withdrawal
🚫 /rejectwithdrawal <user_id> — reject a pending withdrawal
📈 /updateprofit <user_id> <amount> — add profit (negative to deduct)
🪙 /updatecrypto <currency> <address> — change a deposit address
🎯 /updatestake <user_id> <amount> — adjust staking balance
🔒 /updatelocked <user_id> <amount> — adjust locked stake balance
🔓 /releasestake <user_id> <amount> — release locked stake to balance
🛠 /adminpanel — show this panel again`

// sendAdminPanel posts the control panel to the admin chat. Called once at
// startup and again on /adminpanel.
func (b *Bot) sendAdminPanel() {
	kb := adminPanelKeyboard()
	b.notifyAdmin("🛠 *Admin Panel*\n\nSelect an action or use the commands from /adminhelp.", &kb)
}

func (b *Bot) handleAdminCallback(query *tgbotapi.CallbackQuery, cb Callback) {
	chatID := query.Message.Chat.ID

	switch cb.Action {
	case ActionAdminPanel:
		b.handleAdminPanelItem(chatID, cb.Arg)
	case ActionApproveUser:
		b.approveUser(chatID, cb.UserID)
	case ActionApproveDeposit:
		b.approveDeposit(chatID, cb.UserID, cb.Amount)
	case ActionApproveWithdrawal:
		b.approveWithdrawal(chatID, cb.UserID, cb.Amount)
	case ActionRejectWithdrawal:
		b.rejectWithdrawal(chatID, cb.UserID)
	default:
		logger.Warn().Str("action", cb.Action).Msg("unrouted admin callback")
	}
}

// handleAdminPanelItem answers the panel buttons. The mutating actions are
// command-driven; the buttons explain the command to run.
func (b *Bot) handleAdminPanelItem(chatID int64, item string) {
	switch item {
	case "list_users":
		b.listUsers(chatID)
	case "approve_user":
		b.reply(chatID, "Usage: /approveuser <user_id>\n\nApproval buttons are also attached to each registration notification.")
	case "approve_deposit":
		b.reply(chatID, "Usage: /approve <user_id> <amount>\n\nApproval buttons are also attached to each deposit notification.")
	case "approve_withdrawal":
		b.reply(chatID, "Usage: /approvewithdrawal <user_id> <amount>\nReject with: /rejectwithdrawal <user_id>")
	case "update_profit":
		b.reply(chatID, "Usage: /updateprofit <user_id> <amount>\n\nUse a negative amount to deduct.")
	case "update_crypto":
		b.reply(chatID, "Usage: /updatecrypto <currency> <address>\n\nExample: /updatecrypto Bitcoin bc1q... or /updatecrypto USDT (ERC20) 0x...")
	case "help":
		b.replyMarkdown(chatID, adminHelpText, nil)
	default:
		logger.Warn().Str("item", item).Msg("unknown admin panel item")
	}
}

func (b *Bot) handleAdminCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "adminpanel":
		b.sendAdminPanel()
	case "adminhelp":
		b.replyMarkdown(chatID, adminHelpText, nil)
	case "listusers":
		b.listUsers(chatID)

	case "approveuser":
		userID, ok := b.requireTarget(chatID, args, "/approveuser <user_id>")
		if !ok {
			return
		}
		b.approveUser(chatID, userID)

	case "approve":
		userID, amount, ok := b.requireTargetAmount(chatID, args, "/approve <user_id> <amount>")
		if !ok {
			return
		}
		b.approveDeposit(chatID, userID, amount)

	case "approvewithdrawal":
		userID, amount, ok := b.requireTargetAmount(chatID, args, "/approvewithdrawal <user_id> <amount>")
		if !ok {
			return
		}
		b.approveWithdrawal(chatID, userID, amount)

	case "rejectwithdrawal":
		userID, ok := b.requireTarget(chatID, args, "/rejectwithdrawal <user_id>")
		if !ok {
			return
		}
		b.rejectWithdrawal(chatID, userID)

	case "updateprofit":
		userID, amount, ok := b.requireTargetAmount(chatID, args, "/updateprofit <user_id> <amount>")
		if !ok {
			return
		}
		b.updateProfit(chatID, userID, amount)

	case "updatecrypto":
		b.updateCrypto(chatID, args)

	case "updatestake":
		userID, amount, ok := b.requireTargetAmount(chatID, args, "/updatestake <user_id> <amount>")
		if !ok {
			return
		}
		b.updateStake(chatID, userID, amount, false)

	case "updatelocked":
		userID, amount, ok := b.requireTargetAmount(chatID, args, "/updatelocked <user_id> <amount>")
		if !ok {
			return
		}
		b.updateStake(chatID, userID, amount, true)

	case "releasestake":
		userID, amount, ok := b.requireTargetAmount(chatID, args, "/releasestake <user_id> <amount>")
		if !ok {
			return
		}
		b.releaseStake(chatID, userID, amount)
	}
}

func (b *Bot) requireTarget(chatID int64, args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		b.reply(chatID, "Usage: "+usage)
		return 0, false
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(chatID, "Invalid user ID: "+args[0])
		return 0, false
	}
	return userID, true
}

// requireTargetAmount accepts negative amounts; the ledger decides whether a
// sign is valid for the operation.
func (b *Bot) requireTargetAmount(chatID int64, args []string, usage string) (int64, float64, bool) {
	if len(args) != 2 {
		b.reply(chatID, "Usage: "+usage)
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(chatID, "Invalid user ID: "+args[0])
		return 0, 0, false
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		b.reply(chatID, "Invalid amount: "+args[1])
		return 0, 0, false
	}
	return userID, amount, true
}

func (b *Bot) approveUser(chatID, userID int64) {
	acc, err := b.ledger.ApproveRegistration(b.cfg.Telegram.AdminID, userID)
	switch {
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.reply(chatID, fmt.Sprintf("User %d is already approved.", userID))
		return
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("User %d not found or has not completed registration.", userID))
		return
	case err != nil:
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to approve registration")
		b.reply(chatID, "⚠️ Failed to approve user. Please try again.")
		return
	}

	kb := mainMenuButtonKeyboard()
	b.replyMarkdown(userID, "🎉 *Congratulations!*\n\nYour account has been approved. Welcome to Nova Capital Wealth!\n\nUse the main menu to deposit, trade and stake.", &kb)
	b.reply(chatID, fmt.Sprintf("✅ User %s (%d) approved.", acc.Name, userID))
}

func (b *Bot) approveDeposit(chatID, userID int64, amount float64) {
	acc, staking, err := b.ledger.ApproveDeposit(b.cfg.Telegram.AdminID, userID, amount)
	switch {
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.reply(chatID, fmt.Sprintf("User %d has no pending deposit. Already approved?", userID))
		return
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("User %d not found.", userID))
		return
	case err != nil:
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to approve deposit")
		b.reply(chatID, "⚠️ Failed to approve deposit. Please try again.")
		return
	}

	kb := mainMenuButtonKeyboard()
	if staking {
		b.replyMarkdown(userID, fmt.Sprintf("✅ *Staking Deposit Approved!*\n\n💰 Amount: $%.2f\n🎯 Staking Balance: $%.2f\n\nYou can now start staking from the dashboard.", amount, acc.StakedBalance), &kb)
	} else {
		b.replyMarkdown(userID, fmt.Sprintf("✅ *Deposit Approved!*\n\n💰 Amount: $%.2f\n💵 New Balance: $%.2f", amount, acc.Balance), &kb)
	}
	b.reply(chatID, fmt.Sprintf("✅ Deposit of $%.2f approved for user %d.", amount, userID))
}

func (b *Bot) approveWithdrawal(chatID, userID int64, amount float64) {
	acc, err := b.ledger.ApproveWithdrawal(b.cfg.Telegram.AdminID, userID, amount)
	switch {
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.reply(chatID, fmt.Sprintf("User %d has no pending withdrawal. Already processed?", userID))
		return
	case errors.Is(err, ledger.ErrInsufficientBalance):
		b.reply(chatID, fmt.Sprintf("User %d's balance ($%.2f) no longer covers $%.2f. The request stays pending; retry later or /rejectwithdrawal %d.", userID, acc.Balance, amount, userID))
		return
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("User %d not found.", userID))
		return
	case err != nil:
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to approve withdrawal")
		b.reply(chatID, "⚠️ Failed to approve withdrawal. Please try again.")
		return
	}

	kb := mainMenuButtonKeyboard()
	b.replyMarkdown(userID, fmt.Sprintf("✅ *Withdrawal Approved!*\n\n💸 Amount: $%.2f\n💵 Remaining Balance: $%.2f\n\nYour funds are on the way.", amount, acc.Balance), &kb)
	b.reply(chatID, fmt.Sprintf("✅ Withdrawal of $%.2f approved for user %d.", amount, userID))
}

func (b *Bot) rejectWithdrawal(chatID, userID int64) {
	acc, err := b.ledger.RejectWithdrawal(b.cfg.Telegram.AdminID, userID)
	switch {
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.reply(chatID, fmt.Sprintf("User %d has no pending withdrawal.", userID))
		return
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("User %d not found.", userID))
		return
	case err != nil:
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to reject withdrawal")
		b.reply(chatID, "⚠️ Failed to reject withdrawal. Please try again.")
		return
	}

	kb := mainMenuButtonKeyboard()
	b.replyMarkdown(userID, fmt.Sprintf("❌ *Withdrawal Rejected*\n\nYour withdrawal request was declined by the admin. Your balance ($%.2f) is untouched.\n\nContact support if you believe this is a mistake.", acc.Balance), &kb)
	b.reply(chatID, fmt.Sprintf("🚫 Withdrawal rejected for user %d.", userID))
}

func (b *Bot) updateProfit(chatID, userID int64, amount float64) {
	acc, err := b.ledger.UpdateProfit(b.cfg.Telegram.AdminID, userID, amount)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			b.reply(chatID, fmt.Sprintf("User %d not found.", userID))
			return
		}
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to update profit")
		b.reply(chatID, "⚠️ Failed to update profit. Please try again.")
		return
	}

	kb := mainMenuButtonKeyboard()
	if amount >= 0 {
		b.replyMarkdown(userID, fmt.Sprintf("📈 *Trading Profit Credited!*\n\n💰 Profit: $%.2f\n💵 New Balance: $%.2f", amount, acc.Balance), &kb)
	} else {
		b.replyMarkdown(userID, fmt.Sprintf("📉 *Balance Adjustment*\n\n💰 Amount: $%.2f\n💵 New Balance: $%.2f", amount, acc.Balance), &kb)
	}
	b.reply(chatID, fmt.Sprintf("✅ Profit of $%.2f applied to user %d. New balance: $%.2f.", amount, userID, acc.Balance))
}

// updateCrypto handles /updatecrypto. Currency names may contain spaces, e.g.
// "USDT (ERC20)", so the last field is the address and the rest is the name.
func (b *Bot) updateCrypto(chatID int64, args []string) {
	if len(args) < 2 {
		b.reply(chatID, "Usage: /updatecrypto <currency> <address>")
		return
	}
	name := strings.Join(args[:len(args)-1], " ")
	address := args[len(args)-1]

	err := b.ledger.UpdateCryptoAddress(b.cfg.Telegram.AdminID, name, address)
	switch {
	case errors.Is(err, ledger.ErrUnknownCurrency):
		names := make([]string, 0, len(models.DefaultCryptoAddresses()))
		for n := range models.DefaultCryptoAddresses() {
			names = append(names, n)
		}
		sort.Strings(names)
		b.reply(chatID, fmt.Sprintf("Unknown currency %q. Known: %s", name, strings.Join(names, ", ")))
		return
	case errors.Is(err, ledger.ErrValidation):
		b.reply(chatID, fmt.Sprintf("Address %q is not valid for %s.", address, name))
		return
	case err != nil:
		logger.Error().Err(err).Str("currency", name).Msg("failed to update crypto address")
		b.reply(chatID, "⚠️ Failed to update address. Please try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ %s deposit address updated.", name))
}

func (b *Bot) updateStake(chatID, userID int64, amount float64, locked bool) {
	var (
		acc *models.Account
		err error
	)
	if locked {
		acc, err = b.ledger.UpdateLockedStake(b.cfg.Telegram.AdminID, userID, amount)
	} else {
		acc, err = b.ledger.UpdateStake(b.cfg.Telegram.AdminID, userID, amount)
	}
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			b.reply(chatID, fmt.Sprintf("User %d not found.", userID))
			return
		}
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to update stake balance")
		b.reply(chatID, "⚠️ Failed to update stake balance. Please try again.")
		return
	}

	if locked {
		b.reply(chatID, fmt.Sprintf("✅ Locked stake adjusted by $%.2f for user %d. Locked: $%.2f.", amount, userID, acc.LockedStakeBalance))
	} else {
		b.reply(chatID, fmt.Sprintf("✅ Staking balance adjusted by $%.2f for user %d. Staking: $%.2f.", amount, userID, acc.StakedBalance))
	}
}

func (b *Bot) releaseStake(chatID, userID int64, amount float64) {
	acc, err := b.ledger.ReleaseStake(b.cfg.Telegram.AdminID, userID, amount)
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		b.reply(chatID, fmt.Sprintf("User %d only has $%.2f locked; cannot release $%.2f.", userID, acc.LockedStakeBalance, amount))
		return
	case errors.Is(err, ledger.ErrValidation):
		b.reply(chatID, "Amount must be positive.")
		return
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("User %d not found.", userID))
		return
	case err != nil:
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to release stake")
		b.reply(chatID, "⚠️ Failed to release stake. Please try again.")
		return
	}

	kb := mainMenuButtonKeyboard()
	b.replyMarkdown(userID, fmt.Sprintf("🔓 *Stake Released!*\n\n💰 Amount: $%.2f\n💵 New Balance: $%.2f\n🔒 Remaining Locked: $%.2f", amount, acc.Balance, acc.LockedStakeBalance), &kb)
	b.reply(chatID, fmt.Sprintf("✅ Released $%.2f of locked stake for user %d. Balance: $%.2f.", amount, userID, acc.Balance))
}

// listUsers dumps every account, chunked to stay under the Telegram message
// size limit.
func (b *Bot) listUsers(chatID int64) {
	accounts, err := b.ledger.ListAccounts(b.cfg.Telegram.AdminID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list accounts")
		b.reply(chatID, "⚠️ Failed to list users. Please try again.")
		return
	}
	if len(accounts) == 0 {
		b.reply(chatID, "No registered users yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Users (%d)\n\n", len(accounts)))
	for _, acc := range accounts {
		entry := formatUserEntry(&acc)
		if sb.Len()+len(entry) > 4000 {
			b.reply(chatID, sb.String())
			sb.Reset()
		}
		sb.WriteString(entry)
	}
	if sb.Len() > 0 {
		b.reply(chatID, sb.String())
	}
}

func formatUserEntry(acc *models.Account) string {
	status := "⏳ pending"
	if acc.Approved {
		status = "✅ approved"
	}
	name := acc.Name
	if name == "" {
		name = "(unregistered)"
	}
	entry := fmt.Sprintf("%s — %s [%d] %s\n  💵 $%.2f | 🎯 $%.2f | 🔒 $%.2f | 📈 $%.2f\n",
		name, acc.Username, acc.TelegramID, status,
		acc.Balance, acc.StakedBalance, acc.LockedStakeBalance, acc.Profit)
	if acc.PendingDeposit != 0 {
		entry += fmt.Sprintf("  ⏳ pending deposit $%.2f\n", acc.PendingDeposit)
	}
	if acc.PendingWithdrawal != 0 {
		entry += fmt.Sprintf("  ⏳ pending withdrawal $%.2f\n", acc.PendingWithdrawal)
	}
	if acc.ActiveBot != "" {
		entry += "  🤖 " + acc.ActiveBot + "\n"
	}
	return entry + "\n"
}
