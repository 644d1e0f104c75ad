package handlers

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
	"telegram-trading-bot/models"
)

func stakeDepositKeyboard(withStart bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Deposit to Stake", ActionStakeDeposit),
		),
	}
	if withStart {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Start New Stake", ActionStartStaking),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", ActionBackToMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) showStakingDashboard(chatID int64, acc *models.Account) {
	var text string
	withStart := false
	switch {
	case acc.StakedBalance <= 0 && acc.LockedStakeBalance <= 0:
		text = `🎯 *Staking Dashboard*

💰 *Available Balance:* $0.00
🎯 *Staking Balance:* $0.00
🔒 *Locked Stake:* $0.00

You haven't started staking yet! Deposit funds to your staking balance to start earning rewards.

🚀 *Why Stake?*
• Earn passive income
• Flexible & Fixed options
• Top-tier security`
	case acc.StakedBalance <= 0:
		text = fmt.Sprintf(`🎯 *Staking Dashboard*

💰 *Available Balance:* $%.2f
🎯 *Staking Balance:* $0.00
🔒 *Locked Stake:* $%.2f

All your staking funds are currently locked. Deposit more to start a new stake.`,
			acc.AvailableBalance(), acc.LockedStakeBalance)
	default:
		text = fmt.Sprintf(`🎯 *Staking Dashboard*

💰 *Available Balance:* $%.2f
🎯 *Staking Balance:* $%.2f
🔒 *Locked Stake:* $%.2f`,
			acc.AvailableBalance(), acc.StakedBalance, acc.LockedStakeBalance)
		withStart = true
	}
	kb := stakeDepositKeyboard(withStart)
	b.replyMarkdown(chatID, text, &kb)
}

func (b *Bot) startStaking(chatID int64, acc *models.Account) {
	if acc.StakedBalance <= 0 {
		kb := stakeDepositKeyboard(false)
		b.replyMarkdown(chatID, "⚠️ *Insufficient Staking Balance*\n\nYou need to deposit funds to your staking balance first.\n\nUse 'Deposit to Stake' to add funds.", &kb)
		return
	}
	kb := stakingCoinKeyboard()
	b.replyMarkdown(chatID, fmt.Sprintf("💎 *Select Asset to Stake*\n\n🎯 Staking Balance: $%.2f\n\nChoose from our premium selection of supported cryptocurrencies:", acc.StakedBalance), &kb)
}

func (b *Bot) selectStakingCoin(userID, chatID int64, coin string, acc *models.Account) {
	known := false
	for _, c := range models.StakingCoins {
		if c == coin {
			known = true
			break
		}
	}
	if !known {
		b.reply(chatID, "❌ Unknown asset. Please pick one from the list.")
		return
	}
	b.sessions.Update(userID, func(sess *Session) {
		sess.StakeCoin = coin
		sess.State = StateStakeAmount
	})
	kb := cancelKeyboard()
	b.replyMarkdown(chatID, fmt.Sprintf("💰 *Enter Staking Amount for %s*\n\n🎯 Staking Balance: $%.2f\n\nEnter the amount you want to stake (in USD):", coin, acc.StakedBalance), &kb)
}

// handleStakingAmount validates against the spendable staking pool and asks
// for the duration.
func (b *Bot) handleStakingAmount(userID, chatID int64, text string) {
	amount, ok := parseAmount(text)
	if !ok {
		b.reply(chatID, "Please enter a valid numeric amount (e.g. 100).")
		return
	}

	acc, err := b.store.GetAccount(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load account")
		b.reply(chatID, "⚠️ An error occurred. Please try again.")
		return
	}
	if amount > acc.StakedBalance {
		kb := stakeDepositKeyboard(false)
		b.replyMarkdown(chatID, fmt.Sprintf("⚠️ *Insufficient Staking Balance*\n\n🎯 Staking Balance: $%.2f\nRequired: $%.2f\n\nPlease deposit more funds to your staking balance.", acc.StakedBalance, amount), &kb)
		b.sessions.SetState(userID, StateMainMenu)
		return
	}

	sess := b.sessions.Get(userID)
	b.sessions.Update(userID, func(s *Session) {
		s.StakeAmount = amount
		s.State = StateMainMenu
	})
	kb := stakingDurationKeyboard()
	b.replyMarkdown(chatID, fmt.Sprintf("⏳ *Select Staking Duration*\n\n💎 Asset: %s\n💰 Amount: $%.2f\n\nChoose how long you want to stake:", sess.StakeCoin, amount), &kb)
}

func (b *Bot) selectStakingDuration(userID, chatID int64, duration string) {
	if duration == "flex" {
		// Flexible duration implies the flexible plan; no further choice.
		b.sessions.Update(userID, func(sess *Session) {
			sess.StakeDuration = "Flexible"
			sess.StakePlan = "flexible"
		})
		b.finalizeStake(userID, chatID)
		return
	}

	b.sessions.Update(userID, func(sess *Session) {
		sess.StakeDuration = duration + " Days"
	})
	sess := b.sessions.Get(userID)
	kb := stakingPlanKeyboard()
	b.replyMarkdown(chatID, fmt.Sprintf(`📋 *Select Staking Type*

💎 Asset: %s
💰 Amount: $%.2f
⏳ Duration: %s

*🔒 Fixed Staking*
• Funds locked for the duration
• Higher rewards

*🔓 Flexible Staking*
• Withdraw anytime
• Standard rewards`, sess.StakeCoin, sess.StakeAmount, sess.StakeDuration), &kb)
}

func (b *Bot) selectStakingPlan(userID, chatID int64, plan string) {
	if plan != "fixed" && plan != "flexible" {
		b.reply(chatID, "❌ Unknown staking plan.")
		return
	}
	b.sessions.Update(userID, func(sess *Session) {
		sess.StakePlan = plan
	})
	b.finalizeStake(userID, chatID)
}

// finalizeStake re-validates the pool and executes the lock; funds may have
// changed between the flow steps.
func (b *Bot) finalizeStake(userID, chatID int64) {
	sess := b.sessions.Get(userID)

	acc, err := b.ledger.OpenStake(userID, sess.StakeCoin, sess.StakeAmount, sess.StakePlan, sess.StakeDuration)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			kb := mainMenuButtonKeyboard()
			b.replyMarkdown(chatID, fmt.Sprintf("⚠️ *Insufficient Staking Balance*\n\n🎯 Staking Balance: $%.2f\nRequired: $%.2f", acc.StakedBalance, sess.StakeAmount), &kb)
		case errors.Is(err, ledger.ErrValidation):
			b.replyKeyboard(chatID, "⚠️ Stake amount is missing. Please start the stake again.", mainMenuButtonKeyboard())
		default:
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to open stake")
			b.reply(chatID, "⚠️ An error occurred. Please try again.")
		}
		b.sessions.SetState(userID, StateMainMenu)
		return
	}

	b.sessions.Update(userID, func(s *Session) {
		*s = Session{State: StateMainMenu}
	})

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Staking Dashboard", ActionStake),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", ActionBackToMenu),
		),
	)
	b.replyMarkdown(chatID, fmt.Sprintf(`🎉 *Congratulations! You have successfully staked!*

💎 *Asset:* %s
💰 *Amount Locked:* $%.2f
📋 *Plan:* %s
⏳ *Duration:* %s
📊 *Status:* Active

🎯 *Remaining Staking Balance:* $%.2f
🔒 *Total Locked:* $%.2f

Your funds are now locked and earning rewards!`,
		sess.StakeCoin, sess.StakeAmount, sess.StakePlan, sess.StakeDuration,
		acc.StakedBalance, acc.LockedStakeBalance), &kb)
}
