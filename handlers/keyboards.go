package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/models"
)

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
}

func mainMenuButtonKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", ActionBackToMenu),
		),
	)
}

func (b *Bot) mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Deposit", ActionDeposit),
			tgbotapi.NewInlineKeyboardButtonData("💸 Withdraw", ActionWithdraw),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 Trading Bot", ActionTradingBot),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Stake", ActionStake),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh Balance", ActionRefreshBalance),
			tgbotapi.NewInlineKeyboardButtonData("🌐 Visit Website", ActionVisitWebsite),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💬 Contact Support", b.cfg.Trading.SupportURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
}

func depositMethodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("₿ Crypto", ActionDepositCrypto),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
}

func cryptoListKeyboard(entries []models.CryptoAddress) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entries)+1)
	for _, e := range entries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(e.Name, EncodeCallback(ActionSelectCrypto, e.Name)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func depositDetailsKeyboard(currency string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Copy Address", EncodeCallback(ActionCopyAddress, currency)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I Have Made Payment", ActionPaymentMade),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
}

func withdrawCurrencyKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models.WithdrawCurrencies)+1)
	for _, symbol := range models.WithdrawCurrencies {
		label := fmt.Sprintf("%s (%s)", symbol, models.WithdrawNetworks[symbol])
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionSelectWithdraw, symbol)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tradingBotKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models.TradingBots)+1)
	for _, tb := range models.TradingBots {
		label := fmt.Sprintf("🤖 %s (%s Profit)", tb.Name, tb.ProfitRate)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionSelectBot, tb.Name)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// stakingCoinKeyboard lays the asset catalog out three per row.
func stakingCoinKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, coin := range models.StakingCoins {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(coin, EncodeCallback(ActionStakeCoin, coin)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func stakingDurationKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models.StakingDurations)+2)
	for _, days := range models.StakingDurations {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d Days", days),
				EncodeCallback(ActionStakeDuration, fmt.Sprintf("%d", days)),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Flexible (No Lock)", EncodeCallback(ActionStakeDuration, "flex")),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func stakingPlanKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Fixed Staking", EncodeCallback(ActionStakePlan, "fixed")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔓 Flexible Staking", EncodeCallback(ActionStakePlan, "flexible")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
}

func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := func(label, item string) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionAdminPanel, item)),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row("👥 List Users", "list_users"),
		row("✅ Approve User", "approve_user"),
		row("💳 Approve Deposit", "approve_deposit"),
		row("💸 Approve Withdrawal", "approve_withdrawal"),
		row("📈 Update Profit", "update_profit"),
		row("🪙 Update Crypto Address", "update_crypto"),
		row("ℹ️ Help", "help"),
	)
}
