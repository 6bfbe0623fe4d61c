package botapp

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	tginfra "github.com/mahiofficial1332/Em-like-bot/internal/infra/telegram"
	"github.com/mahiofficial1332/Em-like-bot/internal/services/likeapi"
)

// handleCommand routes one decoded command. It never returns an error: a
// failed handler surfaces a message (or a log line) and the bot goes back to
// waiting for the next update.
func (a *App) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	switch strings.ToLower(strings.TrimSpace(update.Command)) {
	case "like":
		a.handleLike(ctx, update)
	case "setlimit":
		a.handleSetLimit(ctx, update)
	case "setchannel":
		a.handleSetChannel(ctx, update)
	case "setreport":
		a.handleSetReport(ctx, update)
	case "addauto":
		a.handleAddAuto(ctx, update)
	case "removeauto":
		a.handleRemoveAuto(ctx, update)
	case "listauto":
		a.handleListAuto(ctx, update)
	case "testapi":
		a.handleTestAPI(ctx, update)
	case "start", "help":
		a.handleHelp(ctx, update)
	default:
		// Not ours; other bots in the chat may own it.
	}
	return nil
}

// handleLike walks the full invocation pipeline: cooldown, channel check,
// input validation, quota check, API dispatch, outcome rendering. Order
// matters: the quota check runs before any network call so users at quota
// never spend an upstream request.
func (a *App) handleLike(ctx context.Context, update tginfra.CommandUpdate) {
	if wait, ok := a.cooldown.Allow(update.UserID); !ok {
		a.send(ctx, update.ChatID, a.renderer.Cooldown(wait))
		return
	}

	if !update.IsPrivate && a.store.HasLikeChannels() && !a.store.IsLikeChannel(chatKey(update.ChatID)) {
		a.send(ctx, update.ChatID, a.renderer.Redirect())
		return
	}

	uid, region, ok := a.parseLikeArgs(ctx, update)
	if !ok {
		return
	}

	userKey := strconv.FormatInt(update.UserID, 10)
	roles := a.memberRoles(ctx, update)

	limit, err := a.quota.DailyLimit(userKey, roles)
	if err != nil {
		a.logger.Error("resolve daily limit", zap.Error(err))
		a.send(ctx, update.ChatID, a.renderer.Unavailable())
		return
	}
	used, err := a.quota.UsedToday(userKey)
	if err != nil {
		a.logger.Error("resolve usage", zap.Error(err))
		a.send(ctx, update.ChatID, a.renderer.Unavailable())
		return
	}
	if used >= limit {
		a.send(ctx, update.ChatID, a.renderer.QuotaExceeded(used, limit, a.now()))
		return
	}

	messageID, err := a.tg.SendMessage(ctx, update.ChatID, a.renderer.Processing())
	if err != nil {
		a.logger.Warn("send processing notice", zap.Error(err))
	}

	outcome, err := a.api.RequestLike(ctx, uid, region)
	if err != nil || outcome.Status == likeapi.StatusUnavailable {
		if err != nil {
			a.logger.Error("like request failed", zap.String("uid", uid), zap.Error(err))
		}
		a.reply(ctx, update.ChatID, messageID, a.renderer.Unavailable())
		return
	}

	switch outcome.Status {
	case likeapi.StatusSuccess:
		if err := a.quota.RecordUsage(userKey); err != nil {
			a.logger.Error("record usage", zap.Error(err))
		}
		remaining := limit - (used + 1)
		a.reply(ctx, update.ChatID, messageID, a.renderer.Success(outcome, remaining, a.now()))
	case likeapi.StatusMaxed:
		// Upstream's own limit; the user's bot quota is untouched.
		a.reply(ctx, update.ChatID, messageID, a.renderer.UpstreamMaxed(a.now()))
	}
}

// parseLikeArgs extracts "[region] <uid>" and reports validation failures to
// the chat itself.
func (a *App) parseLikeArgs(ctx context.Context, update tginfra.CommandUpdate) (string, string, bool) {
	fields := strings.Fields(update.Args)

	var uid, region string
	switch len(fields) {
	case 0:
		a.send(ctx, update.ChatID, a.renderer.Usage())
		return "", "", false
	case 1:
		uid, region = fields[0], rules.RegionAuto
	default:
		region, uid = fields[0], fields[1]
	}

	if !rules.ValidUID(uid) {
		a.send(ctx, update.ChatID, a.renderer.InvalidUID())
		return "", "", false
	}

	normalized, ok := rules.NormalizeRegion(region)
	if !ok {
		a.send(ctx, update.ChatID, a.renderer.InvalidRegion())
		return "", "", false
	}

	return uid, normalized, true
}

func (a *App) memberRoles(ctx context.Context, update tginfra.CommandUpdate) []string {
	if update.IsPrivate {
		return nil
	}
	roles, err := a.tg.MemberRoles(ctx, update.ChatID, update.UserID)
	if err != nil {
		a.logger.Warn("resolve member roles",
			zap.Int64("chat_id", update.ChatID), zap.Int64("user_id", update.UserID), zap.Error(err))
		return nil
	}
	return roles
}

// reply edits the processing notice when one exists, otherwise sends fresh.
func (a *App) reply(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		a.send(ctx, chatID, text)
		return
	}
	if err := a.tg.EditMessage(ctx, chatID, messageID, text); err != nil {
		a.logger.Warn("edit message", zap.Int64("chat_id", chatID), zap.Error(err))
		a.send(ctx, chatID, text)
	}
}

func (a *App) handleHelp(ctx context.Context, update tginfra.CommandUpdate) {
	a.send(ctx, update.ChatID,
		"Commands:\n"+
			"/like [region] <uid> - send likes to a player\n"+
			"/listauto - show the auto-like worklist (owners)\n"+
			"/testapi - check API connectivity (owners)")
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
