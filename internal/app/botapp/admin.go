package botapp

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	tginfra "github.com/mahiofficial1332/Em-like-bot/internal/infra/telegram"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
)

const notOwnerReply = "❌ Only bot owners can use this command."

// requireOwner gates the admin surface. Owners are a static config list, not
// chat admins: chat admin status means nothing for bot administration.
func (a *App) requireOwner(ctx context.Context, update tginfra.CommandUpdate) bool {
	if a.cfg.IsOwner(update.UserID) {
		return true
	}
	a.send(ctx, update.ChatID, notOwnerReply)
	return false
}

// handleSetLimit handles "/setlimit user|role <id> <limit>".
func (a *App) handleSetLimit(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}

	fields := strings.Fields(update.Args)
	if len(fields) != 3 {
		a.send(ctx, update.ChatID, "❌ Usage: /setlimit user|role <id> <limit>")
		return
	}

	kind := strings.ToLower(fields[0])
	id := fields[1]
	limit, err := strconv.Atoi(fields[2])
	if err != nil || limit < 0 {
		a.send(ctx, update.ChatID, "❌ Limit must be a non-negative number.")
		return
	}

	switch kind {
	case "user":
		a.store.SetUserLimit(id, limit)
		a.send(ctx, update.ChatID, "✅ Daily limit for user "+id+" set to "+strconv.Itoa(limit)+".")
	case "role":
		a.store.SetRoleLimit(id, limit)
		a.send(ctx, update.ChatID, "✅ Daily limit for role "+id+" set to "+strconv.Itoa(limit)+".")
	default:
		a.send(ctx, update.ChatID, "❌ Usage: /setlimit user|role <id> <limit>")
		return
	}
	a.persist()
}

// handleSetChannel marks the current chat as a designated like channel.
func (a *App) handleSetChannel(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}
	if update.IsPrivate {
		a.send(ctx, update.ChatID, "❌ Run this inside the group chat you want to designate.")
		return
	}

	a.store.SetLikeChannel(chatKey(update.ChatID))
	a.persist()
	a.logger.Info("like channel bound",
		zap.Int64("chat_id", update.ChatID), zap.String("title", update.ChatTitle))
	a.send(ctx, update.ChatID, "✅ This chat is now a designated like channel.")
}

// handleSetReport marks the current chat as a report destination.
func (a *App) handleSetReport(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}

	a.store.SetReportChannel(chatKey(update.ChatID))
	a.persist()
	a.logger.Info("report channel bound",
		zap.Int64("chat_id", update.ChatID), zap.String("title", update.ChatTitle))
	a.send(ctx, update.ChatID, "✅ Auto-like reports will be delivered to this chat.")
}

// handleAddAuto handles "/addauto <uid> [region] [nickname...]". Re-adding a
// uid updates its region and nickname in place.
func (a *App) handleAddAuto(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}

	fields := strings.Fields(update.Args)
	if len(fields) == 0 {
		a.send(ctx, update.ChatID, "❌ Usage: /addauto <uid> [region] [nickname]")
		return
	}

	uid := fields[0]
	if !rules.ValidUID(uid) {
		a.send(ctx, update.ChatID, a.renderer.InvalidUID())
		return
	}

	region := rules.RegionAuto
	nickname := "Unknown"
	if len(fields) > 1 {
		normalized, ok := rules.NormalizeRegion(fields[1])
		if !ok {
			a.send(ctx, update.ChatID, a.renderer.InvalidRegion())
			return
		}
		region = normalized
	}
	if len(fields) > 2 {
		nickname = strings.Join(fields[2:], " ")
	}

	added := a.store.UpsertAutoTarget(jsonstore.AutoTarget{UID: uid, Region: region, Nickname: nickname})
	a.persist()

	if added {
		a.send(ctx, update.ChatID, "✅ Added "+uid+" to the auto-like system.")
	} else {
		a.send(ctx, update.ChatID, "✅ Updated "+uid+" in the auto-like system.")
	}
}

func (a *App) handleRemoveAuto(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}

	uid := strings.TrimSpace(update.Args)
	if uid == "" {
		a.send(ctx, update.ChatID, "❌ Usage: /removeauto <uid>")
		return
	}

	if _, ok := a.store.RemoveAutoTarget(uid); !ok {
		a.send(ctx, update.ChatID, "❌ UID "+uid+" is not in the auto-like system.")
		return
	}
	a.persist()
	a.send(ctx, update.ChatID, "✅ Removed "+uid+" from the auto-like system.")
}

func (a *App) handleListAuto(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}
	a.send(ctx, update.ChatID, a.renderer.AutoTargetList(a.store.AutoTargets()))
}

// handleTestAPI fires the connectivity probe and reports the result in place.
func (a *App) handleTestAPI(ctx context.Context, update tginfra.CommandUpdate) {
	if !a.requireOwner(ctx, update) {
		return
	}

	messageID, err := a.tg.SendMessage(ctx, update.ChatID, "🔍 Testing API connection...")
	if err != nil {
		a.logger.Warn("send test notice", zap.Error(err))
	}

	if a.api.Ping(ctx) {
		a.reply(ctx, update.ChatID, messageID, "✅ API is reachable and responding.")
	} else {
		a.reply(ctx, update.ChatID, messageID, "❌ API is not responding. Check the upstream service.")
	}
}
