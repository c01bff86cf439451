package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler bundles a handler with its registration parameters and
// middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot commands and
// callback handlers, keyed by a display name.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	h := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	h["/start"] = command("start", NewStartHandler(deps))
	h["/menu"] = command("menu", NewMenuHandler(deps))
	h["/help"] = command("help", NewHelpHandler(deps))
	h["/addid"] = command("addid", NewAddIDHandler(deps))
	h["/myids"] = command("myids", NewMyIDsHandler(deps))
	h["/removeids"] = command("removeids", NewRemoveIDsHandler(deps))
	h["/like"] = command("like", NewLikeHandler(deps))
	h["/status"] = command("status", NewStatusHandler(deps))

	admin := AdminOnly(deps)
	h["/setkey"] = command("setkey", NewSetKeyHandler(deps), admin)
	h["/checkkey"] = command("checkkey", NewCheckKeyHandler(deps), admin)
	h["/listusers"] = command("listusers", NewListUsersHandler(deps), admin)
	h["/stats"] = command("stats", NewStatsHandler(deps), admin)
	h["/broadcast"] = command("broadcast", NewBroadcastHandler(deps), admin)
	h["/forcesend"] = command("forcesend", NewForceSendHandler(deps), admin)

	h["menu_callback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     menuCallbackPrefix,
		Handler:     NewMenuCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	h["remove_callback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     removeCallbackPrefix,
		Handler:     NewRemoveCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return h
}
