package bot

import "github.com/bwmarrin/discordgo"

type DiscordIntentsHandler struct {
	*Bot
}

// setIntents sets the intents for the session and enables
// caching of the users and members seen by the gateway.
func (bot *DiscordIntentsHandler) setIntents() {
	//NOTE: privileged intents need to be enabled in the
	// developer portal, the bot does not need them
	bot.session.Identify.Intents = discordgo.IntentsAllWithoutPrivileged

	bot.session.StateEnabled = true
	bot.session.State.TrackMembers = true
	bot.session.State.TrackPresences = false
}
