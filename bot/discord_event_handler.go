package bot

import "github.com/bwmarrin/discordgo"

type DiscordEventHandler struct {
	*Bot
}

// setHandlers adds handlers for discord events to the
// session. It adds handlers for ready and interaction
// create events.
func (bot *DiscordEventHandler) setHandlers() {
	bot.session.AddHandler(
		func(s *discordgo.Session, r *discordgo.Ready) {
			bot.onReady(s, r)
		},
	)
	bot.session.AddHandler(
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !bot.ready.Load() ||
				i.Interaction.Type != discordgo.InteractionApplicationCommand {
				return
			}
			bot.onInteractionCreate(s, i)
		},
	)
}
