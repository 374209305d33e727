package bot

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// onInteractionCreate is a handler function called when discord emits
// INTERACTION_CREATE event for an application command. The command
// registry routes it to the handler of the invoked command.
func (bot *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	bot.log.WithFields(log.Fields{
		"GuildID": i.GuildID,
		"Command": i.ApplicationCommandData().Name,
	}).Trace("Interaction created")

	bot.registry.Handle(s, i)
}
