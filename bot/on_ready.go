package bot

import (
	"substrate-discord-bot/bot/slash_command"
	"substrate-discord-bot/logger"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// readySession is the part of the discord session used
// when the bot becomes ready.
type readySession interface {
	slash_command.CommandsAPI
	UpdateListeningStatus(name string) error
}

// onReady is a handler function called when discord emits
// READY event. It registers the bot's commands, to the test
// guild in development mode or globally otherwise.
func (bot *Bot) onReady(s readySession, r *discordgo.Ready) {
	if err := s.UpdateListeningStatus("/" + NodeBlockCommandName); err != nil {
		bot.log.Debugf("Could not update listening status: %v", err)
	}
	bot.log.WithFields(log.Fields{
		"Username": r.User.Username + " #" + r.User.Discriminator,
		"Guilds":   len(r.Guilds),
	}).Info("Bot ready")

	if err := bot.RegisterCommands(s, r.User.ID); err != nil {
		// NOTE: the bot keeps running, commands registered
		// earlier still reach it
		bot.registry.Log.Emit(logger.LogMessage{
			Severity:  logger.Error,
			Source:    "Interactions",
			Message:   "Could not register application commands",
			Exception: err,
		})
	}

	// NOTE: mark the bot as ready, so the
	// other handlers start working
	bot.ready.Store(true)
}
