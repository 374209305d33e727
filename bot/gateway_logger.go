package bot

import (
	"fmt"
	"path"
	"runtime"
	"substrate-discord-bot/logger"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const gatewaySource = "Gateway"

// GatewaySeverity maps a discordgo log level to a severity.
func GatewaySeverity(msgL int) logger.Severity {
	switch msgL {
	case discordgo.LogError:
		return logger.Error
	case discordgo.LogWarning:
		return logger.Warning
	case discordgo.LogInformational:
		return logger.Info
	case discordgo.LogDebug:
		return logger.Debug
	}
	return logger.Info
}

// NewGatewayLogger returns a function that can replace discordgo's
// package logger, emitting every message to the provided stream
// with the name of the discordgo function that logged it as source.
func NewGatewayLogger(stream *logger.Stream) func(msgL, caller int, format string, a ...interface{}) {
	return func(msgL, caller int, format string, a ...interface{}) {
		source := gatewaySource
		// NOTE: caller counts frames from discordgo's msglog,
		// this function adds one more
		if pc, _, _, ok := runtime.Caller(caller + 1); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				source = gatewaySource + " : " + path.Base(fn.Name())
			}
		}
		stream.EmitText(GatewaySeverity(msgL), source, fmt.Sprintf(format, a...))
	}
}

// GatewayLogLevel returns the discordgo log level matching
// the bot's log level.
func GatewayLogLevel(level log.Level) int {
	switch {
	case level >= log.DebugLevel:
		return discordgo.LogDebug
	case level >= log.InfoLevel:
		return discordgo.LogInformational
	case level >= log.WarnLevel:
		return discordgo.LogWarning
	}
	return discordgo.LogError
}
