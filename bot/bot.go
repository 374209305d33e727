package bot

import (
	"context"
	"fmt"
	"substrate-discord-bot/bot/slash_command"
	"substrate-discord-bot/logger"
	"substrate-discord-bot/node"
	"substrate-discord-bot/service/chain"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Bot struct {
	log      *log.Logger
	ctx      context.Context
	ready    atomic.Bool
	config   *Configuration
	gateway  *logger.Stream
	registry *slash_command.Registry
	session  *discordgo.Session
}

type Configuration struct {
	LogLevel  log.Level    `yaml:"logLevel" env:"LOG_LEVEL"`
	Mode      string       `yaml:"mode" env:"BOT_MODE" validate:"required,oneof=development production"`
	TestGuild string       `yaml:"testGuild" env:"BOT_TEST_GUILD" validate:"required_if=Mode development"`
	Tokens    TokensConfig `yaml:"tokens"`
	Node      NodeConfig   `yaml:"node"`
	Logger    LoggerConfig `yaml:"logger"`
}

type TokensConfig struct {
	Discord string `yaml:"discord" env:"DISCORD_TOKEN" validate:"required"`
}

type NodeConfig struct {
	URL     string        `yaml:"url" env:"NODE_URL" validate:"required"`
	Timeout time.Duration `yaml:"timeout" env:"NODE_TIMEOUT" validate:"gt=0"`
}

type LoggerConfig struct {
	QueueSize int `yaml:"queueSize" env:"LOGGER_QUEUE_SIZE" validate:"gt=0"`
}

// DefaultConfiguration returns the values used for the keys
// missing from the configuration files.
func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel: log.InfoLevel,
		Mode:     ModeProduction,
		Node: NodeConfig{
			Timeout: chain.DefaultTimeout,
		},
		Logger: LoggerConfig{
			QueueSize: logger.DefaultQueueSize,
		},
	}
}

// RegistrationTarget returns the id of the guild the commands
// are registered to, or an empty string when they are
// registered globally.
func RegistrationTarget(config *Configuration) string {
	if config.Mode == ModeDevelopment {
		return config.TestGuild
	}
	return ""
}

// NewBot constructs an object that connects the node-block
// command with the discord gateway. The gateway's and the
// command registry's log messages are written to the provided sink.
func NewBot(ctx context.Context, config *Configuration, sink logger.Logger) *Bot {
	l := log.New()
	l.SetLevel(config.LogLevel)
	l.Debug("Creating Discord substrate bot ...")

	chainService := chain.NewChainService(
		l,
		func(ctx context.Context, url string) (chain.BlockHashReader, error) {
			return node.Dial(ctx, url, l)
		},
		config.Node.URL,
		config.Node.Timeout,
	)
	bot := &Bot{
		log:      l,
		ctx:      ctx,
		config:   config,
		gateway:  logger.NewStream(),
		registry: slash_command.NewRegistry(),
	}
	bot.gateway.Subscribe(sink)
	bot.registry.Log.Subscribe(sink)

	nodeBlock := NewNodeBlockCommand(ctx, sink, chainService)
	bot.registry.Add(nodeBlock.Definition(), nodeBlock.Handle)

	l.WithFields(log.Fields{
		"Mode": config.Mode,
		"Node": node.NormalizeURL(config.Node.URL),
	}).Info("Discord substrate bot created")
	return bot
}

// RegisterCommands registers the bot's commands to the test
// guild in development mode, globally otherwise.
func (bot *Bot) RegisterCommands(api slash_command.CommandsAPI, appID string) error {
	return bot.registry.Register(api, appID, RegistrationTarget(bot.config))
}

// Run creates a new discord session, adds the required intents
// and event handlers, opens the gateway connection and then
// blocks while the context is alive.
func (bot *Bot) Run() error {
	bot.log.Info("Creating new Discord session...")
	session, err := discordgo.New("Bot " + bot.config.Tokens.Discord)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	bot.session = session

	// Forward the gateway's own log messages to the sink
	discordgo.Logger = NewGatewayLogger(bot.gateway)
	session.LogLevel = GatewayLogLevel(bot.config.LogLevel)

	intentsHandler := &DiscordIntentsHandler{bot}
	intentsHandler.setIntents()

	eventHandler := &DiscordEventHandler{bot}
	eventHandler.setHandlers()

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() {
		bot.ready.Store(false)
		bot.log.Info("Closing discord session ... ")
		if err := bot.session.Close(); err != nil {
			bot.log.Warnf("Error when closing discord session: %v", err)
		}
	}()

	<-bot.ctx.Done()
	return nil
}
