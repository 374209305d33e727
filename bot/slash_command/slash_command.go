package slash_command

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"substrate-discord-bot/logger"

	"github.com/bwmarrin/discordgo"
)

const source = "Interactions"

// Responder is the part of the discord session used by
// command handlers to reply to an interaction.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error)
}

// CommandsAPI is the part of the discord session used to
// declare application commands.
type CommandsAPI interface {
	ApplicationCommands(appID, guildID string) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string) error
}

type Handler func(r Responder, i *discordgo.InteractionCreate)

type command struct {
	definition *discordgo.ApplicationCommand
	handler    Handler
}

type Registry struct {
	Log      *logger.Stream
	commands map[string]*command
	mutex    sync.RWMutex
}

// NewRegistry constructs an object that declares the bot's
// slash commands to discord and routes their invocations
// to the handlers.
func NewRegistry() *Registry {
	return &Registry{
		Log:      logger.NewStream(),
		commands: make(map[string]*command),
	}
}

// Add adds a command definition and the handler called
// when the command is invoked. A command with the same name
// is replaced.
func (registry *Registry) Add(definition *discordgo.ApplicationCommand, handler Handler) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	registry.commands[strings.TrimSpace(definition.Name)] = &command{
		definition: definition,
		handler:    handler,
	}
}

// Commands returns the definitions of all added commands
// ordered by name.
func (registry *Registry) Commands() []*discordgo.ApplicationCommand {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	commands := make([]*discordgo.ApplicationCommand, 0, len(registry.commands))
	for _, c := range registry.commands {
		commands = append(commands, c.definition)
	}
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})
	return commands
}

// Register deletes the commands previously registered by the
// application that are no longer defined, then registers the
// new and changed ones. When guildID is empty the commands are
// registered globally, which may take up to an hour to reach
// every guild, otherwise they are registered only to the guild.
func (registry *Registry) Register(api CommandsAPI, appID string, guildID string) error {
	scope := "global"
	if len(guildID) > 0 {
		scope = "guild " + guildID
	}
	registry.Log.EmitText(
		logger.Info,
		source,
		fmt.Sprintf("Registering application commands (%s)", scope),
	)
	commands := registry.Commands()

	registeredCommands, err := api.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("could not fetch %s application commands: %w", scope, err)
	}
	toDelete := make([]*discordgo.ApplicationCommand, 0)
	toAdd := make([]*discordgo.ApplicationCommand, 0)

	for _, v := range registeredCommands {
		del := true
		for _, v2 := range commands {
			if v.Name == v2.Name {
				del = false
				break
			}
		}
		if del {
			toDelete = append(toDelete, v)
		}
	}
	for _, v := range commands {
		add := true
		for _, v2 := range registeredCommands {
			if equalCommands(v, v2) {
				add = false
				break
			}
		}
		if add {
			toAdd = append(toAdd, v)
		}
	}
	for _, v := range toDelete {
		registry.Log.EmitText(
			logger.Debug,
			source,
			fmt.Sprintf("Deleting %s application command '%s'", scope, v.Name),
		)
		if err := api.ApplicationCommandDelete(appID, guildID, v.ID); err != nil {
			return fmt.Errorf("could not delete %s application command '%v': %w", scope, v.Name, err)
		}
	}
	// NOTE: creating a command with the name of an existing
	// one overwrites it
	for _, cmd := range toAdd {
		registry.Log.EmitText(
			logger.Debug,
			source,
			fmt.Sprintf("Creating %s application command '%s'", scope, cmd.Name),
		)
		if _, err := api.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			return fmt.Errorf("could not create %s application command '%v': %w", scope, cmd.Name, err)
		}
	}
	registry.Log.EmitText(
		logger.Info,
		source,
		fmt.Sprintf(
			"Registered application commands (%s): %d deleted, %d created, %d unchanged",
			scope, len(toDelete), len(toAdd), len(commands)-len(toAdd),
		),
	)
	return nil
}

// Handle calls the handler of the application command the
// interaction invokes. Other interactions are ignored.
func (registry *Registry) Handle(r Responder, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := strings.TrimSpace(i.ApplicationCommandData().Name)

	registry.mutex.RLock()
	c, ok := registry.commands[name]
	registry.mutex.RUnlock()

	if !ok {
		registry.Log.EmitText(
			logger.Warning,
			source,
			fmt.Sprintf("Unknown application command '%s'", name),
		)
		return
	}
	registry.Log.EmitText(
		logger.Verbose,
		source,
		fmt.Sprintf("Executing application command '%s'", name),
	)
	c.handler(r, i)
}

func equalCommands(a *discordgo.ApplicationCommand, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for idx, o := range a.Options {
		o2 := b.Options[idx]
		if o.Name != o2.Name || o.Description != o2.Description ||
			o.Type != o2.Type || o.Required != o2.Required {
			return false
		}
	}
	return true
}
