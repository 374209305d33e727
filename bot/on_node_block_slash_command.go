package bot

import (
	"context"
	"fmt"
	"substrate-discord-bot/bot/slash_command"
	"substrate-discord-bot/logger"
	"substrate-discord-bot/model"
	"substrate-discord-bot/node"

	"github.com/bwmarrin/discordgo"
)

const (
	NodeBlockCommandName = "node-block"
	nodeBlockSource      = "NodeCommand : NodeBlock"
)

// BlockHashFetcher fetches the current block hash from a node.
type BlockHashFetcher interface {
	FetchBlockHash(ctx context.Context) model.BlockHashResult
	URL() string
}

type NodeBlockCommand struct {
	ctx   context.Context
	log   logger.Logger
	chain BlockHashFetcher
}

// NewNodeBlockCommand constructs the command that replies with
// the node's current block hash. Every invocation opens its own
// connection to the node, so invocations may run concurrently.
func NewNodeBlockCommand(ctx context.Context, l logger.Logger, chain BlockHashFetcher) *NodeBlockCommand {
	return &NodeBlockCommand{
		ctx:   ctx,
		log:   l,
		chain: chain,
	}
}

func (command *NodeBlockCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        NodeBlockCommandName,
		Description: "get block hash",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "mention",
				Description: "mention the user",
				Required:    false,
			},
		},
	}
}

// Handle is called when the node-block slash command is used.
// It responds right away, as fetching the hash may take longer
// than discord waits for a response, then sends the hash, or the
// reason it could not be fetched, as an ephemeral follow up.
// TODO: the mention option is declared but not used yet, read
// it with boolOption once its expected behavior is confirmed.
func (command *NodeBlockCommand) Handle(r slash_command.Responder, i *discordgo.InteractionCreate) {
	command.log.Log(logger.LogMessage{
		Severity: logger.Info,
		Source:   nodeBlockSource,
		Message: fmt.Sprintf(
			"User: %s, Command: %s",
			interactionUsername(i.Interaction),
			NodeBlockCommandName,
		),
	})

	if err := r.InteractionRespond(
		i.Interaction,
		&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: fmt.Sprintf(
					"Connecting to node %s, please wait ...",
					node.NormalizeURL(command.chain.URL()),
				),
			},
		}); err != nil {
		command.log.Log(logger.LogMessage{
			Severity:  logger.Error,
			Source:    nodeBlockSource,
			Message:   "Error when responding to node-block command",
			Exception: err,
		})
		return
	}

	result := command.fetchBlockHash()

	content := fmt.Sprintf("The current block hash is %s", result.Hash)
	if !result.OK() {
		content = fmt.Sprintf("Could not fetch the current block hash: %v", result.Err)
		command.log.Log(logger.LogMessage{
			Severity:  logger.Warning,
			Source:    nodeBlockSource,
			Message:   "Could not fetch the current block hash",
			Exception: result.Err,
		})
	}
	if _, err := r.FollowupMessageCreate(
		i.Interaction,
		true,
		&discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		}); err != nil {
		command.log.Log(logger.LogMessage{
			Severity:  logger.Error,
			Source:    nodeBlockSource,
			Message:   "Error when sending node-block follow up",
			Exception: err,
		})
	}
}

// boolOption returns the value of the boolean option with the
// provided name, or def if the option was not provided.
func boolOption(data discordgo.ApplicationCommandInteractionData, name string, def bool) bool {
	for _, o := range data.Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionBoolean {
			return o.BoolValue()
		}
	}
	return def
}

// fetchBlockHash turns a panic while talking to the node into
// a failed result, so the pending reply is always resolved.
func (command *NodeBlockCommand) fetchBlockHash() (result model.BlockHashResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.BlockHashResult{Err: fmt.Errorf("unexpected failure: %v", r)}
			command.log.Log(logger.LogMessage{
				Severity:  logger.Error,
				Source:    nodeBlockSource,
				Message:   "Recovered from panic when fetching block hash",
				Exception: result.Err,
			})
		}
	}()
	return command.chain.FetchBlockHash(command.ctx)
}

// interactionUsername returns the name of the user that created
// the interaction, members in guilds and users in direct messages.
func interactionUsername(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return "unknown"
}
