package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

var _ Notifier = (*Bot)(nil)

// Bot is the Discord adapter. Survey turns arrive as direct messages.
type Bot struct {
	session *discordgo.Session
	handler *Handler
}

func NewBot(token string, handler *Handler) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création de la session Discord: %w", err)
	}
	s.Identify.Intents = discordgo.IntentDirectMessages | discordgo.IntentMessageContent

	bot := &Bot{
		session: s,
		handler: handler,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	replies := b.handler.Dispatch(context.Background(), Turn{Identity: m.Author.ID, Text: m.Content})
	for _, r := range replies {
		if _, err := s.ChannelMessageSendComplex(m.ChannelID, b.handler.render("", r).send()); err != nil {
			log.Printf("❌ Erreur lors de l'envoi du message à %s: %v", m.Author.ID, err)
		}
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	user := resolveUser(i)
	if user == nil {
		return
	}
	data := i.MessageComponentData()
	locale := string(i.Locale)
	replies := b.handler.HandleComponent(context.Background(), Turn{Identity: user.ID, Locale: locale}, data.CustomID, data.Values)
	if len(replies) == 0 {
		respondEphemeral(s, i.Interaction, "…")
		return
	}

	first := b.handler.render(locale, replies[0])
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: first.interactionData(),
	})
	if err != nil {
		log.Printf("❌ Erreur lors de la réponse à l'interaction %s: %v", data.CustomID, err)
		return
	}
	for _, r := range replies[1:] {
		if _, err := s.FollowupMessageCreate(i.Interaction, true, b.handler.render(locale, r).webhook()); err != nil {
			log.Printf("❌ Erreur lors de l'envoi du suivi: %v", err)
		}
	}
}

// Notify sends content to identity in a direct message.
func (b *Bot) Notify(identity, content string) error {
	ch, err := b.session.UserChannelCreate(identity)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	if _, err := b.session.ChannelMessageSend(ch.ID, content); err != nil {
		return fmt.Errorf("send DM: %w", err)
	}
	return nil
}

// Run keeps the gateway connection open until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer b.session.Close()

	log.Println("🤖 Bot en ligne ! Appuyez sur CTRL+C pour quitter.")
	<-ctx.Done()
	log.Println("👋 Arrêt du bot.")
	return nil
}
