package discord

import (
	"bytes"
	"time"

	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/bwmarrin/discordgo"
)

const buttonsPerRow = 5

var buttonStyles = map[platform.ButtonStyle]discordgo.ButtonStyle{
	platform.ButtonPrimary:   discordgo.PrimaryButton,
	platform.ButtonSecondary: discordgo.SecondaryButton,
	platform.ButtonSuccess:   discordgo.SuccessButton,
	platform.ButtonDanger:    discordgo.DangerButton,
	platform.ButtonLink:      discordgo.LinkButton,
}

// now is replaced in tests.
var now = time.Now

func toMessageSend(msg platform.Message) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         msg.Content,
		Embeds:          toEmbeds(msg.Embeds),
		Components:      toComponents(msg.Buttons),
		Files:           toFiles(msg.Files),
		AllowedMentions: allowedMentions(msg),
	}
}

func toMessageEdit(channelID, messageID string, msg platform.Message) *discordgo.MessageEdit {
	content := msg.Content
	embeds := toEmbeds(msg.Embeds)
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := toComponents(msg.Buttons)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	attachments := []*discordgo.MessageAttachment{}
	return &discordgo.MessageEdit{
		ID:          messageID,
		Channel:     channelID,
		Content:     &content,
		Embeds:      &embeds,
		Components:  &components,
		Files:       toFiles(msg.Files),
		Attachments: &attachments,
	}
}

func toWebhookEdit(msg platform.Message) *discordgo.WebhookEdit {
	content := msg.Content
	embeds := toEmbeds(msg.Embeds)
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := toComponents(msg.Buttons)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
		Files:      toFiles(msg.Files),
	}
}

// allowedMentions restricts pings to users, so role and everyone mentions in
// user-supplied text stay inert.
func allowedMentions(msg platform.Message) *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{
		Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
	}
}

func toEmbeds(embeds []platform.Embed) []*discordgo.MessageEmbed {
	if len(embeds) == 0 {
		return nil
	}
	out := make([]*discordgo.MessageEmbed, len(embeds))
	for i, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		if e.ImageURL != "" {
			me.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		if e.Timestamp {
			me.Timestamp = now().UTC().Format(time.RFC3339)
		}
		out[i] = me
	}
	return out
}

func toComponents(buttons []platform.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += buttonsPerRow {
		end := min(start+buttonsPerRow, len(buttons))
		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			btn := discordgo.Button{
				Label: b.Label,
				Style: buttonStyles[b.Style],
			}
			if btn.Style == 0 {
				btn.Style = discordgo.PrimaryButton
			}
			if b.Style == platform.ButtonLink {
				btn.URL = b.URL
			} else {
				btn.CustomID = b.CustomID
			}
			if b.Emoji != "" {
				btn.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
			}
			row.Components = append(row.Components, btn)
		}
		rows = append(rows, row)
	}
	return rows
}

func toFiles(files []platform.File) []*discordgo.File {
	if len(files) == 0 {
		return nil
	}
	out := make([]*discordgo.File, len(files))
	for i, f := range files {
		out[i] = &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		}
	}
	return out
}
