package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/application"
	memberservice "github.com/Black-And-White-Club/lp-bot/app/modules/member/application"
	pointsservice "github.com/Black-And-White-Club/lp-bot/app/modules/points/application"
	ticketservice "github.com/Black-And-White-Club/lp-bot/app/modules/ticket/application"
	verificationservice "github.com/Black-And-White-Club/lp-bot/app/modules/verification/application"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Verification modal identifiers.
const (
	ModalID       = "validation_modal"
	fieldCelsius  = "celsius"
	fieldSponsor  = "sponsor"
	fieldEmail    = "email"
	pointsColor   = 0x00bfff
	modalTitle    = "Demande d'accès VIP"
	ticketCreated = "🎫 Votre ticket a été créé : %s"
)

// Reply texts.
const (
	replyPermissionDenied = "❌ Vous n’avez pas la permission d’utiliser cette commande."
	replyInvalidAmount    = "La quantité doit être un nombre positif."
	replyInvalidValue     = "La valeur de LP ne peut pas être négative."
	replyCommandFailed    = "❌ Une erreur est survenue lors du traitement de la commande."
	replyUnknownCommand   = "Commande non reconnue."
	replyPublished        = "✅ Classement publié."
	replyPublishFailed    = "❌ Le classement n’a pas pu être publié."
	replyNoChannel        = "❌ Aucun salon de classement n’est configuré."
	replyExported         = "📤 Export des points."
	replySubmitted        = "✅ Votre demande a été soumise au staff. Vous recevrez une réponse sous peu."
	replySubmitFailed     = "❌ Une erreur est survenue lors de l’envoi de votre demande."
	replyTicketFailed     = "Impossible de créer le ticket. Vérifiez mes permissions."
	replyTicketLimited    = "⏳ Vous avez ouvert un ticket récemment. Merci de patienter avant d’en créer un nouveau."
	replyAlreadyDecided   = "⚠️ Cette demande a déjà été traitée."
	replyApplicantMissing = "⚠️ Impossible de récupérer ce membre. Réessayez plus tard."
)

// Services are the application services reachable from interactions.
type Services struct {
	Points       pointsservice.Service
	Leaderboard  leaderboardservice.Service
	Verification verificationservice.Service
	Tickets      ticketservice.Service
}

// Router dispatches slash commands, buttons and modal submissions.
type Router struct {
	session  Session
	services Services
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewRouter creates a Router.
func NewRouter(session Session, services Services, logger *slog.Logger, tracer trace.Tracer) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{session: session, services: services, logger: logger, tracer: tracer}
}

// Handle processes one interaction. Every interaction is acknowledged.
func (r *Router) Handle(ctx context.Context, i *discordgo.Interaction) {
	ctx = attr.WithCorrelationID(ctx, i.ID)
	ctx, span := r.tracer.Start(ctx, "discord.interaction", trace.WithAttributes(
		attribute.String("interaction.type", i.Type.String()),
		attribute.String("interaction.id", i.ID),
	))
	defer span.End()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.handleCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		r.handleButton(ctx, i)
	case discordgo.InteractionModalSubmit:
		r.handleModal(ctx, i)
	default:
		r.logger.DebugContext(ctx, "Ignoring interaction", attr.ExtractCorrelationID(ctx), attr.String("type", i.Type.String()))
	}
}

func (r *Router) handleCommand(ctx context.Context, i *discordgo.Interaction) {
	if !r.respond(ctx, i, deferredReply()) {
		return
	}
	r.editReply(ctx, i, r.runCommand(ctx, i))
}

func (r *Router) runCommand(ctx context.Context, i *discordgo.Interaction) platform.Message {
	data := i.ApplicationCommandData()
	actor := actorOf(i)
	opts := commandOptions(data.Options)

	switch data.Name {
	case CommandAddLP:
		target := targetOption(data, opts)
		account, err := r.services.Points.AddLP(ctx, actor, target, intOption(opts, optionAmount))
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return text(fmt.Sprintf("✅ **%d LP** ajoutés à **%s** (total: %d).", intOption(opts, optionAmount), target.Tag, account.LP))
	case CommandSetLP:
		target := targetOption(data, opts)
		account, err := r.services.Points.SetLP(ctx, actor, target, intOption(opts, optionValue))
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return text(fmt.Sprintf("✅ Les LP de **%s** ont été définis à **%d**.", target.Tag, account.LP))
	case CommandAddSP:
		target := targetOption(data, opts)
		account, err := r.services.Points.AddSP(ctx, actor, target, intOption(opts, optionAmount))
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return text(fmt.Sprintf("✅ **%d SP** ajoutés à **%s** (total: %d).", intOption(opts, optionAmount), target.Tag, account.SP))
	case CommandRemoveSP:
		target := targetOption(data, opts)
		account, err := r.services.Points.RemoveSP(ctx, actor, target, intOption(opts, optionAmount))
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return text(fmt.Sprintf("✅ **%d SP** retirés de **%s** (total: %d).", intOption(opts, optionAmount), target.Tag, account.SP))
	case CommandMyPoints:
		summary, err := r.services.Points.GetMyPoints(ctx, actor.ID)
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return platform.Message{Embeds: []platform.Embed{{
			Title:       "Vos Points",
			Description: fmt.Sprintf("**LP :** %d\n**SP :** %d\n**Rang :** %s", summary.Account.LP, summary.Account.SP, summary.Tier.Label),
			Color:       pointsColor,
		}}}
	case CommandLeaderboard:
		msg, err := r.services.Leaderboard.GetLeaderboard(ctx)
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return msg
	case CommandPublishLeaderboard:
		result, err := r.services.Leaderboard.Publish(ctx, actor)
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		if result.Mode == botmetrics.PublishFailed {
			return text(replyPublishFailed)
		}
		return text(replyPublished)
	case CommandExportPoints:
		file, err := r.services.Leaderboard.ExportPoints(ctx, actor)
		if err != nil {
			return r.errorReply(ctx, data.Name, err)
		}
		return platform.Message{Content: replyExported, Files: []platform.File{file}}
	default:
		return text(replyUnknownCommand)
	}
}

func (r *Router) errorReply(ctx context.Context, command string, err error) platform.Message {
	switch {
	case errors.Is(err, pointsservice.ErrPermissionDenied), errors.Is(err, leaderboardservice.ErrPermissionDenied):
		return text(replyPermissionDenied)
	case errors.Is(err, pointsservice.ErrInvalidAmount):
		return text(replyInvalidAmount)
	case errors.Is(err, pointsservice.ErrInvalidValue):
		return text(replyInvalidValue)
	case errors.Is(err, leaderboardservice.ErrChannelNotConfigured):
		return text(replyNoChannel)
	}
	r.logger.ErrorContext(ctx, "Slash command failed",
		attr.ExtractCorrelationID(ctx),
		attr.String("command", command),
		attr.Error(err),
	)
	return text(replyCommandFailed)
}

func (r *Router) handleButton(ctx context.Context, i *discordgo.Interaction) {
	customID := i.MessageComponentData().CustomID
	switch customID {
	case memberservice.StartVerificationID:
		// A modal must be the first response to the interaction.
		r.respond(ctx, i, verificationModal())
	case memberservice.HelpID:
		r.respond(ctx, i, ephemeralReply(memberservice.HelpReply))
	case memberservice.AnalysisRequestID:
		if !r.respond(ctx, i, deferredReply()) {
			return
		}
		r.editReply(ctx, i, r.openTicket(ctx, i))
	default:
		decision, requestID, applicantID, ok := verificationdomain.ParseDecisionCustomID(customID)
		if !ok {
			r.logger.WarnContext(ctx, "Unknown button", attr.ExtractCorrelationID(ctx), attr.String("custom_id", customID))
			r.respond(ctx, i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate})
			return
		}
		r.handleDecision(ctx, i, decision, verificationservice.DecisionInput{
			RequestID:   requestID,
			ApplicantID: applicantID,
			ChannelID:   i.ChannelID,
			MessageID:   messageID(i),
		})
	}
}

func (r *Router) openTicket(ctx context.Context, i *discordgo.Interaction) platform.Message {
	ticket, err := r.services.Tickets.Open(ctx, actorOf(i), i.ChannelID)
	switch {
	case err == nil:
		return text(fmt.Sprintf(ticketCreated, ticketservice.ChannelMention(ticket.ThreadID)))
	case errors.Is(err, ticketservice.ErrTicketRateLimited):
		return text(replyTicketLimited)
	default:
		return text(replyTicketFailed)
	}
}

func (r *Router) handleDecision(ctx context.Context, i *discordgo.Interaction, decision verificationdomain.Decision, in verificationservice.DecisionInput) {
	if !r.respond(ctx, i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}) {
		return
	}

	var err error
	actor := actorOf(i)
	switch decision {
	case verificationdomain.DecisionApprove:
		_, err = r.services.Verification.Approve(ctx, actor, in)
	case verificationdomain.DecisionReject:
		_, err = r.services.Verification.Reject(ctx, actor, in)
	}
	if err == nil {
		return
	}

	reply := replyCommandFailed
	switch {
	case errors.Is(err, verificationservice.ErrPermissionDenied):
		reply = replyPermissionDenied
	case errors.Is(err, verificationdomain.ErrAlreadyDecided):
		reply = replyAlreadyDecided
	case errors.Is(err, verificationservice.ErrApplicantUnavailable):
		reply = replyApplicantMissing
	default:
		r.logger.ErrorContext(ctx, "Verification decision failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("request_id", in.RequestID),
			attr.Error(err),
		)
	}
	r.followUp(ctx, i, reply)
}

func (r *Router) handleModal(ctx context.Context, i *discordgo.Interaction) {
	data := i.ModalSubmitData()
	if data.CustomID != ModalID {
		r.logger.WarnContext(ctx, "Unknown modal", attr.ExtractCorrelationID(ctx), attr.String("custom_id", data.CustomID))
		return
	}
	if !r.respond(ctx, i, deferredReply()) {
		return
	}

	values := modalValues(data)
	_, err := r.services.Verification.Submit(ctx, actorOf(i), verificationdomain.Submission{
		CelsiusHandle: values[fieldCelsius],
		Sponsor:       values[fieldSponsor],
		Email:         values[fieldEmail],
	})
	switch {
	case err == nil:
		r.editReply(ctx, i, text(replySubmitted))
	case errors.Is(err, verificationdomain.ErrInvalidSubmission):
		r.editReply(ctx, i, text("❌ "+verificationservice.ValidationMessage(err)))
	default:
		r.editReply(ctx, i, text(replySubmitFailed))
	}
}

func (r *Router) respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) bool {
	if err := r.session.InteractionRespond(i, resp, discordgo.WithContext(ctx)); err != nil {
		r.logger.WarnContext(ctx, "Failed to acknowledge interaction", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return false
	}
	return true
}

func (r *Router) editReply(ctx context.Context, i *discordgo.Interaction, msg platform.Message) {
	if _, err := r.session.InteractionResponseEdit(i, toWebhookEdit(msg), discordgo.WithContext(ctx)); err != nil {
		r.logger.WarnContext(ctx, "Failed to edit interaction reply", attr.ExtractCorrelationID(ctx), attr.Error(err))
	}
}

func (r *Router) followUp(ctx context.Context, i *discordgo.Interaction, content string) {
	_, err := r.session.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to send follow-up", attr.ExtractCorrelationID(ctx), attr.Error(err))
	}
}

func deferredReply() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
}

func ephemeralReply(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	}
}

func verificationModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: ModalID,
			Title:    modalTitle,
			Components: []discordgo.MessageComponent{
				textInputRow(discordgo.TextInput{CustomID: fieldCelsius, Label: "Votre pseudo Celsius", Style: discordgo.TextInputShort, Required: true, MaxLength: 100}),
				textInputRow(discordgo.TextInput{CustomID: fieldSponsor, Label: "Parrain (si vous en avez un)", Style: discordgo.TextInputShort, MaxLength: 100}),
				textInputRow(discordgo.TextInput{CustomID: fieldEmail, Label: "Votre adresse email", Style: discordgo.TextInputShort, Required: true, Placeholder: "exemple@email.com", MaxLength: 254}),
			},
		},
	}
}

func textInputRow(input discordgo.TextInput) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}}
}

func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

func commandOptions(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		out[opt.Name] = opt
	}
	return out
}

func targetOption(data discordgo.ApplicationCommandInteractionData, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) platform.Actor {
	opt, ok := opts[optionUser]
	if !ok {
		return platform.Actor{}
	}
	id, _ := opt.Value.(string)
	target := platform.Actor{ID: id, Tag: id}
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok && u != nil {
			target.Tag = u.String()
		}
	}
	return target
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0
	}
	return opt.IntValue()
}

func actorOf(i *discordgo.Interaction) platform.Actor {
	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil {
		return platform.Actor{}
	}
	return platform.Actor{ID: user.ID, Tag: user.String()}
}

func messageID(i *discordgo.Interaction) string {
	if i.Message == nil {
		return ""
	}
	return i.Message.ID
}

func text(content string) platform.Message {
	return platform.Message{Content: content}
}
