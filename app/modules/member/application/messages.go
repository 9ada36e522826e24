package memberservice

import "github.com/Black-And-White-Club/lp-bot/app/platform"

// Button custom IDs posted by this module.
const (
	StartVerificationID = "start_validation"
	HelpID              = "need_help"
	AnalysisRequestID   = "analysis_request"
)

// HelpReply answers the help button.
const HelpReply = "Pour toute question, ouvrez un ticket dans le salon **#🙋-support** afin que notre staff puisse vous aider."

const welcomeColor = 14290703

const welcomeDescription = "Ici, tu profites de :\n" +
	"• Analyses & conseils privés\n" +
	"• Outils et salons exclusifs\n" +
	"• Récompenses grâce à tes LP (points)\n\n" +
	"Bonus de bienvenue (1er dépôt) :\n" +
	"• 50% de freebets offerts jusqu’à 200€\n" +
	"• Exemple : tu déposes 200€ → 100€ de freebets immédiatement + 200 LP\n\n" +
	"Notre partenaire Celsius nous permet d’offrir les meilleurs avantages aux membres.\n" +
	"Comment ça marche ?\n\n" +
	"Dépose via le bouton Lien affilié\n" +
	"Clique J’ai déposé\n" +
	"Plus tu déposes, plus tu gagnes de LP → bonus exclusifs\n" +
	"Dès 100 LP : on t’envoie un maillot de foot exclusif.\n\n" +
	"Besoin d’aide ? Clique Aide."

// WelcomeMessage builds the welcome embed. A non-empty userID mentions the member.
func WelcomeMessage(affiliateURL, userID string) platform.Message {
	msg := platform.Message{
		Embeds: []platform.Embed{{
			Title:       "Bienvenue dans la Betting School 👋",
			Description: welcomeDescription,
			Color:       welcomeColor,
		}},
	}
	if affiliateURL != "" {
		msg.Buttons = append(msg.Buttons, platform.Button{
			Label: "🔗 Lien affilié Celsius",
			Style: platform.ButtonLink,
			URL:   affiliateURL,
		})
	}
	msg.Buttons = append(msg.Buttons,
		platform.Button{CustomID: StartVerificationID, Label: "✅ J’ai déposé", Style: platform.ButtonSuccess},
		platform.Button{CustomID: HelpID, Label: "❓ Aide", Style: platform.ButtonSecondary},
	)
	if userID != "" {
		msg.Content = platform.Mention(userID)
	}
	return msg
}

// AnalysisRequestMessage builds the post carrying the ticket button.
func AnalysisRequestMessage() platform.Message {
	return platform.Message{
		Content: "Cliquez sur le bouton ci-dessous pour ouvrir un ticket d’analyse privé avec le staff.",
		Buttons: []platform.Button{
			{CustomID: AnalysisRequestID, Label: "📌 Demander une analyse", Style: platform.ButtonPrimary},
		},
	}
}
