package discord

import "github.com/bwmarrin/discordgo"

// Slash command names.
const (
	CommandAddLP              = "addlp"
	CommandSetLP              = "setlp"
	CommandAddSP              = "addsp"
	CommandRemoveSP           = "removesp"
	CommandMyPoints           = "mypoints"
	CommandLeaderboard        = "leaderboard"
	CommandPublishLeaderboard = "publishleaderboard"
	CommandExportPoints       = "exportpoints"
)

const (
	optionUser   = "utilisateur"
	optionAmount = "quantité"
	optionValue  = "valeur"
)

var staffPermissions int64 = discordgo.PermissionManageRoles

// Commands returns the guild slash commands registered at startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		pointsCommand(CommandAddLP, "Ajouter des LP à un utilisateur.", optionAmount, "Nombre de LP à ajouter", 1),
		pointsCommand(CommandSetLP, "Définir le nombre de LP d’un utilisateur.", optionValue, "Nouveau total de LP", 0),
		pointsCommand(CommandAddSP, "Ajouter des SP à un utilisateur.", optionAmount, "Nombre de SP à ajouter", 1),
		pointsCommand(CommandRemoveSP, "Retirer des SP à un utilisateur.", optionAmount, "Nombre de SP à retirer", 1),
		{
			Name:        CommandMyPoints,
			Description: "Afficher vos LP, SP et votre rang.",
		},
		{
			Name:        CommandLeaderboard,
			Description: "Afficher le classement des 10 meilleurs LP.",
		},
		{
			Name:                     CommandPublishLeaderboard,
			Description:              "Publier ou mettre à jour le classement dans le salon dédié.",
			DefaultMemberPermissions: &staffPermissions,
		},
		{
			Name:                     CommandExportPoints,
			Description:              "Exporter les points de tous les membres au format Excel.",
			DefaultMemberPermissions: &staffPermissions,
		},
	}
}

func pointsCommand(name, description, valueOption, valueDescription string, minValue float64) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     name,
		Description:              description,
		DefaultMemberPermissions: &staffPermissions,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        optionUser,
				Description: "Membre concerné",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        valueOption,
				Description: valueDescription,
				Required:    true,
				MinValue:    &minValue,
			},
		},
	}
}
