package cli

import (
	"github.com/spf13/cobra"

	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/services"
)

func (a *App) formCommands() []*cobra.Command {
	var uploadUser int64
	upload := &cobra.Command{
		Use:   "upload <photo>",
		Short: "List an item from a JPEG or PNG photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.forms.UploadItem(cmd.Context(), uploadUser, args[0])
			return err
		},
	}
	upload.Flags().Int64Var(&uploadUser, "user", 0, "act as this user id")

	var (
		barterUser int64
		intent     models.BarterIntentCreate
	)
	barter := &cobra.Command{
		Use:   "barter",
		Short: "Offer one of your items for a wanted category",
		Long: `Offer one of your items for a wanted category.

Without --item the item chosen with "select item <id>" is offered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.forms.PostBarterIntent(cmd.Context(), barterUser, intent)
			return err
		},
	}
	barter.Flags().Int64Var(&barterUser, "user", 0, "act as this user id")
	barter.Flags().Int64Var(&intent.ItemID, "item", 0, "item id to offer")
	barter.Flags().StringVar(&intent.WantCategory, "want", "", "wanted category")
	barter.Flags().StringVar(&intent.WantDescription, "desc", "", "what exactly you want")
	barter.Flags().BoolVar(&intent.Emergency, "emergency", false, "mark the request urgent")
	_ = barter.MarkFlagRequired("want")

	var (
		reportUser int64
		report     services.LostFoundInput
	)
	reportCmd := &cobra.Command{
		Use:   "report <lost|found> <item name>",
		Short: "Report a lost or found item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report.Type, report.ItemName = args[0], args[1]
			_, err := a.forms.ReportLostFound(cmd.Context(), reportUser, report)
			return err
		},
	}
	reportCmd.Flags().Int64Var(&reportUser, "user", 0, "act as this user id")
	reportCmd.Flags().StringVar(&report.Category, "category", "", "category")
	reportCmd.Flags().StringVar(&report.Description, "desc", "", "description")
	reportCmd.Flags().StringVar(&report.PhotoPath, "photo", "", "optional JPEG or PNG photo")

	return []*cobra.Command{upload, barter, reportCmd}
}
