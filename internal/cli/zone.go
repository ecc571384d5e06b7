package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/uat/internal/ports/primary"
)

// ZoneCmd returns the zone command
func ZoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Manage UAS zones",
		Long: `Create, list and delete UAS zones. Geometry is typed: CIRCLE zones need
--radius, CORRIDOR zones need --width, POLYGON zones need neither.`,
	}

	cmd.AddCommand(zoneCreateCmd())
	cmd.AddCommand(zoneListCmd())
	cmd.AddCommand(zoneDeleteCmd())

	return cmd
}

func zoneCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a UAS zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			areaType, _ := cmd.Flags().GetString("type")
			orgIDs, _ := cmd.Flags().GetInt64Slice("org")
			reasonIDs, _ := cmd.Flags().GetInt64Slice("reason")

			req := primary.CreateZoneRequest{
				Name:      args[0],
				AreaType:  areaType,
				OrgIDs:    orgIDs,
				ReasonIDs: reasonIDs,
			}
			if cmd.Flags().Changed("radius") {
				v, _ := cmd.Flags().GetFloat64("radius")
				req.RadiusM = &v
			}
			if cmd.Flags().Changed("width") {
				v, _ := cmd.Flags().GetFloat64("width")
				req.WidthM = &v
			}
			if cmd.Flags().Changed("lower") {
				v, _ := cmd.Flags().GetFloat64("lower")
				req.LowerLimitM = &v
			}
			if cmd.Flags().Changed("upper") {
				v, _ := cmd.Flags().GetFloat64("upper")
				req.UpperLimitM = &v
			}

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}
			req.EnvironmentID = env.ID
			req.Actor = cfg.Actor

			zone, err := ref.CreateZone(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create zone: %w", err)
			}
			fmt.Printf("✓ Created zone %s (id %d, %s)\n", zone.Name, zone.ID, zone.AreaType)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("type", "", "CIRCLE, POLYGON or CORRIDOR")
	cmd.Flags().Float64("radius", 0, "radius in metres (CIRCLE)")
	cmd.Flags().Float64("width", 0, "width in metres (CORRIDOR)")
	cmd.Flags().Float64("lower", 0, "lower altitude limit in metres")
	cmd.Flags().Float64("upper", 0, "upper altitude limit in metres")
	cmd.Flags().Int64Slice("org", nil, "authorized U-hub org id (repeatable)")
	cmd.Flags().Int64Slice("reason", nil, "restriction reason id (repeatable)")
	return cmd
}

func zoneListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List UAS zones",
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			zones, err := ref.ListZones(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list zones: %w", err)
			}
			if len(zones) == 0 {
				fmt.Println("No zones found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tORGS\tREASONS")
			for _, z := range zones {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n",
					z.ID, z.Name, z.AreaType, len(z.Orgs), len(z.Reasons))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func zoneDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [zone-id]",
		Short: "Delete a UAS zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zoneID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid zone id %q", args[0])
			}

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			deleted, err := ref.DeleteZone(context.Background(), zoneID)
			if err != nil {
				return fmt.Errorf("failed to delete zone (used by a case?): %w", err)
			}
			if !deleted {
				return fmt.Errorf("zone %d not found", zoneID)
			}
			fmt.Printf("✓ Deleted zone %d\n", zoneID)
			return nil
		},
	}
}
