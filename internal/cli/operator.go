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

// OperatorCmd returns the operator command
func OperatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage drone operators and their drones",
		Long:  `Register contact emails, operators and the drones they fly.`,
	}

	cmd.AddCommand(operatorCreateCmd())
	cmd.AddCommand(operatorListCmd())
	cmd.AddCommand(operatorDeleteCmd())
	cmd.AddCommand(operatorEmailCmd())
	cmd.AddCommand(operatorDroneCmd())

	return cmd
}

func operatorCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register an operator",
		Long: `Register an operator. The contact email must already exist; create it
with 'uat operator email add'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			address, _ := cmd.Flags().GetString("email")
			easaID, _ := cmd.Flags().GetString("easa-id")
			phone, _ := cmd.Flags().GetString("phone")

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

			emails, err := ref.ListEmails(ctx, env.ID)
			if err != nil {
				return err
			}
			var emailID int64
			for _, e := range emails {
				if e.Address == address {
					emailID = e.ID
					break
				}
			}
			if emailID == 0 {
				return fmt.Errorf("email %q not registered\nHint: uat operator email add %s --env %s", address, address, envName)
			}

			operator, err := ref.CreateOperator(ctx, primary.CreateOperatorRequest{
				EnvironmentID: env.ID,
				EmailID:       emailID,
				Name:          args[0],
				EasaID:        easaID,
				Phone:         phone,
				Actor:         cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to create operator: %w", err)
			}
			fmt.Printf("✓ Registered operator %s (id %d)\n", operator.Name, operator.ID)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("email", "", "contact email address (must exist)")
	cmd.Flags().String("easa-id", "", "EASA operator registration id")
	cmd.Flags().String("phone", "", "contact phone")
	return cmd
}

func operatorListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operators",
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

			operators, err := ref.ListOperators(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list operators: %w", err)
			}
			if len(operators) == 0 {
				fmt.Println("No operators found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEASA ID\tPHONE")
			for _, op := range operators {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					op.ID, op.Name, op.EasaID.String, op.Phone.String)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func operatorDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [operator-id]",
		Short: "Delete an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operatorID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid operator id %q", args[0])
			}

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			deleted, err := ref.DeleteOperator(context.Background(), operatorID)
			if err != nil {
				return fmt.Errorf("failed to delete operator (still owns drones?): %w", err)
			}
			if !deleted {
				return fmt.Errorf("operator %d not found", operatorID)
			}
			fmt.Printf("✓ Deleted operator %d\n", operatorID)
			return nil
		},
	}
}

func operatorEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Manage contact emails",
	}

	add := &cobra.Command{
		Use:   "add [address]",
		Short: "Register a contact email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")

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

			email, err := ref.CreateEmail(ctx, env.ID, args[0], cfg.Actor)
			if err != nil {
				return fmt.Errorf("failed to add email: %w", err)
			}
			fmt.Printf("✓ Registered email %s (id %d)\n", email.Address, email.ID)
			return nil
		},
	}
	add.Flags().String("env", "", "environment name")

	cmd.AddCommand(add)
	return cmd
}

func operatorDroneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drone",
		Short: "Manage drones",
	}

	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a drone under an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			operatorID, _ := cmd.Flags().GetInt64("operator")
			serial, _ := cmd.Flags().GetString("serial")
			manufacturer, _ := cmd.Flags().GetString("manufacturer")
			model, _ := cmd.Flags().GetString("model")

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

			drone, err := ref.CreateDrone(ctx, primary.CreateDroneRequest{
				EnvironmentID: env.ID,
				OperatorID:    operatorID,
				Name:          args[0],
				SerialNumber:  serial,
				Manufacturer:  manufacturer,
				Model:         model,
				Actor:         cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to add drone: %w", err)
			}
			fmt.Printf("✓ Registered drone %s (id %d)\n", drone.Name, drone.ID)
			return nil
		},
	}
	add.Flags().String("env", "", "environment name")
	add.Flags().Int64("operator", 0, "owning operator id")
	add.Flags().String("serial", "", "serial number")
	add.Flags().String("manufacturer", "", "manufacturer")
	add.Flags().String("model", "", "model")

	list := &cobra.Command{
		Use:   "list",
		Short: "List drones",
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

			drones, err := ref.ListDrones(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list drones: %w", err)
			}
			if len(drones) == 0 {
				fmt.Println("No drones found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSERIAL\tOPERATOR")
			for _, d := range drones {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", d.ID, d.Name, d.SerialNumber, d.OperatorID)
			}
			w.Flush()
			return nil
		},
	}
	list.Flags().String("env", "", "environment name")

	cmd.AddCommand(add)
	cmd.AddCommand(list)
	return cmd
}
