package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage domain configuration"}
	cmd.AddCommand(configGetCommand(), configSetCommand(), configListCommand())
	return cmd
}

func configGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			value, ok, err := q.GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("(unset)")
				return nil
			}
			fmt.Println(value)
			return nil
		},
	}
}

func configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := q.SetConfig(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printSuccess("%s = %s", args[0], args[1])
			return nil
		},
	}
}

func configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all config values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			all, err := q.AllConfig(cmd.Context())
			if err != nil {
				return err
			}
			for k, v := range all {
				fmt.Printf("%s = %s\n", k, v)
			}
			return nil
		},
	}
}
