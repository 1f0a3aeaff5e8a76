// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/history"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Manage the saved password history used for similarity checks",
	}

	historyAddCmd = &cobra.Command{
		Use:   "add [PASSWORD]",
		Short: "Save a password, refusing ones similar to saved passwords unless forced",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			}
			return historyAddCommand(cmd.OutOrStdout(), password)
		},
	}

	historyListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved passwords, newest first, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyListCommand(cmd.OutOrStdout())
		},
	}

	historyRemoveCmd = &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a saved password",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyRemoveCommand(cmd.OutOrStdout(), args[0])
		},
	}

	historyLabelCmd = &cobra.Command{
		Use:   "label ID",
		Short: "Replace the labels of a saved password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyLabelCommand(cmd.OutOrStdout(), args[0])
		},
	}
)

func init() {
	historyAddCmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Labels for the password, repeat or separate with commas")
	historyAddCmd.Flags().BoolVarP(&force, "force", "f", false, "Save even if the password is similar to a saved one")
	historyListCmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Only list passwords carrying this label")
	historyLabelCmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "New labels, an empty list clears them")

	historyCmd.AddCommand(historyAddCmd, historyListCmd, historyRemoveCmd, historyLabelCmd)
	rootCmd.AddCommand(historyCmd)
}

func withHistory(fn func(store *history.Store) error) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(store)
}

func promptPassword() (string, error) {
	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a valid password")
			}
			return nil
		},
	}
	return prompt.Run()
}

func historyAddCommand(out io.Writer, password string) error {
	return withHistory(func(store *history.Store) error {
		if password == "" {
			var err error
			if password, err = promptPassword(); err != nil {
				return err
			}
		}

		entry, sim, err := store.Add(password, labels, force)
		if errors.Is(err, history.ErrSimilar) {
			writeSimilarity(out, sim)
			return fmt.Errorf("%w, use --force to save it anyway", err)
		}
		if err != nil {
			return err
		}

		if sim.Similar {
			log.Warn().Msgf("saved despite similarity: %s", sim.Reason)
		}
		fmt.Fprintf(out, "Saved %s (%.2f bits)\n", entry.ID, entry.EntropyBits)
		return nil
	})
}

func historyListCommand(out io.Writer) error {
	return withHistory(func(store *history.Store) error {
		filter := ""
		if len(labels) > 0 {
			filter = labels[0]
		}

		entries, err := store.List(filter)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPASSWORD\tCREATED\tENTROPY\tLABELS")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n",
				e.ID, e.Masked(), e.CreatedAt.Local().Format(time.DateTime), e.EntropyBits, strings.Join(e.Labels, ","))
		}
		return tw.Flush()
	})
}

func historyRemoveCommand(out io.Writer, id string) error {
	return withHistory(func(store *history.Store) error {
		if err := store.Remove(id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s\n", id)
		return nil
	})
}

func historyLabelCommand(out io.Writer, id string) error {
	return withHistory(func(store *history.Store) error {
		entry, err := store.SetLabels(id, labels)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s labels: %s\n", entry.ID, strings.Join(entry.Labels, ","))
		return nil
	})
}
