// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"io"

	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	analyzeCmd = &cobra.Command{
		Use:   "analyze [PASSWORD]",
		Short: "Estimate the strength of a password",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return analyzeCommand(cmd.Context(), cmd.OutOrStdout(), "")
			}
			return analyzeCommand(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
)

func init() {
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode, the password is read from a masked prompt.")
	analyzeCmd.Flags().BoolVar(&noBreach, "no-breach", false, "Skip the breach lookup.")
	analyzeCmd.Flags().StringVar(&remoteURL, "remote-url", "", "Deep analysis endpoint. Overrides ANALYSIS_URL.")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON.")
	analyzeCmd.Flags().BoolVar(&checkHistory, "check-history", false, "Compare the password with the saved history.")
	analyzeCmd.Flags().IntVar(&suggestionCount, "suggestions", 3, "Number of random strong suggestions to include.")

	rootCmd.AddCommand(analyzeCmd)
}

func analyzeCommand(ctx context.Context, out io.Writer, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	breach, err := newBreachClient(cfg)
	if err != nil {
		return err
	}
	if breach != nil {
		defer func() {
			breach.LogSummary()
			breach.Close()
		}()
	}

	session := analysis.NewSession(newAnalyzer(cfg, breach, suggestionCount))

	if !interactive {
		return analyzeOne(ctx, out, cfg, session, password)
	}

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

	log.Info().Msgf("Running interactive session. ^C to exit")
	for {
		result, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msgf("Goodbye")
			} else {
				log.Error().Err(err).Msgf("Error during interactive session")
			}
			// No return to avoid the default cobra error message
			return nil
		}

		if err = analyzeOne(ctx, out, cfg, session, result); err != nil {
			log.Error().Err(err).Msg("Error during analysis")
		}
	}
}

func analyzeOne(ctx context.Context, out io.Writer, cfg config.Config, session *analysis.Session, password string) error {
	res, err := session.Submit(ctx, password)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err = writeJSON(out, res); err != nil {
			return err
		}
	} else if err = writeResult(out, res); err != nil {
		return err
	}

	if !checkHistory {
		return nil
	}

	store, closeStore, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sim, err := store.Check(password)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(out, sim)
	}
	writeSimilarity(out, sim)
	return nil
}
