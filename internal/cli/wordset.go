// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"

	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/alvinbaena/pwd-meter/pkg/wordset"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	wordsetCmd = &cobra.Command{
		Use:   "wordset",
		Short: "Build and query compact sets of compromised passwords (Golomb coded sets)",
	}

	wordsetCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a wordset from a password list or a SHA1 breach dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wordsetCreateCommand()
		},
	}

	wordsetQueryCmd = &cobra.Command{
		Use:   "query [PASSWORD]",
		Short: "Check whether a password is in a wordset",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return wordsetQueryCommand(cmd.OutOrStdout(), "")
			}
			return wordsetQueryCommand(cmd.OutOrStdout(), args[0])
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	wordsetCreateCmd.Flags().Uint64VarP(&probability, "false-positive-rate", "p", 16777216, "False positive rate for queries, 1-in-p.")
	wordsetCreateCmd.Flags().Uint64VarP(&indexGranularity, "index-granularity", "g", 1024, "Entries per index point (16 bytes each).")
	wordsetCreateCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Password list, one per line (required)")
	wordsetCreateCmd.MarkFlagRequired("in-file")
	wordsetCreateCmd.Flags().StringVarP(&outFile, "out-file", "o", "./compromised.gcs", "Wordset output path")
	wordsetCreateCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite any existing files while writing the results.")
	wordsetCreateCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "The input holds hex SHA1 hashes (HASH[:COUNT] per line) instead of plain passwords.")
	wordsetCreateCmd.Flags().BoolVarP(&skipWait, "yes", "y", false, "Do not wait before starting a long process.")

	wordsetQueryCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Wordset input file (required)")
	wordsetQueryCmd.MarkFlagRequired("in-file")
	wordsetQueryCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	wordsetQueryCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string.")

	wordsetCmd.AddCommand(wordsetCreateCmd, wordsetQueryCmd)
	rootCmd.AddCommand(wordsetCmd)
}

func wordsetCreateCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	s := util.Stats()
	defer s()

	file, err := os.Open(inputFile)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing password list")
		}
	}(file)

	abs, err := filepath.Abs(outFile)
	if err != nil {
		return fmt.Errorf("could not get absolute path of file: %w", err)
	}

	if !overwrite {
		if _, err = os.Stat(abs); !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file %s exists and overwrite flag is not set", outFile)
		}
	}

	builder, err := wordset.NewBuilder(probability, indexGranularity)
	if err != nil {
		return err
	}

	// Stop the process if not enough ram to actually hold all the entries read.
	estimated, err := wordset.EstimateLines(file)
	if err != nil {
		return err
	}
	log.Info().Msgf("about %d entries in %s", estimated, inputFile)
	if err = util.CheckRam(estimated, skipWait); err != nil {
		return err
	}
	// Rice coding needs about log2(p)+2 bits per entry.
	if err = util.CheckDiskSpace(abs, estimated*uint64(bits.Len64(probability)+2)/8); err != nil {
		return err
	}
	builder.Grow(estimated)

	log.Info().Msg("starting process. This might take a while, be patient :)")
	if hashed {
		_, err = builder.ReadHashes(file)
	} else {
		_, err = builder.ReadWords(file)
	}
	if err != nil {
		return err
	}

	out, err := os.Create(abs)
	if err != nil {
		return err
	}

	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			log.Error().Err(err).Msg("error closing wordset file")
		}
	}(out)

	written, err := builder.WriteTo(out)
	if err != nil {
		return err
	}

	log.Info().Msgf("wrote %s, %.2f MiB", abs, float64(written)/(1024*1024))
	return nil
}

func wordsetQueryCommand(out io.Writer, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	set, err := wordset.Open(inputFile)
	if err != nil {
		return err
	}

	if !interactive {
		return queryWordset(out, set, password)
	}

	label := "Password"
	if hashed {
		label = "SHA1 Hex hash"
		log.Info().Msgf("Flag 'hashed' is set. Please use SHA1 Hashed passwords.")
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a valid password")
			}
			if hashed {
				if _, err := hibp.ParseHash(input); err != nil {
					return err
				}
			}
			return nil
		},
	}
	if !hashed {
		prompt.Mask = '*'
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

		if err = queryWordset(out, set, result); err != nil {
			log.Error().Err(err).Msg("Error during query")
		}
	}
}

func queryWordset(out io.Writer, set *wordset.Set, input string) error {
	var h uint64
	if hashed {
		hash, err := hibp.ParseHash(input)
		if err != nil {
			return err
		}
		if h, err = wordset.HashHex(hash); err != nil {
			return err
		}
	} else {
		h = wordset.HashWord(input)
	}

	exists, err := set.ContainsHash(h)
	if err != nil {
		return err
	}

	if exists {
		fmt.Fprintln(out, "Password is present")
	} else {
		fmt.Fprintln(out, "Password is not present")
	}
	return nil
}
