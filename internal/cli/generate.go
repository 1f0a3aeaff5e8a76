// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/generate"
	"github.com/alvinbaena/pwd-meter/pkg/strength"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate strong passwords",
	}

	generateStrongCmd = &cobra.Command{
		Use:   "strong",
		Short: "Generate random passwords from letters, digits and punctuation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateStrongCommand(cmd.OutOrStdout())
		},
	}

	generateHardenCmd = &cobra.Command{
		Use:   "harden PASSWORD",
		Short: "Add an uppercase letter, a digit and a symbol to a password and shuffle it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateHardenCommand(cmd.OutOrStdout(), args[0])
		},
	}

	generateDNACmd = &cobra.Command{
		Use:   "dna",
		Short: "Derive a memorable password from three personal answers",
		Long: "Derive a password from your favorite character, your childhood pet and your dream destination. " +
			"Answers not given as flags are prompted for.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateDNACommand(cmd.OutOrStdout())
		},
	}
)

func init() {
	generateStrongCmd.Flags().IntVarP(&length, "length", "l", generate.DefaultLength, "Password length")
	generateStrongCmd.Flags().IntVarP(&count, "count", "c", 1, "Number of passwords to generate")

	generateDNACmd.Flags().StringVar(&answers.character, "character", "", "Your favorite character")
	generateDNACmd.Flags().StringVar(&answers.pet, "pet", "", "Your childhood pet")
	generateDNACmd.Flags().StringVar(&answers.destination, "destination", "", "Your dream destination")

	generateCmd.AddCommand(generateStrongCmd, generateHardenCmd, generateDNACmd)
	rootCmd.AddCommand(generateCmd)
}

func writeGenerated(out io.Writer, password string) {
	s := strength.Estimate(password)
	online, _ := strength.SimulateCrackTimes(s.EntropyBits).Lookup("Online")
	fmt.Fprintf(out, "%s\t%s, %.2f bits, %s online\n", password, strength.Classify(s.EntropyBits), s.EntropyBits, online.Display)
}

func generateStrongCommand(out io.Writer) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	passwords, err := generate.Suggestions(count, length)
	if err != nil {
		return err
	}
	for _, p := range passwords {
		writeGenerated(out, p)
	}
	return nil
}

func generateHardenCommand(out io.Writer, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	hardened, err := generate.Harden(password)
	if err != nil {
		return err
	}
	writeGenerated(out, hardened)
	return nil
}

func ask(label string, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("an answer is required")
			}
			return nil
		},
	}
	return prompt.Run()
}

func generateDNACommand(out io.Writer) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	var (
		a   generate.Answers
		err error
	)
	if a.FavoriteCharacter, err = ask("Favorite character", answers.character); err != nil {
		return err
	}
	if a.ChildhoodPet, err = ask("Childhood pet", answers.pet); err != nil {
		return err
	}
	if a.DreamDestination, err = ask("Dream destination", answers.destination); err != nil {
		return err
	}

	password, err := generate.DNA(a)
	if err != nil {
		return err
	}
	writeGenerated(out, password)

	// The answers are guessable by people who know you.
	dict := strength.EstimateDictionary(password, a.Values())
	fmt.Fprintf(out, "Against someone who knows your answers: score %d/4, %s\n", dict.Score, dict.CrackTimeDisplay)
	return nil
}
