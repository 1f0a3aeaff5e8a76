// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwdmeter [COMMAND] [OPTIONS]",
		Short: "Estimate password strength and simulate crack times",
		Long: "Estimate the entropy of a password, simulate how long attackers of different scales would need " +
			"to crack it, check it against breach data, and keep a history of passwords to avoid reusing similar ones. " +
			"This command can also serve the analysis API and build compact compromised password sets.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional file with environment variables to load before reading the configuration")
}

func Execute() error {
	return rootCmd.Execute()
}
