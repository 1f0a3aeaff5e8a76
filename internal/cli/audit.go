// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/alvinbaena/pwd-meter/pkg/strength"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
)

var (
	auditCmd = &cobra.Command{
		Use:   "audit",
		Short: "Analyze a file of passwords, one per line, and summarize their strength",
		RunE: func(cmd *cobra.Command, args []string) error {
			return auditCommand(cmd.Context(), cmd.OutOrStdout())
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	auditCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Password file, one password per line (required)")
	auditCmd.MarkFlagRequired("in-file")
	auditCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of concurrent analyses. If omitted or less than 1, defaults to the number of logical processors.")
	auditCmd.Flags().BoolVar(&noBreach, "no-breach", false, "Skip the breach lookups.")
	auditCmd.Flags().StringVar(&remoteURL, "remote-url", "", "Deep analysis endpoint. Overrides ANALYSIS_URL.")

	rootCmd.AddCommand(auditCmd)
}

// auditSummary aggregates results from the worker pool.
type auditSummary struct {
	mu          sync.Mutex
	total       int
	classes     map[strength.Classification]int
	breached    int
	unavailable int
	remote      int
}

func (s *auditSummary) add(res analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.classes[res.Classification]++
	switch res.Breach.Status {
	case hibp.Found:
		s.breached++
	case hibp.Unavailable:
		s.unavailable++
	}
	if res.Source == analysis.SourceRemote {
		s.remote++
	}
}

func (s *auditSummary) write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Classification\tPasswords\t")

	for c := strength.VeryWeak; c <= strength.Exposed; c++ {
		fmt.Fprint(tw, printer.Sprintf("%s\t%d\t\n", c, s.classes[c]))
	}

	fmt.Fprint(tw, printer.Sprintf("Total\t%d\t\n", s.total))
	fmt.Fprint(tw, printer.Sprintf("Found in breaches\t%d\t\n", s.breached))
	fmt.Fprint(tw, printer.Sprintf("Breach unknown\t%d\t\n", s.unavailable))
	fmt.Fprint(tw, printer.Sprintf("Deep analysis\t%d\t\n", s.remote))
	return tw.Flush()
}

func auditCommand(ctx context.Context, out io.Writer) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if ctx == nil {
		ctx = context.Background()
	}

	s := util.Stats()
	defer s()

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
	analyzer := newAnalyzer(cfg, breach, 0)

	file, err := os.Open(inputFile)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing password file")
		}
	}(file)

	if threads < 1 {
		threads = runtime.NumCPU()
	}

	// Bounded pool, the breach client throttles the requests on its own.
	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * threads,
		NumWorkers:    threads,
	})
	if err != nil {
		return err
	}
	defer tasks.Close()

	summary := &auditSummary{classes: make(map[strength.Classification]int)}
	analyze := func(password string) {
		summary.add(analyzer.Analyze(ctx, password))
	}

	log.Info().Msgf("auditing passwords in %s with %d workers", inputFile, threads)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		password := strings.TrimSuffix(scanner.Text(), "\r")
		if password == "" {
			continue
		}
		if err = tasks.Publish(analyze, password); err != nil {
			log.Panic().Err(err).Msgf("there is a programming error here.")
		}
	}
	tasks.Wait()

	if err = scanner.Err(); err != nil {
		return err
	}

	return summary.write(out)
}
