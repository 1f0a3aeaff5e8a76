// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// root
	envFile string
	// audit, wordset
	inputFile string
	// wordset
	outFile string
	// wordset
	probability uint64
	// wordset
	indexGranularity uint64
	// wordset
	overwrite bool
	// wordset
	skipWait bool
	// analyze, wordset
	interactive bool
	// wordset
	hashed bool
	// analyze, audit
	noBreach bool
	// analyze, audit
	remoteURL string
	// analyze
	jsonOutput bool
	// analyze
	checkHistory bool
	// analyze
	suggestionCount int
	// audit
	threads int
	// history
	labels []string
	// history
	force bool
	// generate
	length int
	// generate
	count int
	// generate
	answers struct {
		character   string
		pet         string
		destination string
	}
	// serve
	wordsetFile string
	// serve
	selfTLS bool
	// serve
	noTLS bool
	// serve
	tlsCert string
	// serve
	tlsKey string
	// serve
	port uint16
	// serve
	origins []string
)
