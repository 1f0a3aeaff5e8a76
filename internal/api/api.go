// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alvinbaena/pwd-meter/pkg/generate"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/alvinbaena/pwd-meter/pkg/strength"
	"github.com/alvinbaena/pwd-meter/pkg/wordset"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const suggestionCount = 3

var (
	errEmptyPassword = errors.New("password cannot be empty")
	errAnswers       = errors.New("all three answers are required")
	errNoWordset     = errors.New("no compromised password set is loaded")
)

type analysisApi struct {
	set *wordset.Set
}

// compromised checks the loaded wordset, or the built-in common password list when there
// is none.
func (a *analysisApi) compromised(password string) (bool, error) {
	if a.set == nil {
		return strength.IsCommonPassword(password), nil
	}
	return a.set.Contains(password)
}

func (a *analysisApi) analyze(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyPassword.Error()})
		return
	}

	compromised, err := a.compromised(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hardened, err := generate.Harden(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := generate.Suggestions(suggestionCount, generate.DefaultLength)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sample := strength.Estimate(req.Password)
	c.JSON(http.StatusOK, analyzeResponse{
		Entropy:        sample.EntropyBits,
		CrackTimes:     strength.SimulateCrackTimes(sample.EntropyBits).Display(),
		Compromised:    compromised,
		Hardened:       hardened,
		Suggestions:    suggestions,
		Classification: strength.ClassifyExposed(sample.EntropyBits, compromised),
		Observations:   strength.ObservationList(req.Password),
		Dictionary:     strength.EstimateDictionary(req.Password, nil),
	})
}

func (a *analysisApi) generateDNA(c *gin.Context) {
	var req generate.Answers
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": errAnswers.Error()})
		return
	}

	password, err := generate.DNA(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sample := strength.Estimate(password)
	c.JSON(http.StatusOK, dnaResponse{
		Password:       password,
		Entropy:        sample.EntropyBits,
		CrackTimes:     strength.SimulateCrackTimes(sample.EntropyBits).Display(),
		Classification: strength.Classify(sample.EntropyBits),
	})
}

func (a *analysisApi) checkPassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyPassword.Error()})
		return
	}

	pwned, err := a.compromised(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	est := strength.EstimateDictionary(req.Password, nil)
	c.JSON(http.StatusOK, queryResponse{Pwned: pwned, Strength: &est})
}

func (a *analysisApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := hibp.ParseHash(req.Hash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if a.set == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoWordset.Error()})
		return
	}

	h, err := wordset.HashHex(hash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := a.set.ContainsHash(h)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, queryResponse{Pwned: exists})
}

// RegisterAnalysisApi mounts the analysis endpoints. set may be nil.
func RegisterAnalysisApi(group *gin.RouterGroup, set *wordset.Set) {
	a := &analysisApi{set: set}

	group.POST("/analyze", a.analyze)
	group.POST("/generate-dna-password", a.generateDNA)

	check := group.Group("/check")
	check.POST("/password", a.checkPassword)
	check.POST("/hash", a.checkHash)
}

// NewRouter builds the server handler: gin with recovery and request logging, the v1 API,
// and CORS for browser clients from origins ("*" when empty).
func NewRouter(set *wordset.Set, origins []string) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "wordset": set != nil})
	})
	RegisterAnalysisApi(router.Group("/v1"), set)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	log.Debug().Msgf("allowing CORS origins %s", strings.Join(origins, ", "))

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)
}
