package cli

import (
	"bufio"
	"strings"
	"sync"

	"github.com/dmitrijs2005/transcribed/internal/client/client"
	"github.com/dmitrijs2005/transcribed/internal/client/config"
	"github.com/dmitrijs2005/transcribed/internal/client/services"
	"github.com/spf13/cobra"
)

// commandContext builds the client services once per invocation, after
// flags are parsed.
type commandContext struct {
	serverFlag    string
	configFlag    string
	tokenFileFlag string

	once        sync.Once
	config      *config.Config
	auth        *services.AuthService
	transcripts *services.TranscriptService
	err         error

	reader *bufio.Reader
}

func (c *commandContext) ensure() error {
	c.once.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.err = err
			return
		}
		if v := strings.TrimSpace(c.serverFlag); v != "" {
			cfg.ServerURL = v
		}
		if v := strings.TrimSpace(c.tokenFileFlag); v != "" {
			cfg.TokenFile = v
		}

		api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
		tokens := services.NewTokenStore(cfg.TokenFile)

		c.config = cfg
		c.auth = services.NewAuthService(api, tokens)
		c.transcripts = services.NewTranscriptService(api, tokens)
	})
	return c.err
}

// input returns one buffered reader over the command's stdin so that
// consecutive prompts do not lose buffered bytes.
func (c *commandContext) input(cmd *cobra.Command) *bufio.Reader {
	if c.reader == nil {
		c.reader = bufio.NewReader(cmd.InOrStdin())
	}
	return c.reader
}
