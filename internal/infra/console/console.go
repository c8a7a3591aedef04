// Package console is the interactive line-oriented surface.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ThomasBalaban/namiv3/internal/application"
)

type Console struct {
	facade  *application.BotFacade
	in      io.Reader
	out     io.Writer
	botName string
	log     *zerolog.Logger
}

func New(facade *application.BotFacade, in io.Reader, out io.Writer, botName string, log *zerolog.Logger) *Console {
	return &Console{facade: facade, in: in, out: out, botName: botName, log: log}
}

// Run reads lines until "exit", EOF or context cancellation. One line is
// processed end-to-end before the next is read.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintf(c.out, "%s is ready. Start chatting! Type 'exit' to quit.\n", c.botName)
	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, "You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		reply, quit, err := c.facade.HandleConsoleLine(ctx, scanner.Text())
		if err != nil {
			c.log.Error().Err(err).Msg("console turn failed")
			continue
		}
		if quit {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		if reply != "" {
			fmt.Fprintf(c.out, "%s: %s\n", c.botName, reply)
		}
	}
}
