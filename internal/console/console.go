package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

const (
	cityPrompt     = "Enter the name of the city: "
	countryPrompt  = "Enter the country code (e.g. US for United States): "
	continuePrompt = "Do you want to search for weather in another city? (yes/no): "
)

type weatherLookup interface {
	Lookup(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error)
}

type formatter interface {
	Format(record models.WeatherRecord) string
}

// Console runs the prompt, look up, print loop over a line reader.
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer

	lookup    weatherLookup
	formatter formatter
	logger    zerolog.Logger

	// lines is fed by readLines so a prompt can also wait on ctx.
	lines   chan string
	done    chan struct{}
	readErr error
}

func New(in io.Reader, out, errOut io.Writer, lookup weatherLookup, f formatter, logger zerolog.Logger) *Console {
	return &Console{
		in:        bufio.NewScanner(in),
		out:       out,
		errOut:    errOut,
		lookup:    lookup,
		formatter: f,
		logger:    logger,
	}
}

// Run loops until the user declines to continue or input ends. Lookup
// errors are printed to errOut and never end the loop; only a cancelled
// context or a read failure is returned.
func (c *Console) Run(ctx context.Context) error {
	c.printBanner()

	if err := ctx.Err(); err != nil {
		return err
	}

	c.lines = make(chan string)
	c.done = make(chan struct{})
	defer close(c.done)
	go c.readLines()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		query, ok, err := c.readQuery(ctx)
		if err != nil || !ok {
			return err
		}

		c.lookupAndPrint(ctx, query)

		again, ok, err := c.ask(ctx, continuePrompt)
		if err != nil || !ok {
			return err
		}
		if !strings.EqualFold(again, "yes") {
			c.logger.Debug().Str("answer", again).Msg("user ended session")
			return nil
		}
	}
}

func (c *Console) printBanner() {
	fmt.Fprintln(c.out, "Welcome to the weather station!")
}

// readQuery re-prompts on an empty city. ok is false on end of input.
func (c *Console) readQuery(ctx context.Context) (models.WeatherQuery, bool, error) {
	for {
		city, ok, err := c.ask(ctx, cityPrompt)
		if err != nil || !ok {
			return models.WeatherQuery{}, ok, err
		}
		if city == "" {
			fmt.Fprintln(c.errOut, "Error: city name must not be empty")
			continue
		}

		countryCode, ok, err := c.ask(ctx, countryPrompt)
		if err != nil || !ok {
			return models.WeatherQuery{}, ok, err
		}

		return models.WeatherQuery{City: city, CountryCode: countryCode}, true, nil
	}
}

func (c *Console) lookupAndPrint(ctx context.Context, query models.WeatherQuery) {
	record, err := c.lookup.Lookup(ctx, query)
	if err != nil {
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, c.formatter.Format(record))
}

// readLines pumps scanner lines into c.lines until input ends or Run returns.
// A read blocked on a terminal outlives Run; it ends with the process.
func (c *Console) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-c.done:
			return
		}
	}
	c.readErr = c.in.Err()
}

// ask prints prompt and returns the next trimmed line. ok is false on EOF;
// a cancelled ctx returns its error without waiting for input.
func (c *Console) ask(ctx context.Context, prompt string) (string, bool, error) {
	fmt.Fprint(c.out, prompt)
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", false, ctx.Err()
	case text, ok := <-c.lines:
		if !ok {
			if c.readErr != nil {
				return "", false, fmt.Errorf("read input: %w", c.readErr)
			}
			fmt.Fprintln(c.out)
			return "", false, nil
		}
		return strings.TrimSpace(text), true, nil
	}
}
