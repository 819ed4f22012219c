package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrRunCancelled is returned when the user declines the confirmation prompt.
var ErrRunCancelled = errors.New("test cancelled")

// Prompter collects test parameters interactively, validating each answer
// and re-asking until it is acceptable.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Fill prompts for every run parameter, shows the resulting plan, and asks
// for a y/n confirmation before returning.
func (p *Prompter) Fill(cfg *Config) error {
	banner := strings.Repeat("=", 50)
	fmt.Fprintln(p.out, banner)
	fmt.Fprintln(p.out, "Minecraft Server Status Load Tester")
	fmt.Fprintln(p.out, banner)

	host, err := p.ask("Server address", "127.0.0.1", func(s string) error {
		if !validIPv4(s) {
			return fmt.Errorf("%q is not a dotted-quad IPv4 address", s)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cfg.Host = host

	port, err := p.askInt("Server port", 25565, func(n int) error {
		if n < 1 || n > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		return nil
	})
	if err != nil {
		return err
	}
	cfg.Port = port

	if cfg.Concurrency, err = p.askInt("Concurrent clients", 50, positive); err != nil {
		return err
	}
	if cfg.ConnectionsPerClient, err = p.askInt("Connections per client", 20, positive); err != nil {
		return err
	}
	timeoutSecs, err := p.askInt("Connection timeout (seconds)", 10, positive)
	if err != nil {
		return err
	}
	cfg.Timeout = time.Duration(timeoutSecs) * time.Second

	fmt.Fprintln(p.out, banner)
	fmt.Fprintln(p.out, "Test plan:")
	fmt.Fprintf(p.out, "  Target:                 %s:%d\n", cfg.Host, cfg.Port)
	fmt.Fprintf(p.out, "  Concurrent clients:     %d\n", cfg.Concurrency)
	fmt.Fprintf(p.out, "  Connections per client: %d\n", cfg.ConnectionsPerClient)
	fmt.Fprintf(p.out, "  Total connections:      %d\n", cfg.TotalTrials())
	fmt.Fprintf(p.out, "  Timeout:                %s\n", cfg.Timeout)
	fmt.Fprintln(p.out, banner)

	confirmed, err := p.confirm("Start the test? (y/n): ")
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrRunCancelled
	}
	return nil
}

// ask prompts until validate accepts the answer; an empty answer picks the
// default.
func (p *Prompter) ask(label, def string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s [default: %s]: ", label, def)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}
		if validate != nil {
			if verr := validate(answer); verr != nil {
				fmt.Fprintf(p.out, "Invalid input: %v. Please try again.\n", verr)
				continue
			}
		}
		return answer, nil
	}
}

func (p *Prompter) askInt(label string, def int, validate func(int) error) (int, error) {
	for {
		answer, err := p.ask(label, strconv.Itoa(def), nil)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid integer.")
			continue
		}
		if validate != nil {
			if verr := validate(n); verr != nil {
				fmt.Fprintf(p.out, "Invalid input: %v. Please try again.\n", verr)
				continue
			}
		}
		return n, nil
	}
}

func (p *Prompter) confirm(label string) (bool, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}

func positive(n int) error {
	if n <= 0 {
		return errors.New("value must be a positive integer")
	}
	return nil
}

// validIPv4 reports whether s is a dotted-quad IPv4 address.
func validIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
