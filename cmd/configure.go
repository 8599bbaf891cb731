package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"folio/internal/config"
	"folio/internal/keyring"
)

// passwordReader abstracts terminal password input for testing.
type passwordReader interface {
	ReadPassword() (string, error)
	IsTerminal() bool
}

// terminalReader reads passwords from the terminal using golang.org/x/term.
type terminalReader struct {
	fd int
}

// newTerminalReader creates a reader for the given file descriptor.
func newTerminalReader(fd int) *terminalReader {
	return &terminalReader{fd: fd}
}

func (r *terminalReader) ReadPassword() (string, error) {
	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (r *terminalReader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath     string
	store          keyring.Store
	passwordReader passwordReader
	in             io.Reader
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var deleteKey bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the market data API key",
		Long: `Store the EODHD API key used for quote fetching in the system keyring.

The key is read without echo when run from a terminal. For headless
environments, set FOLIO_API_KEY instead. Without a key the UI still runs,
falling back to locally cached prices.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deleteKey {
				if err := opts.store.Delete(keyring.ServiceName, keyring.KeyAPIKey); err != nil {
					return fmt.Errorf("failed to delete API key: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed from keyring.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), "EODHD API key: ")
			key, err := readSecret(opts, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("API key is required")
			}

			if err := opts.store.Set(keyring.ServiceName, keyring.KeyAPIKey, key); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}

			// Write a default config file on first configure so the user
			// has something to edit.
			if _, err := os.Stat(opts.configPath); os.IsNotExist(err) {
				cfg, err := config.Load(opts.configPath)
				if err == nil {
					_ = config.Save(opts.configPath, cfg)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "API key saved to keyring.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteKey, "delete", false, "Remove the stored API key")
	cmd.SilenceUsage = true
	return cmd
}

// readSecret reads the key without echo from a terminal, or as a plain line
// from piped input.
func readSecret(opts configureOptions, out io.Writer) (string, error) {
	if opts.passwordReader != nil && opts.passwordReader.IsTerminal() {
		secret, err := opts.passwordReader.ReadPassword()
		fmt.Fprintln(out)
		return secret, err
	}
	scanner := bufio.NewScanner(opts.in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return scanner.Text(), nil
}

func init() {
	rootCmd.AddCommand(newConfigureCmd(configureOptions{
		configPath:     config.ConfigPath(),
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		in:             os.Stdin,
	}))
}
