package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfrund/starbeam/internal/account"
	"github.com/nfrund/starbeam/internal/biometry/device"
	"github.com/nfrund/starbeam/internal/keypair"
	"github.com/nfrund/starbeam/internal/logging"
	"github.com/nfrund/starbeam/internal/storage"
)

var (
	namespace     string
	storageDriver string
	storagePath   string
	logLevel      string
)

// Test seams.
var (
	newKeyring  = func() device.Keyring { return device.OSKeyring{} }
	newPrompter = func(cmd *cobra.Command) device.Prompter {
		return device.NewTermPrompter(os.Stdin, cmd.ErrOrStderr())
	}
	newGenerator = func() keypair.Generator { return keypair.NewStellar() }
)

var rootCmd = &cobra.Command{
	Use:   "starbeam-cli",
	Short: "Manage a Starbeam wallet account from the terminal",
	Long: `starbeam-cli creates and deletes a Starbeam account outside Telegram.

The account's public key is recorded in the same storage the server uses,
under --namespace. The secret goes to the operating system keyring, and
creating an account asks for confirmation on the terminal first.

Use "starbeam-cli [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(slog.New(logging.NewHandler(cmd.ErrOrStderr(), "text", logLevel)))
		return nil
	},
}

// Execute executes the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&namespace, "namespace", "n", "cli", "storage namespace and keyring entry of the account")
	flags.StringVar(&storageDriver, "storage-driver", storage.DriverSQLite, "storage backend (sqlite, file)")
	flags.StringVar(&storagePath, "storage-path", "starbeam.db", "database or JSON file path")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// session is everything a command needs to act on one account.
type session struct {
	accounts *account.Service
	manager  *device.Manager
	prompter device.Prompter
	close    func() error
}

func openSession(cmd *cobra.Command) (*session, error) {
	store, closeStore, err := storage.Open(cmd.Context(), storageDriver, storagePath)
	if err != nil {
		return nil, err
	}
	prompter := newPrompter(cmd)
	return &session{
		accounts: account.NewService(store, newGenerator()),
		manager:  device.New(namespace, newKeyring(), prompter),
		prompter: prompter,
		close:    closeStore,
	}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}
