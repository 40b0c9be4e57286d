package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safevault/mockvault/pkg/config"
	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/router"
	"github.com/safevault/mockvault/pkg/vault"
	"github.com/safevault/mockvault/pkg/vaultlog"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "vaultmock",
	Short:   "In-memory mock vault for exercising the account/idata/mdata core",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("vaultmock version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Path to a vaultmock config file (optional)")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(demoCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	vaultlog.Init(vaultlog.Config{
		Level:      vaultlog.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a short scripted session against a fresh in-process vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		v := vault.New(cfg)
		r := router.New(v, cfg.RouterChannelCapacity)

		owner, err := identity.NewSigningKeyPair()
		if err != nil {
			return fmt.Errorf("generate owner key pair: %w", err)
		}
		accountName := vaulttypes.HashName(owner.Public[:])
		dst := vaulttypes.ClientManager(accountName)

		fmt.Printf("account:  %s\n", accountName)
		fmt.Printf("owner:    %s\n", owner.Public)
		fmt.Println()

		// Drain the initial Connected event.
		printEvent(<-r.Events())

		// Account-creation special case: a session-packet PutMData whose
		// name equals the target account's name, under the reserved type
		// tag, creates the account instead of charging it (spec.md §4.4).
		r.PutMData(dst, vault.PutMDataRequest{
			Name:    accountName,
			TypeTag: config.SessionPacketTypeTag,
			Owners:  []identity.PublicKey{owner.Public},
		}, owner.Public, vaulttypes.NewMessageID())
		printEvent(<-r.Events())

		r.GetAccountInfo(dst, vaulttypes.NewMessageID())
		printEvent(<-r.Events())

		blob := []byte("hello from the mock vault")
		r.PutIData(dst, blob, vaulttypes.NewMessageID())
		printEvent(<-r.Events())

		r.GetAccountInfo(dst, vaulttypes.NewMessageID())
		printEvent(<-r.Events())

		return nil
	},
}

func printEvent(ev router.Event) {
	fmt.Printf("<- %s", ev.Kind)
	if !ev.MessageID.IsZero() {
		fmt.Printf(" [%s]", ev.MessageID)
	}
	fmt.Println()
}
