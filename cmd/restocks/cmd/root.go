// Package cmd implements the restocks CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/restocksgo/restocks/pkg/logger"
	"github.com/restocksgo/restocks/pkg/restocks"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "restocks",
		Short: "CLI client for the Restocks marketplace",
		Long: "restocks is a command-line client for the Restocks marketplace.\n" +
			"It lets you search the catalog, manage your listings, inspect\n" +
			"sales and payouts, and download shipping labels from the terminal.",
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.restocks.yaml)")
	rootCmd.PersistentFlags().
		String("base-url", "", "override the Restocks API base URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(payoutCmd())
	rootCmd.AddCommand(listingsCmd())
	rootCmd.AddCommand(salesCmd())
	rootCmd.AddCommand(shippingCmd())
	rootCmd.AddCommand(monitorCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".restocks")
	}

	viper.SetEnvPrefix("RESTOCKS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newClient builds a client from config file, env and flags.
func newClient() (*restocks.Client, error) {
	opts := []restocks.Option{
		restocks.WithCredentials(viper.GetString("email"), viper.GetString("password")),
		restocks.WithProxies(viper.GetStringSlice("proxies")),
		restocks.WithLogger(logger.New(viper.GetString("log_level"), viper.GetString("log_format"))),
	}
	if u := viper.GetString("base_url"); u != "" {
		opts = append(opts, restocks.WithBaseURL(u))
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		opts = append(opts, restocks.WithTimeout(d))
	}
	return restocks.New(opts...)
}

// newAuthedClient builds a client and logs it in with the configured
// credentials.
func newAuthedClient(ctx context.Context) (*restocks.Client, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx, "", ""); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return c, nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
