// Command leadctl é a ferramenta de operador: envia leads pelo formulário,
// verifica/prepara a planilha e emite tokens para as rotas administrativas.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-funnel/internal/config"
	"github.com/xavierca1/lead-funnel/internal/infra/logging"
)

var (
	logLevel string
	log      = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:           "leadctl",
	Short:         "Operator tool for the lead funnel",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logging.New(logging.Options{Level: logLevel, Output: cmd.ErrOrStderr()})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(submitCmd, tokenCmd, sheetsCmd)
	sheetsCmd.AddCommand(sheetsVerifyCmd, sheetsSetupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("❌ leadctl falhou")
		os.Exit(1)
	}
}

// loadConfig é preguiçoso: submit com --endpoint não precisa de ambiente nenhum.
func loadConfig() (*config.Config, error) {
	return config.Load()
}
