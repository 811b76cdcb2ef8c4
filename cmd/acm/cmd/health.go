package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthColor colorFlags

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server status",
	RunE:  runHealth,
}

func init() {
	healthColor.register(healthCmd.Flags())
}

func runHealth(cmd *cobra.Command, args []string) error {
	url, ok := serverURL(projectRoot())
	if !ok {
		fmt.Println("⚡ acm server is not running")
		return nil
	}

	health, err := fetchHealth(url)
	if err != nil {
		return err
	}

	fmt.Print(formatHealth(health, url, healthColor.palette()))
	return nil
}
