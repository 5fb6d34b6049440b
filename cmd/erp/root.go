package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "erp",
	Short: "Meridian ERP server",
	Long:  `Modular ERP backend with bulk import and reconciliation of business data files.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}
