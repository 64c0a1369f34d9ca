/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/serial-monitor"
	"github.com/allbin/serial-monitor/internal/tui/styles"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  serialmon info /dev/ttyUSB0
  serialmon info ACM0

For USB devices, this displays vendor/product IDs, serial numbers and the
manufacturer strings extracted from sysfs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := serial.Resolve(args[0])

		info, err := serial.GetPortInfo(portPath)
		if err != nil {
			return fmt.Errorf("getting port info for %s: %w", portPath, err)
		}

		fmt.Printf("%s %s\n\n", styles.TitleStyle.Render("Port Information:"), styles.PortStyle.Render(info.Path))
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Type:        %s\n", getPortType(info.Name))
		fmt.Printf("  Description: %s\n", info.Description)

		if info.IsUSB() {
			fmt.Println()
			fmt.Println(styles.TitleStyle.Render("USB Device Information:"))
			if info.VendorID != "" {
				fmt.Printf("  Vendor ID:    %s\n", info.VendorID)
			}
			if info.ProductID != "" {
				fmt.Printf("  Product ID:   %s\n", info.ProductID)
			}
			if info.SerialNumber != "" {
				fmt.Printf("  Serial:       %s\n", info.SerialNumber)
			}
			if info.Manufacturer != "" {
				fmt.Printf("  Manufacturer: %s\n", info.Manufacturer)
			}
			if info.Product != "" {
				fmt.Printf("  Product:      %s\n", info.Product)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
