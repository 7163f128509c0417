package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports <file> [part]",
	Short: "Show the interface ports of each part",
	Long: `Show the ports matched on every part, the interface each implements,
the bundle it is connected to and the pin behind each signal.

Examples:
  pcbdl ports board.pcbdl
  pcbdl ports board.yaml U1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	design, err := loadDesign(args[0])
	if err != nil {
		return err
	}

	parts, err := selectParts(design, args[1:])
	if err != nil {
		return err
	}

	shown := 0
	for _, part := range parts {
		ports := part.Ports().All()
		if len(ports) == 0 {
			continue
		}
		if shown > 0 {
			fmt.Println()
		}
		shown++

		printPartHeader(design, part)
		for _, port := range ports {
			bundle := "unconnected"
			if port.Bundle() != nil {
				bundle = "bundle " + port.Bundle().Prefix()
			}
			fmt.Printf("  Port %s: %s, %s\n", port.Name(), port.Interface().Schema().Name(), bundle)
			for _, signal := range port.Signals() {
				p, err := port.Pin(signal)
				if err != nil {
					return err
				}
				fmt.Printf("    %-8s -> %s\n", signal, p)
			}
		}
	}

	if shown == 0 {
		fmt.Println("No ports found")
	}
	return nil
}
