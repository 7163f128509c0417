package cmd

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/pcbdl/pkg/circuit"
	"github.com/OpenTraceLab/pcbdl/pkg/pin"
	"github.com/spf13/cobra"
)

var netsCmd = &cobra.Command{
	Use:   "nets <file> [net]",
	Short: "Show nets with their connection groups",
	Long: `Show every declared net and every bundle net. Each connect statement
is listed on its own line with the direction it was made with.

Examples:
  pcbdl nets board.pcbdl
  pcbdl nets board.pcbdl GND`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

func runNets(cmd *cobra.Command, args []string) error {
	design, err := loadDesign(args[0])
	if err != nil {
		return err
	}

	nets := design.Nets()
	for _, bundle := range design.Bundles() {
		nets = append(nets, bundle.Nets()...)
	}

	if len(args) > 1 {
		var found []*circuit.Net
		for _, n := range nets {
			if strings.EqualFold(n.Name(), args[1]) {
				found = append(found, n)
			}
		}
		if len(found) == 0 {
			return fmt.Errorf("net %s not found", args[1])
		}
		nets = found
	}

	for i, n := range nets {
		if i > 0 {
			fmt.Println()
		}
		printNet(n)
	}
	return nil
}

func printNet(n *circuit.Net) {
	var class string
	switch {
	case n.IsGround():
		class = ", ground"
	case n.IsPower():
		class = ", power"
	}
	fmt.Printf("Net %s (%d connections%s)\n", n.Name(), len(n.Connections()), class)

	for _, group := range n.GroupedConnections() {
		dir := pin.DirUnknown
		if len(group) > 0 {
			dir, _ = n.Direction(group[0])
		}
		names := make([]string, len(group))
		for i, p := range group {
			names[i] = p.String()
		}
		fmt.Printf("  %-7s %s\n", dir, strings.Join(names, ", "))
	}
}
