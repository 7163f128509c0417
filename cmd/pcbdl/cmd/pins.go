package cmd

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/pcbdl/pkg/circuit"
	"github.com/OpenTraceLab/pcbdl/pkg/decl"
	"github.com/spf13/cobra"
)

var pinsCmd = &cobra.Command{
	Use:   "pins <file> [part]",
	Short: "Show the resolved pins of each part",
	Long: `Show every part with its resolved pins: canonical name, aliases,
package numbers, type, well and the net the pin is on.

A part may be selected by instance name or reference designator.

Examples:
  pcbdl pins board.pcbdl
  pcbdl pins board.pcbdl flash`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPins,
}

func init() {
	rootCmd.AddCommand(pinsCmd)
}

func runPins(cmd *cobra.Command, args []string) error {
	design, err := loadDesign(args[0])
	if err != nil {
		return err
	}

	parts, err := selectParts(design, args[1:])
	if err != nil {
		return err
	}

	for i, part := range parts {
		if i > 0 {
			fmt.Println()
		}
		printPartHeader(design, part)
		fmt.Printf("  %-12s %-8s %-13s %-6s %-12s %s\n", "PIN", "NUMBER", "TYPE", "WELL", "NET", "ALIASES")
		for _, p := range part.Pins().All() {
			well := "-"
			if p.Well() != nil {
				well = p.Well().Name()
			}
			net := "-"
			if p.Connected() {
				net = p.Net().Name()
			}
			fmt.Printf("  %-12s %-8s %-13s %-6s %-12s %s\n",
				p.Name(),
				orDash(strings.Join(p.Numbers(), ",")),
				p.Type(),
				well,
				net,
				orDash(strings.Join(p.Names()[1:], ", ")))
		}
	}
	return nil
}

// selectParts returns all parts, or the one named by args.
func selectParts(design *decl.Design, args []string) ([]*circuit.Part, error) {
	if len(args) == 0 {
		return design.Parts(), nil
	}
	part, ok := design.Part(args[0])
	if !ok {
		return nil, fmt.Errorf("part %s not found", args[0])
	}
	return []*circuit.Part{part}, nil
}

func printPartHeader(design *decl.Design, part *circuit.Part) {
	fmt.Printf("%s (%s", part, part.Type())
	if name := design.InstanceName(part); name != "" {
		fmt.Printf(", inst %s", name)
	}
	if part.Package() != "" {
		fmt.Printf(", %s", part.Package())
	}
	fmt.Println(")")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
